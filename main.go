package main

import "github.com/catfewd/cratepatch/internal/cli"

func main() {
	cli.Run()
}
