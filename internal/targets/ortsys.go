package targets

func init() {
	Register(ortSys())
}

// ortSys pins the ONNX Runtime binary extract directory to /tmp/ort-cache.
// The upstream build script derives it from the user cache directory, which
// does not resolve when cross-compiling (e.g. for aarch64-linux-android) and
// aborts the whole build.
func ortSys() Target {
	return Target{
		Name:        "ort-sys",
		Description: "pin the ONNX Runtime binary extract dir to /tmp/ort-cache",
		Crate:       "ort-sys",
		FilePath:    []string{"build", "main.rs"},
		AnchorCall:  "internal::dirs::cache_dir()",
		AnchorCont:  `.expect("could not determine cache directory")`,
		AnchorLine:  96,
		IndentPairs: [][2]string{
			{"\t\t", "\t\t\t"},
			{"\t\t\t", "\t\t\t\t"},
			{"        ", "            "},
		},
		Keywords:    []string{"bin_extract_dir", "cache_dir", "internal::dirs"},
		Var:         "bin_extract_dir",
		ReplacePath: "/tmp/ort-cache",
		RuntimeDir:  "/tmp/ort-cache",
	}
}
