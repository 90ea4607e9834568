package onnx

import (
	"os"
	"path/filepath"
	"runtime"
)

// EnvLibraryPath names the environment variable consulted for the shared library.
const EnvLibraryPath = "ONNXRUNTIME_LIB_PATH"

// LocateSharedLibrary returns the first existing ONNX Runtime shared library
// among hint, $ONNXRUNTIME_LIB_PATH and the usual install locations for the
// running OS. It returns "" when none exists.
func LocateSharedLibrary(hint string) string {
	home, _ := os.UserHomeDir()
	return locate(hint, os.Getenv(EnvLibraryPath), candidates(runtime.GOOS, home))
}

func locate(hint, env string, paths []string) string {
	for _, p := range append([]string{hint, env}, paths...) {
		if p == "" {
			continue
		}
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

func candidates(goos, home string) []string {
	var local string
	if home != "" {
		local = filepath.Join(home, ".stylerd", "lib")
	}
	var out []string
	switch goos {
	case "darwin":
		out = []string{
			"/usr/local/lib/libonnxruntime.dylib",
			"/opt/homebrew/lib/libonnxruntime.dylib",
		}
		if local != "" {
			out = append(out, filepath.Join(local, "libonnxruntime.dylib"))
		}
	case "windows":
		out = []string{`C:\Program Files\onnxruntime\lib\onnxruntime.dll`}
		if local != "" {
			out = append(out, filepath.Join(local, "onnxruntime.dll"))
		}
	default:
		out = []string{
			"/usr/local/lib/libonnxruntime.so",
			"/usr/lib/libonnxruntime.so",
			"/usr/lib/x86_64-linux-gnu/libonnxruntime.so",
			"/usr/lib/aarch64-linux-gnu/libonnxruntime.so",
		}
		if local != "" {
			out = append(out, filepath.Join(local, "libonnxruntime.so"))
		}
	}
	return out
}
