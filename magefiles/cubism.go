//go:build mage

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

var errNoCubismCore = errors.New("CUBISM_CORE is not set, point it at the Live2DCubismCore SDK directory")

func lookupEnv(key string) string {
	v, _ := os.LookupEnv(key)
	return v
}

// cubismCoreEnv returns the cgo flags for the SDK in $CUBISM_CORE. The
// library is linked statically unless CUBISM_LINK=dynamic.
func cubismCoreEnv() ([]string, error) {
	root := lookupEnv("CUBISM_CORE")
	if root == "" {
		return nil, errNoCubismCore
	}
	static := lookupEnv("CUBISM_LINK") != "dynamic"
	libDir, err := cubismLibDir(root, runtime.GOOS, runtime.GOARCH, static)
	if err != nil {
		return nil, err
	}
	include := filepath.Join(root, "Core", "include")
	return []string{
		"CGO_ENABLED=1",
		fmt.Sprintf("CGO_CFLAGS=-I%s", include),
		fmt.Sprintf("CGO_LDFLAGS=-L%s", libDir),
	}, nil
}

func cubismLibDir(root, goos, goarch string, static bool) (string, error) {
	dir := filepath.Join(root, "Core", "dll")
	if static {
		dir = filepath.Join(root, "Core", "lib")
	}

	switch goos {
	case "windows":
		arch := map[string]string{"amd64": "x86_64", "386": "x86"}[goarch]
		if arch == "" {
			return "", fmt.Errorf("unknown windows architecture: %s", goarch)
		}
		vs := lookupEnv("CUBISM_VS")
		if vs == "" {
			vs = "143"
		}
		return filepath.Join(dir, "windows", arch, vs), nil
	case "darwin":
		// The macOS dylib is an MH_BUNDLE and cannot be linked against.
		if !static {
			return "", fmt.Errorf("dynamic linking is not supported on macOS")
		}
		return filepath.Join(dir, "macos"), nil
	case "linux":
		if goarch != "amd64" {
			return "", fmt.Errorf("linux is only supported on x86_64")
		}
		return filepath.Join(dir, "linux", "x86_64"), nil
	case "android":
		arch := map[string]string{"386": "x86", "arm": "armeabi-v7a", "arm64": "arm64-v8a"}[goarch]
		if arch == "" {
			return "", fmt.Errorf("unsupported android architecture: %s", goarch)
		}
		return filepath.Join(dir, "android", arch), nil
	}
	return "", fmt.Errorf("unsupported target %s/%s", goos, goarch)
}
