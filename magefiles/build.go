//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

const shaderDir = "assets/shaders"

// Compiles every shader under assets/shaders to SPIR-V with glslc.
func (Build) Shaders() error {
	return buildShaders()
}

// Builds the cubism binary against the Cubism Core SDK found in $CUBISM_CORE.
// $CUBISM_VERSION, when set, is stamped into the version command.
func (Build) Viewer() error {
	env, err := cubismCoreEnv()
	if err != nil {
		return err
	}
	args := []string{"build", "-o", binaryName()}
	if v := lookupEnv("CUBISM_VERSION"); v != "" {
		args = append(args, "-ldflags", "-X github.com/spaghettifunk/cubism/cmd.Version="+v)
	}
	if _, err := executeCmd("go", withArgs(append(args, ".")...), withEnv(env), withStream()); err != nil {
		return err
	}
	return nil
}

func buildShaders() error {
	var sources []string
	for _, ext := range []string{"*.vert", "*.frag"} {
		matches, err := filepath.Glob(filepath.Join(shaderDir, ext))
		if err != nil {
			return err
		}
		sources = append(sources, matches...)
	}
	if len(sources) == 0 {
		return fmt.Errorf("no shaders found in %s", shaderDir)
	}
	for _, src := range sources {
		if _, err := executeCmd("glslc", withArgs(src, "-o", src+".spv"), withStream()); err != nil {
			return err
		}
	}
	return nil
}

func binaryName() string {
	if strings.EqualFold(os.Getenv("GOOS"), "windows") || (os.Getenv("GOOS") == "" && os.PathSeparator == '\\') {
		return "cubism.exe"
	}
	return "cubism"
}
