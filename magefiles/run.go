//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Builds the shaders and runs the viewer on the model in $CUBISM_MODEL.
func (Run) Viewer() error {
	mg.Deps(Build.Shaders)

	env, err := cubismCoreEnv()
	if err != nil {
		return err
	}
	args := []string{"run", ".", "view"}
	if model := lookupEnv("CUBISM_MODEL"); model != "" {
		args = append(args, model)
	}
	fmt.Println("Run viewer...")
	if _, err := executeCmd("go", withArgs(args...), withEnv(env), withStream()); err != nil {
		return err
	}
	return nil
}
