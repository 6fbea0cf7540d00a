//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Test mg.Namespace

// Runs the unit tests. Nothing here links the Cubism Core.
func (Test) Unit() error {
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the tests gated behind the cubismcore tag against $CUBISM_CORE.
func (Test) Core() error {
	env, err := cubismCoreEnv()
	if err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "-tags", "cubismcore", "./engine/csm/..."), withEnv(env), withStream()); err != nil {
		return err
	}
	return nil
}
