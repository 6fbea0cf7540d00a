/*
The cubism viewer. Links Cubism Core through the csm package, build it with
`mage build:viewer` so the cgo flags point at the SDK.
*/
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/cubism/cmd"
	"github.com/spaghettifunk/cubism/engine/csm"
)

func main() {
	// signal channel to capture system calls
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	root := cmd.NewRootCommand(cmd.Core{
		Load:             csm.Load,
		Version:          csm.Version,
		LatestMocVersion: csm.LatestMocVersion,
		MocVersionOf:     csm.MocVersionOf,
		SetLogger:        csm.SetLogger,
	})
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
