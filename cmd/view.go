package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/cubism/engine"
	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/core"
)

type viewFlags struct {
	backend   string
	width     uint32
	height    uint32
	vsync     bool
	noHUD     bool
	noPhysics bool
	noReload  bool
}

func newViewCommand(c Core, opts *rootOptions) *cobra.Command {
	f := &viewFlags{}
	cmd := &cobra.Command{
		Use:   "view [model3.json]",
		Short: "Open a model in the viewer window",
		Long: `Opens a window and plays the model.

Keys: Esc quit, Space pause motions, E next expression, M random TapBody
motion, R reset, P toggle physics, H toggle the HUD, +/- zoom.
Drag to make the model look at the cursor, click the head or the body to
trigger the hit area reactions, scroll to zoom.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.config
			if len(args) == 1 {
				cfg.Model.Path = args[0]
			}
			f.apply(cmd, cfg)
			if c.SetLogger != nil {
				c.SetLogger(func(msg string) { core.LogInfo("core: %s", msg) })
			}
			return runViewer(cmd.Context(), cfg, c)
		},
	}

	cmd.Flags().StringVarP(&f.backend, "backend", "b", "", "renderer backend, opengl or vulkan")
	cmd.Flags().Uint32Var(&f.width, "width", 0, "window width")
	cmd.Flags().Uint32Var(&f.height, "height", 0, "window height")
	cmd.Flags().BoolVar(&f.vsync, "vsync", true, "wait for vertical sync")
	cmd.Flags().BoolVar(&f.noHUD, "no-hud", false, "start with the HUD hidden")
	cmd.Flags().BoolVar(&f.noPhysics, "no-physics", false, "start with physics disabled")
	cmd.Flags().BoolVar(&f.noReload, "no-reload", false, "do not watch the model files")
	return cmd
}

// apply overrides the config with the flags that were set explicitly.
func (f *viewFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if f.backend != "" {
		cfg.Renderer.Backend = f.backend
	}
	if f.width > 0 {
		cfg.Window.Width = f.width
	}
	if f.height > 0 {
		cfg.Window.Height = f.height
	}
	if flags.Changed("vsync") {
		cfg.Window.VSync = f.vsync
	}
	if f.noHUD {
		cfg.HUD.Enabled = false
	}
	if f.noPhysics {
		cfg.Animation.Physics = false
	}
	if f.noReload {
		cfg.Assets.HotReload = false
	}
}

func runViewer(ctx context.Context, cfg *config.Config, c Core) error {
	e, err := engine.New(cfg, c.Load)
	if err != nil {
		return err
	}
	defer func() {
		if err := e.Shutdown(); err != nil {
			core.LogError("shutdown: %s", err)
		}
	}()

	if err := e.Initialize(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		// capture sigterm and other system calls here
		select {
		case <-ctx.Done():
			core.LogInfo("signal received, stopping the viewer")
			e.Stop()
		case <-done:
		}
	}()

	return e.Run()
}
