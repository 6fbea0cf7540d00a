// Package cmd holds the cubism command line: the viewer plus offline tools
// to inspect and validate models.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/cubism/engine/config"
	"github.com/spaghettifunk/cubism/engine/core"
	"github.com/spaghettifunk/cubism/engine/cubism"
)

// Version of the viewer, set at link time.
var Version = "dev"

/**
 * @brief The Cubism Core entry points the commands need. Kept behind a struct
 * so only the binary links the native library.
 */
type Core struct {
	Load             func(moc []byte) (cubism.Model, error)
	Version          func() cubism.Version
	LatestMocVersion func() cubism.MocVersion
	MocVersionOf     func(moc []byte) cubism.MocVersion
	SetLogger        func(fn func(msg string))
}

type rootOptions struct {
	configPath string
	logLevel   string
	config     *config.Config
}

func NewRootCommand(c Core) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "cubism",
		Short: "Live2D Cubism model viewer",
		Long: `cubism renders Live2D Cubism models with OpenGL or Vulkan.

Run "cubism view <model3.json>" to open a model, "cubism inspect" to list
what its moc contains and "cubism validate" to check the files it references.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.toml, .yaml or .yml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn, error or fatal")

	root.AddCommand(
		newViewCommand(c, opts),
		newInspectCommand(c),
		newValidateCommand(opts),
		newVersionCommand(c),
	)
	return root
}

// load reads the config file, applies the flag overrides and configures logging.
func (o *rootOptions) load() error {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return err
		}
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if err := cfg.ApplyLogging(); err != nil {
		return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}
	o.config = cfg
	core.LogDebug("config loaded (%s)", describe(o.configPath))
	return nil
}

func describe(path string) string {
	if path == "" {
		return "defaults"
	}
	return path
}
