package cmd

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/spaghettifunk/cubism/engine/resources"
)

var ErrValidation = errors.New("model validation failed")

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <model3.json>",
		Short: "Check the files a model3.json references",
		Long: `Loads every json file the model references and checks the cross
references: missing files, meta counts, curve segments and group targets.
The moc itself is not revived, so no Cubism Core is needed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validateModel(cmd.OutOrStdout(), args[0])
		},
	}
}

func validateModel(w io.Writer, path string) error {
	settings, err := resources.LoadModel3(path)
	if err != nil {
		return err
	}
	errs := resources.Validate(filepath.Dir(path), settings)
	if len(errs) == 0 {
		fmt.Fprintln(w, okStyle.Render(fmt.Sprintf("%s: ok", filepath.Base(path))))
		return nil
	}
	for _, err := range errs {
		fmt.Fprintln(w, errorStyle.Render("✗ "+err.Error()))
	}
	return fmt.Errorf("%w: %d problems in %s", ErrValidation, len(errs), filepath.Base(path))
}
