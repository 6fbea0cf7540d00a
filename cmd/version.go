package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newVersionCommand(c Core) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the viewer and Cubism Core versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), c)
		},
	}
}

func writeVersion(w io.Writer, c Core) error {
	if _, err := fmt.Fprintf(w, "cubism %s\n", Version); err != nil {
		return err
	}
	if c.Version == nil || c.LatestMocVersion == nil {
		_, err := fmt.Fprintln(w, "Cubism Core not linked")
		return err
	}
	_, err := fmt.Fprintf(w, "Cubism Core %s (moc3 up to %s)\n", c.Version(), c.LatestMocVersion())
	return err
}
