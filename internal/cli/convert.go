package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hgir-dev/hgir/internal/codec"
)

// NewConvertCommand creates the convert subcommand.
func NewConvertCommand(opts *RootOptions) *cobra.Command {
	var declPaths []string
	var to string
	var outPath string

	cmd := &cobra.Command{
		Use:   "convert <module-file>",
		Short: "Convert a module between JSON and YAML transports",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to != "json" && to != "yaml" {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid --to %q: must be json or yaml", to))
			}
			reg, err := buildRegistry(declPaths)
			if err != nil {
				return WrapExitError(ExitCommandError, "building extension registry", err)
			}
			g, err := loadModule(args[0], reg)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading module", err)
			}

			var out []byte
			if to == "yaml" {
				out, err = codec.EncodeYAML(g)
			} else {
				out, err = codec.EncodeJSON(g)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "encoding module", err)
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(append(out, '\n'))
				return err
			}
			if err := os.WriteFile(outPath, out, 0o644); err != nil {
				return WrapExitError(ExitCommandError, "writing output", err)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&declPaths, "ext", nil, "CUE extension declaration file (repeatable)")
	cmd.Flags().StringVar(&to, "to", "json", "target transport (json|yaml)")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output file (default stdout)")
	return cmd
}
