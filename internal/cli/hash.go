package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hgir-dev/hgir/internal/codec"
)

// HashResult is the JSON payload of the hash command.
type HashResult struct {
	File string `json:"file"`
	Hash string `json:"hash"`
}

// NewHashCommand creates the hash subcommand.
func NewHashCommand(opts *RootOptions) *cobra.Command {
	var declPaths []string

	cmd := &cobra.Command{
		Use:   "hash <module-file>",
		Short: "Print a module's content-addressed identity",
		Long: `Compute the domain-separated SHA-256 of the module's canonical envelope.
YAML input is re-encoded through the JSON envelope first, so both transports
of the same module hash identically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			var hash string
			if isYAMLPath(args[0]) {
				reg, err := buildRegistry(declPaths)
				if err != nil {
					return WrapExitError(ExitCommandError, "building extension registry", err)
				}
				g, err := loadModule(args[0], reg)
				if err != nil {
					return WrapExitError(ExitCommandError, "loading module", err)
				}
				hash, err = codec.ModuleHash(g)
				if err != nil {
					return WrapExitError(ExitCommandError, "hashing module", err)
				}
			} else {
				data, err := os.ReadFile(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "reading module", err)
				}
				hash, err = codec.EnvelopeHash(data)
				if err != nil {
					return WrapExitError(ExitCommandError, "hashing module", err)
				}
			}
			if opts.Format == "json" {
				return formatter.Success(HashResult{File: args[0], Hash: hash})
			}
			return formatter.Success(hash)
		},
	}

	cmd.Flags().StringArrayVar(&declPaths, "ext", nil, "CUE extension declaration file (repeatable)")
	return cmd
}
