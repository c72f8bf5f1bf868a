package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hgir-dev/hgir/internal/validate"
)

// ValidateResult is the JSON payload of the validate command.
type ValidateResult struct {
	Valid  bool                       `json:"valid"`
	File   string                     `json:"file"`
	Errors []validate.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate subcommand.
func NewValidateCommand(opts *RootOptions) *cobra.Command {
	var declPaths []string

	cmd := &cobra.Command{
		Use:   "validate <module-file>",
		Short: "Validate a serialized module",
		Long: `Decode a module envelope and check every structural and typing rule,
reporting all violations at once. Exit code 1 means the module is invalid,
2 means it could not be read at all.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			reg, err := buildRegistry(declPaths)
			if err != nil {
				return WrapExitError(ExitCommandError, "building extension registry", err)
			}
			g, err := loadModule(args[0], reg)
			if err != nil {
				return WrapExitError(ExitCommandError, "loading module", err)
			}
			formatter.VerboseLog("decoded %d nodes", g.NumNodes())

			errs := validate.ValidateWithRegistry(g, reg)
			if len(errs) == 0 {
				return formatter.Success(ValidateResult{Valid: true, File: args[0]})
			}
			if opts.Format == "json" {
				if err := formatter.Error("E001", "module is invalid", ValidateResult{
					Valid:  false,
					File:   args[0],
					Errors: errs,
				}); err != nil {
					return err
				}
			} else {
				for _, ve := range errs {
					fmt.Fprintln(cmd.OutOrStdout(), ve.Error())
				}
			}
			return NewExitError(ExitFailure, fmt.Sprintf("%d validation errors", len(errs)))
		},
	}

	cmd.Flags().StringArrayVar(&declPaths, "ext", nil, "CUE extension declaration file (repeatable)")
	return cmd
}
