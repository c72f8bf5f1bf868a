package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hgir-dev/hgir/internal/store"
)

// NewArchiveCommand creates the archive subcommand group.
func NewArchiveCommand(opts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the content-addressed module archive",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "hgir.db", "archive database path")

	cmd.AddCommand(newArchiveSaveCommand(opts, &dbPath))
	cmd.AddCommand(newArchiveListCommand(opts, &dbPath))
	cmd.AddCommand(newArchiveShowCommand(opts, &dbPath))
	return cmd
}

// SaveResult is the JSON payload of archive save.
type SaveResult struct {
	Hash     string `json:"hash"`
	ID       string `json:"id"`
	Inserted bool   `json:"inserted"`
}

func newArchiveSaveCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	var declPaths []string
	var name string

	cmd := &cobra.Command{
		Use:   "save <module-file>",
		Short: "Archive a module, deduplicated by content hash",
		Args:  cobra.ExactArgs(1),
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
			s, err := store.Open(*dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening archive", err)
			}
			defer s.Close()

			rec, inserted, err := s.SaveModule(cmd.Context(), name, g)
			if err != nil {
				return WrapExitError(ExitCommandError, "saving module", err)
			}
			if !inserted {
				formatter.VerboseLog("content already archived as %s", rec.ID)
			}
			if opts.Format == "json" {
				return formatter.Success(SaveResult{Hash: rec.Hash, ID: rec.ID, Inserted: inserted})
			}
			return formatter.Success(rec.Hash)
		},
	}

	cmd.Flags().StringArrayVar(&declPaths, "ext", nil, "CUE extension declaration file (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "informational module name")
	return cmd
}

func newArchiveListCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{
				Format:    opts.Format,
				Writer:    cmd.OutOrStdout(),
				ErrWriter: cmd.ErrOrStderr(),
				Verbose:   opts.Verbose,
			}
			s, err := store.Open(*dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening archive", err)
			}
			defer s.Close()

			recs, err := s.List(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "listing modules", err)
			}
			if opts.Format == "json" {
				return formatter.Success(recs)
			}
			for _, rec := range recs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", rec.Hash, rec.CreatedAt, rec.Name)
			}
			return nil
		},
	}
}

func newArchiveShowCommand(opts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <hash>",
		Short: "Print an archived module's envelope JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.Open(*dbPath)
			if err != nil {
				return WrapExitError(ExitCommandError, "opening archive", err)
			}
			defer s.Close()

			rec, err := s.GetByHash(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "fetching module", err)
			}
			_, err = cmd.OutOrStdout().Write(append(rec.Envelope, '\n'))
			return err
		},
	}
}
