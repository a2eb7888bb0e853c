package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"datatable/preset"
	"datatable/session"
)

func newPresetsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets",
		Short: "Manage table presets",
		Long: `List, apply, save, rename, delete and export the presets of a table.

System presets come from the catalog and cannot be deleted; renaming one lasts
for the current command only.`,
	}

	cmd.AddCommand(newPresetsListCmd(flags))
	cmd.AddCommand(newPresetsApplyCmd(flags))
	cmd.AddCommand(newPresetsSaveCmd(flags))
	cmd.AddCommand(newPresetsRenameCmd(flags))
	cmd.AddCommand(newPresetsDeleteCmd(flags))
	cmd.AddCommand(newPresetsResetCmd(flags))
	cmd.AddCommand(newPresetsExportCmd(flags))
	return cmd
}

// withTable runs fn against the table's session and commits it afterwards.
// A persistence error from fn is reported after the commit.
func withTable(cmd *cobra.Command, flags *rootFlags, fn func(s *session.Session) error) error {
	a, err := newApp(cmd, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.openTable(flags, nil)
	if err != nil {
		return err
	}
	fnErr := fn(s)
	var perr *session.PersistenceError
	if fnErr != nil && !errors.As(fnErr, &perr) {
		return fnErr
	}
	if err := s.CommitAndClose(); err != nil {
		return err
	}
	return fnErr
}

// --- presets list ---

func newPresetsListCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				fmt.Fprint(cmd.OutOrStdout(), renderPresets(s.Presets(), s.ActivePresetID(), s.Recent()))
				return nil
			})
		},
	}
}

// --- presets apply ---

func newPresetsApplyCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <id>",
		Short: "Apply a preset to the table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				if err := s.ApplyPreset(args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied preset %s.\n", args[0])
				return nil
			})
		},
	}
}

// --- presets save ---

type presetsSaveFlags struct {
	fromJSON string
}

func newPresetsSaveCmd(flags *rootFlags) *cobra.Command {
	saveFlags := &presetsSaveFlags{}
	cmd := &cobra.Command{
		Use:   "save [name]",
		Short: "Save the active configuration as a preset",
		Long: `Save the active configuration of the table as a new custom preset and make
it active. Without a name argument the name is asked for. With --from-json the
preset holds the configuration read from that file instead.`,
		Example: `  datatable presets save "Wide view"
  datatable presets save Audit --from-json audit.json --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				p, err := savePreset(s, args, saveFlags, confirmerFor(flags))
				if err != nil && p.ID == "" {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %q (%s).\n", p.Name, p.ID)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&saveFlags.fromJSON, "from-json", "", "File holding the preset configuration as a JSON object")
	return cmd
}

func savePreset(s *session.Session, args []string, flags *presetsSaveFlags, confirm session.Confirmer) (preset.Preset, error) {
	if flags.fromJSON == "" {
		return s.SaveCurrentAsPreset(namePrompterFor(args), confirm)
	}
	raw, err := os.ReadFile(flags.fromJSON)
	if err != nil {
		return preset.Preset{}, err
	}
	name, ok := namePrompterFor(args).PromptName()
	if !ok {
		return preset.Preset{}, &session.ValidationError{Field: "name", Reason: "preset name is required"}
	}
	return s.SaveJSONEdit(name, raw, confirm)
}

// --- presets rename ---

func newPresetsRenameCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a preset",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				return s.RenamePreset(args[0], args[1])
			})
		},
	}
}

// --- presets delete ---

func newPresetsDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a custom preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				deleted, err := s.DeletePreset(args[0], confirmerFor(flags))
				if errors.Is(err, session.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if !deleted && err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Preset %s is a system preset and was not deleted.\n", args[0])
					return nil
				}
				if deleted {
					fmt.Fprintf(cmd.OutOrStdout(), "Deleted preset %s.\n", args[0])
				}
				return err
			})
		},
	}
}

// --- presets reset ---

func newPresetsResetCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore factory settings and delete all custom presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				err := s.FactoryReset(confirmerFor(flags))
				if errors.Is(err, session.ErrAborted) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err == nil {
					fmt.Fprintln(cmd.OutOrStdout(), "Table settings reset.")
				}
				return err
			})
		},
	}
}

// --- presets export ---

type presetsExportFlags struct {
	clipboard bool
}

func newPresetsExportCmd(flags *rootFlags) *cobra.Command {
	exportFlags := &presetsExportFlags{}
	cmd := &cobra.Command{
		Use:   "export [id]",
		Short: "Print a preset, or the active configuration, as JSON",
		Example: `  datatable presets export
  datatable presets export compact --clipboard`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTable(cmd, flags, func(s *session.Session) error {
				data, err := exportJSON(s, args)
				if err != nil {
					return err
				}
				if exportFlags.clipboard {
					if err := clipboard.WriteAll(string(data)); err != nil {
						return fmt.Errorf("copy to clipboard: %w", err)
					}
					fmt.Fprintln(cmd.OutOrStdout(), "Copied to clipboard.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&exportFlags.clipboard, "clipboard", false, "Copy to the system clipboard instead of printing")
	return cmd
}

func exportJSON(s *session.Session, args []string) ([]byte, error) {
	if len(args) == 0 {
		return json.MarshalIndent(s.ActiveConfig(), "", "  ")
	}
	p, ok := preset.Find(s.Presets(), args[0])
	if !ok {
		return nil, &session.NotFoundError{ID: args[0]}
	}
	return json.MarshalIndent(p.Config, "", "  ")
}
