package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"wmstudio/internal/templates"
	"wmstudio/pkg/logger"
	"wmstudio/pkg/watermark"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"tpl"},
		Short:   "Manage saved watermark templates",
	}
	cmd.AddCommand(
		newTemplatesListCmd(),
		newTemplatesSaveCmd(),
		newTemplatesShowCmd(),
		newTemplatesDeleteCmd(),
		newTemplatesResetCmd(),
	)
	return cmd
}

// withStore runs fn against the configured template store.
func withStore(fn func(*templates.Store) error) error {
	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	return fn(store)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid template id %q", s)
	}
	return id, nil
}

func newTemplatesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *templates.Store) error {
				list := store.List()
				if len(list) == 0 {
					pterm.Info.Println("No templates saved yet.")
					return nil
				}
				printTemplateTable(list)
				pterm.Info.Printf("%d of %d slots used\n", len(list), templates.MaxTemplates)
				return nil
			})
		},
	}
}

func printTemplateTable(list []templates.Template) {
	tableData := [][]string{
		{"ID", "NAME", "KIND", "CONTENT", "POSITION", "ROTATION", "OPACITY"},
	}
	for _, t := range list {
		s := t.Settings
		content := fmt.Sprintf("%q %s %.0f", s.Content, s.Color, s.FontSizeUnits)
		if s.Kind == watermark.KindImage {
			content = fmt.Sprintf("logo %.0f%%", s.ScalePercent)
		}
		tableData = append(tableData, []string{
			strconv.FormatInt(t.ID, 10),
			pterm.FgCyan.Sprint(t.Name),
			string(s.Kind),
			content,
			fmt.Sprintf("%.0f%%, %.0f%%", s.PositionX, s.PositionY),
			fmt.Sprintf("%.0f°", s.RotationDegrees),
			fmt.Sprintf("%.2f", s.Opacity),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(tableData).Render()
}

func newTemplatesSaveCmd() *cobra.Command {
	var pf paramFlags

	cmd := &cobra.Command{
		Use:   "save [NAME]",
		Short: "Save watermark settings as a template",
		Long:  "Save watermark settings as a template. Settings start from the configured defaults and are overridden by flags. Without a name the template is called \"Template N\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			params := cfg.Defaults.Params()
			pf.apply(cmd.Flags(), &params)

			return withStore(func(store *templates.Store) error {
				t, err := store.Save(name, params.Clamp())
				if err != nil {
					return err
				}
				logger.LogSuccess("Saved template %q (id %d)", t.Name, t.ID)
				return nil
			})
		},
	}
	pf.register(cmd.Flags())
	return cmd
}

func newTemplatesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Print a template as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(func(store *templates.Store) error {
				t, err := store.Get(id)
				if err != nil {
					return err
				}
				data, err := json.MarshalIndent(t, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			})
		},
	}
}

func newTemplatesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a template (no-op if it does not exist)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return withStore(func(store *templates.Store) error {
				if err := store.Delete(id); err != nil {
					return err
				}
				logger.LogSuccess("Template %d removed", id)
				return nil
			})
		},
	}
}

func newTemplatesResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Remove all templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(store *templates.Store) error {
				if err := store.Reset(); err != nil {
					return err
				}
				logger.LogSuccess("All templates removed")
				return nil
			})
		},
	}
}
