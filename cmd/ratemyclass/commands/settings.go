package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	settingsCmd.AddCommand(tooltipsCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Shows the stored settings and request statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeStore, err := openSettings(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		current, err := store.Get(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Setting", "Value"})
		t.AppendRows([]table.Row{
			{"tooltips", current.TooltipsEnabled},
			{"requests (last search)", current.RequestsLastSearch},
			{"requests (lifetime)", current.RequestsLifetime1},
			{"lookups (lifetime)", current.RequestsLifetime2},
		})
		t.Render()
		return nil
	},
}

var tooltipsCmd = &cobra.Command{
	Use:       "tooltips <on|off>",
	Short:     "Enables or disables badge tooltips.",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var enabled bool
		switch args[0] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("expected on or off, got %q", args[0])
		}

		store, closeStore, err := openSettings(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()
		return store.SetTooltipsEnabled(cmd.Context(), enabled)
	},
}
