package commands

import (
	"net/http"
	"ratemyclass/internal/relay"
	"ratemyclass/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var relayPort *int

func init() {
	relayPort = relayServeCmd.Flags().Int("port", 0, "The port to listen on, overrides relay.port.")
	relayCmd.AddCommand(relayServeCmd)
	rootCmd.AddCommand(relayCmd)
}

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Commands for the upstream request relay.",
}

var relayServeCmd = &cobra.Command{
	Use:   "serve [--port <port>]",
	Short: "Performs upstream requests on behalf of other ratemyclass processes.",
	RunE: func(cmd *cobra.Command, args []string) error {
		port := cfg.Relay.Port
		if *relayPort != 0 {
			port = *relayPort
		}

		mux := http.NewServeMux()
		mux.Handle("/relay", relay.NewHandler(cfg.DirectRelay(reporter), reporter))
		return serviceutil.StartHttpServer(cmd.Context(), port, mux)
	},
}
