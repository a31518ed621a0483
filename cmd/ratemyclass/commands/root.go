package commands

import (
	"context"
	"fmt"
	"log/slog"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/config"
	"ratemyclass/internal/settings"
	"ratemyclass/pkg/serviceutil"

	"github.com/spf13/cobra"
)

var (
	configFile *string
	verbose    *bool

	cfg       config.Config
	providers telemetry.Telemetry
	reporter  telemetry.API = telemetry.SlogAPI{}
)

func init() {
	configFile = rootCmd.PersistentFlags().String("config", config.DEFAULT_FILE, "The config file to read.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging.")
}

var rootCmd = &cobra.Command{
	Use:   "ratemyclass",
	Short: "ratemyclass annotates class search results with RateMyProfessors ratings.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Read(*configFile)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}

		telemetry.InitSlog(*verbose || cfg.Telemetry.Debug)
		providers, err = telemetry.Setup(cmd.Context(), "ratemyclass", cfg.Telemetry)
		if err != nil {
			return fmt.Errorf("setup telemetry: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		err := providers.Shutdown(context.Background())
		if err != nil {
			slog.Warn("shutdown telemetry", "err", err)
		}
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("ratemyclass", err)
	}
}

func openSettings(ctx context.Context) (settings.Store, func(), error) {
	db, err := cfg.Database.OpenDB()
	if err != nil {
		return settings.Store{}, nil, fmt.Errorf("open database: %w", err)
	}
	store, err := settings.NewStore(ctx, db)
	if err != nil {
		db.Close()
		return settings.Store{}, nil, err
	}
	return store, func() { db.Close() }, nil
}
