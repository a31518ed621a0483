package commands

import (
	"fmt"
	"log/slog"
	"os"
	"ratemyclass/internal/ratings"
	"ratemyclass/internal/scanner"
	"ratemyclass/internal/scheduler"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"
)

var annotateFrameID *string
var annotateOut *string

func init() {
	annotateFrameID = annotateCmd.Flags().String("frame-id", scanner.FALLBACK_FRAME_ID, "The frame id the saved document is served as.")
	annotateOut = annotateCmd.Flags().StringP("out", "o", "", "Where to write the annotated document, defaults to stdout.")
	rootCmd.AddCommand(annotateCmd)
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <saved results.html> [--frame-id <id>] [--out <path>]",
	Short: "Runs a single pass over a saved search results document.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		doc, err := goquery.NewDocumentFromReader(f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		store, closeStore, err := openSettings(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		host := scanner.NewStaticHost()
		host.SetFrame(*annotateFrameID, doc)

		resolver := ratings.NewResolver(cfg.NewRelay(reporter), cfg.TargetSchool(), cfg.ResolverOptions(), reporter)
		scan := scanner.NewScanner(host, cfg.ScannerOptions(), reporter)
		sched := scheduler.NewScheduler(scan, resolver, store, cfg.SchedulerOptions(), reporter)

		result, err := sched.Pass(ctx)
		if err != nil {
			return err
		}
		stats := resolver.Stats()
		slog.Info(
			"annotated results",
			"annotated", result.Annotated,
			"skipped", result.Skipped,
			"fallbacks", result.Fallbacks,
			"requests", stats.NetworkCalls,
		)

		out, err := doc.Html()
		if err != nil {
			return err
		}
		if *annotateOut == "" {
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		}
		return os.WriteFile(*annotateOut, []byte(out), 0644)
	},
}
