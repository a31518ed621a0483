package commands

import (
	"fmt"
	"ratemyclass/internal/components/telemetry"
	"ratemyclass/internal/ratings"
	"ratemyclass/internal/scanner"
	"ratemyclass/internal/scheduler"

	"github.com/chromedp/chromedp"
	"github.com/spf13/cobra"
)

var watchUrl *string
var watchHeadless *bool

func init() {
	watchUrl = watchCmd.Flags().String("url", "", "The class search page to open, overrides page.url.")
	watchHeadless = watchCmd.Flags().Bool("headless", false, "Run chrome without a window.")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch [--url <class search url>] [--headless]",
	Short: "Opens the class search page and annotates results until interrupted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		url := cfg.Page.Url
		if *watchUrl != "" {
			url = *watchUrl
		}
		if url == "" {
			return fmt.Errorf("no page to watch, set page.url or pass --url")
		}

		store, closeStore, err := openSettings(ctx)
		if err != nil {
			return err
		}
		defer closeStore()

		opts := append(
			chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", cfg.Page.Headless || *watchHeadless),
			chromedp.Flag("disable-dev-shm-usage", true),
		)
		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		defer cancelAlloc()
		tab, cancelTab := chromedp.NewContext(allocCtx)
		defer cancelTab()

		err = chromedp.Run(tab, chromedp.Navigate(url))
		if err != nil {
			return fmt.Errorf("open %s: %w", url, err)
		}
		reporter.ReportDebug("opened class search page", url)

		telemetry.InstrumentPerfStats(ctx, reporter)

		resolver := ratings.NewResolver(cfg.NewRelay(reporter), cfg.TargetSchool(), cfg.ResolverOptions(), reporter)
		scan := scanner.NewScanner(scanner.NewBrowserHost(tab), cfg.ScannerOptions(), reporter)
		sched := scheduler.NewScheduler(scan, resolver, store, cfg.SchedulerOptions(), reporter)

		sched.Run(ctx, scheduler.NewState())
		return nil
	},
}
