package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/timmy/pvhub/internal/app"
	"github.com/timmy/pvhub/internal/service"
	"github.com/timmy/pvhub/internal/source/sites"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one ingestion now and record it in the job log",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(runCtx context.Context, a *app.App) error {
				result, err := a.Runner.Run(runCtx, service.TriggerManual)
				if err != nil {
					return err
				}
				a.Content.InvalidateStats(runCtx)
				fmt.Fprintf(cmd.OutOrStdout(), "news: %d\ntenders: %d\n", result.NewsCount, result.TenderCount)
				return nil
			})
		},
	}
}

func newScrapeCommand(ctx *commandContext) *cobra.Command {
	var sourceID string
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape one source and print the raw items without storing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(runCtx context.Context, a *app.App) error {
				items, err := a.Ingest.ScrapeSource(runCtx, sourceID)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(items)
			})
		},
	}
	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "Source id (see the sources command)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newSourcesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List the known source ids",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range sites.IDs() {
				rule, _ := sites.Lookup(id)
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-7s %s\n", id, rule.Kind, rule.Name)
			}
			return nil
		},
	}
}

func newNextCommand(ctx *commandContext) *cobra.Command {
	var spec, tz, from string
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print when the daily run fires next",
		RunE: func(cmd *cobra.Command, args []string) error {
			if spec == "" || tz == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				if spec == "" {
					spec = cfg.Scheduler.Spec
				}
				if tz == "" {
					tz = cfg.Scheduler.Timezone
				}
			}
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", tz, err)
			}

			now := time.Now()
			if from != "" {
				if now, err = time.Parse(time.RFC3339, from); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}

			scheduler, err := service.NewScheduler(spec, loc, func(context.Context) {})
			if err != nil {
				return err
			}
			next := scheduler.NextFire(now)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (in %s)\n",
				next.Format(time.RFC3339), scheduler.NextRunDelay(now).Round(time.Second))
			return nil
		},
	}
	cmd.Flags().StringVar(&spec, "spec", "", "Cron expression (defaults to the configured one)")
	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone (defaults to the configured one)")
	cmd.Flags().StringVar(&from, "from", "", "Reference time in RFC3339 (defaults to now)")
	return cmd
}

func newSnapshotsCommand(ctx *commandContext) *cobra.Command {
	var sourceID, day string
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List archived page snapshots of a source for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := time.Now().UTC()
			if day != "" {
				parsed, err := time.Parse("2006-01-02", day)
				if err != nil {
					return fmt.Errorf("invalid --day: %w", err)
				}
				d = parsed
			}
			return ctx.withApp(cmd.Context(), func(runCtx context.Context, a *app.App) error {
				if a.Archiver == nil {
					return errors.New("snapshot archive is disabled")
				}
				keys, err := a.Archiver.ListSnapshots(runCtx, sourceID, d)
				if err != nil {
					return err
				}
				for _, key := range keys {
					fmt.Fprintln(cmd.OutOrStdout(), key)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&sourceID, "source", "s", "", "Source id")
	cmd.Flags().StringVar(&day, "day", "", "Day in YYYY-MM-DD (defaults to today, UTC)")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func newSeedEfficiencyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-efficiency",
		Short: "Load the built-in efficiency record history into an empty table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withApp(cmd.Context(), func(runCtx context.Context, a *app.App) error {
				n, err := a.Catalog.SeedEfficiency(runCtx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "inserted: %d\n", n)
				return nil
			})
		},
	}
}
