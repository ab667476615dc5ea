package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"evcharge-pipeline/config"
	"evcharge-pipeline/content"
	"evcharge-pipeline/dataset"
	"evcharge-pipeline/models"
	"evcharge-pipeline/pipeline"
	"evcharge-pipeline/services"
	"evcharge-pipeline/storage"
	"evcharge-pipeline/utils"
)

func main() {
	logger := utils.NewLogger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg := config.Load()
	cmd, args := os.Args[1], os.Args[2:]

	var err error
	switch cmd {
	case "load":
		err = runLoad(cfg, logger, args)
	case "compute":
		err = runCompute(cfg, logger, args)
	case "seed":
		err = runSeed(cfg, logger, args)
	case "content":
		err = runContent(cfg, logger, args)
	case "run":
		err = runAll(cfg, logger, args)
	default:
		usage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: evcharge-pipeline <command> [flags]

Commands:
  load      load and validate datasets, preview incentive eligibility
  compute   compute cost/ROI figures and print the insight report
  seed      load, compute, and upsert records (no content generation)
  content   generate content for records that still need it
  run       seed, then content

Common flags:
  -data DIR     data directory (default from DATA_DIR)
  -dry-run      use the in-memory store instead of PostgreSQL`)
}

// runLoad validates the three datasets and previews eligibility per locality.
func runLoad(cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "data directory")
	fs.Parse(args)

	ds, err := dataset.NewLoader(logger).Load(*dataDir)
	if err != nil {
		return err
	}

	resolver := services.NewEligibilityResolver()
	national := 0
	for _, p := range ds.Incentives {
		if p.IsNational {
			national++
		}
	}
	logger.Info("[load] %d national programs, %d region-scoped", national, len(ds.Incentives)-national)

	for _, loc := range ds.Localities {
		resolved := resolver.Resolve(loc, ds.Incentives)
		logger.Info("[load] %-24s %s — %d applicable programs ($%.0f in fixed rebates)",
			loc.Name, loc.RegionCode, len(resolved), services.TotalRebates(resolved))
	}

	return nil
}

// runCompute prints cost/ROI figures for every locality and, optionally,
// exports them to CSV.
func runCompute(cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("compute", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "data directory")
	csvPath := fs.String("csv", "", "optional CSV export path")
	fs.Parse(args)

	ds, err := dataset.NewLoader(logger).Load(*dataDir)
	if err != nil {
		return err
	}

	resolver := services.NewEligibilityResolver()
	costModel := services.NewCostModel()
	roiCalc := services.NewROICalculator()

	var figures []*models.LocalityFigures
	for _, loc := range ds.Localities {
		rate, ok := ds.Rates[loc.RegionCode]
		if !ok {
			logger.Warn("[compute] %s: no electricity rate for region %s, skipping", loc.Slug, loc.RegionCode)
			continue
		}

		cost := costModel.ComputeInstallCost(loc)
		roi, err := roiCalc.Compute(loc.Slug, rate.Rate)
		if err != nil {
			logger.Warn("[compute] %s: %v, skipping", loc.Slug, err)
			continue
		}

		figures = append(figures, &models.LocalityFigures{
			Slug:           loc.Slug,
			Name:           loc.Name,
			RegionCode:     loc.RegionCode,
			InstallCost:    cost.AvgInstallCost,
			AnnualSavings:  roi.AnnualSavings,
			IncentiveCount: len(resolver.Resolve(loc, ds.Incentives)),
		})
	}

	insights := services.NewInsightService(logger)
	insights.Print(insights.Generate(figures))

	if *csvPath != "" {
		writer, err := storage.NewCSVWriter(*csvPath)
		if err != nil {
			return err
		}
		defer writer.Close()
		if err := writer.WriteFigures(figures); err != nil {
			return err
		}
		logger.Info("[compute] Figures exported to %s", *csvPath)
	}

	return nil
}

// runSeed persists joined records without content.
func runSeed(cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "data directory")
	dryRun := fs.Bool("dry-run", false, "use the in-memory store")
	fs.Parse(args)

	ds, err := dataset.NewLoader(logger).Load(*dataDir)
	if err != nil {
		return err
	}

	store, err := newStore(cfg, *dryRun)
	if err != nil {
		return err
	}
	defer store.Close()

	return seedStage(cfg, logger, store, ds)
}

// runContent generates and persists content for records still needing it.
func runContent(cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("content", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "data directory")
	dryRun := fs.Bool("dry-run", false, "use the in-memory store")
	fs.Parse(args)

	ds, err := dataset.NewLoader(logger).Load(*dataDir)
	if err != nil {
		return err
	}

	store, err := newStore(cfg, *dryRun)
	if err != nil {
		return err
	}
	defer store.Close()

	return contentStage(cfg, logger, store, ds)
}

// runAll seeds, then generates content, against the same store.
func runAll(cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dataDir := fs.String("data", cfg.DataDir, "data directory")
	dryRun := fs.Bool("dry-run", false, "use the in-memory store")
	fs.Parse(args)

	ds, err := dataset.NewLoader(logger).Load(*dataDir)
	if err != nil {
		return err
	}

	store, err := newStore(cfg, *dryRun)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seedStage(cfg, logger, store, ds); err != nil {
		return err
	}
	return contentStage(cfg, logger, store, ds)
}

func seedStage(cfg *config.Config, logger *utils.Logger, store storage.RecordStore, ds *dataset.Datasets) error {
	synth := content.NewSynthesizer(nil, content.PacingPolicy{}, logger)
	orch := pipeline.New(synth, store, logger, cfg.BatchSize, cfg.MaxRetries, progressPrinter(logger))

	summary := orch.Seed(context.Background(), ds.Localities, ds.Rates, ds.Incentives)
	logger.Info("[seed] Done — persisted: %d | failed: %d | skipped: %d | total: %d",
		summary.Succeeded, summary.FailedPersist, summary.Skipped, summary.Total)
	return nil
}

func contentStage(cfg *config.Config, logger *utils.Logger, store storage.RecordStore, ds *dataset.Datasets) error {
	records, err := store.FindMany(context.Background(), storage.NeedsContent())
	if err != nil {
		return err
	}
	if len(records) == 0 {
		logger.Info("[content] All records already have content")
		return nil
	}
	logger.Info("[content] %d records need content", len(records))

	var gen content.TextGenerator
	if cfg.GeminiAPIKey == "" {
		logger.Warn("[content] GEMINI_API_KEY not set — every locality will use fallback content")
	} else {
		g, err := content.NewGeminiGenerator(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel,
			time.Duration(cfg.GenTimeoutSec)*time.Second)
		if err != nil {
			return err
		}
		gen = g
	}

	pacing := content.PacingPolicy{
		RequestsPerPause: cfg.RequestPause,
		Cooldown:         time.Duration(cfg.CooldownSec) * time.Second,
	}
	synth := content.NewSynthesizer(gen, pacing, logger)
	orch := pipeline.New(synth, store, logger, cfg.BatchSize, cfg.MaxRetries, progressPrinter(logger))

	localities := make([]*models.Locality, 0, len(records))
	for _, rec := range records {
		localities = append(localities, &models.Locality{
			Slug:       rec.Slug,
			Name:       rec.Name,
			RegionCode: rec.RegionCode,
			RegionName: rec.RegionName,
			County:     rec.County,
			Population: rec.Population,
			Latitude:   rec.Latitude,
			Longitude:  rec.Longitude,
		})
	}

	summary := orch.Run(context.Background(), localities, ds.Rates, ds.Incentives)
	logger.Info("[content] Done — generated: %d | fallback: %d | failed: %d | skipped: %d | total: %d",
		summary.Succeeded, summary.FellBack, summary.FailedPersist, summary.Skipped, summary.Total)
	return nil
}

func newStore(cfg *config.Config, dryRun bool) (storage.RecordStore, error) {
	if dryRun {
		return storage.NewMemoryStore(cfg.MaxConnections), nil
	}
	return storage.NewPostgresStore(cfg.DSN(), cfg.MaxConnections)
}

func progressPrinter(logger *utils.Logger) pipeline.ProgressFunc {
	return func(completed, total int) {
		logger.Info("  Progress: %d / %d localities", completed, total)
	}
}
