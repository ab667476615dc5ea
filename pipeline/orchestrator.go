package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"evcharge-pipeline/content"
	"evcharge-pipeline/models"
	"evcharge-pipeline/services"
	"evcharge-pipeline/storage"
	"evcharge-pipeline/utils"
)

// ProgressFunc receives a (completed, total) signal after every item,
// success or recorded failure.
type ProgressFunc func(completed, total int)

// Orchestrator joins cost, ROI, eligibility, and content outputs per
// locality and persists them in chunks whose size never exceeds the storage
// collaborator's declared connection ceiling. Chunks run strictly in
// sequence; items within a chunk run concurrently.
type Orchestrator struct {
	resolver   *services.EligibilityResolver
	costModel  *services.CostModel
	roiCalc    *services.ROICalculator
	synth      *content.Synthesizer
	store      storage.RecordStore
	logger     *utils.Logger
	batchSize  int
	maxRetries int
	progress   ProgressFunc
}

// New creates an Orchestrator. progress may be nil.
func New(
	synth *content.Synthesizer,
	store storage.RecordStore,
	logger *utils.Logger,
	batchSize, maxRetries int,
	progress ProgressFunc,
) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 10
	}
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &Orchestrator{
		resolver:   services.NewEligibilityResolver(),
		costModel:  services.NewCostModel(),
		roiCalc:    services.NewROICalculator(),
		synth:      synth,
		store:      store,
		logger:     logger,
		batchSize:  batchSize,
		maxRetries: maxRetries,
		progress:   progress,
	}
}

// chunkSize bounds concurrency by the store's declared connection ceiling.
func (o *Orchestrator) chunkSize() int {
	size := o.batchSize
	if max := o.store.MaxConcurrentConnections(); max < size {
		size = max
	}
	if size < 1 {
		size = 1
	}
	return size
}

// Seed joins cost, ROI, and eligibility per locality and upserts records
// without content (content_generated=false), so a later content run picks
// them up. Re-seeding reclassifies existing rows rather than duplicating.
func (o *Orchestrator) Seed(
	ctx context.Context,
	localities []*models.Locality,
	rates map[string]models.RegionRate,
	incentives []models.IncentiveProgram,
) *models.RunSummary {
	return o.run(ctx, localities, rates, incentives, false)
}

// Run joins cost, ROI, eligibility, and synthesized content per locality
// and upserts the complete records. Per-item failures are logged and
// counted, never aborting the run.
func (o *Orchestrator) Run(
	ctx context.Context,
	localities []*models.Locality,
	rates map[string]models.RegionRate,
	incentives []models.IncentiveProgram,
) *models.RunSummary {
	return o.run(ctx, localities, rates, incentives, true)
}

func (o *Orchestrator) run(
	ctx context.Context,
	localities []*models.Locality,
	rates map[string]models.RegionRate,
	incentives []models.IncentiveProgram,
	withContent bool,
) *models.RunSummary {
	summary := &models.RunSummary{Total: len(localities)}

	// Every input locality is processed exactly once per run.
	seen := utils.NewSlugSet()
	var queue []*models.Locality
	for _, loc := range localities {
		if !seen.Add(loc.Slug) {
			o.logger.Warn("[orchestrator] Duplicate locality %s skipped", loc.Slug)
			summary.Skipped++
			continue
		}
		queue = append(queue, loc)
	}

	size := o.chunkSize()
	o.logger.Info("[orchestrator] Processing %d localities in chunks of %d (connection ceiling %d)",
		len(queue), size, o.store.MaxConcurrentConnections())

	var mu sync.Mutex
	completed := summary.Skipped
	pacing := o.synth.Pacing()
	sincePause := 0

	for start := 0; start < len(queue); start += size {
		end := start + size
		if end > len(queue) {
			end = len(queue)
		}
		chunk := queue[start:end]

		// One pool per chunk: Wait() is the barrier that keeps chunk
		// N+1 from starting before chunk N has settled.
		pool := utils.NewWorkerPool(size, 0)
		for _, loc := range chunk {
			loc := loc
			pool.Submit(func() {
				source, err := o.processOne(ctx, loc, rates, incentives, withContent)

				mu.Lock()
				switch {
				case err != nil:
					summary.FailedPersist++
				case source == models.SourceFallback:
					summary.FellBack++
				default:
					summary.Succeeded++
				}
				completed++
				done := completed
				mu.Unlock()

				if o.progress != nil {
					o.progress(done, summary.Total)
				}
			})
		}
		pool.Wait()

		sincePause += len(chunk)
		if withContent && pacing.RequestsPerPause > 0 && sincePause >= pacing.RequestsPerPause && end < len(queue) {
			o.logger.Info("[orchestrator] Pacing: cooling down %v after %d localities", pacing.Cooldown, sincePause)
			time.Sleep(pacing.Cooldown)
			sincePause = 0
		}
	}

	o.logger.Info("[orchestrator] Run complete — succeeded: %d | fallback: %d | failed: %d | skipped: %d | total: %d",
		summary.Succeeded, summary.FellBack, summary.FailedPersist, summary.Skipped, summary.Total)

	return summary
}

// processOne derives and persists one locality's record. The returned source
// is the content provenance ("" when running without content).
func (o *Orchestrator) processOne(
	ctx context.Context,
	loc *models.Locality,
	rates map[string]models.RegionRate,
	incentives []models.IncentiveProgram,
	withContent bool,
) (string, error) {
	rate, ok := rates[loc.RegionCode]
	if !ok {
		o.logger.Error("[orchestrator] %s: no electricity rate for region %s", loc.Slug, loc.RegionCode)
		return "", fmt.Errorf("no electricity rate for region %s", loc.RegionCode)
	}

	resolved := o.resolver.Resolve(loc, incentives)
	cost := o.costModel.ComputeInstallCost(loc)

	roi, err := o.roiCalc.Compute(loc.Slug, rate.Rate)
	if err != nil {
		o.logger.Error("[orchestrator] %s: ROI computation failed: %v", loc.Slug, err)
		return "", err
	}

	rec := &models.LocalityRecord{
		Slug:            loc.Slug,
		Name:            loc.Name,
		RegionCode:      loc.RegionCode,
		RegionName:      loc.RegionName,
		County:          loc.County,
		Population:      loc.Population,
		Latitude:        loc.Latitude,
		Longitude:       loc.Longitude,
		ElectricityRate: rate.Rate,
		AvgInstallCost:  cost.AvgInstallCost,
		Incentives:      resolved,
		ROI:             roi,
		MetaTitle:       fmt.Sprintf("EV Charger Installation %s, %s | Cost & Rebates", loc.Name, loc.RegionCode),
		MetaDescription: fmt.Sprintf("Get your EV charger installed in %s, %s. Average cost: $%d. Find local installers, rebates, and incentives.",
			loc.Name, loc.RegionName, cost.AvgInstallCost),
	}

	var source string
	if withContent {
		names := make([]string, len(resolved))
		for i, p := range resolved {
			names[i] = p.Name
		}
		generated := o.synth.Synthesize(ctx, loc.Slug, content.Facts{
			Name:            loc.Name,
			RegionName:      loc.RegionName,
			RegionCode:      loc.RegionCode,
			Population:      loc.Population,
			ElectricityRate: rate.Rate,
			AvgInstallCost:  cost.AvgInstallCost,
			IncentiveNames:  names,
		})
		rec.Intro = generated.Intro
		rec.FAQ = generated.FAQ
		rec.ContentSource = generated.Source
		rec.ContentGenerated = true
		rec.Published = true
		source = generated.Source
	}

	retry := utils.RetryConfig{
		MaxAttempts: o.maxRetries,
		BaseDelay:   200 * time.Millisecond,
		Logger:      o.logger,
	}
	err = retry.Do("upsert "+loc.Slug, func() error {
		_, err := o.store.Upsert(ctx, rec)
		return err
	})
	if err != nil {
		o.logger.Error("[orchestrator] %s: persist failed: %v", loc.Slug, err)
		return source, err
	}

	return source, nil
}
