package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"evcharge-pipeline/models"
)

// PostgresStore persists locality records to PostgreSQL. Upserts are keyed
// by slug, so re-running the pipeline updates rows instead of duplicating
// them.
type PostgresStore struct {
	db       *sql.DB
	maxConns int
	builder  sq.StatementBuilderType
}

// NewPostgresStore opens a connection to PostgreSQL, bootstraps the schema,
// and returns a ready-to-use store. maxConns is the hosting tier's declared
// connection ceiling; the pool and the orchestrator's chunk size both honor it.
func NewPostgresStore(dsn string, maxConns int) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if maxConns <= 0 {
		maxConns = 10
	}
	db.SetMaxOpenConns(maxConns)

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{
		db:       db,
		maxConns: maxConns,
		builder:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
	if err := ps.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS localities (
			id                UUID PRIMARY KEY,
			slug              TEXT         UNIQUE NOT NULL,
			name              TEXT         NOT NULL,
			region_code       VARCHAR(10)  NOT NULL,
			region_name       TEXT         NOT NULL,
			county            TEXT         NOT NULL DEFAULT '',
			population        INTEGER      NOT NULL DEFAULT 0,
			latitude          NUMERIC(9,5) NOT NULL DEFAULT 0,
			longitude         NUMERIC(9,5) NOT NULL DEFAULT 0,
			electricity_rate  NUMERIC(8,4) NOT NULL DEFAULT 0,
			avg_install_cost  INTEGER      NOT NULL DEFAULT 0,
			incentives        JSONB        NOT NULL DEFAULT '[]',
			charge_cost       NUMERIC(10,2) NOT NULL DEFAULT 0,
			fuel_baseline     NUMERIC(10,2) NOT NULL DEFAULT 0,
			savings_per_charge NUMERIC(10,2) NOT NULL DEFAULT 0,
			monthly_savings   NUMERIC(10,2) NOT NULL DEFAULT 0,
			annual_savings    NUMERIC(10,2) NOT NULL DEFAULT 0,
			intro             TEXT         NOT NULL DEFAULT '',
			faq               JSONB        NOT NULL DEFAULT '[]',
			content_source    VARCHAR(20)  NOT NULL DEFAULT '',
			content_generated BOOLEAN      NOT NULL DEFAULT FALSE,
			published         BOOLEAN      NOT NULL DEFAULT FALSE,
			meta_title        TEXT         NOT NULL DEFAULT '',
			meta_description  TEXT         NOT NULL DEFAULT '',
			updated_at        TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_localities_region     ON localities(region_code);
		CREATE INDEX IF NOT EXISTS idx_localities_population ON localities(population);
		CREATE INDEX IF NOT EXISTS idx_localities_needs_content
			ON localities(content_generated) WHERE content_generated = FALSE;
	`)
	return err
}

// Upsert inserts or updates the record keyed by slug and returns the stored
// row's id. New rows get an id minted here; existing rows keep theirs.
func (ps *PostgresStore) Upsert(ctx context.Context, rec *models.LocalityRecord) (string, error) {
	incentivesJSON, err := json.Marshal(rec.Incentives)
	if err != nil {
		return "", fmt.Errorf("%w: marshal incentives for %s: %v", ErrWriteFailed, rec.Slug, err)
	}
	faqJSON, err := json.Marshal(rec.FAQ)
	if err != nil {
		return "", fmt.Errorf("%w: marshal faq for %s: %v", ErrWriteFailed, rec.Slug, err)
	}

	query, args, err := ps.builder.
		Insert("localities").
		Columns("id", "slug", "name", "region_code", "region_name", "county",
			"population", "latitude", "longitude", "electricity_rate",
			"avg_install_cost", "incentives", "charge_cost", "fuel_baseline",
			"savings_per_charge", "monthly_savings", "annual_savings",
			"intro", "faq", "content_source", "content_generated",
			"published", "meta_title", "meta_description", "updated_at").
		Values(uuid.NewString(), rec.Slug, rec.Name, rec.RegionCode, rec.RegionName, rec.County,
			rec.Population, rec.Latitude, rec.Longitude, rec.ElectricityRate,
			rec.AvgInstallCost, incentivesJSON, rec.ROI.ChargeCost, rec.ROI.FuelBaselineCost,
			rec.ROI.SavingsPerCharge, rec.ROI.MonthlySavings, rec.ROI.AnnualSavings,
			rec.Intro, faqJSON, rec.ContentSource, rec.ContentGenerated,
			rec.Published, rec.MetaTitle, rec.MetaDescription, time.Now()).
		Suffix(`ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			region_code = EXCLUDED.region_code,
			region_name = EXCLUDED.region_name,
			county = EXCLUDED.county,
			population = EXCLUDED.population,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			electricity_rate = EXCLUDED.electricity_rate,
			avg_install_cost = EXCLUDED.avg_install_cost,
			incentives = EXCLUDED.incentives,
			charge_cost = EXCLUDED.charge_cost,
			fuel_baseline = EXCLUDED.fuel_baseline,
			savings_per_charge = EXCLUDED.savings_per_charge,
			monthly_savings = EXCLUDED.monthly_savings,
			annual_savings = EXCLUDED.annual_savings,
			intro = EXCLUDED.intro,
			faq = EXCLUDED.faq,
			content_source = EXCLUDED.content_source,
			content_generated = EXCLUDED.content_generated,
			published = EXCLUDED.published,
			meta_title = EXCLUDED.meta_title,
			meta_description = EXCLUDED.meta_description,
			updated_at = EXCLUDED.updated_at
			RETURNING id`).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("%w: build upsert for %s: %v", ErrWriteFailed, rec.Slug, err)
	}

	var id string
	if err := ps.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return "", fmt.Errorf("%w: upsert %s: %v", ErrWriteFailed, rec.Slug, err)
	}
	return id, nil
}

// FindMany retrieves records matching the filter, largest population first.
func (ps *PostgresStore) FindMany(ctx context.Context, filter RecordFilter) ([]*models.LocalityRecord, error) {
	b := ps.builder.
		Select("id", "slug", "name", "region_code", "region_name", "county",
			"population", "latitude", "longitude", "electricity_rate",
			"avg_install_cost", "incentives", "charge_cost", "fuel_baseline",
			"savings_per_charge", "monthly_savings", "annual_savings",
			"intro", "faq", "content_source", "content_generated",
			"published", "meta_title", "meta_description", "updated_at").
		From("localities").
		OrderBy("population DESC", "slug ASC")

	if filter.ContentGenerated != nil {
		b = b.Where(sq.Eq{"content_generated": *filter.ContentGenerated})
	}
	if filter.RegionCode != "" {
		b = b.Where(sq.Eq{"region_code": filter.RegionCode})
	}
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("postgres: build find query: %w", err)
	}

	rows, err := ps.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: find many: %w", err)
	}
	defer rows.Close()

	var records []*models.LocalityRecord
	for rows.Next() {
		rec := &models.LocalityRecord{}
		var incentivesJSON, faqJSON []byte
		if err := rows.Scan(
			&rec.ID, &rec.Slug, &rec.Name, &rec.RegionCode, &rec.RegionName, &rec.County,
			&rec.Population, &rec.Latitude, &rec.Longitude, &rec.ElectricityRate,
			&rec.AvgInstallCost, &incentivesJSON, &rec.ROI.ChargeCost, &rec.ROI.FuelBaselineCost,
			&rec.ROI.SavingsPerCharge, &rec.ROI.MonthlySavings, &rec.ROI.AnnualSavings,
			&rec.Intro, &faqJSON, &rec.ContentSource, &rec.ContentGenerated,
			&rec.Published, &rec.MetaTitle, &rec.MetaDescription, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if err := json.Unmarshal(incentivesJSON, &rec.Incentives); err != nil {
			return nil, fmt.Errorf("postgres: decode incentives for %s: %w", rec.Slug, err)
		}
		if err := json.Unmarshal(faqJSON, &rec.FAQ); err != nil {
			return nil, fmt.Errorf("postgres: decode faq for %s: %w", rec.Slug, err)
		}
		rec.ROI.Slug = rec.Slug
		rec.ROI.ElectricityRate = rec.ElectricityRate
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MaxConcurrentConnections declares the pool ceiling the orchestrator must
// respect when sizing chunks.
func (ps *PostgresStore) MaxConcurrentConnections() int {
	return ps.maxConns
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
