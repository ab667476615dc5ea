package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"evcharge-pipeline/models"
)

func sampleRecord(slug, region string, population int, generated bool) *models.LocalityRecord {
	return &models.LocalityRecord{
		Slug:             slug,
		Name:             slug,
		RegionCode:       region,
		Population:       population,
		ContentGenerated: generated,
	}
}

func TestMemoryStoreUpsertKeepsIdentity(t *testing.T) {
	ms := NewMemoryStore(10)
	ctx := context.Background()

	id1, err := ms.Upsert(ctx, sampleRecord("chicago-il", "IL", 2693976, false))
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := ms.Upsert(ctx, sampleRecord("chicago-il", "IL", 2693976, true))
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if id1 != id2 {
		t.Errorf("upsert minted a new id: %s vs %s", id1, id2)
	}
	if ms.Count() != 1 {
		t.Errorf("count: got %d, want 1", ms.Count())
	}
	if !ms.Get("chicago-il").ContentGenerated {
		t.Error("second upsert should have updated the record")
	}
}

func TestMemoryStoreFindManyFilters(t *testing.T) {
	ms := NewMemoryStore(10)
	ctx := context.Background()

	records := []*models.LocalityRecord{
		sampleRecord("new-york-ny", "NY", 8336817, true),
		sampleRecord("los-angeles-ca", "CA", 3979576, false),
		sampleRecord("san-diego-ca", "CA", 1423851, false),
		sampleRecord("houston-tx", "TX", 2320268, true),
	}
	for _, rec := range records {
		if _, err := ms.Upsert(ctx, rec); err != nil {
			t.Fatalf("upsert %s: %v", rec.Slug, err)
		}
	}

	pending, err := ms.FindMany(ctx, NeedsContent())
	if err != nil {
		t.Fatalf("FindMany: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending: got %d records, want 2", len(pending))
	}
	if pending[0].Slug != "los-angeles-ca" {
		t.Errorf("pending should be ordered by population desc, got %s first", pending[0].Slug)
	}

	ca, err := ms.FindMany(ctx, RecordFilter{RegionCode: "CA"})
	if err != nil {
		t.Fatalf("FindMany CA: %v", err)
	}
	if len(ca) != 2 {
		t.Errorf("CA records: got %d, want 2", len(ca))
	}

	limited, err := ms.FindMany(ctx, RecordFilter{Limit: 3})
	if err != nil {
		t.Fatalf("FindMany limited: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("limited: got %d records, want 3", len(limited))
	}
}

func TestMemoryStoreFailSlugs(t *testing.T) {
	ms := NewMemoryStore(10)
	ms.FailSlugs = map[string]bool{"houston-tx": true}

	_, err := ms.Upsert(context.Background(), sampleRecord("houston-tx", "TX", 1, false))
	if !errors.Is(err, ErrWriteFailed) {
		t.Errorf("got %v, want ErrWriteFailed", err)
	}
	if ms.Count() != 0 {
		t.Errorf("failed upsert should not store anything")
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	ms := NewMemoryStore(10)
	ctx := context.Background()

	if _, err := ms.Upsert(ctx, sampleRecord("phoenix-az", "AZ", 1680992, false)); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got := ms.Get("phoenix-az")
	got.Name = "Mutated"
	if ms.Get("phoenix-az").Name == "Mutated" {
		t.Error("Get should return a copy, not the stored record")
	}
}

func TestCSVWriterWritesFigures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "figures.csv")
	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("NewCSVWriter: %v", err)
	}

	figures := []*models.LocalityFigures{
		{Slug: "chicago-il", Name: "Chicago", RegionCode: "IL", InstallCost: 1800, AnnualSavings: 6156.00, IncentiveCount: 2},
	}
	if err := w.WriteFigures(figures); err != nil {
		t.Fatalf("WriteFigures: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, "slug,name,region") {
		t.Error("output missing header row")
	}
	if !strings.Contains(out, "chicago-il,Chicago,IL,1800,6156.00,2") {
		t.Errorf("output missing data row, got:\n%s", out)
	}
}
