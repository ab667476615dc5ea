package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"evcharge-pipeline/models"
	"evcharge-pipeline/utils"
)

// ErrDatasetUnavailable wraps any missing or unparseable input file. It is
// fatal: the run must abort before any processing begins.
var ErrDatasetUnavailable = errors.New("dataset unavailable")

// Dataset file names expected under the data directory.
const (
	LocalitiesFile = "cities.csv"
	RatesFile      = "electricity-rates.json"
	IncentivesFile = "incentives.json"
)

// Datasets holds the three parsed input collections for one pipeline run.
type Datasets struct {
	Localities []*models.Locality
	Rates      map[string]models.RegionRate
	Incentives []models.IncentiveProgram
}

// Loader parses the raw input files into typed collections.
type Loader struct {
	logger *utils.Logger
}

// NewLoader creates a Loader with the given logger.
func NewLoader(logger *utils.Logger) *Loader {
	return &Loader{logger: logger}
}

// Load reads all three datasets from dir. Any failure is fatal.
func (l *Loader) Load(dir string) (*Datasets, error) {
	localities, err := l.LoadLocalities(filepath.Join(dir, LocalitiesFile))
	if err != nil {
		return nil, err
	}

	rates, err := l.LoadRegionRates(filepath.Join(dir, RatesFile))
	if err != nil {
		return nil, err
	}

	incentives, err := l.LoadIncentives(filepath.Join(dir, IncentivesFile))
	if err != nil {
		return nil, err
	}

	l.logger.Info("[dataset] Loaded %d localities, %d region rates, %d incentives",
		len(localities), len(rates), len(incentives))

	return &Datasets{Localities: localities, Rates: rates, Incentives: incentives}, nil
}

// LoadLocalities parses the tabular localities dataset. Expected header:
// name,state,state_abbr,county,population,latitude,longitude,slug
func (l *Loader) LoadLocalities(path string) ([]*models.Locality, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrDatasetUnavailable, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrDatasetUnavailable, path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: %q has no data rows", ErrDatasetUnavailable, path)
	}

	localities := make([]*models.Locality, 0, len(rows)-1)
	for i, row := range rows[1:] {
		loc, err := parseLocalityRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: %q row %d: %v", ErrDatasetUnavailable, path, i+2, err)
		}
		localities = append(localities, loc)
	}

	return localities, nil
}

func parseLocalityRow(row []string) (*models.Locality, error) {
	if len(row) != 8 {
		return nil, fmt.Errorf("expected 8 columns, got %d", len(row))
	}

	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}

	population, err := strconv.Atoi(row[4])
	if err != nil || population < 0 {
		return nil, fmt.Errorf("invalid population %q", row[4])
	}

	lat, err := strconv.ParseFloat(row[5], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q", row[5])
	}
	lon, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q", row[6])
	}

	loc := &models.Locality{
		Name:       row[0],
		RegionName: row[1],
		RegionCode: strings.ToUpper(row[2]),
		County:     row[3],
		Population: population,
		Latitude:   lat,
		Longitude:  lon,
		Slug:       row[7],
	}

	if loc.Name == "" || loc.RegionCode == "" || loc.Slug == "" {
		return nil, fmt.Errorf("missing name, region code, or slug")
	}

	return loc, nil
}

// rateJSON matches the collected electricity-rates file. Rates arrive in
// cents per kWh and are converted to dollars here.
type rateJSON struct {
	StateAbbr string  `json:"stateAbbr"`
	StateName string  `json:"stateName"`
	Rate      float64 `json:"rate"`
}

// LoadRegionRates parses the region electricity-rate table keyed by region code.
func (l *Loader) LoadRegionRates(path string) (map[string]models.RegionRate, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrDatasetUnavailable, path, err)
	}

	var entries []rateJSON
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrDatasetUnavailable, path, err)
	}

	rates := make(map[string]models.RegionRate, len(entries))
	for _, e := range entries {
		code := strings.ToUpper(strings.TrimSpace(e.StateAbbr))
		if code == "" {
			return nil, fmt.Errorf("%w: %q: entry with empty region code", ErrDatasetUnavailable, path)
		}
		if e.Rate <= 0 {
			return nil, fmt.Errorf("%w: %q: non-positive rate for %s", ErrDatasetUnavailable, path, code)
		}
		if _, dup := rates[code]; dup {
			return nil, fmt.Errorf("%w: %q: duplicate region %s", ErrDatasetUnavailable, path, code)
		}
		rates[code] = models.RegionRate{
			RegionCode: code,
			RegionName: e.StateName,
			Rate:       e.Rate / 100, // cents → dollars
		}
	}

	return rates, nil
}

// LoadIncentives parses the incentive-program list and enforces the model
// invariants: amount XOR percentage (or both absent), and a national program
// carries no owning region while a region-scoped one must.
func (l *Loader) LoadIncentives(path string) ([]models.IncentiveProgram, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrDatasetUnavailable, path, err)
	}

	var programs []models.IncentiveProgram
	if err := json.Unmarshal(raw, &programs); err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrDatasetUnavailable, path, err)
	}

	for i := range programs {
		p := &programs[i]
		p.Region = strings.ToUpper(strings.TrimSpace(p.Region))

		if p.Name == "" {
			return nil, fmt.Errorf("%w: %q: incentive %d has no name", ErrDatasetUnavailable, path, i)
		}
		if p.Amount != nil && p.Percentage != nil {
			return nil, fmt.Errorf("%w: %q: incentive %q sets both amount and percentage",
				ErrDatasetUnavailable, path, p.Name)
		}
		if p.IsNational && p.Region != "" {
			return nil, fmt.Errorf("%w: %q: national incentive %q has an owning region",
				ErrDatasetUnavailable, path, p.Name)
		}
		if !p.IsNational && p.Region == "" {
			return nil, fmt.Errorf("%w: %q: region-scoped incentive %q has no owning region",
				ErrDatasetUnavailable, path, p.Name)
		}
	}

	return programs, nil
}
