// Package dataset loads the vehicle-price CSV and derives the per-brand
// figures the dashboard charts.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/monicalopezucha/practica-final/internal/models"
)

// RequiredColumns lists the CSV headers the dataset must provide.
var RequiredColumns = []string{
	"Brand", "Model", "Price", "Kilometres", "Year",
	"UsedOrNew", "BodyType", "FuelConsumption", "Transmission",
}

// ErrMissingColumns is returned when the header lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// Dataset is the loaded, read-only vehicle table.
type Dataset struct {
	vehicles []models.Vehicle
	brands   []string
}

// Load reads the CSV file at path.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	ds, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %q: %w", path, err)
	}

	slog.Info("loaded dataset", "path", path, "rows", len(ds.vehicles), "brands", len(ds.brands))
	return ds, nil
}

// Read parses CSV data with a header row.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty file: %w", ErrMissingColumns)
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(rec []string, col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	ds := &Dataset{}
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", line, err)
		}

		v := models.Vehicle{
			Brand:           field(rec, "Brand"),
			Model:           field(rec, "Model"),
			Price:           parseNumber(field(rec, "Price")),
			Kilometres:      parseNumber(field(rec, "Kilometres")),
			Year:            parseYear(field(rec, "Year")),
			UsedOrNew:       field(rec, "UsedOrNew"),
			BodyType:        field(rec, "BodyType"),
			FuelConsumption: parseNumber(field(rec, "FuelConsumption")),
			Transmission:    field(rec, "Transmission"),
		}
		if v.Brand == "" {
			continue
		}
		ds.vehicles = append(ds.vehicles, v)
		if !seen[v.Brand] {
			seen[v.Brand] = true
			ds.brands = append(ds.brands, v.Brand)
		}
	}

	slices.Sort(ds.brands)
	return ds, nil
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.vehicles)
}

// Brands returns the distinct brands, sorted.
func (d *Dataset) Brands() []string {
	return slices.Clone(d.brands)
}

// HasBrand reports whether brand appears in the dataset.
func (d *Dataset) HasBrand(brand string) bool {
	_, ok := slices.BinarySearch(d.brands, brand)
	return ok
}

// Filter returns the rows for brand.
func (d *Dataset) Filter(brand string) []models.Vehicle {
	var out []models.Vehicle
	for _, v := range d.vehicles {
		if v.Brand == brand {
			out = append(out, v)
		}
	}
	return out
}

// parseNumber reads the leading number of values like "51990", "16,000" or
// "8.7 L / 100 km". It returns nil for "-", "POA" and other non-numeric
// values.
func parseNumber(s string) *float64 {
	s = strings.ReplaceAll(strings.TrimPrefix(s, "$"), ",", "")
	end := 0
	for end < len(s) && (s[end] == '.' || s[end] == '-' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	if end == 0 {
		return nil
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseYear(s string) *int {
	f := parseNumber(s)
	if f == nil {
		return nil
	}
	y := int(*f)
	return &y
}
