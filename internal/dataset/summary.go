package dataset

import (
	"cmp"
	"slices"

	"github.com/monicalopezucha/practica-final/internal/models"
)

// Count is one bar of a categorical chart.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// PricePoint is one vehicle in the price / kilometres / year scatter.
type PricePoint struct {
	Model      string  `json:"model"`
	Price      float64 `json:"price"`
	Kilometres float64 `json:"kilometres"`
	Year       int     `json:"year"`
	UsedOrNew  string  `json:"used_or_new"`
}

// FuelPoint is one vehicle in the price vs fuel-consumption scatter.
type FuelPoint struct {
	Model           string  `json:"model"`
	FuelConsumption float64 `json:"fuel_consumption"`
	Price           float64 `json:"price"`
}

// Summary holds the chart data for one brand.
type Summary struct {
	Brand          string       `json:"brand"`
	Vehicles       int          `json:"vehicles"`
	AveragePrice   float64      `json:"average_price"`
	ByModel        []Count      `json:"by_model"`
	ByBodyType     []Count      `json:"by_body_type"`
	ByTransmission []Count      `json:"by_transmission"`
	ByUsedOrNew    []Count      `json:"by_used_or_new"`
	PricePoints    []PricePoint `json:"price_points"`
	FuelPoints     []FuelPoint  `json:"fuel_points"`
}

// Summarize computes the chart data for brand's rows.
func (d *Dataset) Summarize(brand string) Summary {
	rows := d.Filter(brand)

	s := Summary{
		Brand:          brand,
		Vehicles:       len(rows),
		ByModel:        countBy(rows, func(v models.Vehicle) string { return v.Model }),
		ByBodyType:     countBy(rows, func(v models.Vehicle) string { return v.BodyType }),
		ByTransmission: countBy(rows, func(v models.Vehicle) string { return v.Transmission }),
		ByUsedOrNew:    countBy(rows, func(v models.Vehicle) string { return v.UsedOrNew }),
		PricePoints:    []PricePoint{},
		FuelPoints:     []FuelPoint{},
	}

	var total float64
	var priced int
	for _, v := range rows {
		if v.Price == nil {
			continue
		}
		total += *v.Price
		priced++

		if v.Kilometres != nil && v.Year != nil {
			s.PricePoints = append(s.PricePoints, PricePoint{
				Model: v.Model, Price: *v.Price, Kilometres: *v.Kilometres,
				Year: *v.Year, UsedOrNew: v.UsedOrNew,
			})
		}
		if v.FuelConsumption != nil {
			s.FuelPoints = append(s.FuelPoints, FuelPoint{
				Model: v.Model, FuelConsumption: *v.FuelConsumption, Price: *v.Price,
			})
		}
	}
	if priced > 0 {
		s.AveragePrice = total / float64(priced)
	}

	return s
}

// countBy groups rows by key, most frequent first, ties by label. Empty keys
// are skipped.
func countBy(rows []models.Vehicle, key func(models.Vehicle) string) []Count {
	counts := make(map[string]int)
	for _, v := range rows {
		if k := key(v); k != "" && k != "-" {
			counts[k]++
		}
	}

	out := make([]Count, 0, len(counts))
	for label, n := range counts {
		out = append(out, Count{Label: label, Count: n})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Label, b.Label)
	})
	return out
}

// Max returns the largest count, for scaling bars.
func Max(counts []Count) int {
	m := 0
	for _, c := range counts {
		m = max(m, c.Count)
	}
	return m
}
