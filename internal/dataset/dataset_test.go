package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

const sampleCSV = `Brand,Year,Model,Car/Suv,Title,UsedOrNew,Transmission,Engine,DriveType,FuelType,FuelConsumption,Kilometres,ColourExtInt,Location,CylindersinEngine,BodyType,Doors,Seats,Price
Toyota,2022,Corolla,Hatchback,2022 Toyota Corolla,USED,Automatic,"4 cyl, 1.8 L",FWD,Hybrid,3.9 L / 100 km,16,White / Black,"Sydney, NSW",4 cyl,Hatchback,5 Doors,5 Seats,32990
Toyota,2019,HiLux,Ute,2019 Toyota HiLux,USED,Manual,"4 cyl, 2.8 L",4WD,Diesel,8.4 L / 100 km,"82,000",White / Grey,"Perth, WA",4 cyl,Ute / Tray,4 Doors,5 Seats,45500
Toyota,2023,Corolla,Sedan,2023 Toyota Corolla,NEW,Automatic,"4 cyl, 2 L",FWD,Unleaded,6 L / 100 km,-,Red / Black,"Brisbane, QLD",4 cyl,Sedan,4 Doors,5 Seats,POA
Ford,2021,Ranger,Ute,2021 Ford Ranger,DEMO,Automatic,"4 cyl, 2 L",4WD,Diesel,-,5500,Blue / Black,"Hobart, TAS",4 cyl,Ute / Tray,4 Doors,5 Seats,59990
Audi,2018,A3,Sedan,2018 Audi A3,USED,Automatic,"4 cyl, 1.4 L",FWD,Premium,5 L / 100 km,70000,Black / Black,"Melbourne, VIC",4 cyl,Sedan,4 Doors,5 Seats,24000
`

func readSample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	return ds
}

func TestRead_BrandsAndRows(t *testing.T) {
	ds := readSample(t)

	if ds.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ds.Len())
	}
	if got, want := ds.Brands(), []string{"Audi", "Ford", "Toyota"}; !slices.Equal(got, want) {
		t.Errorf("Brands() = %v, want %v", got, want)
	}
	if !ds.HasBrand("Ford") || ds.HasBrand("Tesla") {
		t.Error("HasBrand() mismatch")
	}

	rows := ds.Filter("Toyota")
	if len(rows) != 3 {
		t.Fatalf("Filter(Toyota) = %d rows, want 3", len(rows))
	}
	if rows[1].Kilometres == nil || *rows[1].Kilometres != 82000 {
		t.Errorf("Kilometres = %v, want 82000", rows[1].Kilometres)
	}
	if rows[0].FuelConsumption == nil || *rows[0].FuelConsumption != 3.9 {
		t.Errorf("FuelConsumption = %v, want 3.9", rows[0].FuelConsumption)
	}
	if rows[2].Price != nil {
		t.Errorf("Price for POA = %v, want nil", *rows[2].Price)
	}
	if rows[2].Kilometres != nil {
		t.Errorf("Kilometres for \"-\" = %v, want nil", *rows[2].Kilometres)
	}
	if rows[0].Year == nil || *rows[0].Year != 2022 {
		t.Errorf("Year = %v, want 2022", rows[0].Year)
	}
}

func TestRead_MissingColumns(t *testing.T) {
	_, err := Read(strings.NewReader("Brand,Model,Price\nToyota,Corolla,1\n"))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("Read() error = %v, want ErrMissingColumns", err)
	}
	for _, col := range []string{"Kilometres", "Year", "Transmission"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q does not name missing column %q", err.Error(), col)
		}
	}
}

func TestRead_Empty(t *testing.T) {
	if _, err := Read(strings.NewReader("")); !errors.Is(err, ErrMissingColumns) {
		t.Errorf("Read(empty) error = %v, want ErrMissingColumns", err)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vehicles.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("writing sample: %v", err)
	}

	ds, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if ds.Len() != 5 {
		t.Errorf("Len() = %d, want 5", ds.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"51990", 51990, true},
		{"16,000", 16000, true},
		{"$24,000", 24000, true},
		{"8.7 L / 100 km", 8.7, true},
		{"-", 0, false},
		{"POA", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got := parseNumber(tt.input)
		if (got != nil) != tt.ok {
			t.Errorf("parseNumber(%q) = %v, want ok=%v", tt.input, got, tt.ok)
			continue
		}
		if got != nil && *got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.input, *got, tt.want)
		}
	}
}

func TestSummarize(t *testing.T) {
	ds := readSample(t)

	s := ds.Summarize("Toyota")

	if s.Vehicles != 3 {
		t.Errorf("Vehicles = %d, want 3", s.Vehicles)
	}
	if want := (32990.0 + 45500.0) / 2; s.AveragePrice != want {
		t.Errorf("AveragePrice = %v, want %v", s.AveragePrice, want)
	}
	if len(s.ByModel) != 2 || s.ByModel[0] != (Count{Label: "Corolla", Count: 2}) {
		t.Errorf("ByModel = %+v, want Corolla first with 2", s.ByModel)
	}
	if got := Max(s.ByModel); got != 2 {
		t.Errorf("Max(ByModel) = %d, want 2", got)
	}
	if len(s.ByTransmission) != 2 {
		t.Errorf("ByTransmission = %+v, want 2 entries", s.ByTransmission)
	}
	// The POA row has neither price nor kilometres.
	if len(s.PricePoints) != 2 {
		t.Errorf("PricePoints = %d, want 2", len(s.PricePoints))
	}
	if len(s.FuelPoints) != 2 {
		t.Errorf("FuelPoints = %d, want 2", len(s.FuelPoints))
	}
}

func TestSummarize_UnknownBrand(t *testing.T) {
	s := readSample(t).Summarize("Tesla")

	if s.Vehicles != 0 || s.AveragePrice != 0 {
		t.Errorf("summary = %+v, want empty", s)
	}
	if s.ByModel == nil || s.PricePoints == nil {
		t.Error("empty summary should use empty slices for JSON")
	}
}
