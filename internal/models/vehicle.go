package models

// Vehicle is a single row of the vehicle-price dataset. Numeric fields are
// nil when the source value could not be parsed (e.g. "-" or "POA").
type Vehicle struct {
	Brand           string   `json:"brand"`
	Model           string   `json:"model"`
	Price           *float64 `json:"price,omitempty"`
	Kilometres      *float64 `json:"kilometres,omitempty"`
	Year            *int     `json:"year,omitempty"`
	UsedOrNew       string   `json:"used_or_new"`
	BodyType        string   `json:"body_type"`
	FuelConsumption *float64 `json:"fuel_consumption,omitempty"`
	Transmission    string   `json:"transmission"`
}
