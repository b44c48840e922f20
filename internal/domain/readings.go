package domain

// ReadingSet holds the scripture references of one liturgical day.
// Second is empty on ordinary weekdays.
type ReadingSet struct {
	First  string `json:"first"`
	Psalm  string `json:"psalm"`
	Second string `json:"second,omitempty"`
	Gospel string `json:"gospel"`
}

// MassReading is the daily liturgical bundle served by the backend
// and cached client-side per calendar day.
type MassReading struct {
	Date       string     `json:"date"`
	Saint      string     `json:"saint"`
	Season     string     `json:"season"`
	SeasonWeek string     `json:"season_week"`
	Year       string     `json:"year"`
	Readings   ReadingSet `json:"readings"`
}
