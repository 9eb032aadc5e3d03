package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"
)

// DateLayout is the ISO date format used in popups and report lines.
const DateLayout = "2006-01-02"

// Record is a single seismic event from the catalogue.
type Record struct {
	Time      time.Time `json:"fecha_utc"`
	Lat       float64   `json:"latitud"`
	Lon       float64   `json:"longitud"`
	Magnitude float64   `json:"magnitud"`
	Depth     float64   `json:"profundidad"` // km
}

// ID returns a deterministic identifier derived from the record's fields.
func (r Record) ID() string {
	input := fmt.Sprintf("%s|%g|%g|%g|%g", r.Time.UTC().Format(time.RFC3339), r.Lat, r.Lon, r.Magnitude, r.Depth)
	hash := sha256.Sum256([]byte(input))
	return "sismo-" + hex.EncodeToString(hash[:8])
}

// Date formats the record's UTC date as YYYY-MM-DD.
func (r Record) Date() string {
	return r.Time.UTC().Format(DateLayout)
}

// Year returns the calendar year of the record's UTC timestamp.
func (r Record) Year() int {
	return r.Time.UTC().Year()
}

// Dataset is the ordered collection of records from one loaded file.
type Dataset []Record

// FilteredView is the subset of a Dataset that falls in a single calendar year.
type FilteredView struct {
	Year    int
	Records []Record
}

// Len returns the number of records in the view.
func (v FilteredView) Len() int { return len(v.Records) }

// YearCount pairs a calendar year with the number of records in it.
type YearCount struct {
	Year  int
	Count int
}

// FormatNumber renders a float the shortest way that round-trips, so
// catalogue values print as they were stored (-12.5, not -12.500000).
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
