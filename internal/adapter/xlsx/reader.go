package xlsx

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/quake-report/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Catalogue column headers.
const (
	ColDate  = "FECHA_UTC"
	ColTime  = "HORA_UTC"
	ColLat   = "LATITUD"
	ColLon   = "LONGITUD"
	ColMag   = "MAGNITUD"
	ColDepth = "PROFUNDIDAD"
)

var requiredColumns = []string{ColDate, ColLat, ColLon, ColMag, ColDepth}

// textDateLayouts are tried in order for FECHA_UTC cells stored as text.
var textDateLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// Reader loads seismic catalogues from .xlsx workbooks.
// It implements store.Loader.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a workbook reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// Load parses the first sheet of the workbook at path. The first row must
// hold the column headers; fully blank rows are skipped.
func (r *Reader) Load(path string) (domain.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	// Raw values keep date cells as serial numbers instead of locale-formatted text.
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoRows
	}

	cols, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	ds := make(domain.Dataset, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, cols)
		if err != nil {
			// Spreadsheet rows are 1-based and the header occupies row 1.
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		ds = append(ds, rec)
	}

	if len(ds) == 0 {
		return nil, domain.ErrNoRows
	}

	r.logger.Debug("workbook parsed", "path", path, "sheet", sheets[0], "records", len(ds))
	return ds, nil
}

// mapColumns locates every known header, matching case-insensitively.
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToUpper(strings.TrimSpace(h))
		if _, dup := cols[name]; !dup && name != "" {
			cols[name] = i
		}
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing required column %s", c)
		}
	}
	return cols, nil
}

func parseRow(row []string, cols map[string]int) (domain.Record, error) {
	ts, err := parseTimestamp(cell(row, cols[ColDate]))
	if err != nil {
		return domain.Record{}, fmt.Errorf("invalid %s: %w", ColDate, err)
	}
	if idx, ok := cols[ColTime]; ok {
		if raw := cell(row, idx); raw != "" {
			offset, err := parseClock(raw)
			if err != nil {
				return domain.Record{}, fmt.Errorf("invalid %s: %w", ColTime, err)
			}
			ts = time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC).Add(offset)
		}
	}

	rec := domain.Record{Time: ts}
	fields := []struct {
		col string
		dst *float64
	}{
		{ColLat, &rec.Lat},
		{ColLon, &rec.Lon},
		{ColMag, &rec.Magnitude},
		{ColDepth, &rec.Depth},
	}
	for _, fld := range fields {
		v, err := parseNumber(cell(row, cols[fld.col]))
		if err != nil {
			return domain.Record{}, fmt.Errorf("invalid %s: %w", fld.col, err)
		}
		*fld.dst = v
	}

	if rec.Lat < -90 || rec.Lat > 90 {
		return domain.Record{}, fmt.Errorf("invalid %s: %v out of range", ColLat, rec.Lat)
	}
	if rec.Lon < -180 || rec.Lon > 180 {
		return domain.Record{}, fmt.Errorf("invalid %s: %v out of range", ColLon, rec.Lon)
	}
	return rec, nil
}

// parseTimestamp accepts Excel serial dates, YYYYMMDD integers and the text
// layouts in textDateLayouts. Results are in UTC.
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty value")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if v >= 1e7 && v < 1e8 && v == math.Trunc(v) {
			t, err := time.Parse("20060102", strconv.FormatInt(int64(v), 10))
			if err != nil {
				return time.Time{}, fmt.Errorf("%q: %w", s, err)
			}
			return t, nil
		}
		if v <= 0 {
			return time.Time{}, fmt.Errorf("%q is not a date", s)
		}
		t, err := excelize.ExcelDateToTime(v, false)
		if err != nil {
			return time.Time{}, fmt.Errorf("%q: %w", s, err)
		}
		return t.UTC().Round(time.Second), nil
	}

	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// parseClock turns an HORA_UTC cell into an offset from midnight. It accepts
// "15:04:05", "15:04", HHMMSS integers ("93024" is 09:30:24) and Excel
// time fractions (0.5 is noon).
func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if strings.Contains(s, ":") {
		for _, layout := range []string{"15:04:05", "15:04"} {
			if t, err := time.Parse(layout, s); err == nil {
				return time.Duration(t.Hour())*time.Hour +
					time.Duration(t.Minute())*time.Minute +
					time.Duration(t.Second())*time.Second, nil
			}
		}
		return 0, fmt.Errorf("unrecognised time %q", s)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognised time %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	if v < 1 {
		return (time.Duration(v * float64(24*time.Hour))).Round(time.Second), nil
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("unrecognised time %q", s)
	}

	hhmmss := fmt.Sprintf("%06d", int64(v))
	if len(hhmmss) != 6 {
		return 0, fmt.Errorf("unrecognised time %q", s)
	}
	hour, _ := strconv.Atoi(hhmmss[:2])
	mins, _ := strconv.Atoi(hhmmss[2:4])
	secs, _ := strconv.Atoi(hhmmss[4:])
	if hour > 23 || mins > 59 || secs > 59 {
		return 0, fmt.Errorf("time %q out of range", s)
	}
	return time.Duration(hour)*time.Hour + time.Duration(mins)*time.Minute + time.Duration(secs)*time.Second, nil
}

// parseNumber parses a numeric cell, accepting a decimal comma when the
// value has no decimal point.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return v, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
