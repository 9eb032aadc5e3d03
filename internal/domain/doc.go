// Package domain models seismic catalogue records as published by the
// Instituto Geofísico del Perú (IGP).
//
// # Data Source
//
// The IGP distributes its instrumental catalogue as a spreadsheet with one
// row per event. The loader reads the first sheet; the first row is the
// header. Columns used:
//
//	FECHA_UTC    event date (UTC)
//	HORA_UTC     optional event time of day (UTC), "153424" or "15:34:24"
//	LATITUD      decimal degrees, negative south
//	LONGITUD     decimal degrees, negative west
//	MAGNITUD     magnitude as reported (mixed ML/Mw, not normalised here)
//	PROFUNDIDAD  hypocentre depth in kilometres
//
// Date encodings seen in the wild:
//
//	Excel serial dates (cell formatted as date):  43835   → 2020-01-05
//	Integer dates from the open-data portal:      20200105 → 2020-01-05
//	Text dates:  "2020-01-05", "2020-01-05 15:34:24", "05/01/2020"
//
// # Year Filtering
//
// Records are grouped by the calendar year of their UTC timestamp. A year with
// no records is reported as [EmptyResultError], which callers surface as an
// informational message rather than a failure.
//
// # Histograms
//
// Distributions always use [DefaultBins] equal-width bins over the observed
// range, with a Gaussian kernel density estimate (Scott's rule bandwidth)
// scaled to counts so it can be drawn over the bars. See [BinValues] and
// [DensityCurve].
//
// # IDs
//
// Record IDs are deterministic SHA-256 hashes of time|lat|lon|magnitude|depth
// so exported events can be upserted idempotently downstream. See [Record.ID].
package domain
