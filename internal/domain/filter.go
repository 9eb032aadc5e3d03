package domain

import "sort"

// FilterByYear selects the records of ds whose UTC year equals year, keeping
// their original order. It returns an *EmptyResultError when none match.
func FilterByYear(ds Dataset, year int) (FilteredView, error) {
	var out []Record
	for _, r := range ds {
		if r.Year() == year {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return FilteredView{}, &EmptyResultError{Year: year}
	}
	return FilteredView{Year: year, Records: out}, nil
}

// Years returns the distinct years present in ds in ascending order.
func Years(ds Dataset) []int {
	counts := CountByYear(ds)
	years := make([]int, len(counts))
	for i, c := range counts {
		years[i] = c.Year
	}
	return years
}

// CountByYear returns per-year record counts sorted by year.
func CountByYear(ds Dataset) []YearCount {
	byYear := make(map[int]int)
	for _, r := range ds {
		byYear[r.Year()]++
	}
	out := make([]YearCount, 0, len(byYear))
	for y, n := range byYear {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}
