package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 10, 0, 0, 0, time.UTC)
}

func TestFilterByYear(t *testing.T) {
	ds := Dataset{
		{Time: at(2020, 1, 1), Magnitude: 4.0},
		{Time: at(2021, 1, 1), Magnitude: 4.1},
		{Time: at(2020, 12, 31), Magnitude: 4.2},
		{Time: at(2019, 5, 5), Magnitude: 4.3},
	}

	view, err := FilterByYear(ds, 2020)
	require.NoError(t, err)
	assert.Equal(t, 2020, view.Year)
	require.Len(t, view.Records, 2)
	assert.Equal(t, 4.0, view.Records[0].Magnitude, "original order preserved")
	assert.Equal(t, 4.2, view.Records[1].Magnitude)

	_, err = FilterByYear(ds, 1999)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.EqualError(t, err, "no records for year 1999")
}

func TestFilterByYear_UsesUTCYear(t *testing.T) {
	lima := time.FixedZone("PET", -5*3600)
	// 2020-12-31 21:00 in Lima is already 2021 in UTC.
	ds := Dataset{{Time: time.Date(2020, 12, 31, 21, 0, 0, 0, lima)}}

	_, err := FilterByYear(ds, 2020)
	assert.ErrorIs(t, err, ErrEmptyResult)

	view, err := FilterByYear(ds, 2021)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Len())
}

func TestYearsAndCounts(t *testing.T) {
	ds := Dataset{
		{Time: at(2021, 1, 1)},
		{Time: at(2019, 1, 1)},
		{Time: at(2021, 6, 1)},
	}
	assert.Equal(t, []int{2019, 2021}, Years(ds))
	assert.Equal(t, []YearCount{{2019, 1}, {2021, 2}}, CountByYear(ds))
	assert.Empty(t, Years(nil))
}
