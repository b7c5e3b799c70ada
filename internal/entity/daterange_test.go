package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC)

func TestDateRange_Resolve(t *testing.T) {
	tests := []struct {
		name     string
		dr       DateRange
		from, to string
	}{
		{name: "current window", dr: CurrentWindow, from: "2024-03-08", to: "2024-03-14"},
		{name: "previous window", dr: PreviousWindow, from: "2024-03-01", to: "2024-03-07"},
		{name: "today", dr: DateRange{Start: "today", End: "today"}, from: "2024-03-15", to: "2024-03-15"},
		{name: "absolute", dr: DateRange{Start: "2024-02-28", End: "yesterday"}, from: "2024-02-28", to: "2024-03-14"},
		{name: "zero days ago", dr: DateRange{Start: "0daysAgo", End: "today"}, from: "2024-03-15", to: "2024-03-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := tt.dr.Resolve(now)
			require.NoError(t, err)
			assert.Equal(t, tt.from, from.Format(isoDate))
			assert.Equal(t, tt.to, to.Format(isoDate))
		})
	}
}

func TestDateRange_ResolveErrors(t *testing.T) {
	for _, dr := range []DateRange{
		{Start: "yesterday", End: "7daysAgo"},
		{Start: "-3daysAgo", End: "today"},
		{Start: "xdaysAgo", End: "today"},
		{Start: "2024/01/01", End: "today"},
		{Start: "today", End: ""},
	} {
		_, _, err := dr.Resolve(now)
		assert.Error(t, err, "%+v", dr)
	}
}

func TestDateRange_LabelAndDays(t *testing.T) {
	label, err := CurrentWindow.Label(now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08 to 2024-03-14", label)

	days, err := CurrentWindow.Days(now)
	require.NoError(t, err)
	assert.Equal(t, 7, days)

	days, err = PreviousWindow.Days(now)
	require.NoError(t, err)
	assert.Equal(t, 7, days)
}

func TestDateRange_DaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Riga")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// Clocks go forward on 2024-03-31 in Riga.
	days, err := CurrentWindow.Days(time.Date(2024, 4, 3, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 7, days)
}
