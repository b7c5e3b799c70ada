package entity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// DateRange is an inclusive window expressed in GA4 date tokens:
// "today", "yesterday", "NdaysAgo" or an absolute YYYY-MM-DD.
type DateRange struct {
	Start string
	End   string
}

var (
	// CurrentWindow is the last 7 complete days.
	CurrentWindow = DateRange{Start: "7daysAgo", End: "yesterday"}
	// PreviousWindow is the 7 days before CurrentWindow.
	PreviousWindow = DateRange{Start: "14daysAgo", End: "8daysAgo"}
)

// Resolve converts both tokens to calendar days relative to now.
func (dr DateRange) Resolve(now time.Time) (time.Time, time.Time, error) {
	from, err := resolveDateToken(dr.Start, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start date: %w", err)
	}
	to, err := resolveDateToken(dr.End, now)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end date: %w", err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s",
			to.Format(isoDate), from.Format(isoDate))
	}
	return from, to, nil
}

// Label renders the resolved window, e.g. "2024-01-01 to 2024-01-07".
func (dr DateRange) Label(now time.Time) (string, error) {
	from, to, err := dr.Resolve(now)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s to %s", from.Format(isoDate), to.Format(isoDate)), nil
}

// Days returns the inclusive number of days in the resolved window.
func (dr DateRange) Days(now time.Time) (int, error) {
	from, to, err := dr.Resolve(now)
	if err != nil {
		return 0, err
	}
	return int(math.Round(to.Sub(from).Hours()/24)) + 1, nil
}

func resolveDateToken(token string, now time.Time) (time.Time, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch token {
	case "today":
		return day, nil
	case "yesterday":
		return day.AddDate(0, 0, -1), nil
	}
	if n, ok := strings.CutSuffix(token, "daysAgo"); ok {
		days, err := strconv.Atoi(n)
		if err != nil || days < 0 {
			return time.Time{}, fmt.Errorf("invalid relative date %q", token)
		}
		return day.AddDate(0, 0, -days), nil
	}
	t, err := time.ParseInLocation(isoDate, token, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", token)
	}
	return t, nil
}
