package api

import (
	"fmt"
	"strings"

	"github.com/glundgren93/railboard/internal/model"
	"github.com/rickb777/date"
	"github.com/rickb777/date/clock"
)

// MaxAdvanceDays is how far ahead a board can be requested.
const MaxAdvanceDays = 60

// ParseDate parses a travel date: "", "today", "tomorrow" or an ISO date.
// Dates before today or more than MaxAdvanceDays ahead are rejected.
func ParseDate(value string, today date.Date) (date.Date, error) {
	var d date.Date
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		d = today.Add(1)
	default:
		parsed, err := date.AutoParse(strings.TrimSpace(value))
		if err != nil {
			return date.Date{}, fmt.Errorf("%w: bad date %q: %v", ErrInvalidQuery, value, err)
		}
		d = parsed
	}

	days := d.Sub(today)
	if days < 0 {
		return date.Date{}, fmt.Errorf("%w: date %s is in the past", ErrInvalidQuery, d)
	}
	if days > MaxAdvanceDays {
		return date.Date{}, fmt.Errorf("%w: date %s is more than %d days ahead", ErrInvalidQuery, d, MaxAdvanceDays)
	}
	return d, nil
}

// ParseTimeOfDay parses an optional "HH:MM" time. An empty value means no time.
func ParseTimeOfDay(value string) (*clock.Clock, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	c, err := clock.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("%w: bad time %q: %v", ErrInvalidQuery, value, err)
	}
	return &c, nil
}

// ParseMode parses a board mode, defaulting to departures.
func ParseMode(value string) (model.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "departures", "departure", "dep":
		return model.ModeDepartures, nil
	case "arrivals", "arrival", "arr":
		return model.ModeArrivals, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q (departures or arrivals)", ErrInvalidQuery, value)
}

// ParseSortKey parses a sort key, defaulting to departure time.
func ParseSortKey(value string) (model.SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "departure", "departures", "dep":
		return model.SortByDeparture, nil
	case "arrival", "arrivals", "arr":
		return model.SortByArrival, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q (departure or arrival)", ErrInvalidQuery, value)
}

// KnownOperators lists the high-speed operators offered as filter choices.
var KnownOperators = []string{
	model.AllOperators,
	"TGV INOUI",
	"OUIGO",
	"TGV Lyria",
	"Eurostar",
	"DB SNCF",
	"Trenitalia",
	"Renfe",
}
