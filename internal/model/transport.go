package model

import (
	"time"

	"github.com/rickb777/date"
	"github.com/rickb777/date/clock"
)

// Station is an entry of the static station table.
type Station struct {
	Name        string   `json:"name"`
	ProviderID  string   `json:"provider_id"`
	CountryCode string   `json:"country_code"`
	Connections []string `json:"connections,omitempty"`
}

// Mode selects whether a board lists departures from or arrivals at a station.
type Mode string

const (
	ModeDepartures Mode = "departures"
	ModeArrivals   Mode = "arrivals"
)

// SortKey selects the timestamp a board is ordered by.
type SortKey string

const (
	SortByDeparture SortKey = "departure"
	SortByArrival   SortKey = "arrival"
)

// AllOperators is the operator filter value that disables operator filtering.
const AllOperators = "All"

// Query describes one board request.
type Query struct {
	StationID       string       `json:"station_id"`
	Mode            Mode         `json:"mode"`
	Date            date.Date    `json:"date"`
	Time            *clock.Clock `json:"time,omitempty"`
	FilterStationID string       `json:"filter_station_id,omitempty"`
	OperatorFilter  string       `json:"operator_filter,omitempty"`
	SortBy          SortKey      `json:"sort_by,omitempty"`
	Count           int          `json:"count,omitempty"`
	DirectOnly      bool         `json:"direct_only,omitempty"`
	HighSpeedOnly   bool         `json:"high_speed_only,omitempty"`
}

// Journey is a normalized journey with scheduled times in the coverage timezone.
type Journey struct {
	TrainNumber           string    `json:"train_number"`
	Operator              string    `json:"operator"`
	PhysicalMode          string    `json:"physical_mode"`
	Origin                string    `json:"origin"`
	OriginID              string    `json:"origin_id"`
	Destination           string    `json:"destination"`
	DestinationID         string    `json:"destination_id"`
	ScheduledDeparture    time.Time `json:"scheduled_departure"`
	ScheduledArrival      time.Time `json:"scheduled_arrival"`
	ExpectedDeparture     time.Time `json:"expected_departure"`
	ExpectedArrival       time.Time `json:"expected_arrival"`
	DepartureDelayMinutes *int      `json:"departure_delay_minutes"`
	ArrivalDelayMinutes   *int      `json:"arrival_delay_minutes"`
	DurationMinutes       int       `json:"duration_minutes"`
	Transfers             int       `json:"transfers"`
	Delayed               bool      `json:"delayed"`
}

// Summary holds the statistics shown under a board.
type Summary struct {
	Total               int      `json:"total"`
	Delayed             int      `json:"delayed"`
	OnTime              int      `json:"on_time"`
	AverageArrivalDelay float64  `json:"average_arrival_delay"`
	Operators           []string `json:"operators"`
}
