package api

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/model"
	"github.com/rickb777/date"
	"go.uber.org/zap"
)

const (
	DefaultJourneyCount     = 20
	MaxJourneyCount         = 100
	trainSearchJourneyCount = 50
)

// JourneySource is the provider endpoint the fetcher queries.
type JourneySource interface {
	Journeys(ctx context.Context, opts JourneyOptions) (*model.JourneysResponse, error)
}

// Fetcher builds station boards from the journeys endpoint.
type Fetcher struct {
	source JourneySource
	loc    *time.Location
	log    *zap.SugaredLogger
}

// NewFetcher creates a fetcher. loc is the timezone used for request times and
// for responses that do not report their own coverage timezone.
func NewFetcher(source JourneySource, loc *time.Location, log *zap.SugaredLogger) *Fetcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Fetcher{source: source, loc: loc, log: log}
}

// Normalize fills query defaults and rejects queries that cannot be sent.
func (f *Fetcher) Normalize(q model.Query) (model.Query, error) {
	if q.StationID == "" {
		return q, fmt.Errorf("%w: station id is required", ErrInvalidQuery)
	}
	switch q.Mode {
	case "":
		q.Mode = model.ModeDepartures
	case model.ModeDepartures, model.ModeArrivals:
	default:
		return q, fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, q.Mode)
	}
	switch q.SortBy {
	case "":
		q.SortBy = model.SortByDeparture
	case model.SortByDeparture, model.SortByArrival:
	default:
		return q, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, q.SortBy)
	}
	if q.Date.IsZero() {
		q.Date = date.NewAt(time.Now().In(f.loc))
	}
	if q.Count <= 0 {
		q.Count = DefaultJourneyCount
	}
	if q.Count > MaxJourneyCount {
		q.Count = MaxJourneyCount
	}
	return q, nil
}

// requestTime is the query's date at its time of day (midnight when unset).
func (f *Fetcher) requestTime(q model.Query) time.Time {
	y, m, d := q.Date.Date()
	hour, minute, sec := 0, 0, 0
	if q.Time != nil {
		hour, minute, sec = q.Time.Hours(), q.Time.Minutes(), q.Time.Seconds()
	}
	return time.Date(y, m, d, hour, minute, sec, 0, f.loc)
}

func (f *Fetcher) responseLocation(resp *model.JourneysResponse) *time.Location {
	if resp.Context == nil || resp.Context.Timezone == "" {
		return f.loc
	}
	loc, err := time.LoadLocation(resp.Context.Timezone)
	if err != nil {
		f.log.Warnw("unknown coverage timezone, using default", "timezone", resp.Context.Timezone, "default", f.loc.String())
		return f.loc
	}
	return loc
}

// Fetch runs one board query and returns the filtered, sorted journeys. An
// empty board is an empty slice, not an error.
func (f *Fetcher) Fetch(ctx context.Context, q model.Query) ([]model.Journey, error) {
	q, err := f.Normalize(q)
	if err != nil {
		return nil, err
	}

	opts := JourneyOptions{
		DateTime: f.requestTime(q),
		Count:    q.Count,
	}
	if q.Mode == model.ModeArrivals {
		opts.To, opts.From = q.StationID, q.FilterStationID
		opts.Represents = model.SortByArrival
	} else {
		opts.From, opts.To = q.StationID, q.FilterStationID
		opts.Represents = model.SortByDeparture
	}

	f.log.Debugw("fetching journeys", "from", opts.From, "to", opts.To, "datetime", opts.DateTime, "count", opts.Count)
	resp, err := f.source.Journeys(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("fetching %s for %s: %w", q.Mode, q.StationID, err)
	}

	journeys, skipped := ParseJourneys(resp.Journeys, f.responseLocation(resp))
	if skipped > 0 {
		f.log.Debugw("dropped journeys without scheduled times", "skipped", skipped, "kept", len(journeys))
	}

	journeys = ApplyFilters(journeys, q)
	journeys = SortJourneys(journeys, q.SortBy)

	f.log.Infow("board fetched", "station", q.StationID, "mode", q.Mode, "received", len(resp.Journeys), "returned", len(journeys))
	return journeys, nil
}

// SearchTrainNumber looks for a train number across the station table. Each
// station is paired with its listed connections (or with every other station
// when it lists none) and the direct journeys of that day are scanned for a
// matching headsign. Provider outages abort the search; other per-pair
// failures are logged and skipped.
func (f *Fetcher) SearchTrainNumber(ctx context.Context, trainNumber string, stations []model.Station, day date.Date) ([]model.Journey, error) {
	trainNumber = strings.TrimSpace(trainNumber)
	if trainNumber == "" {
		return nil, fmt.Errorf("%w: train number is required", ErrInvalidQuery)
	}

	byName := make(map[string]model.Station, len(stations))
	for _, s := range stations {
		byName[s.Name] = s
	}

	type key struct {
		number string
		dep    time.Time
	}
	seen := make(map[key]bool)
	matches := []model.Journey{}
	needle := strings.ToUpper(trainNumber)

	for _, from := range stations {
		for _, to := range pairTargets(from, stations, byName) {
			journeys, err := f.Fetch(ctx, model.Query{
				StationID:       from.ProviderID,
				FilterStationID: to.ProviderID,
				Mode:            model.ModeDepartures,
				Date:            day,
				Count:           trainSearchJourneyCount,
				DirectOnly:      true,
			})
			if err != nil {
				if errors.Is(err, ErrProviderUnavailable) || ctx.Err() != nil {
					return nil, err
				}
				f.log.Debugw("skipping station pair", "from", from.Name, "to", to.Name, "error", err)
				continue
			}
			for _, j := range journeys {
				if !strings.Contains(strings.ToUpper(j.TrainNumber), needle) {
					continue
				}
				k := key{j.TrainNumber, j.ScheduledDeparture}
				if seen[k] {
					continue
				}
				seen[k] = true
				matches = append(matches, j)
			}
		}
	}

	f.log.Infow("train number search finished", "train", trainNumber, "matches", len(matches))
	return SortJourneys(matches, model.SortByDeparture), nil
}

func pairTargets(from model.Station, stations []model.Station, byName map[string]model.Station) []model.Station {
	var targets []model.Station
	if len(from.Connections) > 0 {
		for _, name := range from.Connections {
			if s, ok := byName[name]; ok && s.ProviderID != from.ProviderID {
				targets = append(targets, s)
			}
		}
		return targets
	}
	for _, s := range stations {
		if s.ProviderID != from.ProviderID {
			targets = append(targets, s)
		}
	}
	return targets
}
