package api

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/glundgren93/railboard/internal/model"
	"go.uber.org/zap"
)

// PlaceSearcher is the provider text search the resolver falls back to.
type PlaceSearcher interface {
	Places(ctx context.Context, query string) ([]model.Place, error)
}

// Resolver maps station names to provider stations.
type Resolver struct {
	searcher PlaceSearcher
	stations []model.Station
	byName   map[string]model.Station
	cache    *placeCache
	log      *zap.SugaredLogger
}

// NewResolver builds a resolver over a static station table. The table is
// copied, sorted by name and never modified afterwards.
func NewResolver(searcher PlaceSearcher, stations []model.Station, log *zap.SugaredLogger) *Resolver {
	r := &Resolver{
		searcher: searcher,
		stations: make([]model.Station, len(stations)),
		byName:   make(map[string]model.Station, len(stations)),
		cache:    newPlaceCache(),
		log:      log,
	}
	copy(r.stations, stations)
	sort.SliceStable(r.stations, func(i, j int) bool {
		return r.stations[i].Name < r.stations[j].Name
	})
	for _, s := range stations {
		r.byName[normalizeName(s.Name)] = s
	}
	return r
}

func normalizeName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// Lookup returns the table entry for name (case-insensitive), without any
// network access.
func (r *Resolver) Lookup(name string) (model.Station, bool) {
	s, ok := r.byName[normalizeName(name)]
	return s, ok
}

// LookupID returns the table entry with the given provider id.
func (r *Resolver) LookupID(id string) (model.Station, bool) {
	for _, s := range r.stations {
		if s.ProviderID == id {
			return s, true
		}
	}
	return model.Station{}, false
}

// Stations lists the table, sorted by name, optionally restricted to one
// country.
func (r *Resolver) Stations(country string) []model.Station {
	result := make([]model.Station, 0, len(r.stations))
	for _, s := range r.stations {
		if country != "" && !strings.EqualFold(s.CountryCode, country) {
			continue
		}
		result = append(result, s)
	}
	return result
}

// Resolve maps a station name to a station. The static table is consulted
// first; on a miss the provider's text search is used. Zero or ambiguous
// search results yield ErrStationNotFound.
func (r *Resolver) Resolve(ctx context.Context, name, countryHint string) (model.Station, error) {
	if strings.TrimSpace(name) == "" {
		return model.Station{}, fmt.Errorf("%w: empty station name", ErrStationNotFound)
	}

	if s, ok := r.Lookup(name); ok {
		if countryHint == "" || strings.EqualFold(s.CountryCode, countryHint) {
			return s, nil
		}
	}

	if s, ok := r.cache.get(name, countryHint); ok {
		return s, nil
	}

	if r.searcher == nil {
		return model.Station{}, fmt.Errorf("%w: %q is not in the station table", ErrStationNotFound, name)
	}

	r.log.Debugw("station not in table, searching provider", "name", name, "country", countryHint)
	places, err := r.searcher.Places(ctx, name)
	if err != nil {
		return model.Station{}, fmt.Errorf("searching station %q: %w", name, err)
	}

	s, err := pickPlace(places, name, countryHint)
	if err != nil {
		r.log.Warnw("station not resolved", "name", name, "error", err)
		return model.Station{}, err
	}

	r.log.Debugw("station resolved", "name", name, "id", s.ProviderID)
	r.cache.set(name, countryHint, s)
	return s, nil
}

// pickPlace selects the single stop area a search result designates.
func pickPlace(places []model.Place, name, countryHint string) (model.Station, error) {
	var candidates []model.Station
	seen := make(map[string]bool)
	for _, p := range places {
		if p.EmbeddedType != "" && p.EmbeddedType != "stop_area" {
			continue
		}
		id, label := p.ID, p.Name
		if p.StopArea != nil {
			if p.StopArea.ID != "" {
				id = p.StopArea.ID
			}
			if p.StopArea.Name != "" {
				label = p.StopArea.Name
			}
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		candidates = append(candidates, model.Station{
			Name:        label,
			ProviderID:  id,
			CountryCode: model.CountryFromProviderID(id),
		})
	}

	if countryHint != "" {
		var inCountry []model.Station
		for _, c := range candidates {
			if strings.EqualFold(c.CountryCode, countryHint) {
				inCountry = append(inCountry, c)
			}
		}
		candidates = inCountry
	}

	switch len(candidates) {
	case 0:
		return model.Station{}, fmt.Errorf("%w: no stop area matches %q", ErrStationNotFound, name)
	case 1:
		return candidates[0], nil
	}

	var exact []model.Station
	for _, c := range candidates {
		if normalizeName(c.Name) == normalizeName(name) {
			exact = append(exact, c)
		}
	}
	if len(exact) == 1 {
		return exact[0], nil
	}

	return model.Station{}, fmt.Errorf("%w: ambiguous station name %q (%d matches)", ErrStationNotFound, name, len(candidates))
}

// ResolveInput accepts either a provider stop area id or a station name.
// Ids are used as-is, named after their table entry when there is one.
func (r *Resolver) ResolveInput(ctx context.Context, input, countryHint string) (model.Station, error) {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "stop_area:") {
		if s, ok := r.LookupID(input); ok {
			return s, nil
		}
		return model.Station{
			Name:        input,
			ProviderID:  input,
			CountryCode: model.CountryFromProviderID(input),
		}, nil
	}
	return r.Resolve(ctx, input, countryHint)
}
