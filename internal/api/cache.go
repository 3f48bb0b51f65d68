package api

import (
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/model"
	cache "github.com/patrickmn/go-cache"
)

const (
	placeCacheTTL     = 5 * time.Minute
	placeCacheCleanup = 10 * time.Minute
)

// placeCache remembers stations resolved through the places endpoint so a
// repeated lookup of the same name does not go back to the provider.
type placeCache struct {
	c *cache.Cache
}

func newPlaceCache() *placeCache {
	return &placeCache{c: cache.New(placeCacheTTL, placeCacheCleanup)}
}

func placeCacheKey(name, countryHint string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + strings.ToUpper(countryHint)
}

func (pc *placeCache) get(name, countryHint string) (model.Station, bool) {
	v, ok := pc.c.Get(placeCacheKey(name, countryHint))
	if !ok {
		return model.Station{}, false
	}
	s, ok := v.(model.Station)
	return s, ok
}

func (pc *placeCache) set(name, countryHint string, s model.Station) {
	pc.c.Set(placeCacheKey(name, countryHint), s, cache.DefaultExpiration)
}
