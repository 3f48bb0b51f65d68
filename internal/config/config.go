package config

import (
	_ "embed"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/glundgren93/railboard/internal/model"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultBaseURL    = "https://api.navitia.io/v1/"
	DefaultCoverage   = "sncf"
	DefaultTimezone   = "Europe/Paris"
	DefaultTimeout    = 15 * time.Second
	DefaultListenAddr = ":3000"
)

//go:embed stations.json
var defaultStations []byte

// Config is everything the resolver, fetcher and server need at startup.
type Config struct {
	APIKey       string
	BaseURL      string
	Coverage     string
	Timezone     string
	Timeout      time.Duration
	StationsFile string
	LogLevel     string
	ListenAddr   string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is loaded first if present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrap(err, "loading .env")
	}

	cfg := Config{
		APIKey:       os.Getenv("SNCF_API_KEY"),
		BaseURL:      envOr("NAVITIA_BASE_URL", DefaultBaseURL),
		Coverage:     envOr("NAVITIA_COVERAGE", DefaultCoverage),
		Timezone:     envOr("RAILBOARD_TIMEZONE", DefaultTimezone),
		Timeout:      DefaultTimeout,
		StationsFile: os.Getenv("STATIONS_FILE"),
		LogLevel:     envOr("LOG_LEVEL", "info"),
		ListenAddr:   envOr("RAILBOARD_ADDR", DefaultListenAddr),
	}

	if raw := os.Getenv("NAVITIA_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, errors.Wrapf(err, "parsing NAVITIA_TIMEOUT %q", raw)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// Validate checks the settings needed to talk to the provider.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("SNCF_API_KEY is not set (export it or add it to .env)")
	}
	if c.BaseURL == "" || c.Coverage == "" {
		return errors.New("provider base URL and coverage are required")
	}
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "unknown timezone %q", c.Timezone)
	}
	return nil
}

// Location returns the configured default timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Stations loads the station table from StationsFile, or the embedded table
// when no file is configured.
func (c Config) Stations() ([]model.Station, error) {
	if c.StationsFile == "" {
		return ParseStations(defaultStations)
	}
	return LoadStations(c.StationsFile)
}

// LoadStations reads a station table file.
func LoadStations(path string) ([]model.Station, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading station table")
	}
	stations, err := ParseStations(b)
	if err != nil {
		return nil, errors.Wrapf(err, "station table %s", path)
	}
	return stations, nil
}

type stationEntry struct {
	ID          string   `json:"id"`
	Country     string   `json:"country"`
	Connections []string `json:"connections"`
}

// ParseStations decodes a station table keyed by station name. Entries without
// a country get one derived from their provider id. The result is sorted by name.
func ParseStations(b []byte) ([]model.Station, error) {
	var raw map[string]stationEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, errors.Wrap(err, "decoding station table")
	}

	stations := make([]model.Station, 0, len(raw))
	for name, e := range raw {
		name = strings.TrimSpace(name)
		if name == "" || e.ID == "" {
			return nil, errors.Errorf("station %q has no provider id", name)
		}
		country := strings.ToUpper(e.Country)
		if country == "" {
			country = model.CountryFromProviderID(e.ID)
		}
		stations = append(stations, model.Station{
			Name:        name,
			ProviderID:  e.ID,
			CountryCode: country,
			Connections: e.Connections,
		})
	}

	sort.Slice(stations, func(i, j int) bool {
		return stations[i].Name < stations[j].Name
	})
	return stations, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
