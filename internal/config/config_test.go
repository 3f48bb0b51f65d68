package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultStations(t *testing.T) {
	cfg := Config{}
	stations, err := cfg.Stations()
	if err != nil {
		t.Fatalf("embedded table: %v", err)
	}
	if len(stations) == 0 {
		t.Fatal("embedded table is empty")
	}

	names := make(map[string]bool, len(stations))
	for i, s := range stations {
		names[s.Name] = true
		if !strings.HasPrefix(s.ProviderID, "stop_area:SNCF:") {
			t.Errorf("%s has id %q, want a stop_area id", s.Name, s.ProviderID)
		}
		if s.CountryCode == "" {
			t.Errorf("%s has no country", s.Name)
		}
		if i > 0 && stations[i-1].Name > s.Name {
			t.Errorf("table not sorted: %q before %q", stations[i-1].Name, s.Name)
		}
	}

	// Every connection names another table entry
	for _, s := range stations {
		for _, c := range s.Connections {
			if !names[c] {
				t.Errorf("%s connects to unknown station %q", s.Name, c)
			}
		}
	}

	if !names["Paris Gare de Lyon"] || !names["Lyon Part-Dieu"] {
		t.Error("table should contain Paris Gare de Lyon and Lyon Part-Dieu")
	}
}

func TestParseStations(t *testing.T) {
	stations, err := ParseStations([]byte(`{
		"Zurich HB": {"id": "stop_area:SNCF:85030000"},
		"Annecy": {"id": "stop_area:SNCF:87746008", "country": "fr", "connections": ["Zurich HB"]}
	}`))
	if err != nil {
		t.Fatalf("ParseStations() error: %v", err)
	}
	if len(stations) != 2 {
		t.Fatalf("expected 2 stations, got %d", len(stations))
	}
	if stations[0].Name != "Annecy" || stations[0].CountryCode != "FR" {
		t.Errorf("first = %+v, want Annecy [FR]", stations[0])
	}
	if stations[1].CountryCode != "CH" {
		t.Errorf("country derived from id = %q, want CH", stations[1].CountryCode)
	}

	if _, err := ParseStations([]byte(`{"Nowhere": {}}`)); err == nil {
		t.Error("entry without id should fail")
	}
	if _, err := ParseStations([]byte(`[1, 2]`)); err == nil {
		t.Error("non-object table should fail")
	}
}

func TestLoadStations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	if err := os.WriteFile(path, []byte(`{"Metz": {"id": "stop_area:SNCF:87192039"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	stations, err := Config{StationsFile: path}.Stations()
	if err != nil {
		t.Fatalf("Stations() error: %v", err)
	}
	if len(stations) != 1 || stations[0].Name != "Metz" {
		t.Errorf("stations = %+v", stations)
	}

	if _, err := LoadStations(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestLoad(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SNCF_API_KEY", "abc")
	t.Setenv("NAVITIA_COVERAGE", "fr-idf")
	t.Setenv("NAVITIA_TIMEOUT", "3s")
	t.Setenv("NAVITIA_BASE_URL", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("RAILBOARD_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "abc" || cfg.Coverage != "fr-idf" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("timeout = %s, want 3s", cfg.Timeout)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.LogLevel != "info" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}

	t.Setenv("NAVITIA_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("bad timeout should fail")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("SNCF_API_KEY", "")
	os.Unsetenv("SNCF_API_KEY")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SNCF_API_KEY=from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Errorf("api key = %q, want from-dotenv", cfg.APIKey)
	}
}

func TestValidate(t *testing.T) {
	base := Config{APIKey: "k", BaseURL: DefaultBaseURL, Coverage: DefaultCoverage, Timezone: "UTC", Timeout: time.Second}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config: %v", err)
	}

	bad := map[string]func(*Config){
		"no key":       func(c *Config) { c.APIKey = "" },
		"no coverage":  func(c *Config) { c.Coverage = "" },
		"zero timeout": func(c *Config) { c.Timeout = 0 },
		"bad timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range bad {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
