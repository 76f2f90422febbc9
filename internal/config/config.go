package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// OverpassEndpoint is the base URL of the place-data provider.
	OverpassEndpoint string `json:"overpass_endpoint,omitempty"`

	// FetchTimeoutSeconds is the provider-side timeout passed with every
	// query. Together with the element hard cap it is the engine's only
	// backpressure mechanism; no client-side retry or cancellation exists.
	FetchTimeoutSeconds int `json:"fetch_timeout_seconds,omitempty"`

	// ElementHardCap aborts category-"full" resolutions whose result set is
	// at or above this size, rather than attempting an oversized tessellation.
	ElementHardCap int `json:"element_hard_cap,omitempty"`

	// LetterZoneSimplifyTolerance is the simplification tolerance (degrees)
	// applied to each zone polygon before the letter-zone union. Unioning
	// many full-resolution admin polygons is too expensive and fragile, so
	// zone edges are knowingly inexact within this tolerance.
	LetterZoneSimplifyTolerance float64 `json:"letter_zone_simplify_tolerance,omitempty"`

	// BufferQuadSegments is the number of segments per quadrant used when
	// buffering lines and points.
	BufferQuadSegments int `json:"buffer_quad_segments,omitempty"`

	// RailBufferMeters is the fixed buffer width applied to rebuilt
	// high-speed rail chains.
	RailBufferMeters float64 `json:"rail_buffer_meters,omitempty"`

	// ResponseCacheTTLHours is how long cached provider responses stay
	// fresh. 0 disables expiry.
	ResponseCacheTTLHours int `json:"response_cache_ttl_hours,omitempty"`

	// DBMaxOpenConns limits open connections to the response-cache database.
	// If set to 1, all access is serialized. 0 means sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle connections. 0 means sql.DB default.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		OverpassEndpoint:            "https://overpass-api.de/api/interpreter",
		FetchTimeoutSeconds:         90,
		ElementHardCap:              1000,
		LetterZoneSimplifyTolerance: 0.001,
		BufferQuadSegments:          8,
		RailBufferMeters:            30,
		ResponseCacheTTLHours:       24,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.quarry.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.OverpassEndpoint = overlay.OverpassEndpoint
	if result.OverpassEndpoint == "" {
		result.OverpassEndpoint = base.OverpassEndpoint
	}

	result.FetchTimeoutSeconds = overlay.FetchTimeoutSeconds
	if result.FetchTimeoutSeconds == 0 {
		result.FetchTimeoutSeconds = base.FetchTimeoutSeconds
	}

	result.ElementHardCap = overlay.ElementHardCap
	if result.ElementHardCap == 0 {
		result.ElementHardCap = base.ElementHardCap
	}

	result.LetterZoneSimplifyTolerance = overlay.LetterZoneSimplifyTolerance
	if result.LetterZoneSimplifyTolerance == 0 {
		result.LetterZoneSimplifyTolerance = base.LetterZoneSimplifyTolerance
	}

	result.BufferQuadSegments = overlay.BufferQuadSegments
	if result.BufferQuadSegments == 0 {
		result.BufferQuadSegments = base.BufferQuadSegments
	}

	result.RailBufferMeters = overlay.RailBufferMeters
	if result.RailBufferMeters == 0 {
		result.RailBufferMeters = base.RailBufferMeters
	}

	result.ResponseCacheTTLHours = overlay.ResponseCacheTTLHours
	if result.ResponseCacheTTLHours == 0 {
		result.ResponseCacheTTLHours = base.ResponseCacheTTLHours
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
