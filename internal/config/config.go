package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"
)

// Default map view: geographic centroid of Peru.
const (
	DefaultCenterLat = -9.19
	DefaultCenterLon = -75.0152
	DefaultZoom      = 5
)

// Config holds all application settings, populated from an optional YAML file
// and environment variables (environment wins).
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Artifact output.
	OutputDir     string
	OpenArtifacts bool

	// Base map view shared by cluster and heat maps.
	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int

	// Mapbox reverse geocoding for cluster-map popups.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Kafka export of filtered views.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// fileConfig is the YAML layout accepted via QUAKE_CONFIG.
type fileConfig struct {
	Output struct {
		Dir  string `yaml:"dir"`
		Open *bool  `yaml:"open"`
	} `yaml:"output"`
	Map struct {
		CenterLat *float64 `yaml:"center_lat"`
		CenterLon *float64 `yaml:"center_lon"`
		Zoom      *int     `yaml:"zoom"`
	} `yaml:"map"`
	Kafka struct {
		Brokers string `yaml:"brokers"`
		Topic   string `yaml:"topic"`
	} `yaml:"kafka"`
}

// Load reads configuration, applying defaults where unset.
func Load() (*Config, error) {
	fc, err := loadFile(os.Getenv("QUAKE_CONFIG"))
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s"))
	if err != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	openDefault := true
	if fc.Output.Open != nil {
		openDefault = *fc.Output.Open
	}
	openArtifacts, err := parseBool("OPEN_ARTIFACTS", openDefault)
	if err != nil {
		return nil, err
	}

	centerLat, err := parseFloat("MAP_CENTER_LAT", deref(fc.Map.CenterLat, DefaultCenterLat))
	if err != nil {
		return nil, err
	}
	centerLon, err := parseFloat("MAP_CENTER_LON", deref(fc.Map.CenterLon, DefaultCenterLon))
	if err != nil {
		return nil, err
	}
	zoom, err := parseInt("MAP_ZOOM", deref(fc.Map.Zoom, DefaultZoom))
	if err != nil {
		return nil, err
	}

	kafkaEnabled, err := parseBool("KAFKA_ENABLED", false)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", "127.0.0.1:8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),
		ShutdownTimeout: shutdownTimeout,

		OutputDir:     sharedcfg.EnvOrDefault("OUTPUT_DIR", orDefault(fc.Output.Dir, ".")),
		OpenArtifacts: openArtifacts,

		MapCenterLat: centerLat,
		MapCenterLon: centerLon,
		MapZoom:      zoom,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", orDefault(fc.Kafka.Brokers, "localhost:9092"))),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", orDefault(fc.Kafka.Topic, "seismic-events")),
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR must not be empty")
	}
	if cfg.MapCenterLat < -90 || cfg.MapCenterLat > 90 {
		return nil, errors.New("MAP_CENTER_LAT must be within [-90, 90]")
	}
	if cfg.MapCenterLon < -180 || cfg.MapCenterLon > 180 {
		return nil, errors.New("MAP_CENTER_LON must be within [-180, 180]")
	}
	if cfg.MapZoom < 0 || cfg.MapZoom > 19 {
		return nil, errors.New("MAP_ZOOM must be within [0, 19]")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("read QUAKE_CONFIG: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse QUAKE_CONFIG: %w", err)
	}
	return fc, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
