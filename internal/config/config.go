package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"medlocator/m/internal/geo"
)

// Environment variable naming the optional YAML config file, and the prefix
// for per-key overrides (MEDLOC_HTTP_PORT, MEDLOC_WEIGHT_PRICE, ...).
const (
	FileEnv   = "MEDLOC_CONFIG"
	EnvPrefix = "MEDLOC_"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration values.
type Config struct {
	HTTPPort    string `koanf:"http_port"`
	DatabaseDSN string `koanf:"database_dsn"`
	// SeedDir holds medicines.csv, stores.csv and inventory.csv. Empty
	// disables seeding.
	SeedDir string `koanf:"seed_dir"`

	LogLevel    string `koanf:"log_level"`
	LogEncoding string `koanf:"log_encoding"`

	DistanceMethod string `koanf:"distance_method"`
	StrictMatch    bool   `koanf:"strict_match"`

	WeightPrice        float64 `koanf:"weight_price"`
	WeightDistance     float64 `koanf:"weight_distance"`
	WeightAvailability float64 `koanf:"weight_availability"`

	// CORSOrigins is a comma separated allow-list; "*" allows every origin.
	CORSOrigins    string `koanf:"cors_origins"`
	MetricsEnabled bool   `koanf:"metrics_enabled"`
}

// New returns the defaults.
func New() Config {
	return Config{
		HTTPPort:           "8080",
		DatabaseDSN:        "file:medlocator.db?_pragma=foreign_keys(1)",
		SeedDir:            "assets/seed",
		LogLevel:           "info",
		LogEncoding:        "json",
		DistanceMethod:     string(geo.MethodHaversine),
		WeightPrice:        0.5,
		WeightDistance:     0.3,
		WeightAvailability: 0.2,
		CORSOrigins:        "*",
		MetricsEnabled:     true,
	}
}

// Load builds a Config by layering, low to high: defaults, the YAML file
// named by MEDLOC_CONFIG, then MEDLOC_* environment variables. A .env file
// in the working directory is read first when present.
func Load(_ context.Context) (Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the service cannot start without.
func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("%w: http_port %q is not numeric", ErrInvalidConfig, c.HTTPPort)
	}
	if strings.TrimSpace(c.DatabaseDSN) == "" {
		return fmt.Errorf("%w: database_dsn must not be empty", ErrInvalidConfig)
	}
	if _, err := geo.ParseMethod(c.DistanceMethod); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for name, w := range map[string]float64{
		"weight_price":        c.WeightPrice,
		"weight_distance":     c.WeightDistance,
		"weight_availability": c.WeightAvailability,
	} {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: %s must be finite", ErrInvalidConfig, name)
		}
	}
	return nil
}

// AllowedOrigins splits CORSOrigins into a list.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
