package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Source kinds soportados.
const (
	SourceMock   = "mock"
	SourceSQLite = "sqlite"
	SourceHTTP   = "http"
)

// Config es la configuración completa del dashboard.
type Config struct {
	Dashboard DashboardConfig `yaml:"dashboard"`
	Source    SourceConfig    `yaml:"source"`
	API       APIConfig       `yaml:"api"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Log       LogConfig       `yaml:"log"`
}

// DashboardConfig controla la vista y el refresco.
type DashboardConfig struct {
	RefreshSeconds int    `yaml:"refresh_seconds"`
	Interval       string `yaml:"interval"` // daily | weekly | monthly
	Timezone       string `yaml:"timezone"` // IANA, vacío = UTC
	Symbol         string `yaml:"symbol"`   // "all" o un símbolo exacto
}

// SourceConfig elige de dónde salen los trades.
type SourceConfig struct {
	Kind       string `yaml:"kind"` // mock | sqlite | http
	MockTrades int    `yaml:"mock_trades"`
	MockSeed   int64  `yaml:"mock_seed"`
	MockDays   int    `yaml:"mock_days"`
}

// APIConfig contiene el base URL de la API de fills.
type APIConfig struct {
	FillsBase      string `yaml:"fills_base"`
	Token          string `yaml:"token"` // mejor vía FILLS_API_TOKEN en .env
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StorageConfig controla dónde se persisten los trades y el journal.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// MetricsConfig controla el endpoint Prometheus. Addr vacío lo desactiva.
type MetricsConfig struct {
	Addr      string `yaml:"addr"`
	Namespace string `yaml:"namespace"`
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

// RefreshInterval devuelve el intervalo de refresco como time.Duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.Dashboard.RefreshSeconds) * time.Second
}

// Location resuelve la zona horaria de los buckets. Vacío = UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Dashboard.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Dashboard.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config.Location: %w", err)
	}
	return loc, nil
}

// HTTPTimeout devuelve el timeout por request de la API de fills.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// OverrideSource reemplaza source.kind (flag -source) con la misma
// normalización y validación que el YAML.
func (c *Config) OverrideSource(kind string) error {
	c.Source.Kind = normalizeKind(kind)
	if err := c.validate(); err != nil {
		return fmt.Errorf("config.OverrideSource: %w", err)
	}
	return nil
}

func normalizeKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

func (c *Config) validate() error {
	switch c.Source.Kind {
	case SourceMock, SourceSQLite, SourceHTTP:
	default:
		return fmt.Errorf("unknown source kind %q", c.Source.Kind)
	}
	if c.Source.Kind == SourceHTTP && c.API.FillsBase == "" {
		return fmt.Errorf("source http requires api.fills_base")
	}
	return nil
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("TRADEDASH_TZ"); v != "" {
		cfg.Dashboard.Timezone = v
	}
	if v := os.Getenv("FILLS_API_TOKEN"); v != "" {
		cfg.API.Token = v
	}
	if v := os.Getenv("TRADEDASH_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("TRADEDASH_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Dashboard.RefreshSeconds <= 0 {
		cfg.Dashboard.RefreshSeconds = 30
	}
	if cfg.Dashboard.Interval == "" {
		cfg.Dashboard.Interval = "daily"
	}
	if cfg.Dashboard.Symbol == "" {
		cfg.Dashboard.Symbol = "all"
	}
	cfg.Source.Kind = normalizeKind(cfg.Source.Kind)
	if cfg.Source.Kind == "" {
		cfg.Source.Kind = SourceMock
	}
	if cfg.Source.MockTrades <= 0 {
		cfg.Source.MockTrades = 200
	}
	if cfg.Source.MockDays <= 0 {
		cfg.Source.MockDays = 30
	}
	if cfg.API.TimeoutSeconds <= 0 {
		cfg.API.TimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "tradedash.db"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "tradedash"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
