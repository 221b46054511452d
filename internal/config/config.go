package config

import (
	"time"

	"github.com/trendscope/analyzer/internal/data"
	"github.com/trendscope/analyzer/internal/pipeline"
)

// Default configuration values.
const (
	defaultServiceName     = "analyzer"
	defaultServiceVersion  = "1.0.0"
	defaultServicePort     = 8080
	defaultRequestLimit    = 50
	defaultMaxRequestLimit = 500
	defaultDBHost          = "localhost"
	defaultDBPort          = 5432
	defaultDBUser          = "postgres"
	defaultDBName          = "analyzer"
	defaultDBSSLMode       = "disable"
	defaultDBMaxConns      = 25
	defaultDBMaxIdleConns  = 5
	defaultRedisURL        = "localhost:6379"
	defaultRedisMaxRetries = 3
	defaultRedisTimeoutSec = 5
	defaultCacheTTLMin     = 30
	defaultScraperTimeout  = 120 * time.Second
	defaultScraperRPS      = 2
	defaultLogLevel        = "info"
	defaultLogFormat       = "json"
	defaultThreshold       = 5
)

// Config holds all configuration for the analyzer service.
type Config struct {
	Service  ServiceConfig   `yaml:"service"`
	Database DatabaseConfig  `yaml:"database"`
	Redis    RedisConfig     `yaml:"redis"`
	Scraper  ScraperConfig   `yaml:"scraper"`
	Logging  LoggingConfig   `yaml:"logging"`
	Auth     AuthConfig      `yaml:"auth"`
	Pipeline pipeline.Config `yaml:"pipeline"`
	// Categories maps dashboard category names to the keyword pools the
	// query builder picks from.
	Categories map[string][]string `yaml:"categories"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"ANALYZER_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"     yaml:"debug"`
	// RequestLimit is the default ranked-result cap when the caller sends
	// none; MaxRequestLimit is the hard upper bound on caller requests.
	RequestLimit    int `yaml:"request_limit"`
	MaxRequestLimit int `yaml:"max_request_limit"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `env:"POSTGRES_HOST"     yaml:"host"`
	Port            int           `env:"POSTGRES_PORT"     yaml:"port"`
	User            string        `env:"POSTGRES_USER"     yaml:"user"`
	Password        string        `env:"POSTGRES_PASSWORD" yaml:"password"`
	Database        string        `env:"POSTGRES_DB"       yaml:"database"`
	SSLMode         string        `env:"POSTGRES_SSLMODE"  yaml:"sslmode"`
	MaxConnections  int           `yaml:"max_connections"`
	MaxIdleConns    int           `yaml:"max_idle_connections"`
	ConnMaxLifetime time.Duration `yaml:"connection_max_lifetime"`
}

// RedisConfig holds Redis configuration for the result cache.
type RedisConfig struct {
	URL        string        `env:"REDIS_URL"      yaml:"url"`
	Password   string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database   int           `yaml:"database"`
	MaxRetries int           `yaml:"max_retries"`
	Timeout    time.Duration `yaml:"timeout"`
	// ResultTTL bounds how long a cached analysis result stays fresh.
	ResultTTL time.Duration `yaml:"result_ttl"`
}

// ScraperConfig holds the scraping collaborator configuration.
type ScraperConfig struct {
	BaseURL string `env:"SCRAPER_BASE_URL" yaml:"base_url"`
	Token   string `env:"SCRAPER_TOKEN"    yaml:"token"`
	// ActorID selects the hosted scraping actor to run.
	ActorID string        `env:"SCRAPER_ACTOR_ID" yaml:"actor_id"`
	Timeout time.Duration `yaml:"timeout"`
	// RequestsPerSecond bounds the outbound request rate.
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL"  yaml:"level"`
	Format string `env:"LOG_FORMAT" yaml:"format"`
	Output string `yaml:"output"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// Load loads configuration from the specified path.
func Load(path string) (*Config, error) {
	cfg, err := loadWithDefaults[Config](path, setDefaults)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default builds a configuration from defaults and environment variables
// alone, without reading a config file.
func Default() (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setDatabaseDefaults(&cfg.Database)
	setRedisDefaults(&cfg.Redis)
	setScraperDefaults(&cfg.Scraper)
	setLoggingDefaults(&cfg.Logging)
	setPipelineDefaults(&cfg.Pipeline)
	if cfg.Categories == nil {
		cfg.Categories = data.Categories()
	}
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
	if s.RequestLimit == 0 {
		s.RequestLimit = defaultRequestLimit
	}
	if s.MaxRequestLimit == 0 {
		s.MaxRequestLimit = defaultMaxRequestLimit
	}
}

func setDatabaseDefaults(d *DatabaseConfig) {
	if d.Host == "" {
		d.Host = defaultDBHost
	}
	if d.Port == 0 {
		d.Port = defaultDBPort
	}
	if d.User == "" {
		d.User = defaultDBUser
	}
	if d.Database == "" {
		d.Database = defaultDBName
	}
	if d.SSLMode == "" {
		d.SSLMode = defaultDBSSLMode
	}
	if d.MaxConnections == 0 {
		d.MaxConnections = defaultDBMaxConns
	}
	if d.MaxIdleConns == 0 {
		d.MaxIdleConns = defaultDBMaxIdleConns
	}
	if d.ConnMaxLifetime == 0 {
		d.ConnMaxLifetime = time.Hour
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.URL == "" {
		r.URL = defaultRedisURL
	}
	if r.MaxRetries == 0 {
		r.MaxRetries = defaultRedisMaxRetries
	}
	if r.Timeout == 0 {
		r.Timeout = defaultRedisTimeoutSec * time.Second
	}
	if r.ResultTTL == 0 {
		r.ResultTTL = defaultCacheTTLMin * time.Minute
	}
}

func setScraperDefaults(s *ScraperConfig) {
	if s.Timeout == 0 {
		s.Timeout = defaultScraperTimeout
	}
	if s.RequestsPerSecond == 0 {
		s.RequestsPerSecond = defaultScraperRPS
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
	if l.Format == "" {
		l.Format = defaultLogFormat
	}
}

func setPipelineDefaults(p *pipeline.Config) {
	if p.Region.Policy == "" {
		p.Region.Policy = pipeline.RegionPermissive
	}
	if p.Region.Policy == pipeline.RegionPermissive && len(p.Region.Accepted) == 0 {
		p.Region.Accepted = []string{"TR", "TUR"}
	}
	if p.Commercial.Policy == "" {
		p.Commercial.Policy = pipeline.CommercialWeighted
	}
	if p.Commercial.Policy == pipeline.CommercialWeighted && p.Commercial.Threshold == 0 {
		p.Commercial.Threshold = defaultThreshold
	}
	if p.Commercial.NegativeExempt == nil {
		p.Commercial.NegativeExempt = []string{"link"}
	}
}
