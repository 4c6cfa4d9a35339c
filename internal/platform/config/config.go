package config

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/Netflix/go-env"

	"credex/internal/platform/database"
	"credex/pkg/platform/middleware/metadata"
	"credex/pkg/validation"
)

// Server is the process configuration, loaded once from the environment.
type Server struct {
	Environment           string        `env:"ENVIRONMENT,default=dev" validate:"oneof=dev test staging prod"`
	Host                  string        `env:"HOST,default=0.0.0.0"`
	Port                  int           `env:"PORT,default=8080" validate:"min=1,max=65535"`
	LogLevel              string        `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	ReadTimeout           time.Duration `env:"READ_TIMEOUT,default=15s"`
	WriteTimeout          time.Duration `env:"WRITE_TIMEOUT,default=30s"`
	IdleTimeout           time.Duration `env:"IDLE_TIMEOUT,default=60s"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT,default=10s"`

	RateLimitRPS        float64 `env:"RATE_LIMIT_RPS,default=100" validate:"min=0"`
	RateLimitBurst      int     `env:"RATE_LIMIT_BURST,default=200" validate:"min=0"`
	MaxRequestBodyBytes int64   `env:"MAX_REQUEST_BODY_BYTES,default=1048576" validate:"min=1"`
	TrustedProxies      string  `env:"TRUSTED_PROXIES"`

	Database Database
	Issuance Issuance
	Kafka    Kafka
	Redis    Redis
	Seed     Seed

	// VerifierDID selects the Verifier record used when a request names none.
	VerifierDID string `env:"VERIFIER_DID,required=true" validate:"required,did"`
	// HolderAppUUID is stamped onto every outbound presentation request.
	HolderAppUUID string `env:"HOLDER_APP_UUID,required=true" validate:"required,uuid"`
}

type Database struct {
	URL             string        `env:"DATABASE_URL"`
	MaxConns        int32         `env:"DB_MAX_CONNECTIONS,default=10" validate:"min=1"`
	MinConns        int32         `env:"DB_MIN_CONNECTIONS,default=0" validate:"min=0,ltefield=MaxConns"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME,default=60m"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME,default=30m"`
	ConnectTimeout  time.Duration `env:"DB_CONNECT_TIMEOUT,default=5s"`
	PingTimeout     time.Duration `env:"DATABASE_PING_TIMEOUT,default=10s"`
}

type Issuance struct {
	BaseURL string        `env:"ISSUANCE_BASE_URL,required=true" validate:"required,url"`
	Timeout time.Duration `env:"ISSUANCE_TIMEOUT,default=30s" validate:"gt=0"`
}

// Kafka publishing is disabled when Brokers is empty.
type Kafka struct {
	Brokers         string        `env:"KAFKA_BROKERS"`
	EventsTopic     string        `env:"KAFKA_EVENTS_TOPIC,default=credex.events" validate:"required"`
	Acks            string        `env:"KAFKA_ACKS,default=all" validate:"oneof=0 1 all"`
	Retries         int           `env:"KAFKA_RETRIES,default=3" validate:"min=0"`
	DeliveryTimeout time.Duration `env:"KAFKA_DELIVERY_TIMEOUT,default=30s"`
}

// Redis caching is disabled when URL is empty.
type Redis struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE,default=10" validate:"min=1"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS,default=2" validate:"min=0"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT,default=5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT,default=3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT,default=3s"`
	CacheTTL     time.Duration `env:"CACHE_TTL,default=10m" validate:"gt=0"`
}

// Seed applies only when no database is configured and the in-memory
// verifier store would otherwise start empty.
type Seed struct {
	VerifierAuthToken      string `env:"SEED_VERIFIER_AUTH_TOKEN,default=dev-token" validate:"required"`
	VerifierSigningKeyFile string `env:"SEED_VERIFIER_SIGNING_KEY_FILE"`
}

// Tooling is the configuration read by the maintenance commands.
type Tooling struct {
	Environment string `env:"ENVIRONMENT,default=dev" validate:"oneof=dev test staging prod"`
	LogLevel    string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error"`
	Database    Database
}

// LoadTooling reads only what migrate and verifier register need.
// DATABASE_URL is required.
func LoadTooling() (*Tooling, error) {
	var cfg Tooling
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}
	if err := validation.Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("invalid configuration: DATABASE_URL is required")
	}
	return &cfg, nil
}

// PoolConfig maps the environment settings onto the pool configuration.
func (d Database) PoolConfig() database.Config {
	return database.Config{
		URL:             d.URL,
		MaxConns:        d.MaxConns,
		MinConns:        d.MinConns,
		MaxConnLifetime: d.MaxConnLifetime,
		MaxConnIdleTime: d.MaxConnIdleTime,
		ConnectTimeout:  d.ConnectTimeout,
		PingTimeout:     d.PingTimeout,
	}
}

// Load reads the environment into a Server and validates it.
func Load() (*Server, error) {
	var cfg Server
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and cross-field rules.
func (c *Server) Validate() error {
	if err := validation.Validate(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.RequiresDatabase() && c.Database.URL == "" {
		return fmt.Errorf("invalid configuration: DATABASE_URL is required when ENVIRONMENT=%s", c.Environment)
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return fmt.Errorf("invalid configuration: TRUSTED_PROXIES: %w", err)
	}
	return nil
}

// RequiresDatabase reports whether in-memory stores are disallowed.
func (c *Server) RequiresDatabase() bool {
	return c.Environment == "staging" || c.Environment == "prod"
}

func (c *Server) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Server) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	return metadata.ParseTrustedProxies(c.TrustedProxies)
}
