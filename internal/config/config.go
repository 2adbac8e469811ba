package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Config stores service and worker settings.
type Config struct {
	Port             int
	OperationTimeout time.Duration
	Storage          string

	DB        DB
	Kafka     Kafka
	Auth      Auth
	Fee       Fee
	Bids      BidBounds
	RateLimit RateLimit
	Notify    NotifyRetry
	Log       Log
	Pprof     Pprof
}

// DB holds Postgres connection settings.
type DB struct {
	Host    string
	Port    string
	User    string
	Pass    string
	Name    string
	Migrate bool
}

// DSN returns a postgres:// URL usable by pgx and golang-migrate.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Kafka holds broker and topic settings. Empty brokers disable Kafka.
type Kafka struct {
	Brokers            []string
	OrdersTopic        string
	GroupID            string
	NotificationsTopic string
}

// Auth holds bearer token verification settings.
type Auth struct {
	Secret string
	Issuer string
}

// Fee is the versioned fee rate table.
type Fee struct {
	Version           string
	BaseFee           float64
	PerKm             float64
	FallbackFee       float64
	UrgentMultiplier  float64
	ExpressMultiplier float64
}

// BidBounds limits bid amounts relative to the base fee estimate, per job kind.
type BidBounds struct {
	OrderMin float64
	OrderMax float64
	P2PMin   float64
	P2PMax   float64
}

// RateLimit configures the per-requester token bucket.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// NotifyRetry configures notification publish retries.
type NotifyRetry struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// Pprof configures the profiling listener. It is off by default.
type Pprof struct {
	Enabled bool
	Addr    string
	User    string
	Pass    string
}

// Log selects the log backend and level.
type Log struct {
	Level   string
	Backend string
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := Default()
	e := &envReader{}

	cfg.Port = e.int("PORT", cfg.Port)
	cfg.OperationTimeout = e.duration("OPERATION_TIMEOUT", cfg.OperationTimeout)
	cfg.Storage = e.str("STORAGE", cfg.Storage)

	cfg.DB.Host = e.str("POSTGRES_HOST", cfg.DB.Host)
	cfg.DB.Port = e.str("POSTGRES_PORT", cfg.DB.Port)
	cfg.DB.User = e.str("POSTGRES_USER", cfg.DB.User)
	cfg.DB.Pass = e.str("POSTGRES_PASSWORD", cfg.DB.Pass)
	cfg.DB.Name = e.str("POSTGRES_DB", cfg.DB.Name)
	cfg.DB.Migrate = e.bool("POSTGRES_MIGRATE", cfg.DB.Migrate)
	if _, err := cast.ToUint16E(cfg.DB.Port); err != nil {
		e.fail("POSTGRES_PORT", err)
	}

	cfg.Kafka.Brokers = e.list("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.OrdersTopic = e.str("KAFKA_ORDERS_TOPIC", cfg.Kafka.OrdersTopic)
	cfg.Kafka.GroupID = e.str("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	cfg.Kafka.NotificationsTopic = e.str("KAFKA_NOTIFICATIONS_TOPIC", cfg.Kafka.NotificationsTopic)

	cfg.Auth.Secret = e.str("AUTH_JWT_SECRET", cfg.Auth.Secret)
	cfg.Auth.Issuer = e.str("AUTH_JWT_ISSUER", cfg.Auth.Issuer)

	cfg.Fee.Version = e.str("FEE_RATE_VERSION", cfg.Fee.Version)
	cfg.Fee.BaseFee = e.float("FEE_BASE", cfg.Fee.BaseFee)
	cfg.Fee.PerKm = e.float("FEE_PER_KM", cfg.Fee.PerKm)
	cfg.Fee.FallbackFee = e.float("FEE_FALLBACK", cfg.Fee.FallbackFee)
	cfg.Fee.UrgentMultiplier = e.float("FEE_URGENT_MULTIPLIER", cfg.Fee.UrgentMultiplier)
	cfg.Fee.ExpressMultiplier = e.float("FEE_EXPRESS_MULTIPLIER", cfg.Fee.ExpressMultiplier)

	cfg.Bids.OrderMin = e.float("BID_ORDER_MIN_FACTOR", cfg.Bids.OrderMin)
	cfg.Bids.OrderMax = e.float("BID_ORDER_MAX_FACTOR", cfg.Bids.OrderMax)
	cfg.Bids.P2PMin = e.float("BID_P2P_MIN_FACTOR", cfg.Bids.P2PMin)
	cfg.Bids.P2PMax = e.float("BID_P2P_MAX_FACTOR", cfg.Bids.P2PMax)

	cfg.RateLimit.Enabled = e.bool("RATE_LIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Rate = e.float("RATE_LIMIT_RATE", cfg.RateLimit.Rate)
	cfg.RateLimit.Burst = e.int("RATE_LIMIT_BURST", cfg.RateLimit.Burst)
	cfg.RateLimit.TTL = e.duration("RATE_LIMIT_TTL", cfg.RateLimit.TTL)
	cfg.RateLimit.MaxBuckets = e.int("RATE_LIMIT_MAX_BUCKETS", cfg.RateLimit.MaxBuckets)

	cfg.Notify.MaxAttempts = e.int("NOTIFY_MAX_ATTEMPTS", cfg.Notify.MaxAttempts)
	cfg.Notify.BaseDelay = e.duration("NOTIFY_BASE_DELAY", cfg.Notify.BaseDelay)
	cfg.Notify.MaxDelay = e.duration("NOTIFY_MAX_DELAY", cfg.Notify.MaxDelay)

	cfg.Log.Level = e.str("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Backend = e.str("LOG_BACKEND", cfg.Log.Backend)

	cfg.Pprof.Enabled = e.bool("PPROF_ENABLED", cfg.Pprof.Enabled)
	cfg.Pprof.Addr = e.str("PPROF_ADDR", cfg.Pprof.Addr)
	cfg.Pprof.User = e.str("PPROF_USER", cfg.Pprof.User)
	cfg.Pprof.Pass = e.str("PPROF_PASS", cfg.Pprof.Pass)

	if e.err != nil {
		return nil, e.err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Storage, "storage", cfg.Storage, "storage backend: postgres or memory")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Storage != StoragePostgres && c.Storage != StorageMemory {
		return fmt.Errorf("invalid storage %q", c.Storage)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", c.OperationTimeout)
	}
	if c.Bids.OrderMin <= 0 || c.Bids.OrderMin > c.Bids.OrderMax {
		return fmt.Errorf("invalid order bid bounds [%v, %v]", c.Bids.OrderMin, c.Bids.OrderMax)
	}
	if c.Bids.P2PMin <= 0 || c.Bids.P2PMin > c.Bids.P2PMax {
		return fmt.Errorf("invalid p2p bid bounds [%v, %v]", c.Bids.P2PMin, c.Bids.P2PMax)
	}
	if c.Fee.FallbackFee <= 0 || c.Fee.BaseFee < 0 || c.Fee.PerKm < 0 {
		return fmt.Errorf("invalid fee table %q", c.Fee.Version)
	}
	if c.Log.Backend != "slog" && c.Log.Backend != "zap" {
		return fmt.Errorf("invalid log backend %q", c.Log.Backend)
	}
	return nil
}

// envReader parses variables with cast and keeps the first failure.
type envReader struct {
	err error
}

func (e *envReader) fail(key string, err error) {
	if e.err == nil {
		e.err = fmt.Errorf("env %s: %w", key, err)
	}
}

func (e *envReader) lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) str(key, def string) string {
	if v, ok := e.lookup(key); ok {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return f
}

func (e *envReader) bool(key string, def bool) bool {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return b
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	d, err := cast.ToDurationE(v)
	if err != nil {
		e.fail(key, err)
		return def
	}
	return d
}

func (e *envReader) list(key string, def []string) []string {
	v, ok := e.lookup(key)
	if !ok {
		return def
	}
	out := make([]string, 0)
	for _, s := range cast.ToStringSlice(strings.ReplaceAll(v, ",", " ")) {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
