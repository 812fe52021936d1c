package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Default source locations for the two NSDC feeds.
const (
	DefaultPersonsURL = "https://sanctions-t.rnbo.gov.ua/api/fizosoba/"
	DefaultLegalURL   = "https://sanctions-t.rnbo.gov.ua/api/jurosoba/"
	DefaultUserAgent  = "nsdc-crawler/1.0 (+https://drs.nsdc.gov.ua/)"
)

// Config is the full runtime configuration of the crawler binary.
type Config struct {
	Dataset    string
	PersonsURL string
	LegalURL   string
	DataPath   string
	// Interval between runs; zero runs the crawl once and exits.
	Interval time.Duration

	HTTP     HTTPConfig
	Fetch    FetchConfig
	Log      LogConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

// HTTPConfig configures the ops server (health and metrics).
type HTTPConfig struct {
	Addr string
}

// FetchConfig controls how source documents are downloaded.
type FetchConfig struct {
	Timeout    time.Duration
	Retries    int
	Backoff    time.Duration
	MaxBackoff time.Duration
	// CacheTTL keeps fetched bodies in Redis; zero disables the cache.
	CacheTTL  time.Duration
	UserAgent string
}

type LogConfig struct {
	Level  string
	Format string
}

// PostgresConfig is optional: an empty URL keeps entities in memory.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig is optional: an empty URL disables the fetch cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig is optional: no brokers means entities are not streamed.
type KafkaConfig struct {
	Brokers []string
	Topic   string
	// Partitions and ReplicationFactor apply when the topic is created.
	Partitions        int32
	ReplicationFactor int16
}

// FromEnv builds a Config from environment variables so main stays lean.
// Malformed numbers and durations are reported instead of silently defaulted.
func FromEnv() (Config, error) {
	e := &envReader{}
	cfg := Config{
		Dataset:    e.str("NSDC_DATASET", "ua_nsdc_sanctions"),
		PersonsURL: e.str("NSDC_PERSONS_URL", DefaultPersonsURL),
		LegalURL:   e.str("NSDC_LEGAL_URL", DefaultLegalURL),
		DataPath:   e.str("NSDC_DATA_PATH", "./data"),
		Interval:   e.duration("NSDC_INTERVAL", 0),
		HTTP: HTTPConfig{
			Addr: e.str("NSDC_ADDR", ":9090"),
		},
		Fetch: FetchConfig{
			Timeout:    e.duration("NSDC_HTTP_TIMEOUT", 30*time.Second),
			Retries:    e.int("NSDC_FETCH_RETRIES", 3),
			Backoff:    e.duration("NSDC_FETCH_BACKOFF", 500*time.Millisecond),
			MaxBackoff: e.duration("NSDC_FETCH_MAX_BACKOFF", 5*time.Second),
			CacheTTL:   e.duration("NSDC_FETCH_CACHE_TTL", 0),
			UserAgent:  e.str("NSDC_USER_AGENT", DefaultUserAgent),
		},
		Log: LogConfig{
			Level:  e.str("LOG_LEVEL", "info"),
			Format: e.str("LOG_FORMAT", "json"),
		},
		Postgres: PostgresConfig{
			URL:             e.str("DATABASE_URL", ""),
			MaxOpenConns:    e.int("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    e.int("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: e.duration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Redis: RedisConfig{
			URL:          e.str("REDIS_URL", ""),
			PoolSize:     e.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: e.int("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  e.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  e.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: e.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:           e.list("KAFKA_BROKERS"),
			Topic:             e.str("KAFKA_TOPIC", "nsdc.entities"),
			Partitions:        int32(e.int("KAFKA_PARTITIONS", 1)),
			ReplicationFactor: int16(e.int("KAFKA_REPLICATION_FACTOR", 1)),
		},
	}
	if e.err != nil {
		return Config{}, e.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the invariants FromEnv cannot express through defaults.
func (c Config) Validate() error {
	switch {
	case c.Dataset == "":
		return fmt.Errorf("config: dataset name is required")
	case c.PersonsURL == "" || c.LegalURL == "":
		return fmt.Errorf("config: both feed URLs are required")
	case c.Fetch.Retries < 1:
		return fmt.Errorf("config: NSDC_FETCH_RETRIES must be at least 1, got %d", c.Fetch.Retries)
	case c.Fetch.MaxBackoff < c.Fetch.Backoff:
		return fmt.Errorf("config: NSDC_FETCH_MAX_BACKOFF %s is below NSDC_FETCH_BACKOFF %s", c.Fetch.MaxBackoff, c.Fetch.Backoff)
	case c.Interval < 0:
		return fmt.Errorf("config: NSDC_INTERVAL must not be negative")
	}
	return nil
}

// envReader keeps the first parse error so FromEnv reads as a flat literal.
type envReader struct {
	err error
}

func (e *envReader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e *envReader) int(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.fail(fmt.Errorf("config: %s: invalid integer %q: %w", key, v, err))
		return def
	}
	return n
}

func (e *envReader) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		e.fail(fmt.Errorf("config: %s: invalid duration %q: %w", key, v, err))
		return def
	}
	return d
}

func (e *envReader) list(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
