package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Worker    WorkerConfig
	Redis     RedisConfig
	Postgres  PostgresConfig
	RateLimit RateLimitConfig
	Session   SessionConfig
	Metrics   MetricsConfig
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CookieSecret string
	CORSOrigin   string
}

type WorkerConfig struct {
	Addr        string
	MetadataDir string
	Concurrency int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	// Reconnect budget: beyond MaxRetries the client gives up for good.
	MaxRetries int
	CapDelay   time.Duration
}

type PostgresConfig struct {
	Addr     string
	User     string
	Password string
	Database string

	PoolSize    int
	IdleTimeout time.Duration
	DialTimeout time.Duration

	// Query retry policy: RetryQuery attempts, each separated by a uniform
	// random wait in [RetryWaitMin, RetryWaitMax].
	RetryQuery   int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

type RateLimitConfig struct {
	Window   time.Duration
	MaxCalls int
}

type SessionConfig struct {
	ExpireDays int
}

type MetricsConfig struct {
	Addr string
}

// Load reads configuration from the environment with sensible defaults.
// A .env.local file in the working directory is merged in first, if present.
func Load() *Config {
	_ = godotenv.Load(".env.local")

	return &Config{
		Server: ServerConfig{
			Addr:         getEnv("SERVER_ADDR", ":8000"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 120*time.Second),
			CookieSecret: getEnv("COOKIE_SECRET", "dev-cookie-secret"),
			CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:3000"),
		},
		Worker: WorkerConfig{
			Addr:        getEnv("WORKER_ADDR", ":9000"),
			MetadataDir: getEnv("WORKER_METADATA_DIR", "metadata"),
			Concurrency: getIntEnv("WORKER_CONCURRENCY", 5),
		},
		Redis: RedisConfig{
			Addr:       getEnv("REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("REDIS_PASSWORD", ""),
			DB:         getIntEnv("REDIS_DB", 0),
			MaxRetries: getIntEnv("REDIS_CONNECTION_MAX_RETRY", 3),
			CapDelay:   getDurationEnv("REDIS_CONNECTION_RETRY_WAIT", 2*time.Second),
		},
		Postgres: PostgresConfig{
			Addr:         getEnv("POSTGRES_ADDR", "localhost:5432"),
			User:         getEnv("POSTGRES_USER", "postgres"),
			Password:     getEnv("POSTGRES_PASSWORD", "postgres"),
			Database:     getEnv("POSTGRES_DB", "camwatch"),
			PoolSize:     getIntEnv("POSTGRES_POOL_SIZE", 20),
			IdleTimeout:  getDurationEnv("POSTGRES_IDLE_TIMEOUT", 30*time.Second),
			DialTimeout:  getDurationEnv("POSTGRES_DIAL_TIMEOUT", 10*time.Second),
			RetryQuery:   getIntEnv("DB_RETRY_QUERY", 5),
			RetryWaitMin: getDurationEnv("DB_RETRY_WAIT_MIN", 1*time.Second),
			RetryWaitMax: getDurationEnv("DB_RETRY_WAIT_MAX", 3*time.Second),
		},
		RateLimit: RateLimitConfig{
			Window:   getDurationEnv("RATE_LIMIT_WINDOW", 15*time.Minute),
			MaxCalls: getIntEnv("RATE_LIMIT_MAX_CALL", 2000),
		},
		Session: SessionConfig{
			ExpireDays: getIntEnv("SESSION_EXPIRE_TIME_IN_DAYS", 15),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("METRICS_ADDR", ":9090"),
		},
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
