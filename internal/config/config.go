package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devSessionSecret = "dev_fallback_secret"

// Config holds everything the server reads from the environment.
type Config struct {
	Port          string
	GinMode       string
	DBDriver      string
	DBDSN         string
	SessionSecret string

	LogMode string
	LogFile string

	S3 S3Config

	UploadMaxBytes int64

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
}

// S3Config describes the bucket product images are uploaded to.
type S3Config struct {
	Region     string
	Endpoint   string
	Bucket     string
	AccessKey  string
	SecretKey  string
	PublicURL  string
	PublicRead bool
}

// Enabled reports whether enough is configured to attempt uploads.
func (s S3Config) Enabled() bool {
	return s.Bucket != "" && s.Region != ""
}

// Load reads .env files (current dir, then parents, so running from
// cmd/server works) and builds a Config from the environment.
func Load() Config {
	_ = godotenv.Overload(".env", "../.env", "../../.env")
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() Config {
	return Config{
		Port:          getenv("APP_PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		DBDriver:      strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBDSN:         os.Getenv("DB_DSN"),
		SessionSecret: getenv("SESSION_SECRET", devSessionSecret),
		LogMode:       getenv("LOG_MODE", "development"),
		LogFile:       os.Getenv("LOG_FILE"),
		S3: S3Config{
			Region:     os.Getenv("S3_REGION"),
			Endpoint:   strings.TrimRight(os.Getenv("S3_ENDPOINT"), "/"),
			Bucket:     os.Getenv("S3_BUCKET"),
			AccessKey:  os.Getenv("S3_ACCESS_KEY"),
			SecretKey:  os.Getenv("S3_SECRET_KEY"),
			PublicURL:  strings.TrimRight(os.Getenv("S3_PUBLIC_URL"), "/"),
			PublicRead: getbool("S3_PUBLIC_READ", true),
		},
		UploadMaxBytes: getint64("UPLOAD_MAX_BYTES", 5<<20),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        int(getint64("REDIS_DB", 0)),
		CacheTTL:       getduration("CACHE_TTL", 5*time.Minute),
	}
}

// Validate reports configuration the server cannot start without.
func (c Config) Validate() error {
	var errs []error
	if c.DBDSN == "" {
		errs = append(errs, errors.New("DB_DSN is empty (check your .env)"))
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.UploadMaxBytes <= 0 {
		errs = append(errs, errors.New("UPLOAD_MAX_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// UsesDevSecret is true when SESSION_SECRET was not set.
func (c Config) UsesDevSecret() bool {
	return c.SessionSecret == devSessionSecret
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint64(key string, def int64) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(os.Getenv(key)), 10, 64)
	if err != nil {
		return def
	}
	return v
}

func getbool(key string, def bool) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}

func getduration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return def
	}
	return v
}
