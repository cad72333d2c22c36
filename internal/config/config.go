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

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	DriverPostgres = "postgres"
	DriverMemory   = "memory"
	DriverRedis    = "redis"

	UploadDisk = "disk"
	UploadS3   = "s3"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Upload   UploadConfig
}

type AppConfig struct {
	AppName       string
	Environment   string
	HTTPPort      string
	StorageDriver string
	SeedDemoData  bool
}

func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, EnvProduction)
}

type DatabaseConfig struct {
	URL        string
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout        time.Duration
	PoolMaxConns          int32
	PoolMinConns          int32
	PoolMaxConnLifetime   time.Duration
	PoolMaxConnIdleTime   time.Duration
	PoolHealthCheckPeriod time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

type SessionConfig struct {
	Store      string
	Secret     string
	CookieName string
	TTL        time.Duration
}

type UploadConfig struct {
	Backend  string
	Dir      string
	MaxBytes int64

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

const devSessionSecret = "dev-insecure-session-secret"

var (
	errMissingRequiredEnv = errors.New("missing required environment variables")
	errInvalidEnv         = errors.New("invalid environment variables")
)

// Load reads the process environment, after merging an optional .env file.
// Unset values fall back to development defaults; production refuses to start
// without a session secret.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{}

	var missing, invalid []string
	opt := func(key, fallback string) string {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return fallback
		}
		return v
	}
	optInt := func(key string, fallback int64) int64 {
		raw := opt(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			invalid = append(invalid, key)
			return fallback
		}
		return v
	}
	optBool := func(key string) bool {
		v, err := strconv.ParseBool(opt(key, "false"))
		if err != nil {
			invalid = append(invalid, key)
			return false
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:       opt("APP_NAME", "job-board"),
		Environment:   strings.ToLower(opt("APP_ENV", EnvDevelopment)),
		HTTPPort:      opt("HTTP_PORT", opt("PORT", "5000")),
		StorageDriver: strings.ToLower(opt("STORAGE_DRIVER", DriverPostgres)),
		SeedDemoData:  optBool("SEED_DEMO_DATA"),
	}

	cfg.Database = DatabaseConfig{
		URL:        opt("DATABASE_URL", ""),
		DBHost:     opt("DB_HOST", "localhost"),
		DBPort:     opt("DB_PORT", "5432"),
		DBName:     opt("DB_NAME", "jobboard"),
		DBUser:     opt("DB_USER", "postgres"),
		DBPassword: getenv("DB_PASSWORD"),
		DBSSLMode:  opt("DB_SSL_MODE", "disable"),

		ConnectTimeout:        time.Duration(optInt("DB_CONNECT_TIMEOUT_SECONDS", 5)) * time.Second,
		PoolMaxConns:          int32(optInt("DB_MAX_CONNS", 0)),
		PoolMinConns:          int32(optInt("DB_MIN_CONNS", 0)),
		PoolMaxConnLifetime:   time.Duration(optInt("DB_MAX_CONN_LIFETIME_SECONDS", 0)) * time.Second,
		PoolMaxConnIdleTime:   time.Duration(optInt("DB_MAX_CONN_IDLE_SECONDS", 0)) * time.Second,
		PoolHealthCheckPeriod: time.Duration(optInt("DB_HEALTH_CHECK_SECONDS", 0)) * time.Second,
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: getenv("REDIS_PASSWORD"),
		DB:       int(optInt("REDIS_DB", 0)),
	}

	cfg.Session = SessionConfig{
		Store:      strings.ToLower(opt("SESSION_STORE", DriverRedis)),
		Secret:     opt("SESSION_SECRET", ""),
		CookieName: opt("SESSION_COOKIE_NAME", "jobboard.sid"),
		TTL:        time.Duration(optInt("SESSION_TTL_HOURS", 24)) * time.Hour,
	}
	if cfg.Session.Secret == "" {
		if cfg.App.IsProduction() {
			missing = append(missing, "SESSION_SECRET")
		} else {
			cfg.Session.Secret = devSessionSecret
		}
	}
	if cfg.Session.TTL <= 0 {
		invalid = append(invalid, "SESSION_TTL_HOURS")
	}

	cfg.Upload = UploadConfig{
		Backend:     strings.ToLower(opt("UPLOAD_BACKEND", UploadDisk)),
		Dir:         opt("UPLOAD_DIR", "./public/uploads"),
		MaxBytes:    optInt("UPLOAD_MAX_BYTES", 5*1024*1024),
		S3Bucket:    opt("S3_BUCKET", ""),
		S3Region:    opt("S3_REGION", "us-east-1"),
		S3Endpoint:  opt("S3_ENDPOINT", ""),
		S3AccessKey: opt("S3_ACCESS_KEY", ""),
		S3SecretKey: opt("S3_SECRET_KEY", ""),
		S3PublicURL: opt("S3_PUBLIC_URL", ""),
	}
	if cfg.Upload.Backend == UploadS3 && cfg.Upload.S3Bucket == "" {
		missing = append(missing, "S3_BUCKET")
	}

	switch cfg.App.StorageDriver {
	case DriverPostgres, DriverMemory:
	default:
		invalid = append(invalid, "STORAGE_DRIVER")
	}
	switch cfg.Session.Store {
	case DriverRedis, DriverMemory:
	default:
		invalid = append(invalid, "SESSION_STORE")
	}
	switch cfg.Upload.Backend {
	case UploadDisk, UploadS3:
	default:
		invalid = append(invalid, "UPLOAD_BACKEND")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errInvalidEnv, strings.Join(invalid, ", "))
	}

	return cfg, nil
}
