package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	MasterSecret string
	GinMode      string
	TLSCertFile  string
	TLSKeyFile   string
	TokenExpiry  time.Duration

	SessionStateFile string

	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RedisSessionKey string

	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOBucket    string
	MinIOUseSSL    bool

	MaxUploadBytes  int64
	SimulateLatency bool

	LogDev         bool
	MetricsEnabled bool
	TraceStdout    bool
}

type Env interface {
	Getenv(key string) string
}

type osEnv struct{}

func (osEnv) Getenv(key string) string { return os.Getenv(key) }

func LoadConfig() (Config, error) {
	return LoadConfigFromEnv(osEnv{})
}

func LoadConfigFromEnv(env Env) (Config, error) {
	cfg := Config{
		Port:             3000,
		GinMode:          "release",
		TokenExpiry:      7 * 24 * time.Hour,
		SessionStateFile: "./data/session.json",
		RedisSessionKey:  "user",
		MinIOBucket:      "filechat",
		MaxUploadBytes:   32 << 20,
		SimulateLatency:  true,
		MetricsEnabled:   true,
	}

	if raw := env.Getenv("PORT"); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT")
		}
		cfg.Port = port
	}

	cfg.MasterSecret = env.Getenv("MASTER_SECRET")
	if cfg.MasterSecret == "" {
		return Config{}, fmt.Errorf("MASTER_SECRET is required")
	}

	if raw := env.Getenv("GIN_MODE"); raw != "" {
		cfg.GinMode = raw
	}

	cfg.TLSCertFile = env.Getenv("TLS_CERT_FILE")
	cfg.TLSKeyFile = env.Getenv("TLS_KEY_FILE")

	if raw := env.Getenv("TOKEN_EXPIRY_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			return Config{}, fmt.Errorf("invalid TOKEN_EXPIRY_SECONDS")
		}
		cfg.TokenExpiry = time.Duration(seconds) * time.Second
	}

	if raw := env.Getenv("SESSION_STATE_FILE"); raw != "" {
		cfg.SessionStateFile = raw
	}

	cfg.RedisAddr = env.Getenv("REDIS_ADDR")
	cfg.RedisPassword = env.Getenv("REDIS_PASSWORD")
	if raw := env.Getenv("REDIS_DB"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil || db < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_DB")
		}
		cfg.RedisDB = db
	}
	if raw := env.Getenv("REDIS_SESSION_KEY"); raw != "" {
		cfg.RedisSessionKey = raw
	}

	cfg.MinIOEndpoint = env.Getenv("MINIO_ENDPOINT")
	cfg.MinIOAccessKey = env.Getenv("MINIO_ACCESS_KEY")
	cfg.MinIOSecretKey = env.Getenv("MINIO_SECRET_KEY")
	if raw := env.Getenv("MINIO_BUCKET"); raw != "" {
		cfg.MinIOBucket = raw
	}
	if cfg.MinIOEndpoint != "" && (cfg.MinIOAccessKey == "" || cfg.MinIOSecretKey == "") {
		return Config{}, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required with MINIO_ENDPOINT")
	}

	if raw := env.Getenv("MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES")
		}
		cfg.MaxUploadBytes = n
	}

	var err error
	if cfg.MinIOUseSSL, err = boolFromEnv(env, "MINIO_USE_SSL", false); err != nil {
		return Config{}, err
	}
	if cfg.SimulateLatency, err = boolFromEnv(env, "SIMULATE_LATENCY", cfg.SimulateLatency); err != nil {
		return Config{}, err
	}
	if cfg.LogDev, err = boolFromEnv(env, "LOG_DEV", false); err != nil {
		return Config{}, err
	}
	if cfg.MetricsEnabled, err = boolFromEnv(env, "METRICS_ENABLED", cfg.MetricsEnabled); err != nil {
		return Config{}, err
	}
	if cfg.TraceStdout, err = boolFromEnv(env, "TRACE_STDOUT", false); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func boolFromEnv(env Env, key string, def bool) (bool, error) {
	raw := env.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}
