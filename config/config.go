package config

import (
	"os"
	"path/filepath"
)

// Config holds everything read from the environment, built once in main and
// passed into the handlers. KVURL set means the Redis backend; empty means
// the local SQLite backend.
type Config struct {
	Port            string
	KVURL           string
	SQLitePath      string
	AdminPassword   string // plaintext secret, or a bcrypt hash ($2…)
	JWTSecret       []byte
	SpecialDateName string
}

func FromEnv() *Config {
	cfg := &Config{
		Port:            os.Getenv("PORT"),
		KVURL:           os.Getenv("KV_URL"),
		SQLitePath:      os.Getenv("SQLITE_PATH"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		JWTSecret:       []byte(os.Getenv("JWT_SECRET")),
		SpecialDateName: os.Getenv("SPECIAL_DATE_NAME"),
	}
	if cfg.Port == "" {
		cfg.Port = ":8080"
	} else if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	if cfg.SQLitePath == "" {
		cfg.SQLitePath = filepath.Join("instance", "local_dev.sqlite3")
	}
	if len(cfg.JWTSecret) == 0 {
		// dev fallback, override in production
		cfg.JWTSecret = []byte("a-very-secret-key-for-development")
	}
	if cfg.SpecialDateName == "" {
		cfg.SpecialDateName = "Fasting Day"
	}
	return cfg
}
