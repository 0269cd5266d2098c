// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	Addr         string        `envconfig:"PAYROLL_ADDR" default:":8080"`
	ReadTimeout  time.Duration `envconfig:"PAYROLL_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"PAYROLL_WRITE_TIMEOUT" default:"15s"`

	// StoreBackend selects the record store: "sqlite", "rest" or "memory".
	StoreBackend string `envconfig:"PAYROLL_STORE" default:"sqlite"`
	SQLitePath   string `envconfig:"PAYROLL_SQLITE_PATH" default:"payroll.db"`

	// Remote record-store credentials (rest backend only).
	RecordStoreBaseURL string `envconfig:"RECORD_STORE_BASE_URL" default:"https://tables.example.com/api/v1/bases"`
	RecordStoreBaseID  string `envconfig:"RECORD_STORE_BASE_ID"`
	RecordStoreToken   string `envconfig:"RECORD_STORE_TOKEN"`

	// Punch retrieval bounds.
	PunchPageSize   int `envconfig:"PAYROLL_PUNCH_PAGE_SIZE" default:"500"`
	PunchMaxRecords int `envconfig:"PAYROLL_PUNCH_MAX_RECORDS" default:"10000"`

	CORSOrigins []string `envconfig:"PAYROLL_CORS_ORIGINS" default:"http://localhost:5173,http://localhost:8080"`
}

// Load reads configuration from .env files and the environment.
// .env.local wins over .env, matching the deployment convention.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.StoreBackend == "rest" {
		if cfg.RecordStoreBaseID == "" || cfg.RecordStoreToken == "" {
			return nil, errors.New("rest store requires RECORD_STORE_BASE_ID and RECORD_STORE_TOKEN")
		}
	}
	return &cfg, nil
}
