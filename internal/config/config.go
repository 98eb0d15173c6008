package config

import (
	"fmt"
	"os"
	"time"
)

// Config carries all environment-provided settings.
type Config struct {
	Port          string
	AdminPassword string

	RosterBaseURL string
	RosterAPIKey  string
	RosterBaseID  string
	RosterTable   string

	GeminiAPIKey string
	Model        string

	FundingCSVURL   string
	FundingXLSXPath string
	FundingRefresh  time.Duration

	DraftSignoff string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load reads configuration from the environment, failing fast when a
// required variable is absent.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		RosterBaseURL:   getEnv("AIRTABLE_BASE_URL", "https://api.airtable.com/v0"),
		RosterAPIKey:    os.Getenv("AIRTABLE_API_KEY"),
		RosterBaseID:    os.Getenv("AIRTABLE_BASE_ID"),
		RosterTable:     getEnv("AIRTABLE_TABLE_NAME", "Members"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		Model:           getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		FundingCSVURL:   os.Getenv("FUNDING_CSV_URL"),
		FundingXLSXPath: os.Getenv("FUNDING_XLSX_PATH"),
		FundingRefresh:  getDuration("FUNDING_REFRESH", time.Hour),
		DraftSignoff:    getEnv("DRAFT_SIGNOFF", "James"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 2*time.Minute),
	}

	for name, value := range map[string]string{
		"ADMIN_PASSWORD":   cfg.AdminPassword,
		"AIRTABLE_API_KEY": cfg.RosterAPIKey,
		"AIRTABLE_BASE_ID": cfg.RosterBaseID,
		"GEMINI_API_KEY":   cfg.GeminiAPIKey,
	} {
		if value == "" {
			return nil, fmt.Errorf("missing required environment variable %s", name)
		}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
