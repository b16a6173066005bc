package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath     string
	ConfigPath string

	ReportName string
	Policy     string
	ExportXLSX bool

	DateOutputLayout string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:     getEnv("DB_PATH", filepath.Join(cwd, "data", "app.db")),
		ConfigPath: getEnv("CONFIG_PATH", filepath.Join(cwd, "config", "Report Normalization.xlsx")),

		ReportName: getEnv("REPORT_NAME", ""),
		Policy:     getEnv("NORMALIZE_POLICY", "lenient"),
		ExportXLSX: getEnvBool("EXPORT_XLSX", false),

		DateOutputLayout: getEnv("DATE_OUTPUT_LAYOUT", "01/02/2006"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
