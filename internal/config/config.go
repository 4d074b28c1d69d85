package config

import (
	"fmt"
	"os"
	"strconv"

	"vesselwatch/internal/logger"
)

type Config struct {
	// Google Cloud Configuration
	GoogleCloudProject      string
	GoogleServiceAccountKey string

	// Vessel roster: Google Sheets URL/ID or a local .csv/.xlsx file
	VesselSpreadsheetID string
	VesselRosterFile    string

	// Report sources
	ReportsDir      string
	ReportsFolderID string // optional Google Drive folder
	TranslatedDir   string

	// Matching and retry settings
	FuzzyMatchThreshold float64
	TranslateRetries    int
	SheetsRetries       int

	// Optional OpenAI-backed translation
	OpenAIAPIKey string

	// Logging Configuration
	LogLevel      string
	LogFormat     string
	LogTimeFormat string
	LogOutput     string
}

func Load() (*Config, error) {
	config := &Config{
		GoogleCloudProject:      getEnv("GOOGLE_CLOUD_PROJECT", ""),
		GoogleServiceAccountKey: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		VesselSpreadsheetID:     getEnv("VESSEL_SPREADSHEET_ID", getEnv("VESSEL_SPREADSHEET_URL", "")),
		VesselRosterFile:        getEnv("VESSEL_ROSTER_FILE", ""),
		ReportsDir:              getEnv("REPORTS_DIR", "input_pdfs"),
		ReportsFolderID:         getEnv("REPORTS_FOLDER_ID", ""),
		TranslatedDir:           getEnv("TRANSLATED_DIR", "translated_pdfs"),
		FuzzyMatchThreshold:     getEnvFloat("FUZZY_MATCH_THRESHOLD", 0.80),
		TranslateRetries:        getEnvInt("TRANSLATE_RETRIES", 3),
		SheetsRetries:           getEnvInt("SHEETS_RETRIES", 3),
		OpenAIAPIKey:            getEnv("OPENAI_API_KEY", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		LogFormat:               getEnv("LOG_FORMAT", "console"),
		LogTimeFormat:           getEnv("LOG_TIME_FORMAT", "2006-01-02T15:04:05Z07:00"),
		LogOutput:               getEnv("LOG_OUTPUT", "stdout"),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.GoogleCloudProject == "" {
		return fmt.Errorf("GOOGLE_CLOUD_PROJECT is required")
	}
	if c.VesselSpreadsheetID == "" && c.VesselRosterFile == "" {
		return fmt.Errorf("either VESSEL_SPREADSHEET_ID or VESSEL_ROSTER_FILE is required")
	}
	if c.FuzzyMatchThreshold <= 0 || c.FuzzyMatchThreshold > 1 {
		return fmt.Errorf("FUZZY_MATCH_THRESHOLD must be in (0, 1], got %v", c.FuzzyMatchThreshold)
	}
	return nil
}

// GetLoggerConfig returns a logger configuration from the main config
func (c *Config) GetLoggerConfig() logger.LogConfig {
	return logger.LogConfig{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		TimeFormat: c.LogTimeFormat,
		Output:     c.LogOutput,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
