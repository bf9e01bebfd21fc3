package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	APIKey         string `mapstructure:"API_KEY"`
	TessdataPrefix string `mapstructure:"TESSDATA_PREFIX"`
	OCRLanguage    string `mapstructure:"OCR_LANGUAGE"`
	MaxUploadBytes int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	DBMaxConns     int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32  `mapstructure:"DB_MIN_CONNS"`
	LogLevel       string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from the environment, with an optional .env file
// for local development. DATABASE_URL and API_KEY have no sane defaults and
// must be provided.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata")
	v.SetDefault("OCR_LANGUAGE", "eng")
	v.SetDefault("MAX_UPLOAD_BYTES", 10*1024*1024)
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 2)
	v.SetDefault("LOG_LEVEL", "info")

	// Bind explicitly so Unmarshal picks up plain env vars as well.
	v.BindEnv("PORT")
	v.BindEnv("DATABASE_URL")
	v.BindEnv("API_KEY")
	v.BindEnv("TESSDATA_PREFIX")
	v.BindEnv("OCR_LANGUAGE")
	v.BindEnv("MAX_UPLOAD_BYTES")
	v.BindEnv("DB_MAX_CONNS")
	v.BindEnv("DB_MIN_CONNS")
	v.BindEnv("LOG_LEVEL")

	// A missing .env file is fine; env vars alone are enough.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY is required")
	}

	return cfg, nil
}
