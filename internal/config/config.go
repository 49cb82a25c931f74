package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port     string
	DBPath   string
	APIToken string

	ReportsPath string
	Timezone    string

	// Calendar: comma-separated ICS feed URLs (or local file paths).
	ICSURLs []string

	// Weather: Open-Meteo forecast coordinates.
	Latitude  float64
	Longitude float64

	// Spotify credentials; leave empty to run without music enrichment.
	SpotifyID     string
	SpotifySecret string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("MOODCAST_PORT", "8080"),
		DBPath:        getEnv("MOODCAST_DB_PATH", ""),
		APIToken:      getEnv("MOODCAST_API_TOKEN", ""),
		ReportsPath:   getEnv("MOODCAST_REPORTS_PATH", ""),
		Timezone:      getEnv("MOODCAST_TIMEZONE", "Europe/Paris"),
		SpotifyID:     getEnv("SPOTIFY_ID", ""),
		SpotifySecret: getEnv("SPOTIFY_SECRET", ""),
	}

	if urls := getEnv("MOODCAST_ICS_URLS", ""); urls != "" {
		for _, u := range strings.Split(urls, ",") {
			if u = strings.TrimSpace(u); u != "" {
				cfg.ICSURLs = append(cfg.ICSURLs, u)
			}
		}
	}

	var err error
	// Default coordinates: Bordeaux.
	if cfg.Latitude, err = getEnvFloat("MOODCAST_LATITUDE", 44.8404); err != nil {
		return nil, err
	}
	if cfg.Longitude, err = getEnvFloat("MOODCAST_LONGITUDE", -0.5805); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("MOODCAST_DB_PATH is required")
	}
	if c.ReportsPath == "" {
		return fmt.Errorf("MOODCAST_REPORTS_PATH is required")
	}
	if c.APIToken == "" {
		return fmt.Errorf("MOODCAST_API_TOKEN is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return f, nil
}
