package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Store struct {
		Driver         string `yaml:"driver"` // airtable | local
		BaseURL        string `yaml:"base_url"`
		BaseID         string `yaml:"base_id"`
		CompaniesTable string `yaml:"companies_table"`
		DBFile         string `yaml:"db_file"`
	} `yaml:"store"`

	Fetch struct {
		JinaBaseURL        string `yaml:"jina_base_url"`
		ScraperAPIBaseURL  string `yaml:"scraperapi_base_url"`
		ScrapingAntBaseURL string `yaml:"scrapingant_base_url"`
		APIHubBaseURL      string `yaml:"apihub_base_url"`
		ContentSelector    string `yaml:"content_selector"`
		TimeoutSeconds     int    `yaml:"timeout_seconds"`
	} `yaml:"fetch"`

	Extract struct {
		BaseURL       string   `yaml:"base_url"`
		Model         string   `yaml:"model"`
		Temperature   float64  `yaml:"temperature"`
		MaxTokens     int      `yaml:"max_tokens"`
		RatePerMinute int      `yaml:"rate_per_minute"`
		MaxSources    int      `yaml:"max_sources"`
		Tags          []string `yaml:"tags"`
	} `yaml:"extract"`
}

func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	err = yaml.Unmarshal(b, &cfg)
	return cfg, err
}

// FetchTimeout bounds every outbound provider call; none of the vendors
// specifies a timeout upstream.
func (c Config) FetchTimeout() time.Duration {
	if c.Fetch.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}
