package config

import (
	"errors"
	"fmt"
)

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}

	switch cfg.Store.Driver {
	case "airtable":
		if cfg.Store.BaseID == "" {
			errs = append(errs, "store.base_id is required when store.driver=airtable")
		}
	case "local":
		if cfg.Store.DBFile == "" {
			errs = append(errs, "store.db_file is required when store.driver=local")
		}
	default:
		errs = append(errs, fmt.Sprintf("store.driver must be airtable or local, got %q", cfg.Store.Driver))
	}

	if cfg.Fetch.JinaBaseURL == "" {
		errs = append(errs, "fetch.jina_base_url is required")
	}
	if cfg.Fetch.TimeoutSeconds < 0 {
		errs = append(errs, "fetch.timeout_seconds must be >= 0")
	}

	if cfg.Extract.Model == "" {
		errs = append(errs, "extract.model is required")
	}
	if cfg.Extract.MaxTokens <= 0 {
		errs = append(errs, "extract.max_tokens must be > 0")
	}
	if cfg.Extract.RatePerMinute <= 0 {
		errs = append(errs, "extract.rate_per_minute must be > 0")
	}
	if cfg.Extract.MaxSources <= 0 || cfg.Extract.MaxSources > 20 {
		errs = append(errs, "extract.max_sources must be 1..20")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func joinLines(lines []string) string {
	out := ""
	for i, s := range lines {
		if i > 0 {
			out += "\n- "
		}
		out += s
	}
	return out
}
