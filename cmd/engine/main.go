package main

import (
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/joho/godotenv"

	"jobboard-engine/internal/config"
	"jobboard-engine/internal/events"
	"jobboard-engine/internal/extract"
	"jobboard-engine/internal/fetch"
	"jobboard-engine/internal/httpapi"
	"jobboard-engine/internal/pipeline"
	"jobboard-engine/internal/ratelimit"
	"jobboard-engine/internal/secrets"
	"jobboard-engine/internal/store"
	"jobboard-engine/internal/store/airtable"
	"jobboard-engine/internal/store/localdb"
)

// main delegates to run so deferred teardown (instance lock, store handle)
// still executes on the error paths; log.Fatal would skip it.
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is a convenience for local runs; absence is fine.
	_ = godotenv.Load()

	// Engine data dir: use env if provided (the dashboard can pass one),
	// else local folder.
	dataDir := os.Getenv("JOBBOARD_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// One engine per data dir: a second instance would race the local db and
	// the config file.
	lock := flock.New(filepath.Join(dataDir, "engine.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("instance lock failed: %w", err)
	}
	if !locked {
		return fmt.Errorf("another engine is already running against %s", dataDir)
	}
	defer lock.Unlock()

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		return fmt.Errorf("config bootstrap failed: %w", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	cfg, err := config.Load(userCfgPath)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", userCfgPath, err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config invalid (%s): %w", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	companies, cleanup, err := openStore(cfg, dataDir)
	if err != nil {
		return err
	}
	defer cleanup()

	timeout := cfg.FetchTimeout()
	jina := fetch.NewJina(cfg.Fetch.JinaBaseURL, keyFor(secrets.ProviderJina), timeout)
	scraper := fetch.NewScraperAPI(cfg.Fetch.ScraperAPIBaseURL, keyFor(secrets.ProviderScraperAPI), timeout)
	ant := fetch.NewScrapingAnt(cfg.Fetch.ScrapingAntBaseURL, keyFor(secrets.ProviderScrapingAnt), timeout)
	apihub := fetch.NewAPIHub(cfg.Fetch.APIHubBaseURL, keyFor(secrets.ProviderAPIHub), timeout)

	extractor := extract.NewClient(
		cfg.Extract.BaseURL,
		keyFor(secrets.ProviderMistral),
		cfg.Extract.Model,
		cfg.Extract.Temperature,
		cfg.Extract.MaxTokens,
		cfg.Extract.Tags,
		timeout,
	)

	hub := events.NewHub()
	pipe := &pipeline.Pipeline{
		Store: companies,
		Locks: store.NewCompanyLocks(),
		Fetcher: &fetch.Sourcer{
			Primary:  jina,
			Fallback: scraper,
			Selector: cfg.Fetch.ContentSelector,
		},
		Extractor: extractor,
		Hub:       hub,
	}

	deps := &httpapi.Deps{
		Store:       companies,
		Pipeline:    pipe,
		Extractor:   extractor,
		Limiter:     ratelimit.NewCallerLimiter(cfg.Extract.RatePerMinute),
		Jina:        jina,
		Scraper:     scraper,
		Ant:         ant,
		LinkedIn:    apihub,
		Hub:         hub,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		MaxSources:  cfg.Extract.MaxSources,
	}

	handler := httpapi.Chain(httpapi.NewMux(deps),
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
		httpapi.Cors,
	)

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.App.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.Printf("engine listening on http://%s (store=%s data=%s)", addr, cfg.Store.Driver, dataDir)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return srv.Serve(ln)
}

// openStore picks the backing store from config. The cleanup func is a no-op
// for the HTTP-backed store.
func openStore(cfg config.Config, dataDir string) (store.CompanyStore, func(), error) {
	switch cfg.Store.Driver {
	case "airtable":
		key := keyFor(secrets.ProviderAirtable)
		if key == "" {
			return nil, nil, fmt.Errorf("airtable store selected but no API key is set (env AIRTABLE_API_KEY or POST /api/secrets/airtable)")
		}
		c := airtable.New(cfg.Store.BaseURL, key, cfg.Store.BaseID, cfg.Store.CompaniesTable, cfg.FetchTimeout())
		return c, func() {}, nil
	case "local":
		db, err := localdb.Open(filepath.Join(dataDir, cfg.Store.DBFile))
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

// keyFor is best-effort: providers without a key still start, their calls
// fail with the vendor's own auth error.
func keyFor(provider string) string {
	key, err := secrets.APIKey(provider)
	if err != nil {
		log.Printf("[secrets] no key for %s: %v", provider, err)
		return ""
	}
	return key
}
