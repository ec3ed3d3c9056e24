package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

// “Service” groups this app’s secrets in the OS keychain.
const KeyringService = "jobboard"

// Provider names accepted by the secrets endpoint and used as keychain
// account suffixes.
const (
	ProviderAirtable    = "airtable"
	ProviderMistral     = "mistral"
	ProviderJina        = "jina"
	ProviderScraperAPI  = "scraperapi"
	ProviderScrapingAnt = "scrapingant"
	ProviderAPIHub      = "apihub"
)

var envByProvider = map[string]string{
	ProviderAirtable:    "AIRTABLE_API_KEY",
	ProviderMistral:     "MISTRAL_API_KEY",
	ProviderJina:        "JINA_API_KEY",
	ProviderScraperAPI:  "SCRAPER_API_KEY",
	ProviderScrapingAnt: "SCRAPINGANT_API_KEY",
	ProviderAPIHub:      "APIHUB_API_KEY",
}

func KnownProvider(provider string) bool {
	_, ok := envByProvider[provider]
	return ok
}

// APIKey resolves a vendor key: environment variable first (deploys), then
// the OS keychain (local operator machines).
func APIKey(provider string) (string, error) {
	env, ok := envByProvider[provider]
	if !ok {
		return "", fmt.Errorf("unknown secrets provider %q", provider)
	}

	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		return v, nil
	}

	if v, err := keyring.Get(KeyringService, account(provider)); err == nil && strings.TrimSpace(v) != "" {
		return v, nil
	}

	return "", fmt.Errorf("%s API key not found (set %s or store it in the keychain)", provider, env)
}

func SetAPIKey(provider, key string) error {
	if !KnownProvider(provider) {
		return fmt.Errorf("unknown secrets provider %q", provider)
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, account(provider), key)
}

func DeleteAPIKey(provider string) error {
	if !KnownProvider(provider) {
		return fmt.Errorf("unknown secrets provider %q", provider)
	}
	return keyring.Delete(KeyringService, account(provider))
}

func account(provider string) string {
	return "jobboard:apikey:" + provider
}
