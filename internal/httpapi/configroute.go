package httpapi

import (
	"io"
	"net/http"

	"gopkg.in/yaml.v3"

	"jobboard-engine/internal/config"
)

// The config routes speak YAML, same format as the file on disk, so the
// dashboard edits exactly what the operator would edit by hand.

func (d *Deps) handleConfigGet(w http.ResponseWriter, r *http.Request) {
	cfg, _ := d.CfgVal.Load().(config.Config)
	w.Header().Set("Content-Type", "application/yaml")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	_ = enc.Encode(cfg)
	_ = enc.Close()
}

// handleConfigPut validates the incoming document, persists it atomically and
// swaps the live copy. Settings that feed constructor-time wiring (store
// driver, provider base URLs) take effect on restart.
func (d *Deps) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "cannot read body")
		return
	}

	var cfg config.Config
	if err := yaml.Unmarshal(body, &cfg); err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_request", "invalid YAML: "+err.Error())
		return
	}
	if err := config.Validate(cfg); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_config", err.Error())
		return
	}

	if err := config.SaveAtomic(d.UserCfgPath, cfg); err != nil {
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	d.CfgVal.Store(cfg)
	writeJSON(w, map[string]any{"success": true})
}
