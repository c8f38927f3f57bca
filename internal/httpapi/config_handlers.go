package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"maps"
	"net/http"
	"path/filepath"
	"strings"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"jobhub-engine/internal/config"
)

// ConfigHandler serves the YAML config. PUT accepts YAML when the content
// type says so and JSON otherwise.
type ConfigHandler struct {
	CfgVal       *atomic.Value // stores config.Config
	UserCfgPath  string
	LoadCfg      func() (config.Config, error)
	KnownSources []string
	OnConfig     func(config.Config)
}

func (h ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	cur := currentConfig(h.CfgVal)
	if wantsYAML(r.Header.Get("Accept")) {
		b, err := yaml.Marshal(&cur)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "encode_failed", err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(b)
		return
	}
	WriteJSON(w, http.StatusOK, cur)
}

func (h ConfigHandler) Put(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return
	}

	// start from the current config so a partial document only changes
	// the keys it names
	incoming := currentConfig(h.CfgVal)
	incoming.Sources = maps.Clone(incoming.Sources)
	if wantsYAML(r.Header.Get("Content-Type")) {
		err = yaml.Unmarshal(body, &incoming)
	} else {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.DisallowUnknownFields()
		err = dec.Decode(&incoming)
	}
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_config", "invalid config: "+err.Error())
		return
	}

	normalized, vr := config.NormalizeAndValidate(incoming, h.KnownSources)
	if !vr.OK() {
		// Return structured errors so the UI can show them nicely
		WriteJSON(w, http.StatusBadRequest, vr)
		return
	}

	if err := config.SaveAtomic(h.UserCfgPath, normalized); err != nil {
		WriteError(w, r, http.StatusBadRequest, "save_failed", err.Error())
		return
	}

	saved, err := h.LoadCfg()
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "reload_failed", "saved but reload failed: "+err.Error())
		return
	}
	h.CfgVal.Store(saved)
	if h.OnConfig != nil {
		h.OnConfig(saved)
	}
	WriteJSON(w, http.StatusOK, map[string]any{"config": saved, "warnings": vr.Warnings})
}

func (h ConfigHandler) Path(w http.ResponseWriter, r *http.Request) {
	abs, _ := filepath.Abs(h.UserCfgPath)
	WriteJSON(w, http.StatusOK, map[string]any{"path": abs})
}

func (h ConfigHandler) Validate(w http.ResponseWriter, r *http.Request) {
	_, vr := config.NormalizeAndValidate(currentConfig(h.CfgVal), h.KnownSources)
	WriteJSON(w, http.StatusOK, vr)
}

func wantsYAML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "yaml")
}
