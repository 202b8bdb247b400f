package api

import (
	"encoding/json"
	"net/http"

	"github.com/oriys/quasar/internal/connect"
	"github.com/oriys/quasar/internal/engine"
	"github.com/oriys/quasar/internal/metrics"
	"github.com/oriys/quasar/internal/profile"
	"github.com/oriys/quasar/internal/ssl"
)

// Handler serves the database and profile endpoints.
type Handler struct {
	Profiles    *profile.Store
	Connections *connect.Manager
}

// RegisterRoutes registers all routes on the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /databases", h.ListDatabases)
	mux.HandleFunc("GET /databases/{type}/ssl-modes", h.SSLModes)
	mux.HandleFunc("GET /profiles", h.ListProfiles)
	mux.HandleFunc("POST /profiles", h.SaveProfile)
	mux.HandleFunc("DELETE /profiles/{id}", h.DeleteProfile)
	mux.HandleFunc("POST /profiles/{id}/test", h.TestProfile)
	mux.HandleFunc("GET /profiles/{id}/ssl-status", h.ProfileSSLStatus)
	mux.HandleFunc("POST /connections/test", h.TestConnection)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// databaseInfo is one entry of the /databases response.
type databaseInfo struct {
	Type          engine.DatabaseType `json:"type"`
	SupportsSSL   bool                `json:"supportsSSL"`
	TestSupported bool                `json:"testSupported"`
}

// ListDatabases lists every known engine with its capability flags.
func (h *Handler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	reg := h.Profiles.Registry()
	out := make([]databaseInfo, 0, len(engine.AllDatabaseTypes))
	for _, dbType := range engine.AllDatabaseTypes {
		out = append(out, databaseInfo{
			Type:          dbType,
			SupportsSSL:   reg.HasSSLSupport(dbType),
			TestSupported: h.Connections.Supported(dbType),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// sslModeEntry is one mode of the ssl-modes response, with the native
// spellings the backend also accepts.
type sslModeEntry struct {
	ssl.SSLModeInfo
	Aliases []string `json:"aliases,omitempty"`
}

// SSLModes lists the SSL modes available for a database type. Engines
// without SSL support get an empty list, not an error.
func (h *Handler) SSLModes(w http.ResponseWriter, r *http.Request) {
	dbType := engine.DatabaseType(r.PathValue("type"))
	reg := h.Profiles.Registry()

	modes := reg.Modes(dbType)
	out := make([]sslModeEntry, 0, len(modes))
	for _, m := range modes {
		out = append(out, sslModeEntry{
			SSLModeInfo: m,
			Aliases:     reg.Aliases(dbType, m.Value),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"database":    dbType,
		"supportsSSL": reg.HasSSLSupport(dbType),
		"modes":       out,
	})
}

// ListProfiles returns all saved profiles (passwords omitted).
func (h *Handler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Profiles.List())
}

// SaveProfile creates or updates a profile.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if p.ID == "" {
		np := profile.New(p.Name, p.Type, p.Hostname)
		p.ID = np.ID
	}
	if err := h.Profiles.Save(&p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics.SetProfilesLoaded(len(h.Profiles.List()))
	writeJSON(w, http.StatusOK, &p)
}

// DeleteProfile removes a profile.
func (h *Handler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	if err := h.Profiles.Delete(r.PathValue("id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	metrics.SetProfilesLoaded(len(h.Profiles.List()))
	w.WriteHeader(http.StatusNoContent)
}

// TestProfile runs a connection test for a saved profile.
func (h *Handler) TestProfile(w http.ResponseWriter, r *http.Request) {
	p := h.Profiles.Get(r.PathValue("id"))
	if p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	status, err := h.Connections.Test(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ProfileSSLStatus reports the (possibly cached) SSL status of a profile's
// connection.
func (h *Handler) ProfileSSLStatus(w http.ResponseWriter, r *http.Request) {
	p := h.Profiles.Get(r.PathValue("id"))
	if p == nil {
		http.Error(w, "profile not found", http.StatusNotFound)
		return
	}
	status, err := h.Connections.SSLStatus(r.Context(), p)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// TestConnection runs an ad-hoc connection test from a profile supplied in
// the request body, without saving it.
func (h *Handler) TestConnection(w http.ResponseWriter, r *http.Request) {
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := p.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	status, err := h.Connections.Test(r.Context(), &p)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}
