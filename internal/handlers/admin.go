package handlers

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"subsidyopt/internal/catalog"
	"subsidyopt/internal/logger"
	sentryutil "subsidyopt/internal/sentry"
)

const maxCatalogBytes = 8 << 20

// RequireAdmin rejects requests without a matching X-Admin-Key header.
// With no key configured the admin routes are disabled.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.AdminKey == "" {
			writeError(w, http.StatusForbidden, "admin API disabled")
			return
		}
		key := r.Header.Get("X-Admin-Key")
		if subtle.ConstantTimeCompare([]byte(key), []byte(h.AdminKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type catalogUpdateResponse struct {
	catalog.VersionInfo
	Faults []catalog.Fault `json:"faults"`
}

// UpdateCatalog replaces the external catalog file with the request body.
// The previous file is backed up first; an invalid body changes nothing.
func (h *Handler) UpdateCatalog(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxCatalogBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "catalog too large")
		return
	}
	defer r.Body.Close()

	c, err := h.Store.Replace(data, h.BackupDir)
	if err != nil {
		if errors.Is(err, catalog.ErrInvalidCatalog) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sentryutil.CaptureError(err, map[string]string{"handler": "admin-catalog", "phase": "replace"})
		logger.Error("admin: catalog update failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "catalog update failed")
		return
	}

	logger.Info("admin: catalog updated", map[string]interface{}{"version": c.Version(), "count": c.Len()})
	faults := c.Audit()
	if faults == nil {
		faults = []catalog.Fault{}
	}
	writeJSON(w, http.StatusOK, catalogUpdateResponse{VersionInfo: c.Info(), Faults: faults})
}

// ReloadCatalog re-reads the external catalog file from disk.
func (h *Handler) ReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reload(); err != nil {
		logger.Warn("admin: catalog reload failed", map[string]interface{}{"error": err.Error()})
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.Store.Current().Info())
}
