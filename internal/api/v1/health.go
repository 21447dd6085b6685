package api

import (
	"net/http"

	"github.com/hashicorp-forge/staffdir/internal/server"
)

// HealthResponse is the body of a health check.
type HealthResponse struct {
	Status          string `json:"status"`
	FallbackRecords int    `json:"fallbackRecords"`
}

// HealthHandler reports that the service is up and how many records the
// fallback store holds. It does not contact the upstream.
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET", "HEAD":
			writeJSON(srv, w, http.StatusOK, HealthResponse{
				Status:          "ok",
				FallbackRecords: srv.Directory.Store().Len(),
			})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
	})
}
