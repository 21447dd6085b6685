package api

import (
	"net/http"

	"github.com/hashicorp-forge/staffdir/internal/server"
)

// NewHandler returns the HTTP handler for every route the service exposes,
// wrapped in request logging.
func NewHandler(srv server.Server) http.Handler {
	employees := EmployeesHandler(srv)

	mux := http.NewServeMux()
	mux.Handle(EmployeesPath, employees)
	mux.Handle(EmployeesPath+"/", employees)
	mux.Handle("/healthz", HealthHandler(srv))

	return RequestLogger(srv.Logger.Named("http"), mux)
}
