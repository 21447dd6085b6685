package server

import (
	"github.com/hashicorp/go-hclog"

	"github.com/hashicorp-forge/staffdir/internal/config"
	"github.com/hashicorp-forge/staffdir/pkg/directory"
)

// Server contains the server configuration.
type Server struct {
	// Directory is the employee directory facade.
	Directory *directory.Service

	// Config is the config for the server.
	Config *config.Config

	// Logger is the logger for the server.
	Logger hclog.Logger
}
