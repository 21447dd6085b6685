package serve

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"
	httptrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/net/http"
	"gopkg.in/DataDog/dd-trace-go.v1/ddtrace/tracer"

	api "github.com/hashicorp-forge/staffdir/internal/api/v1"
	"github.com/hashicorp-forge/staffdir/internal/cmd/base"
	"github.com/hashicorp-forge/staffdir/internal/config"
	"github.com/hashicorp-forge/staffdir/internal/server"
	"github.com/hashicorp-forge/staffdir/internal/version"
	"github.com/hashicorp-forge/staffdir/pkg/directory"
	"github.com/hashicorp-forge/staffdir/pkg/fallback"
	"github.com/hashicorp-forge/staffdir/pkg/upstream"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 30 * time.Second

type Command struct {
	*base.Command

	// Fs is the filesystem a configured seed file is read from. Defaults to
	// the OS filesystem.
	Fs afero.Fs

	flagConfig   string
	flagAddr     string
	flagSeedFile string
}

func (c *Command) Synopsis() string {
	return "Run the employee directory server"
}

func (c *Command) Help() string {
	return `Usage: staffdir serve [options]

  Run the employee directory REST API. Requests are forwarded to the upstream
  directory; when it fails, the built-in fallback store answers instead.

  Without -config, built-in defaults are used.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("serve", flag.ContinueOnError))

	f.StringVar(
		&c.flagConfig, "config", "", "Path to staffdir config file",
	)
	f.StringVar(
		&c.flagAddr, "addr", "",
		"Address to bind to for HTTP server, overrides server.address.",
	)
	f.StringVar(
		&c.flagSeedFile, "seed-file", "",
		"Fallback seed snapshot (JSON or YAML), overrides fallback.seed_file.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	log, ui := c.Log, c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}

	cfg, err := config.NewConfig(c.flagConfig)
	if err != nil {
		ui.Error(fmt.Sprintf("error parsing config file: %v", err))
		return 1
	}
	if c.flagAddr != "" {
		cfg.Server.Address = c.flagAddr
	}
	if c.flagSeedFile != "" {
		cfg.Fallback.SeedFile = c.flagSeedFile
	}
	if err := cfg.Validate(); err != nil {
		ui.Error(fmt.Sprintf("error validating config: %v", err))
		return 1
	}

	log.SetLevel(hclog.LevelFromString(cfg.LogLevel))

	fs := c.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	srv, err := NewServer(cfg, log, fs)
	if err != nil {
		ui.Error(fmt.Sprintf("error initializing server: %v", err))
		return 1
	}

	handler := api.NewHandler(srv)
	if cfg.Datadog.Enabled {
		tracer.Start(
			tracer.WithService(cfg.Datadog.Service),
			tracer.WithEnv(cfg.Datadog.Env),
			tracer.WithServiceVersion(version.Version),
		)
		defer tracer.Stop()

		handler = httptrace.WrapHandler(handler, cfg.Datadog.Service, "http.request")
		log.Info("datadog tracing enabled", "service", cfg.Datadog.Service)
	}

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		ui.Error(fmt.Sprintf("error listening on %s: %v", cfg.Server.Address, err))
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("listening", "address", ln.Addr().String(),
		"upstream", cfg.Upstream.BaseURL,
		"fallback_records", srv.Directory.Store().Len())

	httpSrv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := Serve(ctx, httpSrv, ln, log); err != nil {
		ui.Error(fmt.Sprintf("error running server: %v", err))
		return 1
	}

	return 0
}

// NewServer builds the server dependencies from cfg. A configured seed file is
// read from fs; otherwise the embedded snapshot is used. A seed file that
// cannot be loaded leaves the fallback store empty and is not an error.
func NewServer(cfg *config.Config, log hclog.Logger, fs afero.Fs) (server.Server, error) {
	upstreamCfg, err := cfg.UpstreamConfig()
	if err != nil {
		return server.Server{}, err
	}
	client, err := upstream.NewClient(upstreamCfg, log.Named("upstream"))
	if err != nil {
		return server.Server{}, fmt.Errorf("error creating upstream client: %w", err)
	}

	store := fallback.NewStore(log.Named("fallback"))
	seedFs, seedPath := fs, cfg.Fallback.SeedFile
	if seedPath == "" {
		seedFs, seedPath = fallback.EmbeddedFs(), fallback.DefaultSnapshotPath
	}
	if err := store.SeedFromFile(seedFs, seedPath); err == nil {
		log.Info("seeded fallback store", "path", seedPath, "records", store.Len())
	}

	svc := directory.NewService(client, store,
		directory.WithLogger(log.Named("directory")),
		directory.WithFallbackOnTransportError(cfg.Fallback.OnTransportError),
	)

	return server.Server{
		Directory: svc,
		Config:    cfg,
		Logger:    log,
	}, nil
}

// Serve runs srv on ln until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log hclog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
