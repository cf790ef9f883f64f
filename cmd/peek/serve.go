package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/peek"
	"github.com/aretw0/peek/internal/config"
	peekhttp "github.com/aretw0/peek/pkg/adapters/http"
	"github.com/aretw0/peek/pkg/flatten"
	"github.com/aretw0/peek/pkg/gate"
	"github.com/aretw0/peek/pkg/observability"
	"github.com/aretw0/peek/pkg/ports"
	"github.com/aretw0/peek/pkg/transport"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo HTTP server",
	Long: `Serves a demo page instrumented with peek, the settings API under /api
and Prometheus metrics under /metrics.

Debug scripts are injected into the page when logging is enabled in the
settings store and the request carries the query parameter (?peek by default).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Server.Addr, _ = cmd.Flags().GetString("addr")
		}
		logger := newLogger(cfg)

		store, closeStore, err := openStore(cfg, logger)
		if err != nil {
			return err
		}
		defer closeStore()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		handler, err := newServeHandler(cfg, store, metrics, reg, logger)
		if err != nil {
			return err
		}
		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		if watcher, ok := store.(ports.SettingsWatcher); ok {
			go watchSettings(ctx, watcher, logger)
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting peek server", "addr", srv.Addr, "store", cfg.Store.Type)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-ctx.Done():
			logger.Info("shutdown started")

			// Give outstanding requests a deadline for completion.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("peek server stopped gracefully")
			return nil
		}
	},
}

func newServeHandler(cfg *config.Config, store ports.SettingsStore, metrics *observability.Metrics, reg *prometheus.Registry, logger *slog.Logger) (http.Handler, error) {
	out, err := cfg.Redact(transport.Request{})
	if err != nil {
		return nil, err
	}
	debug := peek.New(
		peek.WithGate(gate.All(
			gate.NewSetting(store, logger),
			gate.QueryParam(cfg.Gate.QueryParam),
		)),
		peek.WithTransport(out),
		peek.WithFlattener(flatten.New(append(cfg.FlattenOptions(), flatten.WithLogger(logger))...)),
		peek.WithLogger(logger),
		peek.WithHooks(metrics.Hooks()),
	)

	r := chi.NewRouter()
	r.With(peekhttp.Middleware(peekhttp.WithMiddlewareLogger(logger))).
		Get("/", demoPage(debug, cfg.Gate.QueryParam))
	r.Mount("/api", peekhttp.NewSettingsHandler(store, peekhttp.WithLogger(logger)))
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	return r, nil
}

func watchSettings(ctx context.Context, watcher ports.SettingsWatcher, logger *slog.Logger) {
	events, err := watcher.Watch(ctx)
	if err != nil {
		logger.Warn("settings watch unavailable", "error", err)
		return
	}
	for enabled := range events {
		logger.Info("settings changed on disk", "enabled", enabled)
	}
}

// visit is the value logged by the demo page. It points back at itself
// through Request.Visit to show cycle handling.
type visit struct {
	Path     string
	Query    map[string][]string
	Headers  map[string][]string
	Started  time.Time
	Request  *visitRequest
	Callback func()
}

type visitRequest struct {
	Method string
	Visit  *visit
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head><title>peek demo</title></head>
<body>
<h1>peek demo</h1>
<p>Open the browser console. Debug output appears when logging is enabled
(<code>peek enable</code> or <code>PUT /api/settings</code>) and the URL carries
<a href="/?{{.Param}}">?{{.Param}}</a>.</p>
</body>
</html>
`))

func demoPage(debug *peek.Logger, param string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := &visit{
			Path:     r.URL.Path,
			Query:    r.URL.Query(),
			Headers:  r.Header,
			Started:  time.Now(),
			Callback: func() {},
		}
		v.Request = &visitRequest{Method: r.Method, Visit: v}
		debug.MaybeConsoleLog(r.Context(), "visit", v)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := pageTemplate.Execute(w, struct{ Param string }{param}); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Address to listen on (default :8080)")
}
