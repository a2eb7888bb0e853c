package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"datatable/api"
	"datatable/metrics"
	"datatable/notify"
	"datatable/session"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve table sessions over HTTP",
		Long: `Serve the REST API for table sessions and presets, push committed
configurations to websocket clients and expose Prometheus metrics on /metrics.`,
		Example: `  datatable serve
  datatable serve --addr :9000 --store-backend badger --store-path /var/lib/datatable`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, flags)
		},
	}
}

func runServe(ctx context.Context, cmd *cobra.Command, flags *rootFlags) error {
	a, err := newApp(cmd, flags)
	if err != nil {
		return err
	}
	defer a.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hub := notify.NewHub(a.log)
	renderer := notify.Multi{hub, notify.LogRenderer{Log: a.log}}
	manager := session.NewManager(a.store, a.options(renderer, m))

	srv := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           api.RegisterRoutes(manager, hub, reg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.WithField("addr", a.cfg.Addr).Info("datatable listening.")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
