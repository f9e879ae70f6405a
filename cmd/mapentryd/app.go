package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	mapentry "github.com/karupanerura/cts2-mapentry"
	"github.com/karupanerura/cts2-mapentry/cts2"
	"github.com/karupanerura/cts2-mapentry/httpapi"
	"github.com/karupanerura/cts2-mapentry/index/memindex"
	"github.com/karupanerura/cts2-mapentry/source"
	"github.com/karupanerura/cts2-mapentry/source/flatfile"
	"github.com/karupanerura/cts2-mapentry/source/s3object"
	"github.com/karupanerura/cts2-mapentry/source/sqltable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

// readHeaderTimeout bounds how long a client may take to send request headers.
const readHeaderTimeout = 10 * time.Second

// run loads the index and serves it until ctx is done.
func run(ctx context.Context, cfg Config, logger *slog.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.serve(ctx, ln)
}

// app is a loaded index wired to its HTTP handler.
type app struct {
	cfg     Config
	logger  *slog.Logger
	index   *memindex.Index[string, string]
	handler http.Handler
	closers []func() error
}

func newApp(ctx context.Context, cfg Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	src, err := a.buildSource(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.index = memindex.New[string, string](&source.LintSource{Source: src})
	logger.Info("loading", slog.String("data", cfg.Data), slog.String("sql_driver", cfg.SQLDriver))
	start := time.Now()
	if err := a.index.Load(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	logger.Info("done loading", slog.Int("concepts", a.index.Len()), slog.Duration("elapsed", time.Since(start)))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "mapentry",
			Name:      "concepts",
			Help:      "Number of CUIs in the loaded index.",
		}, func() float64 { return float64(a.index.Len()) }),
	)

	renderer := cts2.NewRenderer(cfg.Root, cts2.WithMapVersion(cfg.MapVersion))
	h := httpapi.NewHandler(mapentry.NewConceptIndex(a.index), renderer,
		httpapi.WithMetrics(httpapi.NewMetrics(reg)),
		httpapi.WithErrorHandler(func(r *http.Request, err error) {
			logger.Error("request failed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Any("error", err),
			)
		}),
	)

	h.Mount("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	a.handler = h
	return a, nil
}

// buildSource returns the union of the configured sources.
func (a *app) buildSource(ctx context.Context) (mapentry.IndexSource[string, string], error) {
	var sources source.UnionSource

	if a.cfg.Data != "" {
		opts := flatfile.ParseOptions{
			Policy: a.cfg.malformedPolicy(),
			OnMalformed: func(err *flatfile.LineError) {
				a.logger.Warn("skipping malformed line",
					slog.String("data", a.cfg.Data),
					slog.Int("line", err.Line),
					slog.String("reason", err.Err.Error()),
				)
			},
		}
		if s3object.IsURL(a.cfg.Data) {
			client, err := s3object.NewClient(ctx, s3object.Config{
				Region:    a.cfg.S3Region,
				Endpoint:  a.cfg.S3Endpoint,
				PathStyle: a.cfg.S3PathStyle,
			})
			if err != nil {
				return nil, err
			}
			src, err := s3object.NewSource(client, a.cfg.Data, opts)
			if err != nil {
				return nil, err
			}
			sources = append(sources, src)
		} else {
			sources = append(sources, flatfile.NewFileSource(a.cfg.Data, opts))
		}
	}

	if a.cfg.SQLDriver != "" {
		db, err := sqltable.Open(ctx, a.cfg.SQLDriver, a.cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		sources = append(sources, sqltable.New(db, a.cfg.SQLQuery))
	}

	if len(sources) == 1 {
		return sources[0], nil
	}
	return sources, nil
}

// serve serves the handler on ln until ctx is done, then shuts down gracefully.
func (a *app) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           a.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		a.logger.Info("listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})
	eg.Go(func() error {
		<-ctx.Done()
		a.logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return eg.Wait()
}

// Close releases the resources held by the sources.
func (a *app) Close() error {
	var errs []error
	for _, closer := range a.closers {
		errs = append(errs, closer())
	}
	a.closers = nil
	return errors.Join(errs...)
}

