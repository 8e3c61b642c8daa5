package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"subsidyopt/internal/calc"
	"subsidyopt/internal/catalog"
	"subsidyopt/internal/config"
	"subsidyopt/internal/engine"
	"subsidyopt/internal/handlers"
	"subsidyopt/internal/logger"
	"subsidyopt/internal/metrics"
	"subsidyopt/internal/models"
	"subsidyopt/internal/report"
	sentryutil "subsidyopt/internal/sentry"
	"subsidyopt/internal/tracing"
	"syscall"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

func main() {
	profilePath := flag.String("profile", "", "analyze a profile JSON file, print the result and exit")
	pdfPath := flag.String("pdf", "", "with -profile, also write the PDF report to this file")
	example := flag.Bool("example", false, "print an example profile and exit")
	flag.Parse()

	if *example {
		printJSON(exampleProfile())
		return
	}

	// Load configuration from .env and environment variables
	config.Load()

	level, err := logger.ParseLevel(config.Cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logger.SetLevel(level)

	policy, err := calc.ParseGenderPolicy(config.Cfg.GenderPolicy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	opts := engine.Options{GenderPolicy: policy, MaxExhaustive: config.Cfg.MaxExhaustiveSubsidies}

	if *profilePath != "" {
		// stdout carries the result; log lines go to stderr
		logger.SetOutput(os.Stderr)
		if err := runOnce(*profilePath, *pdfPath, opts); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		return
	}

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init()
	defer sentryutil.Flush()

	if err := serve(opts); err != nil {
		logger.Error("server stopped", map[string]interface{}{"error": err.Error()})
		sentryutil.Flush()
		os.Exit(1)
	}
}

func serve(opts engine.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var m *metrics.Metrics
	if config.Cfg.MetricsEnabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		m = metrics.New(reg)
	}

	shutdownTracing, err := tracing.Setup(config.Cfg.TraceExporter, os.Stderr, config.Cfg.TraceSampleRatio)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	store := catalog.NewStore(config.Cfg.CatalogPath)
	m.ObserveCatalog(store.Current().IsExternal(), store.Current().Len())
	store.OnSwap = func(c *catalog.Catalog) { m.ObserveCatalog(c.IsExternal(), c.Len()) }

	h := handlers.New(store, m, opts)
	h.AdminKey = config.Cfg.AdminAPIKey
	h.BackupDir = config.Cfg.CatalogBackupDir
	h.ReportFont = config.Cfg.ReportFontPath

	// Rate limiter from config
	limiter := handlers.NewRateLimiter(ctx, config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst, time.Second)
	limiter.Metrics = m

	srv := &http.Server{
		Addr: ":" + config.Cfg.Port,
		Handler: handlers.NewRouter(h, handlers.RouterConfig{
			CORSOrigins: config.Cfg.CORSOrigins,
			Gzip:        config.Cfg.GzipEnabled,
			Limiter:     limiter,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting", map[string]interface{}{
			"port": config.Cfg.Port, "catalog_version": store.Current().Version(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return store.Watch(gctx, config.Cfg.CatalogReloadInterval)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("server shutting down", nil)
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx))
	})
	return g.Wait()
}

// runOnce analyzes one profile file without starting the server.
func runOnce(profilePath, pdfPath string, opts engine.Options) error {
	data, err := os.ReadFile(profilePath)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	var p models.Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("parse profile %s: %w", profilePath, err)
	}

	cat, err := catalog.Load(config.Cfg.CatalogPath, nil)
	if err != nil {
		logger.Warn("catalog: external file not used, serving builtin", map[string]interface{}{
			"path": config.Cfg.CatalogPath, "error": err.Error(),
		})
	}
	result := engine.Analyze(cat, p, opts)
	printJSON(result)

	if pdfPath == "" {
		return nil
	}
	f, err := os.Create(pdfPath)
	if err != nil {
		return fmt.Errorf("create pdf: %w", err)
	}
	if err := report.Render(f, p, result, report.Options{FontPath: config.Cfg.ReportFontPath}); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logger.Info("report written", map[string]interface{}{"path": pdfPath})
	return nil
}

func exampleProfile() models.Profile {
	return models.Profile{
		ApplicantType:       models.ApplicantCompany,
		CompanyName:         "예시산업",
		BusinessNumber:      "123-45-67890",
		Region:              "부산",
		Industry:            "제조업",
		TotalEmployees:      20,
		YouthEmployees:      2,
		SeniorEmployees:     1,
		MiddleAgedEmployees: 1,
		NonRegularEmployees: 2,
		ChildcareWorkers:    1,
		AvgWage:             3200000,
		WageIncrease:        250000,
		HasRetirementAge:    true,
	}
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "encode: %v\n", err)
	}
}
