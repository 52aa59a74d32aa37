package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/joho/godotenv/autoload"

	"business-verification-portal/internal/addrcheck"
	"business-verification-portal/internal/admin"
	"business-verification-portal/internal/alerts"
	"business-verification-portal/internal/auth"
	"business-verification-portal/internal/constants"
	"business-verification-portal/internal/domain"
	"business-verification-portal/internal/infrastructure/repository"
	"business-verification-portal/internal/search"
	"business-verification-portal/internal/triage"
	"business-verification-portal/pkg/config"
	"business-verification-portal/pkg/container"
	"business-verification-portal/pkg/database"
	"business-verification-portal/pkg/events"
	"business-verification-portal/pkg/health"
	"business-verification-portal/pkg/logging"
	metricsPkg "business-verification-portal/pkg/metrics"
	"business-verification-portal/pkg/monitoring"
)

func main() {
	// Build container and register providers
	c := container.New()

	// Config (singleton)
	_ = c.Provide(func() *config.Config { return config.Load() }, true)

	// Logger (singleton)
	_ = c.Provide(func(cfg *config.Config) (*logging.Logger, error) {
		return logging.New(logging.Config{
			Level:      cfg.LogLevel,
			Format:     cfg.LogFormat,
			Output:     "stdout",
			EnableFile: cfg.EnableFileLogging,
			FilePath:   cfg.LogFile,
		})
	}, true)

	// Database (singleton)
	_ = c.Provide(func(cfg *config.Config) (*database.DB, error) { return database.NewWithConfig(cfg.DatabaseURL, cfg) }, true)

	// Repository and UoW factory (singletons)
	_ = c.Provide(func(db *database.DB) domain.Repository { return repository.NewSQLRepository(db) }, true)
	_ = c.Provide(func(db *database.DB) domain.UnitOfWorkFactory { return repository.NewSQLUnitOfWorkFactory(db) }, true)

	// Similarity adapters (singletons)
	_ = c.Provide(func(repo domain.Repository, log *logging.Logger) *alerts.Dashboard {
		return alerts.NewDashboard(alerts.RecentRecordSource(repo), log)
	}, true)
	_ = c.Provide(func(repo domain.Repository, log *logging.Logger) *alerts.Review {
		return alerts.NewReview(alerts.NameOrderedRecordSource(repo), log)
	}, true)
	_ = c.Provide(func(repo domain.Repository, log *logging.Logger) *alerts.Precheck {
		return alerts.NewPrecheck(alerts.NameOrderedRecordSource(repo), log)
	}, true)

	// Event store (singleton)
	_ = c.Provide(func(db *database.DB) (events.EventStore, error) { return events.NewSQLEventStore(db.Conn()) }, true)

	// Resolve config and logger early
	var cfg *config.Config
	if err := c.Resolve(&cfg); err != nil {
		panic("config resolve: " + err.Error())
	}
	var log *logging.Logger
	if err := c.Resolve(&log); err != nil {
		panic("logger resolve: " + err.Error())
	}
	defer log.Close()
	log.Info("starting business verification portal",
		logging.String("env", cfg.Env), logging.String("port", cfg.Port))

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", err)
		os.Exit(1)
	}

	// Load templates
	if err := admin.LoadTemplates(); err != nil {
		log.Error("failed to load templates", err)
		os.Exit(1)
	}
	admin.SetBasePath(cfg.BasePath)

	// Resolve runtime dependencies
	var (
		db       *database.DB
		repo     domain.Repository
		uowf     domain.UnitOfWorkFactory
		dash     *alerts.Dashboard
		review   *alerts.Review
		precheck *alerts.Precheck
	)
	for _, target := range []any{&db, &repo, &uowf, &dash, &review, &precheck} {
		if err := c.Resolve(target); err != nil {
			log.Error("dependency resolve failed", err)
			os.Exit(1)
		}
	}
	defer db.Close()

	// Wire event store into the packages that emit audit events. A failure
	// here disables auditing but not the portal.
	if err := c.Invoke(func(es events.EventStore, d *alerts.Dashboard) {
		admin.SetEventStore(es)
		search.SetEventStore(es)
		d.SetEventStore(es)
	}); err != nil {
		log.Error("event store init failed", err)
	}

	// External clients, both optional
	var verifier *addrcheck.Verifier
	if cfg.GoogleMapsAPIKey != "" {
		v, err := addrcheck.New(cfg.GoogleMapsAPIKey, log)
		if err != nil {
			log.Error("geocoder init failed, inspections run unverified", err)
		} else {
			verifier = v
		}
	}
	var triager *triage.Triager
	if cfg.TriageEnabled && cfg.OpenAIAPIKey != "" {
		triager = triage.New(cfg.OpenAIAPIKey, triage.Options{
			Model:     cfg.OpenAIModel,
			MaxTokens: cfg.OpenAIMaxTokens,
			Timeout:   cfg.OpenAITimeout,
		}, log)
	}
	var reportTriager search.ReportTriager
	var costReporter admin.CostReporter
	if triager != nil {
		reportTriager = triager
		costReporter = triager
	}

	// Apply the configured threshold to all three adapters
	dash.SetThreshold(cfg.SimilarityThreshold)
	review.SetThreshold(cfg.SimilarityThreshold)
	precheck.SetThreshold(cfg.SimilarityThreshold)

	// Dashboard alert poller
	poller := alerts.NewPoller(dash, time.Duration(cfg.AlertPollIntervalSeconds)*time.Second, log)
	poller.Start()
	defer poller.Stop()

	// Admin resolver for IP-based authentication
	adminResolver := auth.NewAdminResolver(log)
	adminAuthMiddleware := auth.NewAdminAuthMiddleware(adminResolver, admin.RenderUnauthorized)

	// Config watcher for hot-reload
	cw := config.NewWatcher(time.Duration(cfg.ConfigReloadIntervalSeconds) * time.Second)
	cw.Start()
	defer cw.Close()
	chgCh := cw.Subscribe()
	go func() {
		for chg := range chgCh {
			if chg.Err != nil {
				log.Warn("config reload rejected", logging.Err(chg.Err))
				continue
			}
			dash.SetThreshold(chg.New.SimilarityThreshold)
			review.SetThreshold(chg.New.SimilarityThreshold)
			precheck.SetThreshold(chg.New.SimilarityThreshold)
			poller.SetInterval(time.Duration(chg.New.AlertPollIntervalSeconds) * time.Second)
			if err := adminResolver.Reload(); err != nil {
				log.Warn("admin list reload failed", logging.Err(err))
			}
			log.Info("config reloaded", logging.Any("fields", chg.Fields))
		}
	}()

	// Graceful shutdown context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Info("shutdown signal received")
		cancel()
	}()

	// Health checks
	healthMgr := health.NewManager(constants.HealthTimeoutDefault)
	healthMgr.Register(health.DBChecker(db.Conn()))

	// HTTP routing
	router := mux.NewRouter()

	requests := monitoring.NewRequests(512)
	if cfg.MetricsEnabled {
		router.Use(monitoring.Middleware(requests))
	}

	router.Handle(cfg.HealthCheckPath, healthMgr.Handler()).Methods("GET")

	// Public API: no admin identity required
	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/search", search.SearchHandler(repo, precheck, log)).Methods("GET")
	api.HandleFunc("/precheck", search.PrecheckHandler(precheck)).Methods("GET")
	api.HandleFunc("/businesses/{id}", search.BusinessHandler(repo)).Methods("GET")
	api.HandleFunc("/businesses/{id}/history", search.HistoryHandler(log)).Methods("GET")
	api.HandleFunc("/reports", search.ReportHandler(repo, reportTriager, log)).Methods("POST")

	// Back office: every route behind the IP allowlist
	adm := router.PathPrefix("/admin").Subrouter()
	adm.Use(adminAuthMiddleware.Handler)
	adm.HandleFunc("", admin.DashboardHandler(repo, dash, cfg.AlertPollIntervalSeconds, log)).Methods("GET")
	adm.HandleFunc("/businesses", admin.BusinessesHandler(repo)).Methods("GET")
	adm.HandleFunc("/businesses/{id}", admin.BusinessDetailHandler(repo)).Methods("GET")
	adm.HandleFunc("/businesses/{id}/status", admin.UpdateStatusHandler(repo, log)).Methods("POST")
	adm.HandleFunc("/businesses/{id}/inspections", admin.ScheduleInspectionHandler(repo, verifier, log)).Methods("POST")
	adm.HandleFunc("/inspections/{id}/complete", admin.CompleteInspectionHandler(repo, log)).Methods("POST")
	adm.HandleFunc("/reports", admin.ReportsHandler(repo)).Methods("GET")
	adm.HandleFunc("/reports/{id}/resolve", admin.ResolveReportHandler(uowf, log)).Methods("POST")
	adm.HandleFunc("/similarity", admin.SimilarityReviewHandler(review, constants.ReviewScanRecords)).Methods("GET")
	adm.HandleFunc("/analytics", admin.AnalyticsHandler(repo, costReporter)).Methods("GET")
	adm.HandleFunc("/api/stats", admin.StatsAPIHandler(repo)).Methods("GET")
	adm.HandleFunc("/import", admin.ImportPageHandler()).Methods("GET")
	adm.HandleFunc("/import", admin.ImportHandler(repo, log)).Methods("POST")
	adm.HandleFunc("/export", admin.ExportHandler(repo, log)).Methods("GET")

	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	var adminServer *http.Server
	if cfg.ProfilingEnabled || cfg.MetricsEnabled {
		opsMux := http.NewServeMux()
		if cfg.ProfilingEnabled {
			monitoring.RegisterPprof(opsMux)
		}
		if cfg.MetricsEnabled {
			opsMux.Handle(cfg.MetricsPath, metricsPkg.Handler())
			if cfg.MetricsPath != "/metrics.json" {
				opsMux.Handle("/metrics.json", monitoring.SnapshotHandler(requests))
			}
		}
		adminServer = &http.Server{Addr: ":" + cfg.ProfilingPort, Handler: opsMux}
		go func() {
			log.Info("ops server starting", logging.String("port", cfg.ProfilingPort))
			if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error("ops server error", err)
			}
		}()
	}

	go func() {
		log.Info("server starting", logging.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.GracefulShutdownTimeoutDefault)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", err)
	}
	if adminServer != nil {
		if err := adminServer.Shutdown(shutdownCtx); err != nil {
			log.Error("ops server shutdown error", err)
		}
	}
	log.Info("shutdown complete")
}
