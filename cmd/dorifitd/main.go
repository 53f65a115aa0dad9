// Command dorifitd is the dorifit API service.
// It serves the optimize and run-history endpoints, a health check and
// Prometheus metrics.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dorifit/dorifit/internal/api"
	"github.com/dorifit/dorifit/internal/history"
	"github.com/dorifit/dorifit/internal/platform"
	"github.com/dorifit/dorifit/internal/runner"
	"github.com/dorifit/dorifit/internal/storage"
	appconfig "github.com/dorifit/dorifit/pkg/config"
	"github.com/dorifit/dorifit/pkg/scoring"
)

type config struct {
	Port           string
	DatabaseURL    string
	APIKey         string
	RateLimit      float64
	RateBurst      int
	MasterVersion  string
	SkipMigrations bool
}

func loadConfig() config {
	rate, _ := strconv.ParseFloat(envOrDefault("RATE_LIMIT_RPS", "0"), 64)
	burst, _ := strconv.Atoi(envOrDefault("RATE_LIMIT_BURST", "10"))
	return config{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		APIKey:         os.Getenv("API_KEY"),
		RateLimit:      rate,
		RateBurst:      burst,
		MasterVersion:  os.Getenv("MASTER_VERSION"),
		SkipMigrations: os.Getenv("SKIP_MIGRATIONS") == "true",
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}
	cfg := loadConfig()

	appCfg := appconfig.DefaultConfig()
	if err := appCfg.ApplyEnv(os.Getenv); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run history is optional; without a database runs are only stored as blobs.
	var (
		db   *sql.DB
		runs *history.Store
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = platform.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()

		if !cfg.SkipMigrations {
			if err := platform.AutoMigrate(db); err != nil {
				log.Fatalf("migrate: %v", err)
			}
		}
		runs = history.NewStore(db)
	} else {
		log.Println("DATABASE_URL not set; run history disabled")
	}

	store, err := storage.Open(ctx, appCfg)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}

	// Initialize services
	optimizer := scoring.NewOptimizer(scoring.Options{Workers: appCfg.Optimizer.Workers})
	var svc *runner.Service
	var handler *api.Handler
	if runs != nil {
		svc = runner.NewService(runs, store, optimizer)
		handler = api.NewHandler(svc, runs, store, nil)
	} else {
		svc = runner.NewService(nil, store, optimizer)
		handler = api.NewHandler(svc, nil, store, nil)
	}
	handler.Options.Accuracy = appCfg.Optimizer.Accuracy
	handler.Options.Fever = appCfg.Optimizer.Fever
	handler.Options.Difficulty = appCfg.Song.Difficulty
	handler.Options.MasterVersion = cfg.MasterVersion

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	api.RegisterMetrics(reg)

	// Set up HTTP routes
	apiMux := http.NewServeMux()
	handler.RegisterRoutes(apiMux)
	protected := api.RateLimit(cfg.RateLimit, cfg.RateBurst)(api.APIKeyAuth(cfg.APIKey)(apiMux))

	mux := http.NewServeMux()
	mux.Handle("/api/", api.CORS(protected))
	mux.HandleFunc("GET /healthz", healthHandler(db))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: mux,
	}

	go func() {
		log.Printf("starting dorifitd on :%s (storage %s)", cfg.Port, appCfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
