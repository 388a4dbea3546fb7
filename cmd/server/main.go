package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/clauselens/clauselens/internal/analyze"
	"github.com/clauselens/clauselens/internal/api"
	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/patterns"
	"github.com/clauselens/clauselens/internal/storage"
	"github.com/clauselens/clauselens/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	// Pattern tiers and analysis history live in Postgres when a database is
	// configured; otherwise tiers fall back to local JSON files and history
	// is disabled.
	var tierRepo patterns.TierRepository
	var analysisRepo storage.AnalysisRepository

	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}

		tierRepo = patterns.NewPostgresTierRepository(db)
		analysisRepo = storage.NewPostgresAnalysisRepository(db)
	} else {
		fileRepo, err := patterns.NewFileTierRepository(cfg.Patterns.CustomFile, cfg.Patterns.PendingFile)
		if err != nil {
			log.Fatalf("Failed to set up pattern files: %v", err)
		}
		tierRepo = fileRepo
		slog.Info("no database configured, using file-backed patterns",
			"custom", cfg.Patterns.CustomFile,
			"pending", cfg.Patterns.PendingFile)
	}

	ocrTimeout := time.Duration(cfg.OCR.TimeoutSeconds) * time.Second
	ocr := extract.NewOCRClient(cfg.OCR.Endpoint, extract.WithHTTPTimeout(ocrTimeout))
	if !ocr.Available() {
		slog.Info("OCR endpoint not configured, image uploads disabled")
	}

	extractor := extract.NewExtractor(
		extract.WithOCRBackend(ocr),
		extract.WithOCRTimeout(ocrTimeout),
	)

	store := patterns.NewStore(tierRepo)
	analyzer := analyze.NewService(extractor, store)

	server := api.NewServer(api.ServerConfig{
		Analyzer:     analyzer,
		AnalysisRepo: analysisRepo,
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("starting clauselens server", "addr", addr)
	if err := server.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
