package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"closetguard/internal/classifier"
	"closetguard/internal/database/boltstore"
	"closetguard/internal/database/memstore"
	"closetguard/internal/database/sqlitestore"
	"closetguard/internal/handlers"
	"closetguard/internal/metrics"
	"closetguard/internal/moderation"
	"closetguard/internal/routing"
	"closetguard/internal/tracing"
)

func main() {
	// Configure zerolog
	// Set log level from environment (default: info)
	logLevel := os.Getenv("LOG_LEVEL")
	switch logLevel {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info", "":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use pretty console logging in development, JSON in production
	if os.Getenv("LOG_FORMAT") == "json" {
		// Production: JSON logs
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	} else {
		// Development: pretty console logs
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	log.Info().Msg("Starting Closetguard Moderation Engine")

	ctx := context.Background()

	// Initialize tracing when an OTLP endpoint is configured
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		tp, err := tracing.Init(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Tracer shutdown failed")
			}
		}()
		log.Info().Msg("Tracing initialized")
	}

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "18430"
	}

	// Load the moderation configuration (thresholds, term lists, labels)
	configPath := os.Getenv("CLOSETGUARD_CONFIG")
	config, err := moderation.NewFileConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("Failed to load moderation config")
	}

	// Open the audit store. The driver defaults to BoltDB; sqlite and an
	// ephemeral in-memory store are also supported.
	store, closeStore, err := openAuditStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open audit store")
	}
	defer closeStore()

	// Pick the image classifier. Without a content bucket the classifier is
	// disabled and image submissions fail safe toward human review.
	imageClassifier := buildClassifier()

	engine := moderation.NewEngine(imageClassifier, store, config)

	// Periodically refresh backlog gauges from the recent audit window
	metrics.StartCollector(ctx, metrics.StatsSource{
		ReviewBacklogCount:     func() int { return countRecent(store, moderation.StatusPendingHumanReview) },
		RecentAuditRecordCount: func() int { return countRecent(store, "") },
	}, 1*time.Minute)

	h := handlers.NewHandler(engine, store, config)

	handler := routing.SetupRouter(routing.Config{
		Handlers: h,
		Logger:   log.Logger,
	})

	log.Info().
		Str("address", "0.0.0.0:"+port).
		Str("url", "http://localhost:"+port).
		Msg("Starting HTTP server")

	if err := http.ListenAndServe("0.0.0.0:"+port, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed to start")
	}
}

// openAuditStore opens the configured audit store backend and returns it
// with its cleanup function.
func openAuditStore() (moderation.AuditStore, func(), error) {
	driver := os.Getenv("CLOSETGUARD_DB_DRIVER")
	dbPath := os.Getenv("CLOSETGUARD_DB_PATH")
	if dbPath == "" {
		// Default to XDG data directory or home directory for development
		dataDir := os.Getenv("XDG_DATA_HOME")
		if dataDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, nil, err
			}
			dataDir = filepath.Join(home, ".local", "share")
		}
		dbPath = filepath.Join(dataDir, "closetguard", "closetguard.db")
	}

	switch driver {
	case "sqlite":
		db, err := sqlitestore.Open(dbPath)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", "sqlite").Str("path", dbPath).Msg("Audit store opened")
		return sqlitestore.NewAuditStore(db), func() { db.Close() }, nil
	case "memory":
		log.Warn().Msg("Using in-memory audit store; history is lost on restart")
		return memstore.New(), func() {}, nil
	default:
		store, err := boltstore.Open(boltstore.Options{Path: dbPath})
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", "bolt").Str("path", dbPath).Msg("Audit store opened")
		return store.AuditStore(), func() { store.Close() }, nil
	}
}

// buildClassifier wires the Rekognition classifier when a content bucket is
// configured, and the fail-safe disabled classifier otherwise.
func buildClassifier() moderation.ImageClassifier {
	bucket := os.Getenv("CONTENT_BUCKET")
	if bucket == "" {
		log.Warn().Msg("CONTENT_BUCKET not set, image classification disabled")
		return classifier.Disabled{}
	}

	awsConfig := aws.NewConfig()
	if region := os.Getenv("AWS_REGION"); region != "" {
		awsConfig = awsConfig.WithRegion(region)
	}
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create AWS session, image classification disabled")
		return classifier.Disabled{}
	}

	log.Info().Str("bucket", bucket).Msg("Rekognition classifier configured")
	return classifier.NewRekognition(sess, bucket)
}

// countRecent counts decisions with the given status in the recent audit
// window. An empty status counts everything. Returns -1 when unavailable.
func countRecent(store moderation.AuditStore, status moderation.Status) int {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	decisions, err := store.ListRecent(ctx, 500)
	if err != nil {
		return -1
	}
	if status == "" {
		return len(decisions)
	}
	n := 0
	for _, d := range decisions {
		if d.Status == status {
			n++
		}
	}
	return n
}
