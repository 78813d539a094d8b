package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"restaurant-pos/internal/catalog"
	"restaurant-pos/internal/config"
	"restaurant-pos/internal/database"
	"restaurant-pos/internal/lifecycle"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/messaging"
	"restaurant-pos/internal/services/terminal"
)

func main() {
	var (
		port           = flag.Int("port", 3000, "HTTP port")
		configPath     = flag.String("config", "config.yaml", "Path to configuration file")
		migrationsPath = flag.String("migrations", "migrations", "Path to migration files")
		standalone     = flag.Bool("standalone", false, "Run with the built-in catalog and a logging sink (no PostgreSQL/RabbitMQ)")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New("pos-terminal")
	requestID := logger.GenerateRequestID()

	log.Info("service_started", "Starting POS terminal service", requestID, map[string]interface{}{
		"port":         *port,
		"tax_rate":     cfg.POS.TaxRate,
		"default_size": cfg.POS.DefaultSize,
		"standalone":   *standalone,
	})

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	if err := run(ctx, cfg, log, *port, *migrationsPath, *standalone); err != nil {
		log.Error("service_failed", "POS terminal service failed", requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, port int, migrationsPath string, standalone bool) error {
	requestID := logger.GenerateRequestID()

	provider, sink, cleanup, err := buildCollaborators(ctx, cfg, log, migrationsPath, standalone, requestID)
	if err != nil {
		return err
	}
	defer cleanup()

	service := terminal.NewService(provider, sink, cfg.POS, log)
	handler := terminal.NewHandler(service, log)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler.SetupRoutes(),
	}

	go func() {
		log.Info("server_started", fmt.Sprintf("POS terminal listening on port %d", port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	return server.Shutdown(shutdownCtx)
}

// buildCollaborators wires the catalog provider and order sink. In
// standalone mode, or when a backend is unreachable, the built-in
// catalog and the logging sink keep the engine usable.
func buildCollaborators(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string, standalone bool, requestID string) (catalog.Provider, lifecycle.Sink, func(), error) {
	var provider catalog.Provider = catalog.NewStaticProvider()
	var sink lifecycle.Sink = &lifecycle.LoggingSink{Logger: log}
	cleanup := func() {}

	if standalone {
		return provider, sink, cleanup, nil
	}

	db, err := database.New(cfg, log)
	if err != nil {
		log.Warn("catalog_fallback", "PostgreSQL unavailable, using the built-in catalog", requestID, map[string]interface{}{
			"reason": err.Error(),
		})
	} else {
		if err := db.RunMigrations(ctx, migrationsPath); err != nil {
			db.Close()
			return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)
		provider = catalog.NewPostgresProvider(db)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		log.Warn("sink_fallback", "RabbitMQ unavailable, using the logging sink", requestID, map[string]interface{}{
			"reason": err.Error(),
		})
	} else {
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
		sink = messaging.NewRabbitSink(messaging.NewPublisher(conn, log))
	}

	cleanup = func() {
		if conn != nil {
			conn.Close()
		}
		if db != nil {
			db.Close()
		}
	}
	return provider, sink, cleanup, nil
}
