package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/quantumedge/internal/api"
	"github.com/wonny/quantumedge/internal/api/handlers"
	"github.com/wonny/quantumedge/internal/report"
	"github.com/wonny/quantumedge/pkg/logger"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard API server",
	Long: `Start the REST API and WebSocket stream for one dashboard session.

Endpoints:
  GET    /health
  GET    /api/state
  GET    /api/advice?capital=
  PUT    /api/config/capital
  PUT    /api/config/weights/{key}
  POST   /api/config/weights/reset
  POST   /api/analysis
  PUT    /api/view
  POST   /api/view/toggle
  GET    /api/view/portfolio | /api/view/market
  POST   /api/selection/{id}
  GET    /api/selection
  DELETE /api/selection
  DELETE /api/notice
  GET    /api/report | /api/report.txt | /api/report.pdf
  GET    /ws

Example:
  go run ./cmd/quantumedge serve
  go run ./cmd/quantumedge serve --port 9000`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port, overrides PORT")
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Println("=== QuantumEdge API Server ===")

	// 1. Load config
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port":        cfg.Port,
		"env":         cfg.Env,
		"scoring_url": cfg.Scoring.URL,
	}).Info("Initializing API server")

	// 3. Create store and load presets
	store := newStore(cfg, log)
	catalog, err := loadCatalog(cfg, log)
	if err != nil {
		return err
	}

	// 4. Create handlers
	dashboardHandler := handlers.NewDashboardHandler(store, report.NewService(log), cfg.ReportTitle, log)
	presetHandler := handlers.NewPresetHandler(store, catalog, log)
	streamHandler := handlers.NewStreamHandler(store, cfg.Stream.Throttle, log)
	defer streamHandler.Close()

	// 5. Create router and server
	router := api.NewRouter(dashboardHandler, presetHandler, streamHandler, log)
	server := api.New(cfg, log, router)

	// 6. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Printf("   Scoring service: %s\n", cfg.Scoring.URL)
	fmt.Println("\nPress Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Server stopped")
			return err
		}
		return nil
	case <-quit:
	}

	fmt.Println("\nShutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	fmt.Println("✅ Server stopped")
	return nil
}
