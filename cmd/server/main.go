// Package main provides the surface3d HTTP server.
package main

//go:generate go run github.com/swaggo/swag/cmd/swag@latest init -g ../../internal/http/router.go -d ../../internal/http,../../internal/usecase,../../internal/domain -o ../../docs

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "go.ngs.io/surface3d/docs"
	"go.ngs.io/surface3d/internal/adapter/raster"
	"go.ngs.io/surface3d/internal/adapter/store"
	gridcsv "go.ngs.io/surface3d/internal/adapter/store/csv"
	"go.ngs.io/surface3d/internal/adapter/store/memory"
	"go.ngs.io/surface3d/internal/adapter/store/sqlite"
	"go.ngs.io/surface3d/internal/config"
	httpHandler "go.ngs.io/surface3d/internal/http"
	"go.ngs.io/surface3d/internal/render"
	"go.ngs.io/surface3d/internal/usecase"
)

const version = "0.1.0"

const shutdownTimeout = 10 * time.Second

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("surface3d version %s\n", version)
		return
	}

	// Load configuration from file and environment.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := cfg.NewLogger()
	slog.SetDefault(logger)
	gin.SetMode(cfg.Server.GinMode)

	logger.Info("Starting surface3d server...", "version", version)
	logger.Info("Configuration",
		"port", cfg.Server.Port,
		"store", cfg.Store.Driver,
		"raster_dir", cfg.Raster.Dir,
		"raster_driver", cfg.Raster.Driver,
		"grid_dir", cfg.Grid.Dir)

	// Initialize store.
	st, err := openStore(cfg.Store)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	reader, err := raster.NewReader(cfg.Raster.Driver)
	if err != nil {
		logger.Error("Failed to create raster reader", "error", err)
		os.Exit(1)
	}

	// Initialize use case.
	surfaceUC := usecase.NewSurfaceUseCase(
		st,
		render.DefaultRegistry(render.Options{AssetsHost: cfg.Render.AssetsHost}),
		usecase.Sources{
			RasterDir: cfg.Raster.Dir,
			Raster:    reader,
			Grids:     gridcsv.NewGridStore(cfg.Grid.Dir),
		},
	)

	// Setup router.
	router := httpHandler.SetupRouter(surfaceUC, cfg.AllowedOrigins())

	srv := &http.Server{
		Addr:              cfg.GetServerAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Info("Server listening", "addr", srv.Addr)
	logger.Info(fmt.Sprintf("Health check: http://localhost:%d/health", cfg.Server.Port))
	logger.Info("API endpoints:")
	for _, e := range endpoints {
		logger.Info("  - " + e.route)
	}

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to start server", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", "error", err)
		}
	}
}

// openStore opens the configured surface store. sqlite.Open migrates the
// schema to the latest version.
func openStore(cfg config.StoreConfig) (store.SurfaceStore, error) {
	switch cfg.Driver {
	case config.StoreSQLite:
		s, err := sqlite.Open(cfg.Path)
		if err != nil {
			return nil, err
		}
		version, _, err := s.MigrateVersion()
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		slog.Info("SQLite store ready", "path", cfg.Path, "schema_version", version)
		return s, nil
	default:
		slog.Info("Using in-memory store (surfaces are lost on restart)")
		return memory.New(), nil
	}
}

var endpoints = []struct {
	route, help string
}{
	{"GET    /health", "Health check"},
	{"GET    /v1/presets", "List preset surfaces"},
	{"GET    /v1/palettes", "List palette names"},
	{"GET    /v1/formats", "List render formats"},
	{"GET    /v1/rasters", "List rasters in the raster directory"},
	{"GET    /v1/grids", "List CSV grids in the grid directory"},
	{"GET    /v1/surfaces", "List surfaces"},
	{"POST   /v1/surfaces", "Create a surface from properties"},
	{"POST   /v1/surfaces/presets/:name", "Create a preset surface (?n_lat=&n_lon=)"},
	{"POST   /v1/surfaces/rasters/:name", "Create a surface from a raster (?var=&coarsen=&normalize=&scale=&bbox=)"},
	{"POST   /v1/surfaces/grids/:name", "Create a surface from a CSV grid"},
	{"GET    /v1/surfaces/:id", "Get a surface"},
	{"PATCH  /v1/surfaces/:id", "Update view properties"},
	{"PUT    /v1/surfaces/:id/grid", "Replace the grid (JSON or text/csv)"},
	{"DELETE /v1/surfaces/:id", "Delete a surface"},
	{"GET    /v1/surfaces/:id/render", "Render (?format=html|png|colorbar|json|csv)"},
	{"GET    /swagger/index.html", "API documentation"},
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("surface3d Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  surface3d [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES (or config.yaml in ., ./config, $HOME/.surface3d):")
	fmt.Println("  SURFACE3D_SERVER_PORT          Server port (default: 8080)")
	fmt.Println("  SURFACE3D_SERVER_GINMODE       Gin mode: debug, release, test (default: release)")
	fmt.Println("  SURFACE3D_LOG_LEVEL            debug, info, warn, error (default: info)")
	fmt.Println("  SURFACE3D_LOG_FORMAT           text or json (default: text)")
	fmt.Println("  SURFACE3D_CORS_ALLOWEDORIGINS  Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  SURFACE3D_STORE_DRIVER         memory or sqlite (default: memory)")
	fmt.Println("  SURFACE3D_STORE_PATH           SQLite database file (default: ./data/surfaces.db)")
	fmt.Println("  SURFACE3D_RASTER_DIR           Directory of <name>.nc rasters (default: ./data/rasters)")
	fmt.Println("  SURFACE3D_RASTER_DRIVER        native or netcdf (default: native)")
	fmt.Println("  SURFACE3D_GRID_DIR             Directory of <name>.csv grids (default: ./data/grids)")
	fmt.Println("  SURFACE3D_RENDER_ASSETSHOST    Script host for HTML output (default: library CDN)")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  surface3d")
	fmt.Println()
	fmt.Println("  # Persist surfaces in SQLite on a custom port")
	fmt.Println("  SURFACE3D_SERVER_PORT=3000 SURFACE3D_STORE_DRIVER=sqlite surface3d")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	for _, e := range endpoints {
		fmt.Printf("  %-40s %s\n", e.route, e.help)
	}
	fmt.Println()
}
