package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"saedshub/internal/blobstore"
	"saedshub/internal/config"
	"saedshub/internal/handler"
	"saedshub/internal/middleware"
	"saedshub/internal/repository/postgres"
	"saedshub/internal/service/elibrary"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Create repositories
	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	folderRepo := postgres.NewFolderRepository(repoConfig)
	fileRepo := postgres.NewFileRepository(repoConfig)
	bookRepo := postgres.NewBookRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Blob store client
	blobs := blobstore.NewClient(blobstore.Config{
		CloudName: cfg.CloudName,
		APIKey:    cfg.CloudAPIKey,
		APISecret: cfg.CloudAPISecret,
	})

	// Create services
	treeService := elibrary.NewTreeService(folderRepo, logger)
	folderService := elibrary.NewFolderService(folderRepo, fileRepo, blobs, txManager, logger)
	fileService := elibrary.NewFileService(fileRepo, folderRepo, blobs, logger)
	bookService := elibrary.NewBookService(bookRepo, logger)
	resolver := elibrary.NewFileResolver(bookRepo, fileRepo, logger)

	// Create handlers
	treeHandler := handler.NewTreeHandler(treeService, logger)
	folderHandler := handler.NewFolderHandler(folderService, logger)
	fileHandler := handler.NewFileHandler(fileService, blobs, logger)
	bookHandler := handler.NewBookHandler(resolver, bookService, blobs, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", treeHandler.HealthCheck)

	// Folder tree
	mux.HandleFunc("GET /api/elibrary/tree", treeHandler.GetTree)

	// Folder routes
	mux.HandleFunc("POST /api/elibrary/folders", folderHandler.CreateFolder)
	mux.HandleFunc("GET /api/elibrary/folders/{id}", folderHandler.GetFolder)
	mux.HandleFunc("PATCH /api/elibrary/folders/{id}", folderHandler.UpdateFolder)
	mux.HandleFunc("DELETE /api/elibrary/folders/{id}", folderHandler.DeleteFolder)
	mux.HandleFunc("GET /api/elibrary/folders/{id}/files", folderHandler.ListFolderFiles)

	// File routes
	mux.HandleFunc("POST /api/elibrary/files", fileHandler.CreateFile)
	mux.HandleFunc("GET /api/elibrary/files", fileHandler.ListFiles)
	mux.HandleFunc("DELETE /api/elibrary/files/{id}", fileHandler.DeleteFile)
	mux.HandleFunc("GET /api/elibrary/files/{id}/download", fileHandler.DownloadFile)

	// Book file resolution and download proxy
	mux.HandleFunc("GET /api/books/{id}/file", bookHandler.GetBookFile)
	mux.HandleFunc("GET /api/books/{id}/download", bookHandler.DownloadBook)
	mux.HandleFunc("POST /api/books/{id}/download-count", bookHandler.IncrementDownloadCount)

	// Build middleware chain (applied in reverse order, they wrap each other)
	// Order: CORS → Recovery → Identity → Routes
	var root http.Handler = mux
	root = middleware.Identity(root)
	root = middleware.Recovery(logger)(root)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", middleware.MemberIDHeader},
		AllowCredentials: true,
	})
	root = corsHandler.Handler(root)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      root,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disabled to allow long-running download relays
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
