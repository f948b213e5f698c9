package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"saedshub/internal/config"
	"saedshub/internal/repository/postgres"
	"saedshub/internal/service/elibrary"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	clearData := flag.Bool("clear-data", false, "Delete all rows but keep the schema before seeding")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed default folders")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: cannot run --drop-tables or --clear-data in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *clearData {
		log.Println("Clearing all rows...")
		if err := clearAllData(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to clear data: %v", err)
		}
		log.Println("Data cleared")
	}

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Seed the default folder structure through the same guarded path the
	// server uses on its first tree read
	folderRepo := postgres.NewFolderRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	})
	treeService := elibrary.NewTreeService(folderRepo, logger)
	if _, err := treeService.GetTree(ctx); err != nil {
		log.Fatalf("Failed to seed default folders: %v", err)
	}

	count, err := folderRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count folders: %v", err)
	}
	log.Printf("Seeding complete (%d folders)", count)
}

func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		"DROP TABLE IF EXISTS " + tables.MemberDownloads + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Files + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Books + " CASCADE",
		"DROP TABLE IF EXISTS " + tables.Folders + " CASCADE",
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func clearAllData(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	statements := []string{
		"DELETE FROM " + tables.MemberDownloads,
		"DELETE FROM " + tables.Files,
		"DELETE FROM " + tables.Books,
		"DELETE FROM " + tables.Folders,
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	// parent_id and folder_id carry no foreign keys on purpose: dangling
	// references are tolerated and cascades run in the service layer
	createFolders := `
		CREATE TABLE IF NOT EXISTS ` + tables.Folders + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			parent_id TEXT,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createFolders); err != nil {
		return err
	}

	createFiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Files + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL,
			public_id TEXT NOT NULL DEFAULT '',
			folder_id TEXT NOT NULL,
			folder_title TEXT NOT NULL DEFAULT '',
			file_type TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(url)
		)
	`
	if _, err := pool.Exec(ctx, createFiles); err != nil {
		return err
	}

	createBooks := `
		CREATE TABLE IF NOT EXISTS ` + tables.Books + ` (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			pdf_url TEXT NOT NULL DEFAULT '',
			folder_id TEXT NOT NULL DEFAULT '',
			folder_title TEXT NOT NULL DEFAULT '',
			download_count INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createBooks); err != nil {
		return err
	}

	createMemberDownloads := `
		CREATE TABLE IF NOT EXISTS ` + tables.MemberDownloads + ` (
			member_id TEXT NOT NULL,
			book_id TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (member_id, book_id)
		)
	`
	if _, err := pool.Exec(ctx, createMemberDownloads); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `folders_parent ON ` + tables.Folders + `(parent_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_folder ON ` + tables.Files + `(folder_id)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `files_created ON ` + tables.Files + `(created_at DESC)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}
