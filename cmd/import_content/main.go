// import_content は書籍カタログとフィード用コンテンツをDBに取り込むコマンドです。
//
//	go run ./cmd/import_content -file data/catalog.yaml
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"kaiz1_core/internal/config"
	"kaiz1_core/internal/importer"
	"kaiz1_core/internal/middleware"
	"kaiz1_core/internal/repository"

	"github.com/lmittmann/tint"
)

func main() {
	filePath := flag.String("file", "", "path to a .xlsx (sheets Books/Content) or .yaml (books:/content:) file")
	configDir := flag.String("config", "configs", "directory containing config.yaml")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{Level: slog.LevelInfo, TimeFormat: time.Kitchen}))
	slog.SetDefault(logger)

	if *filePath == "" {
		fmt.Fprintln(os.Stderr, "usage: import_content -file <catalog.xlsx|catalog.yaml>")
		os.Exit(2)
	}

	if err := config.LoadConfig(*configDir); err != nil {
		logger.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	db, err := repository.NewDB(config.Cfg.Database, logger)
	if err != nil {
		logger.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	cat, err := importer.ParseFile(*filePath)
	if err != nil {
		logger.Error("Failed to parse catalog", slog.String("file", *filePath), slog.Any("error", err))
		os.Exit(1)
	}

	ctx := middleware.WithLogger(context.Background(), logger)
	im := importer.New(db, repository.NewGormBookRepository(), repository.NewGormContentRepository())
	res, err := im.Import(ctx, cat)
	if err != nil {
		logger.Error("Import failed", slog.Any("error", err))
		os.Exit(1)
	}

	for _, msg := range res.Errors {
		logger.Warn("Skipped record", slog.String("reason", msg))
	}
	logger.Info("Import completed",
		slog.String("file", *filePath),
		slog.Int("books", res.Books),
		slog.Int("content", res.Content),
		slog.Int("skipped", res.Skipped))
}
