package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/paperprep/paperprep-backend/internal/config"
	"github.com/paperprep/paperprep-backend/internal/database"
	"github.com/paperprep/paperprep-backend/internal/logger"
	"github.com/paperprep/paperprep-backend/internal/model"
	"github.com/paperprep/paperprep-backend/internal/repository"
	"github.com/paperprep/paperprep-backend/internal/service"
	"github.com/paperprep/paperprep-backend/internal/validator"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "", "Path to a paper JSON file")
	flag.Parse()
	if file == "" && flag.NArg() > 0 {
		file = flag.Arg(0)
	}
	if file == "" {
		fmt.Println("Usage: import-paper -file <paper.json>")
		os.Exit(2)
	}

	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	validator.Setup()

	// ─── Read and Validate ─────────────────────────────────────────────
	raw, err := os.ReadFile(file)
	if err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Failed to read paper file")
	}

	var req model.ImportPaperRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		log.Fatal().Err(err).Str("file", file).Msg("Invalid JSON")
	}

	if err := validator.Engine().Struct(req); err != nil {
		for field, msg := range validator.TranslateErrors(err) {
			fmt.Printf("  %s: %s\n", field, msg)
		}
		log.Fatal().Err(err).Msg("Paper file failed validation")
	}

	ctx := context.Background()

	// ─── Connect ───────────────────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	catalog := service.NewCatalogService(
		repository.NewPaperRepository(pool),
		repository.NewQuestionRepository(pool),
		rdb, cfg, log,
	)

	// ─── Import ────────────────────────────────────────────────────────
	res, err := catalog.Import(ctx, req)
	if err != nil {
		var ie *service.ImportError
		if errors.As(err, &ie) {
			for field, msg := range ie.Fields {
				fmt.Printf("  %s: %s\n", field, msg)
			}
		}
		log.Fatal().Err(err).Msg("Import failed")
	}

	fmt.Printf("Imported %s (%s): %d questions, %d passages\n",
		res.Paper.ID, res.Paper.Title, res.Questions, res.Passages)
}
