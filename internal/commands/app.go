package commands

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/tallyup-dev/tallyup/internal/bankrules"
	"github.com/tallyup-dev/tallyup/internal/config"
	"github.com/tallyup-dev/tallyup/internal/extract"
	"github.com/tallyup-dev/tallyup/internal/logger"
	"github.com/tallyup-dev/tallyup/internal/pipeline"
	"github.com/tallyup-dev/tallyup/internal/store/sqlite"
)

// app is an opened data directory.
type app struct {
	root  string
	cfg   *config.Config
	log   zerolog.Logger
	store *sqlite.DB
}

func openApp(g *globalFlags) (*app, error) {
	root, err := filepath.Abs(g.repo)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run tallyup init first?): %w", config.FileName, err)
	}

	level := cfg.Log.Level
	if g.logLevel != "" {
		level = g.logLevel
	}

	dbPath := cfg.Store.Path
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(root, dbPath)
	}
	db, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, err
	}

	return &app{root: root, cfg: cfg, log: logger.New(level), store: db}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func (a *app) userID() string {
	return a.cfg.User.ID
}

func (a *app) receiptPipeline() *pipeline.ReceiptPipeline {
	return pipeline.NewReceiptPipeline(
		extract.New(a.cfg.ExtractOptions()),
		pipeline.WithReceiptLogger(a.log),
		pipeline.WithNoteMaxLen(a.cfg.Extraction.NoteMaxLen),
	)
}

func (a *app) smsPipeline() *pipeline.SMSPipeline {
	return pipeline.NewSMSPipeline(
		bankrules.DefaultMatcher(),
		pipeline.WithSMSLogger(a.log),
		pipeline.WithWorkers(a.cfg.Import.Workers),
	)
}
