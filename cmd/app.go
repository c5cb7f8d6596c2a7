package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/config"
	"github.com/Tiliavir/exam-board/internal/logging"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/storage"
)

// app bundles what every command needs: settings, logger and the store.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  storage.Store
	loc    *time.Location
}

// fatal reports a configuration or storage failure and exits with status 2.
func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(2)
}

func openApp(ctx context.Context) *app {
	cfg, err := config.Load(configPath)
	if err != nil {
		fatal(err)
	}
	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fatal(err)
	}
	loc, err := cfg.Board.Location()
	if err != nil {
		fatal(err)
	}
	store, err := storage.Open(ctx, cfg.Storage, cfg.DataDir, logger)
	if err != nil {
		fatal(err)
	}
	return &app{cfg: cfg, logger: logger, store: store, loc: loc}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) now() time.Time {
	return time.Now().In(a.loc)
}

func (a *app) load(ctx context.Context) model.Document {
	return storage.LoadDocument(ctx, a.store, a.logger)
}

func (a *app) save(ctx context.Context, doc model.Document) {
	if err := storage.SaveDocument(ctx, a.store, doc); err != nil {
		fatal(err)
	}
}

// update loads the document, applies fn and saves the result. Errors from fn
// are returned untouched so they surface as usage errors.
func (a *app) update(ctx context.Context, fn func(model.Document) (model.Document, error)) (model.Document, error) {
	doc, err := fn(a.load(ctx))
	if err != nil {
		return model.Document{}, err
	}
	a.save(ctx, doc)
	return doc, nil
}
