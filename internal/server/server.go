// Package server exposes the board and its setup over HTTP, and pushes the
// board to connected displays on every clock tick.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/exam-board/internal/board"
	"github.com/Tiliavir/exam-board/internal/clock"
	"github.com/Tiliavir/exam-board/internal/config"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/sheet"
	"github.com/Tiliavir/exam-board/internal/storage"
)

// Options wires a Server.
type Options struct {
	Config   config.Config
	Store    storage.Store
	Stager   *sheet.Stager
	Logger   *zap.Logger
	Location *time.Location
	// Now overrides the wall clock, for tests.
	Now func() time.Time
}

// Server owns the live document. Every mutation replaces the whole document
// under mu after it has been saved.
type Server struct {
	cfg      config.Config
	store    storage.Store
	stager   *sheet.Stager
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	clock    *clock.Scheduler
	hub      *Hub
	validate *validator.Validate

	mu  sync.RWMutex
	doc model.Document
}

// New loads the document from the store and prepares the server.
func New(ctx context.Context, opts Options) *Server {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Server{
		cfg:      opts.Config,
		store:    opts.Store,
		stager:   opts.Stager,
		logger:   opts.Logger,
		loc:      loc,
		now:      now,
		clock:    clock.New(opts.Config.Board.TickInterval),
		hub:      NewHub(opts.Logger),
		validate: validator.New(),
		doc:      storage.LoadDocument(ctx, opts.Store, opts.Logger),
	}
}

// Document returns the current document.
func (s *Server) Document() model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc
}

// mutate applies fn to the current document, saves the result and makes it
// current. Displays get the new board straight away.
func (s *Server) mutate(ctx context.Context, fn func(model.Document) (model.Document, error)) (model.Document, error) {
	s.mu.Lock()
	next, err := fn(s.doc)
	if err != nil {
		s.mu.Unlock()
		return model.Document{}, err
	}
	if err := storage.SaveDocument(ctx, s.store, next); err != nil {
		s.mu.Unlock()
		return model.Document{}, fmt.Errorf("%w: %w", errStorage, err)
	}
	s.doc = next
	s.mu.Unlock()

	s.pushBoard(s.now())
	return next, nil
}

func (s *Server) buildBoard(doc model.Document, t time.Time) board.Board {
	return board.Build(doc, t.In(s.loc), s.cfg.Board.MaxCards)
}

func (s *Server) pushBoard(t time.Time) {
	if s.hub.Len() == 0 {
		return
	}
	data, err := json.Marshal(s.buildBoard(s.Document(), t))
	if err != nil {
		s.logger.Error("encoding board", zap.Error(err))
		return
	}
	s.hub.Broadcast(data)
}

// Run serves HTTP on the configured address until ctx is cancelled. The
// listener, the clock and the optional sheet refresher share one errgroup.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	var refresher *cron.Cron
	if spec, url := s.cfg.Sheet.Refresh, s.cfg.Sheet.URL; spec != "" && url != "" {
		c, err := sheet.StartRefresher(spec, func() {
			res := s.stager.Refresh(ctx, url)
			s.logger.Info("scheduled sheet refresh", zap.String("status", res.Status), zap.Bool("stale", res.Stale))
		})
		if err != nil {
			return err
		}
		refresher = c
	}

	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.Go(func() error {
		s.logger.Info("board server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.CloseAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	ticks, unsubscribe := s.clock.Subscribe()
	defer unsubscribe()
	g.Go(func() error { return s.clock.Run(ctx) })
	g.Go(func() error {
		for t := range ticks {
			s.pushBoard(t)
		}
		return nil
	})

	if refresher != nil {
		g.Go(func() error {
			<-ctx.Done()
			<-refresher.Stop().Done()
			return nil
		})
	}

	return g.Wait()
}
