package sheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/importer"
)

// Fetcher is the network read behind a refresh.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Snapshot is the currently staged sheet.
type Snapshot struct {
	Groups     []importer.Group `json:"groups"`
	Status     string           `json:"status"`
	Generation uint64           `json:"generation"`
	StagedAt   time.Time        `json:"stagedAt"`
}

// Result describes one refresh.
type Result struct {
	Snapshot
	// Stale is set when a newer refresh was started before this one
	// finished; its data was discarded.
	Stale bool `json:"stale"`
}

// Stager holds parsed sheet sessions in memory. It never touches the
// document; importing staged sessions is up to the caller.
//
// Every refresh takes a generation number when it starts. A response that
// arrives after a newer refresh was started is dropped, so the newest
// request always wins regardless of arrival order.
type Stager struct {
	fetcher Fetcher
	logger  *zap.Logger
	now     func() time.Time

	mu      sync.Mutex
	issued  uint64
	current Snapshot
}

// NewStager creates an empty stager.
func NewStager(f Fetcher, logger *zap.Logger) *Stager {
	return &Stager{fetcher: f, logger: logger, now: time.Now}
}

func (s *Stager) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// commit stages groups/status for gen unless a newer generation exists.
func (s *Stager) commit(gen uint64, groups []importer.Group, status string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.issued {
		s.logger.Debug("discarding stale sheet response",
			zap.Uint64("generation", gen), zap.Uint64("newest", s.issued))
		return Result{Snapshot: s.current, Stale: true}
	}
	s.current = Snapshot{Groups: groups, Status: status, Generation: gen, StagedAt: s.now()}
	return Result{Snapshot: s.current}
}

// Refresh fetches url, parses it and stages the result. Failures never
// propagate: they become an "Error: ..." status and clear the staging.
func (s *Stager) Refresh(ctx context.Context, url string) Result {
	gen := s.begin()

	body, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Warn("sheet fetch failed", zap.String("url", url), zap.Error(err))
		return s.commit(gen, nil, "Error: "+err.Error())
	}
	groups := importer.ParseTable(body)
	s.logger.Info("sheet staged", zap.Int("sessions", len(groups)), zap.Uint64("generation", gen))
	return s.commit(gen, groups, loadedStatus(len(groups)))
}

// Stage replaces the staging with already parsed groups, e.g. from an
// uploaded workbook. Any refresh still in flight becomes stale.
func (s *Stager) Stage(groups []importer.Group) Result {
	return s.commit(s.begin(), groups, loadedStatus(len(groups)))
}

// Snapshot returns the staged sheet.
func (s *Stager) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Group returns the staged session called name.
func (s *Stager) Group(name string) (importer.Group, bool) {
	return importer.FindGroup(s.Snapshot().Groups, name)
}

func loadedStatus(n int) string {
	return fmt.Sprintf("Loaded %d sessions from sheet.", n)
}
