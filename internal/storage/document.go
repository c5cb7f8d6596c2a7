package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/model"
)

// LoadDocument assembles the document from its keys. It never fails: a key
// that is missing, unreadable or undecodable keeps the default document's
// value, and an empty schedule is replaced by the default schedule.
func LoadDocument(ctx context.Context, s Store, logger *zap.Logger) model.Document {
	doc := model.DefaultDocument()

	load(ctx, s, logger, KeyCenterName, &doc.CenterName)
	load(ctx, s, logger, KeyLogoURL, &doc.LogoURL)

	var sessions []model.Session
	if load(ctx, s, logger, KeySchedule, &sessions) {
		if len(sessions) == 0 {
			logger.Warn("stored schedule is empty, using default schedule")
		} else {
			doc.Schedule = sessions
		}
	}

	var active int
	if load(ctx, s, logger, KeyActiveSession, &active) {
		doc.ActiveSessionID = active
	}
	if cur, ok := doc.ActiveSession(); ok {
		doc.ActiveSessionID = cur.ID
	}
	for i := range doc.Schedule {
		if doc.Schedule[i].Exams == nil {
			doc.Schedule[i].Exams = []model.ExamRecord{}
		}
	}
	return doc
}

// load decodes the value under key into dst and reports whether it did.
func load(ctx context.Context, s Store, logger *zap.Logger, key string, dst any) bool {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		logger.Debug("no stored value, using default", zap.String("key", key))
		return false
	}
	if err != nil {
		logger.Warn("failed to read stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		logger.Warn("failed to decode stored value, using default", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// SaveDocument writes every key of doc.
func SaveDocument(ctx context.Context, s Store, doc model.Document) error {
	values := []struct {
		key string
		v   any
	}{
		{KeyCenterName, doc.CenterName},
		{KeyLogoURL, doc.LogoURL},
		{KeySchedule, doc.Schedule},
		{KeyActiveSession, doc.ActiveSessionID},
	}
	for _, kv := range values {
		data, err := json.Marshal(kv.v)
		if err != nil {
			return fmt.Errorf("storage error marshalling %s: %w", kv.key, err)
		}
		if err := s.Set(ctx, kv.key, data); err != nil {
			return err
		}
	}
	return nil
}
