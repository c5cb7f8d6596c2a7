package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Tiliavir/exam-board/internal/config"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
	"github.com/Tiliavir/exam-board/internal/storage"
)

func TestFileStoreGetMissing(t *testing.T) {
	s := storage.NewFileStore(t.TempDir())
	if _, err := s.Get(context.Background(), storage.KeySchedule); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get on missing key: err = %v, want ErrNotFound", err)
	}
}

func TestFileStoreSetAndGet(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s := storage.NewFileStore(dir)
	ctx := context.Background()

	if err := s.Set(ctx, storage.KeyCenterName, []byte(`"FINALS"`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(ctx, storage.KeyCenterName)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `"FINALS"` {
		t.Errorf("Get = %s", got)
	}
	if _, err := os.Stat(filepath.Join(dir, storage.KeyCenterName+".json.tmp")); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestFileStoreQuarantinesCorruptValue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, storage.KeySchedule+".json")
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.NewFileStore(dir).Get(context.Background(), storage.KeySchedule)
	if !errors.Is(err, storage.ErrCorrupt) {
		t.Fatalf("err = %v, want ErrCorrupt", err)
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Errorf("expected backup file: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt file should have been moved")
	}
}

func TestLoadDocumentEmptyStore(t *testing.T) {
	doc := storage.LoadDocument(context.Background(), storage.NewFileStore(t.TempDir()), zap.NewNop())
	want := model.DefaultDocument()
	if doc.CenterName != want.CenterName || doc.LogoURL != want.LogoURL {
		t.Errorf("center = %q / %q", doc.CenterName, doc.LogoURL)
	}
	if len(doc.Schedule) != 2 || len(doc.Schedule[0].Exams) != 4 {
		t.Errorf("schedule = %+v", doc.Schedule)
	}
	if doc.ActiveSessionID != 1 {
		t.Errorf("ActiveSessionID = %d, want 1", doc.ActiveSessionID)
	}
}

func TestSaveAndLoadDocument(t *testing.T) {
	ctx := context.Background()
	s := storage.NewFileStore(t.TempDir())

	doc, added := schedule.AddSession(model.DefaultDocument())
	doc = schedule.SetCenterName(doc, "SUMMER SERIES")
	doc, err := schedule.AddExam(doc, added.ID, schedule.NewExam())
	if err != nil {
		t.Fatal(err)
	}
	if err := storage.SaveDocument(ctx, s, doc); err != nil {
		t.Fatalf("SaveDocument: %v", err)
	}

	loaded := storage.LoadDocument(ctx, s, zap.NewNop())
	if loaded.CenterName != "SUMMER SERIES" {
		t.Errorf("CenterName = %q", loaded.CenterName)
	}
	if loaded.ActiveSessionID != added.ID {
		t.Errorf("ActiveSessionID = %d, want %d", loaded.ActiveSessionID, added.ID)
	}
	if len(loaded.Schedule) != 3 || len(loaded.Schedule[2].Exams) != 1 {
		t.Fatalf("schedule = %+v", loaded.Schedule)
	}
	if loaded.Schedule[2].Exams[0].ID != doc.Schedule[2].Exams[0].ID {
		t.Error("exam id not preserved")
	}
}

func TestLoadDocumentFallsBackPerKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := storage.NewFileStore(dir)

	// Legacy schedule with numeric ids and a string duration.
	legacy := `[{"id":7,"name":"Paper 1","exams":[{"id":101,"subject":"Maths","startTime":"09:00","duration":"90","readingTime":5,"hasReadingTime":true,"isHidden":false}]}]`
	if err := s.Set(ctx, storage.KeySchedule, []byte(legacy)); err != nil {
		t.Fatal(err)
	}
	// Wrong shape for the center name, corrupt logo, dangling active id.
	if err := s.Set(ctx, storage.KeyCenterName, []byte(`42`)); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, storage.KeyLogoURL+".json"), []byte("not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, storage.KeyActiveSession, []byte(`99`)); err != nil {
		t.Fatal(err)
	}

	doc := storage.LoadDocument(ctx, s, zap.NewNop())
	if doc.CenterName != model.DefaultCenterName {
		t.Errorf("CenterName = %q, want default", doc.CenterName)
	}
	if doc.LogoURL != model.DefaultLogoURL {
		t.Errorf("LogoURL = %q, want default", doc.LogoURL)
	}
	if len(doc.Schedule) != 1 || doc.Schedule[0].Name != "Paper 1" {
		t.Fatalf("schedule = %+v", doc.Schedule)
	}
	e := doc.Schedule[0].Exams[0]
	if e.ID != "101" || e.Duration != 90 {
		t.Errorf("legacy exam = %+v", e)
	}
	if doc.ActiveSessionID != 7 {
		t.Errorf("ActiveSessionID = %d, want 7", doc.ActiveSessionID)
	}
}

func TestLoadDocumentEmptySchedule(t *testing.T) {
	ctx := context.Background()
	s := storage.NewFileStore(t.TempDir())
	if err := s.Set(ctx, storage.KeySchedule, []byte(`[]`)); err != nil {
		t.Fatal(err)
	}
	doc := storage.LoadDocument(ctx, s, zap.NewNop())
	if len(doc.Schedule) != 2 {
		t.Errorf("schedule = %d sessions, want default 2", len(doc.Schedule))
	}
}

func TestOpenFileBackend(t *testing.T) {
	s, err := storage.Open(context.Background(), config.StorageConfig{Backend: config.BackendFile}, t.TempDir(), zap.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if _, ok := s.(*storage.FileStore); !ok {
		t.Errorf("Open returned %T", s)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	if _, err := storage.Open(context.Background(), config.StorageConfig{Backend: "s3"}, t.TempDir(), zap.NewNop()); err == nil {
		t.Error("expected error")
	}
}
