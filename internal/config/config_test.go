package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/exam-board/internal/config"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("template not written: %v", err)
	}
	if cfg.Storage.Backend != config.BackendFile || cfg.Board.MaxCards != 6 {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir not resolved")
	}

	// The template itself must parse back to the same settings.
	again, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load template: %v", err)
	}
	if again.Board != cfg.Board || again.Storage != cfg.Storage || again.Sheet != cfg.Sheet {
		t.Errorf("template = %+v, defaults = %+v", again, cfg)
	}
	if again.Sheet.Timeout != 15*time.Second || again.Board.TickInterval != time.Second {
		t.Errorf("durations = %v / %v", again.Sheet.Timeout, again.Board.TickInterval)
	}
}

func TestLoadCommentedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// local board
{
  // only the board section
  "board": { "max_cards": 4, "bulk_grammar": "strict" },
  "sheet": { "url": "https://example.com/sheet.tsv" }
}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.MaxCards != 4 || cfg.Board.BulkGrammar != "strict" {
		t.Errorf("board = %+v", cfg.Board)
	}
	if cfg.Board.ExtraTimePercent != 25 {
		t.Errorf("unset key lost its default: %d", cfg.Board.ExtraTimePercent)
	}
	if cfg.Sheet.URL != "https://example.com/sheet.tsv" {
		t.Errorf("sheet url = %q", cfg.Sheet.URL)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	t.Setenv("EXAMBOARD_BOARD_MAX_CARDS", "3")
	t.Setenv("EXAMBOARD_LOG_FORMAT", "json")

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Board.MaxCards != 3 || cfg.Log.Format != "json" {
		t.Errorf("env overrides not applied: %+v / %+v", cfg.Board, cfg.Log)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"redis without url", `{"storage": {"backend": "redis"}}`},
		{"unknown backend", `{"storage": {"backend": "s3"}}`},
		{"zero cards", `{"board": {"max_cards": 0}}`},
		{"unknown grammar", `{"board": {"bulk_grammar": "csv"}}`},
		{"broken json", `{"board": `},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := config.Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestBoardLocation(t *testing.T) {
	loc, err := config.BoardConfig{}.Location()
	if err != nil || loc != time.Local {
		t.Errorf("empty timezone = %v, %v", loc, err)
	}
	loc, err = config.BoardConfig{Timezone: "UTC"}.Location()
	if err != nil || loc.String() != "UTC" {
		t.Errorf("UTC = %v, %v", loc, err)
	}
	if _, err := (config.BoardConfig{Timezone: "Mars/Olympus"}).Location(); err == nil || !strings.Contains(err.Error(), "Mars/Olympus") {
		t.Errorf("err = %v", err)
	}
}
