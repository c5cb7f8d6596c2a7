package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/exam-board/internal/importer"
	"github.com/Tiliavir/exam-board/internal/model"
)

func TestCsvEscape(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"plain", "plain"},
		{"with space", "with space"},
		{"with,comma", `"with,comma"`},
		{`with"quote`, `"with""quote"`},
		{"with\nnewline", "\"with\nnewline\""},
		{"with\rreturn", "\"with\rreturn\""},
		{"", ""},
	}
	for _, tt := range tests {
		got := csvEscape(tt.input)
		if got != tt.want {
			t.Errorf("csvEscape(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

var exportRef = time.Date(2026, 5, 4, 7, 0, 0, 0, time.UTC)

func TestExportRows(t *testing.T) {
	doc := model.DefaultDocument()
	doc.Schedule[0].Exams[3].IsHidden = true

	rows := exportRows(doc, 0, exportRef)
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want 4", len(rows))
	}
	first := rows[0]
	if first.Session != "Day 1" || first.Start != "08:15" || first.End != "10:50" {
		t.Errorf("first row = %+v", first)
	}
	if first.Duration != 150 || first.Reading != 5 {
		t.Errorf("first row minutes = %d/%d", first.Duration, first.Reading)
	}
	if !rows[3].Hidden {
		t.Error("hidden flag lost")
	}

	if rows := exportRows(doc, 2, exportRef); len(rows) != 0 {
		t.Errorf("empty session exported %d rows", len(rows))
	}
}

func TestPrintCSV(t *testing.T) {
	doc := model.DefaultDocument()
	var buf bytes.Buffer
	printCSV(&buf, exportRows(doc, 1, exportRef))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("lines = %d, want header + 4", len(lines))
	}
	want := "Day 1,Comp Sci HL P1,08:15,10:30,130,5,false"
	if lines[2] != want {
		t.Errorf("line 2 = %q, want %q", lines[2], want)
	}
}

func TestPrintMarkdown(t *testing.T) {
	var buf bytes.Buffer
	printMarkdown(&buf, nil)
	if buf.String() != "No exams found.\n" {
		t.Errorf("empty output = %q", buf.String())
	}

	buf.Reset()
	printMarkdown(&buf, []exportRow{{Session: "Day 1", Subject: "A|B", Start: "09:00", End: "10:05", Duration: 60, Reading: 5, Hidden: true}})
	out := buf.String()
	if !strings.Contains(out, "## Day 1") || !strings.Contains(out, `| ~~A\|B~~ | 09:00 | 10:05 | 1h 0m | 5m |`) {
		t.Errorf("markdown = %q", out)
	}
}

func TestWriteWorkbookReimports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.xlsx")
	doc := model.DefaultDocument()
	if err := writeWorkbook(path, exportRows(doc, 0, exportRef)); err != nil {
		t.Fatalf("writeWorkbook: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	groups, err := importer.ParseWorkbook(f)
	if err != nil {
		t.Fatalf("ParseWorkbook: %v", err)
	}
	if len(groups) != 1 || groups[0].Name != "Day 1" || len(groups[0].Exams) != 4 {
		t.Fatalf("groups = %+v", groups)
	}
	if e := groups[0].Exams[1]; e.Subject != "Comp Sci HL P1" || e.Duration != 130 || e.StartTime != "08:15" {
		t.Errorf("reimported exam = %+v", e)
	}
}
