package board_test

import (
	"strings"
	"testing"
	"time"

	"github.com/Tiliavir/exam-board/internal/board"
	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/timecalc"
)

func at(h, m, s int) time.Time {
	return time.Date(2026, 5, 4, h, m, s, 0, time.UTC)
}

func TestBuildOrdersByWriteEnd(t *testing.T) {
	doc := model.DefaultDocument()
	b := board.Build(doc, at(8, 0, 0), 6)

	if b.SessionName != "Day 1" || b.CenterName != model.DefaultCenterName {
		t.Errorf("header = %q / %q", b.SessionName, b.CenterName)
	}
	if len(b.Cards) != 4 {
		t.Fatalf("cards = %d, want 4", len(b.Cards))
	}
	wantIDs := []model.ID{"104", "103", "102", "101"}
	for i, c := range b.Cards {
		if c.ID != wantIDs[i] {
			t.Errorf("card %d = %s, want %s", i, c.ID, wantIDs[i])
		}
		if c.Phase != timecalc.PhaseUpcoming || c.Color != timecalc.ColorBlue {
			t.Errorf("card %s phase = %s/%s", c.ID, c.Phase, c.Color)
		}
	}
	first := b.Cards[0]
	if first.StartDisplay != "08:15" || first.EndDisplay != "09:50" || first.DurationDisplay != "1h 30m" {
		t.Errorf("displays = %s %s %s", first.StartDisplay, first.EndDisplay, first.DurationDisplay)
	}
	if first.Warn30Display != "09:20" || first.Warn5Display != "09:45" {
		t.Errorf("warnings = %s %s", first.Warn30Display, first.Warn5Display)
	}
	if first.Message != "Starts in 15:00" {
		t.Errorf("Message = %q", first.Message)
	}
	if b.DateDisplay != "Monday, 4 May 2026" || b.ClockDisplay != "08:00:00" {
		t.Errorf("date/clock = %q %q", b.DateDisplay, b.ClockDisplay)
	}
}

func TestBuildStableForEqualWriteEnd(t *testing.T) {
	doc := model.DefaultDocument()
	doc.Schedule[0].Exams = []model.ExamRecord{
		{ID: "a", Subject: "A", StartTime: "09:00", Duration: 60},
		{ID: "b", Subject: "B", StartTime: "08:00", Duration: 120},
		{ID: "c", Subject: "C", StartTime: "09:30", Duration: 30},
	}
	b := board.Build(doc, at(7, 0, 0), 6)
	got := []model.ID{b.Cards[0].ID, b.Cards[1].ID, b.Cards[2].ID}
	if got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("order = %v, want input order for equal write ends", got)
	}
}

func TestBuildHidesAndCaps(t *testing.T) {
	doc := model.DefaultDocument()
	var exams []model.ExamRecord
	for i := 0; i < 9; i++ {
		exams = append(exams, model.ExamRecord{
			ID:        model.NewID(),
			Subject:   "Paper",
			StartTime: "09:00",
			Duration:  model.Minutes(30 + i),
			IsHidden:  i == 0,
		})
	}
	doc.Schedule[0].Exams = exams

	b := board.Build(doc, at(8, 0, 0), 6)
	if len(b.Cards) != 6 || b.Overflow != 2 {
		t.Fatalf("cards = %d overflow = %d, want 6/2", len(b.Cards), b.Overflow)
	}
	for _, c := range b.Cards {
		if c.ID == exams[0].ID {
			t.Error("hidden exam shown")
		}
	}
	if b.Cards[0].ID != exams[1].ID {
		t.Errorf("first card = %s, want shortest visible exam", b.Cards[0].ID)
	}

	if def := board.Build(doc, at(8, 0, 0), 0); len(def.Cards) != board.DefaultMaxCards {
		t.Errorf("default cap = %d", len(def.Cards))
	}
}

func TestBuildEmptySession(t *testing.T) {
	doc := model.DefaultDocument()
	doc.ActiveSessionID = 2
	b := board.Build(doc, at(8, 0, 0), 6)
	if len(b.Cards) != 0 || b.EmptyMessage != "No exams visible for Day 2." {
		t.Errorf("board = %+v", b)
	}
}

func TestNewCardWarnings(t *testing.T) {
	tests := []struct {
		name       string
		duration   model.Minutes
		now        time.Time
		show30     bool
		show5      bool
		style30    timecalc.WarningStyle
		style5     timecalc.WarningStyle
		urgent     bool
		wantPhase  timecalc.Phase
		wantColour string
	}{
		{"long exam mid-writing", 90, at(9, 50, 0), true, true, timecalc.WarningNormal, timecalc.WarningNormal, false, timecalc.PhaseWriting, timecalc.ColorGreen},
		{"near 30m mark", 90, at(9, 58, 0), true, true, timecalc.WarningCritical, timecalc.WarningNormal, false, timecalc.PhaseWriting, timecalc.ColorGreen},
		{"last minutes", 90, at(10, 25, 0), true, true, timecalc.WarningExpired, timecalc.WarningCritical, true, timecalc.PhaseWriting, timecalc.ColorRed},
		{"short exam", 20, at(9, 2, 0), false, true, timecalc.WarningExpired, timecalc.WarningNormal, false, timecalc.PhaseWriting, timecalc.ColorGreen},
		{"tiny exam", 5, at(8, 0, 0), false, false, timecalc.WarningNormal, timecalc.WarningNormal, false, timecalc.PhaseUpcoming, timecalc.ColorBlue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// 09:00 start, no reading time: writing ends at 09:00 + duration.
			c := board.NewCard(model.ExamRecord{ID: "x", Subject: "X", StartTime: "09:00", Duration: tt.duration}, tt.now)
			if c.ShowWarn30 != tt.show30 || c.ShowWarn5 != tt.show5 {
				t.Errorf("show = %v/%v, want %v/%v", c.ShowWarn30, c.ShowWarn5, tt.show30, tt.show5)
			}
			if c.Warn30Style != tt.style30 || c.Warn5Style != tt.style5 {
				t.Errorf("styles = %s/%s, want %s/%s", c.Warn30Style, c.Warn5Style, tt.style30, tt.style5)
			}
			if c.Urgent != tt.urgent || c.Phase != tt.wantPhase || c.Color != tt.wantColour {
				t.Errorf("card = %+v", c)
			}
		})
	}
}

func TestRender(t *testing.T) {
	doc := model.DefaultDocument()
	doc.Schedule[0].Exams = []model.ExamRecord{
		{ID: "1", Subject: "History SL", StartTime: "09:00", Duration: 60},
	}
	out := board.Render(board.Build(doc, at(8, 0, 0), 6))
	for _, want := range []string{model.DefaultCenterName, "History SL", "UPCOMING", "09:00", "08:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}

	doc.ActiveSessionID = 2
	out = board.Render(board.Build(doc, at(8, 0, 0), 6))
	if !strings.Contains(out, "No exams visible for Day 2.") {
		t.Errorf("empty render:\n%s", out)
	}
}
