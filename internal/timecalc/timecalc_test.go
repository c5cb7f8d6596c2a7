package timecalc_test

import (
	"testing"
	"time"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/timecalc"
)

var ref = at(7, 30, 0)

func TestDeriveTimings(t *testing.T) {
	exam := model.ExamRecord{StartTime: "08:15", Duration: 150, ReadingTime: 5, HasReadingTime: true}
	got := timecalc.DeriveTimings(exam, ref)

	checks := []struct {
		name string
		got  time.Time
		want time.Time
	}{
		{"Start", got.Start, at(8, 15, 0)},
		{"ReadingEnd", got.ReadingEnd, at(8, 20, 0)},
		{"WriteEnd", got.WriteEnd, at(10, 50, 0)},
		{"Warn30", got.Warn30, at(10, 20, 0)},
		{"Warn5", got.Warn5, at(10, 45, 0)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if got.WritingMinutes != 150 {
		t.Errorf("WritingMinutes = %d, want 150", got.WritingMinutes)
	}
}

func TestDeriveTimingsReadingDisabled(t *testing.T) {
	exam := model.ExamRecord{StartTime: "9:00", Duration: 60, ReadingTime: 10, HasReadingTime: false}
	got := timecalc.DeriveTimings(exam, ref)
	if !got.ReadingEnd.Equal(got.Start) {
		t.Errorf("ReadingEnd = %v, want start %v", got.ReadingEnd, got.Start)
	}
	if !got.WriteEnd.Equal(at(10, 0, 0)) {
		t.Errorf("WriteEnd = %v, want 10:00", got.WriteEnd)
	}
}

func TestDeriveTimingsNoMidnightWrap(t *testing.T) {
	exam := model.ExamRecord{StartTime: "23:30", Duration: 60}
	got := timecalc.DeriveTimings(exam, ref)
	want := time.Date(2026, 5, 5, 0, 30, 0, 0, time.UTC)
	if !got.WriteEnd.Equal(want) {
		t.Errorf("WriteEnd = %v, want %v", got.WriteEnd, want)
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		wantH, wantM int
	}{
		{"08:15", 8, 15},
		{"9:5", 9, 5},
		{"", 0, 0},
		{"xx:30", 0, 30},
		{"14", 14, 0},
	}
	for _, tt := range tests {
		h, m := timecalc.ParseClock(tt.in)
		if h != tt.wantH || m != tt.wantM {
			t.Errorf("ParseClock(%q) = %d, %d, want %d, %d", tt.in, h, m, tt.wantH, tt.wantM)
		}
	}
}

func TestFormatCountdown(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Minute, "30:00"},
		{5*time.Minute + 9*time.Second + 900*time.Millisecond, "5:09"},
		{0, "0:00"},
		{-time.Second, "0:00"},
		{30*time.Minute + time.Second, "31"},
		{90 * time.Minute, "90"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatCountdown(tt.in); got != tt.want {
			t.Errorf("FormatCountdown(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0h 0m"},
		{45, "0h 45m"},
		{150, "2h 30m"},
	}
	for _, tt := range tests {
		if got := timecalc.FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestFormatDisplays(t *testing.T) {
	ts := time.Date(2026, 2, 27, 14, 5, 9, 0, time.UTC)
	if got := timecalc.FormatShortTime(ts); got != "14:05" {
		t.Errorf("FormatShortTime = %q", got)
	}
	if got := timecalc.FormatClock(ts); got != "14:05:09" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := timecalc.FormatDate(ts); got != "Friday, 27 February 2026" {
		t.Errorf("FormatDate = %q", got)
	}
}
