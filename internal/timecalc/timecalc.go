package timecalc

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Tiliavir/exam-board/internal/model"
)

const (
	// CountdownSecondsThreshold switches the countdown from whole minutes to M:SS.
	CountdownSecondsThreshold = 30 * time.Minute
	// UrgentThreshold marks the final minutes of writing time.
	UrgentThreshold = 5 * time.Minute
	// CriticalWarningWindow is how close a warning mark must be to flash.
	CriticalWarningWindow = 3 * time.Minute

	warn30Offset = 30 * time.Minute
	warn5Offset  = 5 * time.Minute
)

// Timing holds the absolute instants derived from an exam for one calendar day.
type Timing struct {
	Start          time.Time
	ReadingEnd     time.Time
	WriteEnd       time.Time
	Warn30         time.Time
	Warn5          time.Time
	WritingMinutes int
}

// ParseClock splits an "HH:MM" start time into hours and minutes. Malformed
// parts are coerced to 0 rather than rejected.
func ParseClock(s string) (int, int) {
	h, m, _ := strings.Cut(strings.TrimSpace(s), ":")
	return model.ParseIntOrZero(h), model.ParseIntOrZero(m)
}

// ReadingMinutes returns the effective reading time of an exam.
func ReadingMinutes(exam model.ExamRecord) int {
	if !exam.HasReadingTime {
		return 0
	}
	return int(exam.ReadingTime)
}

// DeriveTimings anchors the exam's start time onto ref's calendar date and
// derives reading end, write end and the warning marks. Times past midnight
// are not wrapped.
func DeriveTimings(exam model.ExamRecord, ref time.Time) Timing {
	h, m := ParseClock(exam.StartTime)
	start := time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, ref.Location())

	readingEnd := start.Add(time.Duration(ReadingMinutes(exam)) * time.Minute)
	writeEnd := readingEnd.Add(time.Duration(exam.Duration) * time.Minute)

	return Timing{
		Start:          start,
		ReadingEnd:     readingEnd,
		WriteEnd:       writeEnd,
		Warn30:         writeEnd.Add(-warn30Offset),
		Warn5:          writeEnd.Add(-warn5Offset),
		WritingMinutes: int(exam.Duration),
	}
}

// FormatCountdown renders a remaining duration. Up to 30 minutes it shows
// M:SS using whole elapsed seconds; above that, minutes rounded up.
func FormatCountdown(remaining time.Duration) string {
	if remaining <= CountdownSecondsThreshold {
		totalSecs := int64(remaining / time.Second)
		if totalSecs < 0 {
			totalSecs = 0
		}
		return fmt.Sprintf("%d:%02d", totalSecs/60, totalSecs%60)
	}
	mins := math.Ceil(float64(remaining.Milliseconds()) / 60000)
	return fmt.Sprintf("%d", int64(mins))
}

// FormatDuration formats minutes as "2h 30m".
func FormatDuration(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// FormatShortTime formats t as 24h "15:04".
func FormatShortTime(t time.Time) string {
	return t.Format("15:04")
}

// FormatClock formats t as 24h "15:04:05".
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDate formats t like "Friday, 27 February 2026".
func FormatDate(t time.Time) string {
	return t.Format("Monday, 2 January 2006")
}
