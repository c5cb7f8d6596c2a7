package timecalc

import (
	"time"

	"github.com/Tiliavir/exam-board/internal/model"
)

// Phase is an exam's lifecycle state relative to now.
type Phase string

const (
	PhaseUpcoming Phase = "upcoming"
	PhaseReading  Phase = "reading"
	PhaseWriting  Phase = "writing"
	PhaseFinished Phase = "finished"
)

// Rank orders phases; it only ever increases as time moves forward.
func (p Phase) Rank() int {
	switch p {
	case PhaseUpcoming:
		return 0
	case PhaseReading:
		return 1
	case PhaseWriting:
		return 2
	default:
		return 3
	}
}

// Color buckets consumed by renderers.
const (
	ColorBlue  = "blue"
	ColorAmber = "amber"
	ColorGreen = "green"
	ColorRed   = "red"
	ColorNavy  = "navy"
)

// Status is the classification of an exam at one instant.
type Status struct {
	Phase     Phase
	Label     string
	Message   string
	Countdown string
	Remaining time.Duration
	Urgent    bool
	Color     string
}

// Classify derives the exam's phase and countdown at now.
func Classify(exam model.ExamRecord, now time.Time) Status {
	t := DeriveTimings(exam, now)

	switch {
	case now.Before(t.Start):
		rem := t.Start.Sub(now)
		c := FormatCountdown(rem)
		return Status{Phase: PhaseUpcoming, Label: "UPCOMING", Message: "Starts in " + c, Countdown: c, Remaining: rem, Color: ColorBlue}

	case exam.HasReadingTime && now.Before(t.ReadingEnd):
		rem := t.ReadingEnd.Sub(now)
		c := FormatCountdown(rem)
		return Status{Phase: PhaseReading, Label: "READING TIME", Message: c + " remaining", Countdown: c, Remaining: rem, Color: ColorAmber}

	case now.Before(t.WriteEnd):
		rem := t.WriteEnd.Sub(now)
		c := FormatCountdown(rem)
		urgent := rem <= UrgentThreshold
		color := ColorGreen
		if urgent {
			color = ColorRed
		}
		return Status{Phase: PhaseWriting, Label: "WRITING TIME", Message: c + " remaining", Countdown: c, Remaining: rem, Urgent: urgent, Color: color}

	default:
		return Status{Phase: PhaseFinished, Label: "FINISHED", Message: "Exam Finished", Countdown: FormatCountdown(0), Color: ColorNavy}
	}
}

// WarningStyle classifies a warning mark for display.
type WarningStyle string

const (
	WarningExpired  WarningStyle = "expired"
	WarningCritical WarningStyle = "critical"
	WarningNormal   WarningStyle = "normal"
)

// ClassifyWarning reports whether a warning mark has passed, is imminent
// (within three minutes) or is still ahead.
func ClassifyWarning(warn, now time.Time) WarningStyle {
	diff := warn.Sub(now)
	switch {
	case diff < 0:
		return WarningExpired
	case diff <= CriticalWarningWindow:
		return WarningCritical
	default:
		return WarningNormal
	}
}
