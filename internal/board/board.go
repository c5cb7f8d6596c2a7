// Package board turns the active session of a document into render-ready
// cards for one instant.
package board

import (
	"fmt"
	"sort"
	"time"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/timecalc"
)

// DefaultMaxCards is how many cards fit on the board at once.
const DefaultMaxCards = 6

// Card is one exam as shown on the board.
type Card struct {
	ID              model.ID              `json:"id"`
	Subject         string                `json:"subject"`
	Phase           timecalc.Phase        `json:"phase"`
	StatusLabel     string                `json:"statusLabel"`
	Message         string                `json:"message"`
	CountdownText   string                `json:"countdownText"`
	StartDisplay    string                `json:"startDisplay"`
	EndDisplay      string                `json:"endDisplay"`
	DurationDisplay string                `json:"durationDisplay"`
	Warn30Display   string                `json:"warn30Display"`
	Warn5Display    string                `json:"warn5Display"`
	Warn30Style     timecalc.WarningStyle `json:"warn30Style"`
	Warn5Style      timecalc.WarningStyle `json:"warn5Style"`
	ShowWarn30      bool                  `json:"showWarn30"`
	ShowWarn5       bool                  `json:"showWarn5"`
	Urgent          bool                  `json:"urgent"`
	Color           string                `json:"color"`

	writeEnd time.Time
}

// Board is the full board payload.
type Board struct {
	CenterName   string    `json:"centerName"`
	LogoURL      string    `json:"logoUrl"`
	DateDisplay  string    `json:"dateDisplay"`
	ClockDisplay string    `json:"clockDisplay"`
	SessionID    int       `json:"sessionId"`
	SessionName  string    `json:"sessionName"`
	Cards        []Card    `json:"cards"`
	Overflow     int       `json:"overflow"`
	EmptyMessage string    `json:"emptyMessage,omitempty"`
	GeneratedAt  time.Time `json:"generatedAt"`
}

// NewCard derives the card of one exam at now.
func NewCard(exam model.ExamRecord, now time.Time) Card {
	t := timecalc.DeriveTimings(exam, now)
	st := timecalc.Classify(exam, now)
	return Card{
		ID:              exam.ID,
		Subject:         exam.Subject,
		Phase:           st.Phase,
		StatusLabel:     st.Label,
		Message:         st.Message,
		CountdownText:   st.Countdown,
		StartDisplay:    timecalc.FormatShortTime(t.Start),
		EndDisplay:      timecalc.FormatShortTime(t.WriteEnd),
		DurationDisplay: timecalc.FormatDuration(t.WritingMinutes),
		Warn30Display:   timecalc.FormatShortTime(t.Warn30),
		Warn5Display:    timecalc.FormatShortTime(t.Warn5),
		Warn30Style:     timecalc.ClassifyWarning(t.Warn30, now),
		Warn5Style:      timecalc.ClassifyWarning(t.Warn5, now),
		ShowWarn30:      t.WritingMinutes > 30,
		ShowWarn5:       t.WritingMinutes > 5,
		Urgent:          st.Urgent,
		Color:           st.Color,
		writeEnd:        t.WriteEnd,
	}
}

// Build renders the active session of doc at now. Hidden exams are left out,
// the rest are ordered by when writing ends and capped at maxCards.
func Build(doc model.Document, now time.Time, maxCards int) Board {
	if maxCards <= 0 {
		maxCards = DefaultMaxCards
	}
	b := Board{
		CenterName:   doc.CenterName,
		LogoURL:      doc.LogoURL,
		DateDisplay:  timecalc.FormatDate(now),
		ClockDisplay: timecalc.FormatClock(now),
		Cards:        []Card{},
		GeneratedAt:  now,
	}

	session, ok := doc.ActiveSession()
	if !ok {
		b.EmptyMessage = "No sessions configured."
		return b
	}
	b.SessionID = session.ID
	b.SessionName = session.Name

	for _, e := range session.Exams {
		if e.IsHidden {
			continue
		}
		b.Cards = append(b.Cards, NewCard(e, now))
	}
	sort.SliceStable(b.Cards, func(i, j int) bool {
		return b.Cards[i].writeEnd.Before(b.Cards[j].writeEnd)
	})
	if len(b.Cards) > maxCards {
		b.Overflow = len(b.Cards) - maxCards
		b.Cards = b.Cards[:maxCards]
	}
	if len(b.Cards) == 0 {
		b.EmptyMessage = fmt.Sprintf("No exams visible for %s.", session.Name)
	}
	return b
}
