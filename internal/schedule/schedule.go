// Package schedule edits a model.Document. Every operation is copy-on-write:
// it returns a new document and leaves its input untouched.
package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/Tiliavir/exam-board/internal/model"
)

var (
	ErrLastSession     = errors.New("cannot delete the last remaining session")
	ErrSessionNotFound = errors.New("session not found")
	ErrExamNotFound    = errors.New("exam not found")
)

// clone deep-copies the schedule so callers can mutate freely.
func clone(doc model.Document) model.Document {
	out := doc
	out.Schedule = make([]model.Session, len(doc.Schedule))
	for i, s := range doc.Schedule {
		s.Exams = append([]model.ExamRecord{}, s.Exams...)
		out.Schedule[i] = s
	}
	return out
}

func sessionIndex(doc model.Document, id int) int {
	for i, s := range doc.Schedule {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func examIndex(s model.Session, id model.ID) int {
	for i, e := range s.Exams {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// ResolveSession returns the id of the session a command should act on: the
// given id when non-zero, otherwise the active session.
func ResolveSession(doc model.Document, id int) (int, error) {
	if id != 0 {
		if sessionIndex(doc, id) < 0 {
			return 0, fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
		}
		return id, nil
	}
	s, ok := doc.ActiveSession()
	if !ok {
		return 0, ErrSessionNotFound
	}
	return s.ID, nil
}

// SetCenterName replaces the board title.
func SetCenterName(doc model.Document, name string) model.Document {
	out := clone(doc)
	out.CenterName = name
	return out
}

// SetLogoURL replaces the board logo.
func SetLogoURL(doc model.Document, url string) model.Document {
	out := clone(doc)
	out.LogoURL = url
	return out
}

func nextSessionID(doc model.Document) int {
	highest := 0
	for _, s := range doc.Schedule {
		if s.ID > highest {
			highest = s.ID
		}
	}
	return highest + 1
}

// AddSession appends an empty "Day N" session and selects it.
func AddSession(doc model.Document) (model.Document, model.Session) {
	out := clone(doc)
	id := nextSessionID(out)
	s := model.Session{ID: id, Name: fmt.Sprintf("Day %d", id), Exams: []model.ExamRecord{}}
	out.Schedule = append(out.Schedule, s)
	out.ActiveSessionID = id
	return out, s
}

// RenameSession changes a session's display name.
func RenameSession(doc model.Document, id int, name string) (model.Document, error) {
	i := sessionIndex(doc, id)
	if i < 0 {
		return doc, fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
	}
	out := clone(doc)
	out.Schedule[i].Name = name
	return out, nil
}

// DeleteSession removes a session. The last remaining session cannot be
// removed; if the active session goes, the first remaining one is selected.
func DeleteSession(doc model.Document, id int) (model.Document, error) {
	i := sessionIndex(doc, id)
	if i < 0 {
		return doc, fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
	}
	if len(doc.Schedule) <= 1 {
		return doc, ErrLastSession
	}
	out := clone(doc)
	out.Schedule = append(out.Schedule[:i], out.Schedule[i+1:]...)
	if out.ActiveSessionID == id {
		out.ActiveSessionID = out.Schedule[0].ID
	}
	return out, nil
}

// SelectSession makes id the active session.
func SelectSession(doc model.Document, id int) (model.Document, error) {
	if sessionIndex(doc, id) < 0 {
		return doc, fmt.Errorf("session %d: %w", id, ErrSessionNotFound)
	}
	out := clone(doc)
	out.ActiveSessionID = id
	return out, nil
}

// NewExam returns the placeholder record created by AddExam.
func NewExam() model.ExamRecord {
	return model.ExamRecord{
		ID:        model.NewID(),
		Subject:   "New Subject",
		StartTime: "09:00",
		Duration:  60,
	}
}

// AddExam appends exam to the session.
func AddExam(doc model.Document, sessionID int, exam model.ExamRecord) (model.Document, error) {
	return AppendExams(doc, sessionID, []model.ExamRecord{exam})
}

// AppendExams appends exams to the session in order.
func AppendExams(doc model.Document, sessionID int, exams []model.ExamRecord) (model.Document, error) {
	i := sessionIndex(doc, sessionID)
	if i < 0 {
		return doc, fmt.Errorf("session %d: %w", sessionID, ErrSessionNotFound)
	}
	out := clone(doc)
	out.Schedule[i].Exams = append(out.Schedule[i].Exams, exams...)
	return out, nil
}

// updateExam applies fn to a copy of one exam.
func updateExam(doc model.Document, sessionID int, examID model.ID, fn func(*model.ExamRecord)) (model.Document, error) {
	i := sessionIndex(doc, sessionID)
	if i < 0 {
		return doc, fmt.Errorf("session %d: %w", sessionID, ErrSessionNotFound)
	}
	j := examIndex(doc.Schedule[i], examID)
	if j < 0 {
		return doc, fmt.Errorf("exam %s: %w", examID, ErrExamNotFound)
	}
	out := clone(doc)
	fn(&out.Schedule[i].Exams[j])
	return out, nil
}

// RemoveExam deletes one exam from a session.
func RemoveExam(doc model.Document, sessionID int, examID model.ID) (model.Document, error) {
	i := sessionIndex(doc, sessionID)
	if i < 0 {
		return doc, fmt.Errorf("session %d: %w", sessionID, ErrSessionNotFound)
	}
	j := examIndex(doc.Schedule[i], examID)
	if j < 0 {
		return doc, fmt.Errorf("exam %s: %w", examID, ErrExamNotFound)
	}
	out := clone(doc)
	exams := out.Schedule[i].Exams
	out.Schedule[i].Exams = append(exams[:j], exams[j+1:]...)
	return out, nil
}

// ExamPatch carries a partial exam update; nil fields are left alone.
type ExamPatch struct {
	Subject        *string        `json:"subject,omitempty" validate:"omitempty,max=200"`
	StartTime      *string        `json:"startTime,omitempty" validate:"omitempty,max=5"`
	Duration       *model.Minutes `json:"duration,omitempty" validate:"omitempty,min=0,max=1440"`
	ReadingTime    *model.Minutes `json:"readingTime,omitempty" validate:"omitempty,min=0,max=120"`
	HasReadingTime *bool          `json:"hasReadingTime,omitempty"`
	IsHidden       *bool          `json:"isHidden,omitempty"`
}

// UpdateExam applies a partial update to one exam.
func UpdateExam(doc model.Document, sessionID int, examID model.ID, p ExamPatch) (model.Document, error) {
	return updateExam(doc, sessionID, examID, func(e *model.ExamRecord) {
		if p.Subject != nil {
			e.Subject = *p.Subject
		}
		if p.StartTime != nil {
			e.StartTime = *p.StartTime
		}
		if p.Duration != nil {
			e.Duration = *p.Duration
		}
		if p.ReadingTime != nil {
			e.ReadingTime = *p.ReadingTime
		}
		if p.HasReadingTime != nil {
			e.HasReadingTime = *p.HasReadingTime
		}
		if p.IsHidden != nil {
			e.IsHidden = *p.IsHidden
		}
	})
}

// ToggleHidden flips an exam's visibility on the board.
func ToggleHidden(doc model.Document, sessionID int, examID model.ID) (model.Document, error) {
	return updateExam(doc, sessionID, examID, func(e *model.ExamRecord) {
		e.IsHidden = !e.IsHidden
	})
}

var extraTimeSubject = regexp.MustCompile(`^ET-(\d+)$`)

// DuplicateExam appends a visible extra-time copy of an exam. The copy's
// duration is the original extended by extraPercent, rounded up, and its
// subject is the next free "ET-n" label in the session.
func DuplicateExam(doc model.Document, sessionID int, examID model.ID, extraPercent int) (model.Document, model.ExamRecord, error) {
	i := sessionIndex(doc, sessionID)
	if i < 0 {
		return doc, model.ExamRecord{}, fmt.Errorf("session %d: %w", sessionID, ErrSessionNotFound)
	}
	s := doc.Schedule[i]
	j := examIndex(s, examID)
	if j < 0 {
		return doc, model.ExamRecord{}, fmt.Errorf("exam %s: %w", examID, ErrExamNotFound)
	}

	maxNum := 0
	for _, e := range s.Exams {
		if m := extraTimeSubject.FindStringSubmatch(e.Subject); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > maxNum {
				maxNum = n
			}
		}
	}

	dup := s.Exams[j]
	dup.ID = model.NewID()
	dup.Subject = fmt.Sprintf("ET-%d", maxNum+1)
	dup.Duration = extendDuration(dup.Duration, extraPercent)
	dup.IsHidden = false

	out, err := AppendExams(doc, sessionID, []model.ExamRecord{dup})
	return out, dup, err
}

// extendDuration returns ceil(d * (100+percent) / 100) in integer arithmetic.
func extendDuration(d model.Minutes, percent int) model.Minutes {
	num := int(d) * (100 + percent)
	if num <= 0 {
		return model.Minutes(num / 100)
	}
	return model.Minutes((num + 99) / 100)
}
