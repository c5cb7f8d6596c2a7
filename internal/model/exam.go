package model

import "github.com/google/uuid"

// ExamRecord represents a single timed exam on the board.
type ExamRecord struct {
	ID             ID      `json:"id"`
	Subject        string  `json:"subject"`
	StartTime      string  `json:"startTime"`
	Duration       Minutes `json:"duration"`
	ReadingTime    Minutes `json:"readingTime"`
	HasReadingTime bool    `json:"hasReadingTime"`
	IsHidden       bool    `json:"isHidden"`
}

// Session is a named, ordered group of exams (usually one exam day).
type Session struct {
	ID    int          `json:"id"`
	Name  string       `json:"name"`
	Exams []ExamRecord `json:"exams"`
}

// Document is the unit of persistence: everything the board needs.
type Document struct {
	CenterName      string    `json:"centerName"`
	LogoURL         string    `json:"logoUrl"`
	Schedule        []Session `json:"schedule"`
	ActiveSessionID int       `json:"activeSessionId"`
}

const (
	DefaultCenterName = "MOCK EXAMINATION WEEK"
	DefaultLogoURL    = "https://img.icons8.com/color/96/school.png"

	// DefaultReadingMinutes is applied to every imported exam.
	DefaultReadingMinutes Minutes = 5
)

// NewID returns a fresh opaque exam identifier.
func NewID() ID {
	return ID(uuid.NewString())
}

// ActiveSession returns the selected session, falling back to the first one
// when the active id no longer resolves. ok is false only for an empty schedule.
func (d Document) ActiveSession() (Session, bool) {
	if len(d.Schedule) == 0 {
		return Session{}, false
	}
	for _, s := range d.Schedule {
		if s.ID == d.ActiveSessionID {
			return s, true
		}
	}
	return d.Schedule[0], true
}

// DefaultSchedule is the built-in sample schedule.
func DefaultSchedule() []Session {
	return []Session{
		{
			ID:   1,
			Name: "Day 1",
			Exams: []ExamRecord{
				{ID: "101", Subject: "Biology/Chemistry/Physics/SEHS HL P2", StartTime: "08:15", Duration: 150, ReadingTime: 5, HasReadingTime: true},
				{ID: "102", Subject: "Comp Sci HL P1", StartTime: "08:15", Duration: 130, ReadingTime: 5, HasReadingTime: true},
				{ID: "103", Subject: "ESS SL P2", StartTime: "08:15", Duration: 120, ReadingTime: 5, HasReadingTime: true},
				{ID: "104", Subject: "Bio/Chem/Phys/SEHS SL P2 / Comp Sci SL P1 / DT HL P3", StartTime: "08:15", Duration: 90, ReadingTime: 5, HasReadingTime: true},
			},
		},
		{ID: 2, Name: "Day 2", Exams: []ExamRecord{}},
	}
}

// DefaultDocument returns the fallback document used when nothing usable is stored.
func DefaultDocument() Document {
	return Document{
		CenterName:      DefaultCenterName,
		LogoURL:         DefaultLogoURL,
		Schedule:        DefaultSchedule(),
		ActiveSessionID: 1,
	}
}
