package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Tiliavir/exam-board/internal/model"
)

// Grammar selects the line format understood by ParseBulk.
type Grammar string

const (
	// GrammarStrict expects "Subject HL|SL P# Duration Start Finish".
	GrammarStrict Grammar = "strict"
	// GrammarLoose takes the first H:MM as start and the next token as duration.
	GrammarLoose Grammar = "loose"
	// GrammarAuto tries strict first and falls back to loose.
	GrammarAuto Grammar = "auto"
)

// ParseGrammar validates a grammar name; empty means auto.
func ParseGrammar(s string) (Grammar, error) {
	switch g := Grammar(strings.ToLower(strings.TrimSpace(s))); g {
	case "":
		return GrammarAuto, nil
	case GrammarStrict, GrammarLoose, GrammarAuto:
		return g, nil
	default:
		return "", fmt.Errorf("unknown bulk grammar %q (want strict, loose or auto)", s)
	}
}

const noExamsStatus = "No valid exams found. Check format."

// BulkResult is the outcome of a bulk import. Failures are reported through
// Status, never as an error.
type BulkResult struct {
	Exams   []model.ExamRecord
	Grammar Grammar
	OK      bool
	Status  string
}

var (
	strictLine = regexp.MustCompile(`(?i)^\s*(.+?)\s+(HL|SL)\s+(P\d+)\s*(\d{1,2}:\d{2})\s+(\d{1,2}:\d{2})\s+(\d{1,2}:\d{2})`)
	clockToken = regexp.MustCompile(`\b\d{1,2}:\d{2}\b`)
)

// candidate is a parsed line before merging.
type candidate struct {
	subject  string
	start    string
	duration int
}

// ParseBulk turns pasted text into exam records. Lines sharing the same start
// and duration are merged into one record whose subject lists every line in
// encounter order, separated by " / ".
func ParseBulk(raw string, grammar Grammar) BulkResult {
	var (
		found []candidate
		used  = grammar
	)
	switch grammar {
	case GrammarStrict:
		found = parseStrict(raw)
	case GrammarLoose:
		found = parseLoose(raw)
	default:
		used = GrammarStrict
		found = parseStrict(raw)
		if len(found) == 0 {
			used = GrammarLoose
			found = parseLoose(raw)
		}
	}

	exams := merge(found)
	if len(exams) == 0 {
		return BulkResult{Grammar: used, Status: noExamsStatus}
	}
	return BulkResult{
		Exams:   exams,
		Grammar: used,
		OK:      true,
		Status:  fmt.Sprintf("Successfully added %d exam slots.", len(exams)),
	}
}

func parseStrict(raw string) []candidate {
	var out []candidate
	for _, line := range splitLines(raw) {
		m := strictLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		out = append(out, candidate{
			subject:  fmt.Sprintf("%s %s %s", strings.TrimSpace(m[1]), m[2], m[3]),
			start:    padClock(m[5]),
			duration: ParseDurationToken(m[4]),
		})
	}
	return out
}

func parseLoose(raw string) []candidate {
	var out []candidate
	for _, line := range splitLines(raw) {
		loc := clockToken.FindStringIndex(line)
		if loc == nil {
			continue
		}
		rest := strings.Fields(line[loc[1]:])
		if len(rest) == 0 {
			continue
		}
		dur := ParseDurationToken(rest[0])
		if dur <= 0 {
			continue
		}
		out = append(out, candidate{
			subject:  strings.TrimSpace(line[:loc[0]]),
			start:    padClock(line[loc[0]:loc[1]]),
			duration: dur,
		})
	}
	return out
}

func merge(found []candidate) []model.ExamRecord {
	index := map[string]int{}
	var merged []candidate
	for _, c := range found {
		key := fmt.Sprintf("%s-%d", c.start, c.duration)
		if i, ok := index[key]; ok {
			merged[i].subject += " / " + c.subject
			continue
		}
		index[key] = len(merged)
		merged = append(merged, c)
	}

	exams := make([]model.ExamRecord, 0, len(merged))
	for _, c := range merged {
		exams = append(exams, newImportedExam(c.subject, c.start, c.duration))
	}
	return exams
}

func newImportedExam(subject, start string, duration int) model.ExamRecord {
	return model.ExamRecord{
		ID:             model.NewID(),
		Subject:        subject,
		StartTime:      start,
		Duration:       model.Minutes(duration),
		ReadingTime:    model.DefaultReadingMinutes,
		HasReadingTime: true,
	}
}

func splitLines(raw string) []string {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}
