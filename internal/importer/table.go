package importer

import (
	"strings"

	"github.com/Tiliavir/exam-board/internal/model"
)

// DefaultStartTime is used for rows that carry no start time.
const DefaultStartTime = "09:00"

// Group is one importable session candidate: a name and its exams in row order.
type Group struct {
	Name  string             `json:"name"`
	Exams []model.ExamRecord `json:"exams"`
}

// ParseTable parses tab-separated text whose first line is a header. Columns
// are session name, subject, duration and start time; extra columns are
// ignored.
func ParseTable(tsv string) []Group {
	lines := strings.Split(strings.ReplaceAll(tsv, "\r\n", "\n"), "\n")
	rows := make([][]string, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, strings.Split(line, "\t"))
	}
	return ParseRows(rows)
}

// ParseRows groups already split rows (header first) by session name,
// preserving the order in which each session first appears. Blank rows and
// rows without a session name are skipped.
func ParseRows(rows [][]string) []Group {
	if len(rows) < 2 {
		return nil
	}

	index := map[string]int{}
	var groups []Group
	for _, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		name := strings.TrimSpace(cell(row, 0))
		if name == "" {
			continue
		}

		start := strings.TrimSpace(cell(row, 3))
		if start == "" {
			start = DefaultStartTime
		}
		exam := newImportedExam(
			strings.TrimSpace(cell(row, 1)),
			padClock(start),
			ParseDurationToken(cell(row, 2)),
		)

		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Exams = append(groups[i].Exams, exam)
	}
	return groups
}

// FindGroup returns the staged group with the given name.
func FindGroup(groups []Group, name string) (Group, bool) {
	for _, g := range groups {
		if g.Name == name {
			return g, true
		}
	}
	return Group{}, false
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
