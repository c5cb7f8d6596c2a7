package schedule

import (
	"github.com/Tiliavir/exam-board/internal/importer"
	"github.com/Tiliavir/exam-board/internal/model"
)

// ImportResult counts what an import did to the document.
type ImportResult struct {
	Imported int
	Replaced int
}

// ImportGroup merges one staged group: a session with the same name has its
// exams replaced wholesale, otherwise the group is appended as a new session.
func ImportGroup(doc model.Document, g importer.Group) (model.Document, ImportResult) {
	return ImportGroups(doc, []importer.Group{g})
}

// ImportGroups applies the ImportGroup rule to every group in one pass.
func ImportGroups(doc model.Document, groups []importer.Group) (model.Document, ImportResult) {
	out := clone(doc)
	var res ImportResult
	for _, g := range groups {
		exams := append([]model.ExamRecord{}, g.Exams...)

		replaced := false
		for i := range out.Schedule {
			if out.Schedule[i].Name == g.Name {
				out.Schedule[i].Exams = exams
				replaced = true
				break
			}
		}
		if replaced {
			res.Replaced++
			continue
		}

		out.Schedule = append(out.Schedule, model.Session{
			ID:    nextSessionID(out),
			Name:  g.Name,
			Exams: exams,
		})
		res.Imported++
	}
	return out, res
}
