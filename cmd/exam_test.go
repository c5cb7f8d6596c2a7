package cmd

import (
	"errors"
	"testing"

	"github.com/Tiliavir/exam-board/internal/model"
	"github.com/Tiliavir/exam-board/internal/schedule"
)

func TestResolveExam(t *testing.T) {
	doc := model.DefaultDocument()

	tests := []struct {
		ref     string
		want    model.ID
		wantErr bool
	}{
		{"104", "104", false},
		{"10", "", true},
		{"9", "", true},
	}
	for _, tt := range tests {
		got, err := resolveExam(doc, 1, tt.ref)
		if (err != nil) != tt.wantErr {
			t.Errorf("resolveExam(%q) err = %v, wantErr %v", tt.ref, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveExam(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}

	if _, err := resolveExam(doc, 2, "101"); !errors.Is(err, schedule.ErrExamNotFound) {
		t.Errorf("exam from another session: err = %v, want ErrExamNotFound", err)
	}
}

func TestResolveExamUniquePrefix(t *testing.T) {
	doc := model.DefaultDocument()
	doc.Schedule[1].Exams = []model.ExamRecord{{ID: "6f1c2d4e-aaaa"}, {ID: "7b00c1f2-bbbb"}}

	got, err := resolveExam(doc, 2, "6f")
	if err != nil || got != "6f1c2d4e-aaaa" {
		t.Errorf("resolveExam(6f) = %q, %v", got, err)
	}
}
