package importer

import (
	"strings"

	"github.com/Tiliavir/exam-board/internal/model"
)

// ParseDurationToken converts "H:MM" or a bare minute count into minutes.
// A missing minute part counts as 0 and anything unparseable yields 0.
func ParseDurationToken(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	if h, m, ok := strings.Cut(token, ":"); ok {
		return model.ParseIntOrZero(h)*60 + model.ParseIntOrZero(m)
	}
	return model.ParseIntOrZero(token)
}

// padClock left-pads a start time with zeros to the HH:MM width.
func padClock(s string) string {
	if len(s) >= 5 {
		return s
	}
	return strings.Repeat("0", 5-len(s)) + s
}
