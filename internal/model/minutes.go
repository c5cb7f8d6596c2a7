package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Minutes is a whole number of minutes. It decodes from a JSON number or a
// numeric string; anything else becomes 0.
type Minutes int

func (m *Minutes) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = Minutes(ParseIntOrZero(s))
		return nil
	}
	*m = Minutes(ParseIntOrZero(string(data)))
	return nil
}

// ParseIntOrZero parses the leading integer of s ("90", " 12", "45min", "2.5")
// and returns 0 when there is none. Malformed input is never an error.
func ParseIntOrZero(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}

// ID is an opaque identifier. Documents written by older versions used
// numeric ids, so numbers are accepted and kept in their decimal form.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
