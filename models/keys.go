package models

import (
	"strconv"
	"strings"
)

// Well-known keys of the shared workshop store.
const (
	// QuestionsKey holds the ordered question list ([]string).
	QuestionsKey = "workshop-questions"

	// CurrentIndexKey holds the index of the live question (int).
	CurrentIndexKey = "workshop-current-index"

	responsesKeyPrefix = "workshop-responses-"
)

// ResponsesKey returns the key of the response collection that belongs to the
// question slot at index.
func ResponsesKey(index int) string {
	return responsesKeyPrefix + strconv.Itoa(index)
}

// ParseResponsesKey extracts the question slot from a response collection key.
// Only canonical decimal indexes (no sign, no leading zeros) are accepted.
func ParseResponsesKey(key string) (int, bool) {
	raw, found := strings.CutPrefix(key, responsesKeyPrefix)
	if !found || raw == "" {
		return 0, false
	}
	if len(raw) > 1 && raw[0] == '0' {
		return 0, false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, false
		}
	}

	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return index, true
}

// IsKnownKey reports whether key is one of the keys the workshop uses.
func IsKnownKey(key string) bool {
	if key == QuestionsKey || key == CurrentIndexKey {
		return true
	}
	_, ok := ParseResponsesKey(key)
	return ok
}
