package algorithms

import (
	"regexp"
	"strconv"
	"strings"
)

// TextMatcher is the matching strategy used by the matching service. The
// production implementation is deliberately lenient to maximize candidate
// yield; swapping in tokenized or scored matching only requires a new
// implementation of this interface.
type TextMatcher interface {
	// MatchSubject reports whether a requested subject and a stored subject
	// should be considered the same topic.
	MatchSubject(requested, stored string) bool

	// MatchAnySubject reports whether the requested subject matches any of
	// the stored subjects.
	MatchAnySubject(requested string, stored []string) bool

	// MatchAvailability compares two free-text availability descriptors.
	MatchAvailability(requested, stored string) bool
}

// LenientMatcher: bidirectional substring matching for subjects, token
// overlap plus best-effort time-range extraction for availability.
type LenientMatcher struct{}

func NewLenientMatcher() *LenientMatcher {
	return &LenientMatcher{}
}

var dayTokens = map[string][]string{
	"monday":    {"monday", "weekday"},
	"tuesday":   {"tuesday", "weekday"},
	"wednesday": {"wednesday", "weekday"},
	"thursday":  {"thursday", "weekday"},
	"friday":    {"friday", "weekday"},
	"saturday":  {"saturday", "weekend"},
	"sunday":    {"sunday", "weekend"},
	"weekday":   {"weekday", "monday", "tuesday", "wednesday", "thursday", "friday"},
	"weekend":   {"weekend", "saturday", "sunday"},
}

var timeOfDayTokens = map[string]string{
	"morning":   "morning",
	"am":        "morning",
	"afternoon": "afternoon",
	"noon":      "afternoon",
	"pm":        "afternoon",
	"evening":   "evening",
	"night":     "evening",
}

// Matches "9-12", "9:30 - 14:00", "10 to 13" and similar fragments.
var timeRangeRe = regexp.MustCompile(`(\d{1,2})(?::\d{2})?\s*(?:-|–|to)\s*(\d{1,2})(?::\d{2})?`)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (m *LenientMatcher) MatchSubject(requested, stored string) bool {
	a := normalize(requested)
	b := normalize(stored)
	if a == "" || b == "" {
		return false
	}
	// Bidirectional partial match: "calculus" hits "Calculus II" and
	// "calc" hits "calculus".
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func (m *LenientMatcher) MatchAnySubject(requested string, stored []string) bool {
	for _, s := range stored {
		if m.MatchSubject(requested, s) {
			return true
		}
	}
	return false
}

func (m *LenientMatcher) MatchAvailability(requested, stored string) bool {
	a := normalize(requested)
	b := normalize(stored)
	if a == "" || b == "" {
		return false
	}

	// Plain substring either way counts.
	if strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}

	if dayTokenOverlap(a, b) {
		return true
	}

	if timeOfDayOverlap(a, b) {
		return true
	}

	return timeRangesOverlap(a, b)
}

func dayTokenOverlap(a, b string) bool {
	for token, equivalents := range dayTokens {
		if !strings.Contains(a, token) {
			continue
		}
		for _, eq := range equivalents {
			if strings.Contains(b, eq) {
				return true
			}
		}
	}
	return false
}

func timeOfDayOverlap(a, b string) bool {
	var periodsA, periodsB []string
	for token, period := range timeOfDayTokens {
		if containsToken(a, token) {
			periodsA = append(periodsA, period)
		}
		if containsToken(b, token) {
			periodsB = append(periodsB, period)
		}
	}
	for _, pa := range periodsA {
		for _, pb := range periodsB {
			if pa == pb {
				return true
			}
		}
	}
	return false
}

// containsToken avoids "am" matching inside words like "exam".
func containsToken(s, token string) bool {
	if len(token) > 2 {
		return strings.Contains(s, token)
	}
	for _, field := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '.'
	}) {
		if field == token {
			return true
		}
	}
	return false
}

// timeRangesOverlap extracts the first numeric range from each side and
// checks for overlap. Best effort: hours are taken as written, no am/pm
// arithmetic.
func timeRangesOverlap(a, b string) bool {
	startA, endA, okA := extractRange(a)
	startB, endB, okB := extractRange(b)
	if !okA || !okB {
		return false
	}
	return startA <= endB && startB <= endA
}

func extractRange(s string) (int, int, bool) {
	match := timeRangeRe.FindStringSubmatch(s)
	if match == nil {
		return 0, 0, false
	}
	start, err1 := strconv.Atoi(match[1])
	end, err2 := strconv.Atoi(match[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return start, end, true
}
