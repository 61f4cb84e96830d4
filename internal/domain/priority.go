package domain

import "strings"

var (
	urgencyKeywords  = []string{"urgent", "emergency", "critical", "immediate", "asap"}
	severityKeywords = []string{"defective", "broken", "not working", "damaged", "serious"}
)

// DeterminePriority infers a complaint priority from its description.
// Any urgency or severity keyword yields high; everything else is medium.
// Low is never produced here.
func DeterminePriority(description string) ComplaintPriority {
	lower := strings.ToLower(description)
	if containsAny(lower, urgencyKeywords) || containsAny(lower, severityKeywords) {
		return PriorityHigh
	}
	return PriorityMedium
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
