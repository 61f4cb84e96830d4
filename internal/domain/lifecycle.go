package domain

import "strings"

// allowedTransitions lists every legal (from, to) pair. The lifecycle is strictly linear.
var allowedTransitions = map[ComplaintStatus][]ComplaintStatus{
	StatusPending:    {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusResolved},
	StatusResolved:   {},
}

// CanTransition reports whether a complaint may move from current to next.
func CanTransition(current, next ComplaintStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// NextStatus returns the immediate successor of current, if any.
func NextStatus(current ComplaintStatus) (ComplaintStatus, bool) {
	next := allowedTransitions[current]
	if len(next) == 0 {
		return "", false
	}
	return next[0], true
}

// ParseComplaintStatus validates a raw status string.
func ParseComplaintStatus(raw string) (ComplaintStatus, bool) {
	status := ComplaintStatus(strings.TrimSpace(raw))
	if _, ok := allowedTransitions[status]; !ok {
		return "", false
	}
	return status, true
}

// AllStatuses returns the lifecycle states in order.
func AllStatuses() []ComplaintStatus {
	return []ComplaintStatus{StatusPending, StatusAssigned, StatusInProgress, StatusResolved}
}

// Label renders a status the way status-update messages display it, e.g. "IN PROGRESS".
func (s ComplaintStatus) Label() string {
	return strings.ToUpper(strings.ReplaceAll(string(s), "-", " "))
}
