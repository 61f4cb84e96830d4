package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to ComplaintStatus
		want     bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusResolved, true},
		{StatusPending, StatusInProgress, false},
		{StatusAssigned, StatusResolved, false},
		{StatusAssigned, StatusAssigned, false},
		{StatusInProgress, StatusAssigned, false},
		{StatusResolved, StatusPending, false},
		{StatusResolved, StatusResolved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestNextStatus(t *testing.T) {
	next, ok := NextStatus(StatusPending)
	assert.True(t, ok)
	assert.Equal(t, StatusAssigned, next)

	next, ok = NextStatus(StatusInProgress)
	assert.True(t, ok)
	assert.Equal(t, StatusResolved, next)

	_, ok = NextStatus(StatusResolved)
	assert.False(t, ok)
}

func TestParseComplaintStatus(t *testing.T) {
	status, ok := ParseComplaintStatus(" in-progress ")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, status)

	_, ok = ParseComplaintStatus("cancelled")
	assert.False(t, ok)
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "IN PROGRESS", StatusInProgress.Label())
	assert.Equal(t, "RESOLVED", StatusResolved.Label())
}

func TestComplaintCloneIsDeep(t *testing.T) {
	agent := "agent-1"
	original := &Complaint{
		ID:            "c1",
		AssignedAgent: &agent,
		Attachments:   []string{"receipt.pdf"},
		Messages:      []Message{{ID: "m1"}},
	}
	cp := original.Clone()
	*cp.AssignedAgent = "agent-2"
	cp.Attachments[0] = "other.pdf"
	cp.Messages[0].ID = "m2"

	assert.Equal(t, "agent-1", *original.AssignedAgent)
	assert.Equal(t, "receipt.pdf", original.Attachments[0])
	assert.Equal(t, "m1", original.Messages[0].ID)
	assert.True(t, original.IsAssignedTo("agent-1"))
	assert.False(t, original.IsAssignedTo("agent-2"))
}
