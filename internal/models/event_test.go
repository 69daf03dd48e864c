package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventStatusTransitions(t *testing.T) {
	allowed := []struct{ from, to EventStatus }{
		{EventDraft, EventPending},
		{EventPending, EventApproved},
		{EventPending, EventRejected},
		{EventApproved, EventHidden},
		{EventApproved, EventCompleted},
		{EventHidden, EventApproved},
	}
	for _, tr := range allowed {
		assert.Truef(t, tr.from.CanTransitionTo(tr.to), "%s -> %s should be allowed", tr.from, tr.to)
	}

	all := []EventStatus{EventDraft, EventPending, EventApproved, EventHidden, EventRejected, EventCompleted}

	// Everything not in the table is forbidden, and the terminal states have
	// no way out.
	isAllowed := func(from, to EventStatus) bool {
		for _, tr := range allowed {
			if tr.from == from && tr.to == to {
				return true
			}
		}
		return false
	}
	for _, from := range all {
		for _, to := range all {
			if isAllowed(from, to) {
				continue
			}
			assert.Falsef(t, from.CanTransitionTo(to), "%s -> %s should be forbidden", from, to)
		}
	}
	for _, terminal := range []EventStatus{EventRejected, EventCompleted} {
		for _, to := range all {
			assert.Falsef(t, terminal.CanTransitionTo(to), "%s is terminal", terminal)
		}
	}
}

func TestEventStatusValid(t *testing.T) {
	for _, s := range []EventStatus{EventDraft, EventPending, EventApproved, EventHidden, EventRejected, EventCompleted} {
		assert.True(t, s.Valid())
	}
	assert.False(t, EventStatus("archived").Valid())
	assert.False(t, EventStatus("").Valid())
}
