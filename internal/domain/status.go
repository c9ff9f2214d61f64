package domain

import (
	"errors"
	"fmt"
)

// ErrIllegalStatusTransition indicates a status change outside the transaction lifecycle graph.
var ErrIllegalStatusTransition = errors.New("illegal status transition")

// Status is the lifecycle status of a transaction.
type Status string

// Transaction statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusReversed  Status = "reversed"
)

// transitions maps every status to the set of statuses it may move to.
var transitions = map[Status]map[Status]struct{}{
	StatusPending: {
		StatusCompleted: {},
		StatusFailed:    {},
	},
	StatusCompleted: {
		StatusReversed: {},
	},
	StatusFailed:   {},
	StatusReversed: {},
}

// CanTransition reports whether a transaction may move from one status to another.
func CanTransition(from, to Status) bool {
	_, ok := transitions[from][to]
	return ok
}

// Transition moves the transaction to the given status.
//
// The transaction is left untouched when the move is not allowed.
func Transition(t *Transaction, to Status) error {
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalStatusTransition, t.Status, to)
	}

	t.Status = to

	return nil
}
