package types

import (
	"errors"
	"sort"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

var (
	ErrNilPayload = errors.New("nil payload")
	ErrWrongRound = errors.New("payload belongs to a different round")
)

// PayloadSet accumulates one payload per agent for a single round instance.
// Resubmission by the same agent overwrites the previous slot, never
// appends.
type PayloadSet struct {
	round    types.RoundID
	payloads map[string]types.Payload
}

func NewPayloadSet(round types.RoundID) *PayloadSet {
	return &PayloadSet{
		round:    round,
		payloads: make(map[string]types.Payload),
	}
}

func (ps *PayloadSet) Round() types.RoundID { return ps.round }

// Add records or overwrites the payload for its sender. The caller is
// responsible for signature and membership checks.
func (ps *PayloadSet) Add(payload types.Payload) error {
	if payload == nil {
		return ErrNilPayload
	}
	if payload.Kind() != ps.round {
		return ErrWrongRound
	}
	ps.payloads[payload.GetSender().String()] = payload
	return nil
}

// Size is the number of distinct agents that have submitted.
func (ps *PayloadSet) Size() int {
	return len(ps.payloads)
}

// HasQuorum reports whether the number of distinct submitters strictly
// exceeds the threshold.
func (ps *PayloadSet) HasQuorum(threshold int) bool {
	return len(ps.payloads) > threshold
}

// CountMatching returns how many distinct agents' payloads satisfy the
// predicate.
func (ps *PayloadSet) CountMatching(pred func(types.Payload) bool) int {
	count := 0
	for _, payload := range ps.payloads {
		if pred(payload) {
			count++
		}
	}
	return count
}

// List returns the payloads ordered by sender address so that every agent
// iterates them identically.
func (ps *PayloadSet) List() []types.Payload {
	senders := make([]string, 0, len(ps.payloads))
	for sender := range ps.payloads {
		senders = append(senders, sender)
	}
	sort.Strings(senders)

	payloads := make([]types.Payload, 0, len(senders))
	for _, sender := range senders {
		payloads = append(payloads, ps.payloads[sender])
	}
	return payloads
}
