package state

import (
	"time"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

// PeriodState is the synchronized application state shared across rounds.
// It is an immutable snapshot: rounds read it and publish a successor via
// Next, never mutate it in place. The round sequence controller owns the
// current snapshot.
type PeriodState struct {
	ChainID string `json:"chain_id"`

	// Version increases by one with every finalized round output.
	Version int64 `json:"version"`

	// The round whose output produced this snapshot and the synchronized
	// time of that transition. Branch decisions read this time, never the
	// local wall-clock.
	LastRound          types.RoundID `json:"last_round"`
	LastTransitionTime time.Time     `json:"last_transition_time"`

	// Finalized payloads keyed by the name of the round that produced
	// them. String keys keep the map serializable as wire JSON.
	Outputs map[string]types.Payload `json:"outputs"`

	// Derived fields consumed by later rounds.
	BettingResult   bool        `json:"betting_result"`
	BettingIPFSHash string      `json:"betting_ipfs_hash"`
	HasPlacedBet    bool        `json:"has_placed_bet"`
	DecisionEvent   types.Event `json:"decision_event"`
	MostVotedTxHash string      `json:"most_voted_tx_hash"`
}

func NewPeriodState(chainID string, genesisTime time.Time) PeriodState {
	return PeriodState{
		ChainID:            chainID,
		Version:            0,
		LastTransitionTime: genesisTime,
		Outputs:            make(map[string]types.Payload),
	}
}

// Next returns the successor snapshot for a round that just finalized.
// Callers fill the derived fields on the returned value before publishing
// it; the receiver is left untouched. The transition time is stamped by the
// sequence controller from the substrate's synchronized clock when the
// snapshot is adopted.
func (ps PeriodState) Next(round types.RoundID) PeriodState {
	next := ps.Copy()
	next.Version = ps.Version + 1
	next.LastRound = round
	return next
}

// Copy returns a deep copy; the Outputs map is never shared between
// snapshots.
func (ps PeriodState) Copy() PeriodState {
	cp := ps
	cp.Outputs = make(map[string]types.Payload, len(ps.Outputs))
	for round, payload := range ps.Outputs {
		cp.Outputs[round] = payload
	}
	return cp
}

// SetOutput records the finalized payload of a round.
func (ps PeriodState) SetOutput(round types.RoundID, payload types.Payload) {
	ps.Outputs[round.String()] = payload
}

// Output returns the finalized payload of a round, or nil.
func (ps PeriodState) Output(round types.RoundID) types.Payload {
	return ps.Outputs[round.String()]
}

// HasOutput reports whether a round has finalized an output in this period.
func (ps PeriodState) HasOutput(round types.RoundID) bool {
	_, ok := ps.Outputs[round.String()]
	return ok
}

func (ps PeriodState) IsEmpty() bool {
	return ps.Version == 0 && len(ps.Outputs) == 0
}
