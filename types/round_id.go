package types

// RoundID identifies one stage of the round sequence.
type RoundID uint8

const (
	DataPullRound               = RoundID(1)
	DecisionMakingRound         = RoundID(2)
	TxPreparationRound          = RoundID(3)
	FinishedDecisionMakingRound = RoundID(4)
	FinishedTxPreparationRound  = RoundID(5)
)

func (r RoundID) String() string {
	switch r {
	case DataPullRound:
		return "DataPullRound"
	case DecisionMakingRound:
		return "DecisionMakingRound"
	case TxPreparationRound:
		return "TxPreparationRound"
	case FinishedDecisionMakingRound:
		return "FinishedDecisionMakingRound"
	case FinishedTxPreparationRound:
		return "FinishedTxPreparationRound"
	default:
		return "UnknownRound"
	}
}

// IsTerminal reports whether the round has no outgoing transitions.
// Reaching a terminal round ends the cycle.
func (r RoundID) IsTerminal() bool {
	return r == FinishedDecisionMakingRound || r == FinishedTxPreparationRound
}
