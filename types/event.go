package types

// Event is the symbolic outcome of a round. Exactly one event is produced
// per round exit and consumed once by the transition table.
type Event uint8

const (
	EventNone         = Event(0)
	EventDone         = Event(1)
	EventTransact     = Event(2)
	EventError        = Event(3)
	EventNoMajority   = Event(4)
	EventRoundTimeout = Event(5)
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "NONE"
	case EventDone:
		return "DONE"
	case EventTransact:
		return "TRANSACT"
	case EventError:
		return "ERROR"
	case EventNoMajority:
		return "NO_MAJORITY"
	case EventRoundTimeout:
		return "ROUND_TIMEOUT"
	default:
		return "UnknownEvent"
	}
}

// Events carried inside a DecisionMakingPayload. A faulty agent proposing
// anything else is rejected at payload validation.
func (e Event) IsDecisionEvent() bool {
	return e == EventDone || e == EventTransact || e == EventError
}
