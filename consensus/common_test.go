package consensus

import (
	"testing"
	"time"

	"github.com/go-kit/kit/log/term"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mahabubAlahi/final-assignment-service/privval"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

const testChainID = "SEQUENCE_TEST"

var testGenesisTime = time.Unix(1700000000, 0)

// newAgentFleet generates count deterministic agent identities.
func newAgentFleet(count int) ([]types.PrivAgent, *types.AgentSet) {
	privs := make([]types.PrivAgent, count)
	agents := make([]*types.Agent, count)
	for i := 0; i < count; i++ {
		pv := privval.GenFilePVWithSeed("", int64(1000+i))
		pub, err := pv.GetPubKey()
		if err != nil {
			panic(err)
		}
		privs[i] = pv
		agents[i] = types.NewAgent(pub)
	}
	return privs, types.NewAgentSet(agents)
}

func testPeriod() state.PeriodState {
	return state.NewPeriodState(testChainID, testGenesisTime)
}

func signPayload(priv types.PrivAgent, payload types.Payload) types.Payload {
	if err := priv.SignPayload(testChainID, payload); err != nil {
		panic(err)
	}
	return payload
}

// sequenceLogger is a TestingLogger which uses a different color for each
// agent ("agent" key must exist).
func sequenceLogger() log.Logger {
	return log.TestingLoggerWithColorFn(func(keyvals ...interface{}) term.FgBgColor {
		for i := 0; i < len(keyvals)-1; i += 2 {
			if keyvals[i] == "agent" {
				return term.FgBgColor{Fg: term.Color(uint8(keyvals[i+1].(int) + 1))}
			}
		}
		return term.FgBgColor{}
	})
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for: %s", msg)
}
