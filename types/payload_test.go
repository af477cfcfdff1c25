package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

func testAddr(s string) Address {
	return Address(s + "-padding-to-twenty")[:20]
}

func TestPayloadValidateBasic(t *testing.T) {
	addr := testAddr("a")

	dp := NewDataPullPayload(addr, true, "hash-a", false)
	assert.NoError(t, dp.ValidateBasic())

	dp.BettingIPFSHash = ""
	assert.Error(t, dp.ValidateBasic(), "empty content hash must be rejected")

	noSender := NewDataPullPayload(nil, true, "hash-a", false)
	assert.Error(t, noSender.ValidateBasic())

	wrongRound := NewDataPullPayload(addr, true, "hash-a", false)
	wrongRound.Round = DecisionMakingRound
	assert.Error(t, wrongRound.ValidateBasic())

	dm := NewDecisionMakingPayload(addr, EventTransact)
	assert.NoError(t, dm.ValidateBasic())

	// coordination signals are never a decision result
	for _, event := range []Event{EventNone, EventNoMajority, EventRoundTimeout} {
		bad := NewDecisionMakingPayload(addr, event)
		assert.Errorf(t, bad.ValidateBasic(), "%v must be rejected", event)
	}

	tp := NewTxPreparationPayload(addr, PreparedTx{
		Type:  TxTypeTransfer,
		To:    "0x2222222222222222222222222222222222222222",
		Value: 1,
	})
	assert.NoError(t, tp.ValidateBasic())
}

func TestPayloadSignBytesExcludeSignature(t *testing.T) {
	addr := testAddr("a")

	p := NewDataPullPayload(addr, true, "hash-a", false)
	unsigned := p.SignBytes("CHAIN_A")

	p.SetSignature([]byte("some signature"))
	signed := p.SignBytes("CHAIN_A")

	assert.Equal(t, unsigned, signed, "the signature must not feed its own sign bytes")
	assert.NotEqual(t, unsigned, p.SignBytes("CHAIN_B"), "sign bytes must bind the chain id")
}

func TestPayloadInterfaceRoundTrip(t *testing.T) {
	addr := testAddr("a")

	payloads := []Payload{
		NewDataPullPayload(addr, true, "hash-a", true),
		NewDecisionMakingPayload(addr, EventTransact),
		NewTxPreparationPayload(addr, PreparedTx{
			Type:  TxTypePlaceBet,
			To:    "0x2222222222222222222222222222222222222222",
			Value: 7,
			Data:  []byte{0x01, 0x02},
		}),
	}

	for _, original := range payloads {
		bz, err := tmjson.Marshal(original)
		require.NoError(t, err)

		var decoded Payload
		require.NoError(t, tmjson.Unmarshal(bz, &decoded))
		assert.Equal(t, original.Kind(), decoded.Kind())
		assert.Equal(t, original.GetSender(), decoded.GetSender())
	}
}

func TestPreparedTxValidateBasic(t *testing.T) {
	to := "0x2222222222222222222222222222222222222222"

	assert.NoError(t, PreparedTx{Type: TxTypeTransfer, To: to, Value: 1}.ValidateBasic())
	assert.Error(t, PreparedTx{Type: TxTypeTransfer, To: to, Data: []byte{1}}.ValidateBasic(),
		"transfer must carry no call data")
	assert.Error(t, PreparedTx{Type: TxTypePlaceBet, To: to}.ValidateBasic(),
		"contract call must carry call data")
	assert.Error(t, PreparedTx{Type: TxTypeMultiSend, To: ""}.ValidateBasic())
	assert.Error(t, PreparedTx{Type: TxType(99), To: to}.ValidateBasic())
}

func TestPreparedTxHashAndEqual(t *testing.T) {
	tx := PreparedTx{
		Type:  TxTypePlaceBet,
		To:    "0x2222222222222222222222222222222222222222",
		Value: 7,
		Data:  []byte{0x01, 0x02},
	}

	same := tx
	same.Data = []byte{0x01, 0x02}
	assert.True(t, tx.Equal(same))
	assert.Equal(t, tx.Hash(), same.Hash())

	for _, mutate := range []func(*PreparedTx){
		func(x *PreparedTx) { x.Type = TxTypeMultiSend },
		func(x *PreparedTx) { x.To = "0x3333333333333333333333333333333333333333" },
		func(x *PreparedTx) { x.Value = 8 },
		func(x *PreparedTx) { x.Data = []byte{0x01, 0x03} },
	} {
		other := tx
		mutate(&other)
		assert.False(t, tx.Equal(other))
		assert.NotEqual(t, tx.Hash(), other.Hash())
	}
}

func TestAgentSetThresholds(t *testing.T) {
	cases := []struct {
		size     int
		quorum   int
		majority int
	}{
		{1, 0, 0},
		{3, 2, 1},
		{4, 2, 2},
		{7, 4, 3},
	}

	for _, tc := range cases {
		agents := make([]*Agent, tc.size)
		for i := range agents {
			agents[i] = &Agent{Address: testAddr(string(rune('a' + i)))}
		}
		set := NewAgentSet(agents)

		assert.Equalf(t, tc.quorum, set.QuorumThreshold(), "quorum for N=%d", tc.size)
		assert.Equalf(t, tc.majority, set.MajorityThreshold(), "majority for N=%d", tc.size)
	}
}
