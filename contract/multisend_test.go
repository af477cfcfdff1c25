package contract

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

func TestBuildMultiSendTxPackedLayout(t *testing.T) {
	multisendAddress := "0x3333333333333333333333333333333333333333"
	callData := []byte{0xde, 0xad, 0xbe, 0xef}

	tx, err := BuildMultiSendTx(multisendAddress, []MultiSendTx{
		{Operation: MultiSendCall, To: bettorAddress, Value: 1},
		{Operation: MultiSendDelegateCall, To: contractAddress, Value: 7, Data: callData},
	})
	require.NoError(t, err)
	require.NoError(t, tx.ValidateBasic())
	assert.Equal(t, types.TxTypeMultiSend, tx.Type)
	assert.Equal(t, multisendAddress, tx.To)

	packed := []byte(tx.Data)
	require.Len(t, packed, 85+85+len(callData))

	rawBettor, _ := hex.DecodeString(bettorAddress[2:])
	rawContract, _ := hex.DecodeString(contractAddress[2:])

	assert.Equal(t, byte(MultiSendCall), packed[0])
	assert.Equal(t, rawBettor, packed[1:21])
	assert.Equal(t, encodeUintWord(1), packed[21:53])
	assert.Equal(t, encodeUintWord(0), packed[53:85])

	leg2 := packed[85:]
	assert.Equal(t, byte(MultiSendDelegateCall), leg2[0])
	assert.Equal(t, rawContract, leg2[1:21])
	assert.Equal(t, encodeUintWord(7), leg2[21:53])
	assert.Equal(t, encodeUintWord(uint64(len(callData))), leg2[53:85])
	assert.Equal(t, callData, leg2[85:])
}

func TestBuildMultiSendTxRejectsBadInput(t *testing.T) {
	_, err := BuildMultiSendTx("0x3333333333333333333333333333333333333333", nil)
	assert.Error(t, err, "empty bundles are rejected")

	_, err = BuildMultiSendTx("0x3333333333333333333333333333333333333333", []MultiSendTx{
		{Operation: MultiSendCall, To: "not-an-address", Value: 1},
	})
	assert.Error(t, err)
}
