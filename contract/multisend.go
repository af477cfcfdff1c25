package contract

import (
	"github.com/pkg/errors"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

// MultiSendOperation distinguishes CALL from DELEGATECALL legs in the
// packed encoding.
type MultiSendOperation uint8

const (
	MultiSendCall         = MultiSendOperation(0)
	MultiSendDelegateCall = MultiSendOperation(1)
)

// MultiSendTx is one leg of a multisend bundle.
type MultiSendTx struct {
	Operation MultiSendOperation
	To        string
	Value     uint64
	Data      []byte
}

// BuildMultiSendTx packs the legs into the multisend contract's compact
// encoding and wraps it into the prepared transaction shape. Per leg:
// operation (1 byte), to (20 bytes), value (32 bytes), data length
// (32 bytes), then the data itself.
func BuildMultiSendTx(multisendAddress string, legs []MultiSendTx) (types.PreparedTx, error) {
	if len(legs) == 0 {
		return types.PreparedTx{}, errors.New("multisend bundle without legs")
	}

	var packed []byte
	for i, leg := range legs {
		rawTo, err := parseAddress(leg.To)
		if err != nil {
			return types.PreparedTx{}, errors.Wrapf(err, "multisend leg #%d", i)
		}

		packed = append(packed, byte(leg.Operation))
		packed = append(packed, rawTo...)
		packed = append(packed, encodeUintWord(leg.Value)...)
		packed = append(packed, encodeUintWord(uint64(len(leg.Data)))...)
		packed = append(packed, leg.Data...)
	}

	return types.PreparedTx{
		Type: types.TxTypeMultiSend,
		To:   multisendAddress,
		Data: packed,
	}, nil
}
