package types

import (
	"errors"
	"fmt"

	"github.com/tendermint/tendermint/crypto/tmhash"
	tmbytes "github.com/tendermint/tendermint/libs/bytes"
)

type TxType uint8

const (
	TxTypeTransfer  = TxType(1) // native-currency transfer only
	TxTypePlaceBet  = TxType(2) // betting-contract call only
	TxTypeMultiSend = TxType(3) // multisend bundling both
)

func (t TxType) String() string {
	switch t {
	case TxTypeTransfer:
		return "TransferTx"
	case TxTypePlaceBet:
		return "PlaceBetTx"
	case TxTypeMultiSend:
		return "MultiSendTx"
	default:
		return "UnknownTx"
	}
}

// PreparedTx is an unsigned transaction shape agreed on by the fleet.
// Signing and broadcast happen outside the round sequence.
type PreparedTx struct {
	Type  TxType           `json:"type"`
	To    string           `json:"to"`
	Value uint64           `json:"value"`
	Data  tmbytes.HexBytes `json:"data"`
}

func (tx PreparedTx) ValidateBasic() error {
	switch tx.Type {
	case TxTypeTransfer:
		if len(tx.Data) != 0 {
			return errors.New("transfer tx carries call data")
		}
	case TxTypePlaceBet, TxTypeMultiSend:
		if len(tx.Data) == 0 {
			return errors.New("contract tx without call data")
		}
	default:
		return fmt.Errorf("unknown tx type %d", tx.Type)
	}
	if tx.To == "" {
		return errors.New("tx has no target address")
	}
	return nil
}

// Hash commits to every field, so byte-level majority agreement on the hash
// implies agreement on the whole transaction.
func (tx PreparedTx) Hash() tmbytes.HexBytes {
	bz := make([]byte, 0, 1+len(tx.To)+8+len(tx.Data))
	bz = append(bz, byte(tx.Type))
	bz = append(bz, []byte(tx.To)...)
	for i := 0; i < 8; i++ {
		bz = append(bz, byte(tx.Value>>(8*uint(7-i))))
	}
	bz = append(bz, tx.Data...)
	return tmhash.Sum(bz)
}

// Equal is the agreement predicate used by TxPreparationRound.
func (tx PreparedTx) Equal(other PreparedTx) bool {
	return tx.Type == other.Type &&
		tx.To == other.To &&
		tx.Value == other.Value &&
		tx.Data.String() == other.Data.String()
}

func (tx PreparedTx) String() string {
	return fmt.Sprintf("%v{to=%s value=%d data=%X}", tx.Type, tx.To, tx.Value, tmbytes.Fingerprint(tx.Data))
}
