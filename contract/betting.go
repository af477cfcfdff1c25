// Package contract encodes calls against the betting and multisend
// contracts and decodes their read results. It never signs or broadcasts;
// settlement happens outside the round sequence.
package contract

import (
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mahabubAlahi/final-assignment-service/types"
)

// Caller executes a read-only contract call (eth_call shaped) and returns
// the raw return data. Implemented by the ledger connection outside the
// core; mocked in tests.
type Caller interface {
	Call(contractAddress string, data []byte) ([]byte, error)
}

// Betting is the gateway to one deployed betting contract.
type Betting struct {
	address string
	caller  Caller

	logger log.Logger
}

func NewBetting(address string, caller Caller) *Betting {
	return &Betting{
		address: address,
		caller:  caller,
		logger:  log.NewNopLogger(),
	}
}

func (b *Betting) SetLogger(logger log.Logger) {
	b.logger = logger
}

func (b *Betting) Address() string { return b.address }

// HasPlacedBet reports whether the bettor already placed a bet on the match.
func (b *Betting) HasPlacedBet(bettor, matchKey string) (bool, error) {
	data, err := encodeAddressStringCall("hasPlacedBet(address,string)", bettor, matchKey)
	if err != nil {
		return false, err
	}

	ret, err := b.caller.Call(b.address, data)
	if err != nil {
		return false, errors.Wrap(err, "hasPlacedBet call failed")
	}

	placed, err := decodeBoolWord(ret)
	if err != nil {
		return false, errors.Wrap(err, "hasPlacedBet return")
	}

	b.logger.Debug("hasPlacedBet", "bettor", bettor, "match_key", matchKey, "placed", placed)
	return placed, nil
}

// IsValidMatchKey reports whether the contract knows the match key.
func (b *Betting) IsValidMatchKey(matchKey string) (bool, error) {
	data, err := encodeStringCall("isValidMatchKey(string)", matchKey)
	if err != nil {
		return false, err
	}

	ret, err := b.caller.Call(b.address, data)
	if err != nil {
		return false, errors.Wrap(err, "isValidMatchKey call failed")
	}

	valid, err := decodeBoolWord(ret)
	if err != nil {
		return false, errors.Wrap(err, "isValidMatchKey return")
	}
	return valid, nil
}

// BuildPlaceBetTx encodes the placeBet call data and wraps it into the
// prepared transaction shape, carrying the bet amount as call value.
func (b *Betting) BuildPlaceBetTx(bettor, matchKey string, amount uint64) (types.PreparedTx, error) {
	data, err := b.PlaceBetData(bettor, matchKey)
	if err != nil {
		return types.PreparedTx{}, err
	}
	return types.PreparedTx{
		Type:  types.TxTypePlaceBet,
		To:    b.address,
		Value: amount,
		Data:  data,
	}, nil
}

// PlaceBetData encodes placeBet(address,string) call data only.
func (b *Betting) PlaceBetData(bettor, matchKey string) ([]byte, error) {
	return encodeAddressStringCall("placeBet(address,string)", bettor, matchKey)
}

// BuildTransferTx is the native transfer shape: empty call data, value and
// target only.
func BuildTransferTx(target string, amountWei uint64) types.PreparedTx {
	return types.PreparedTx{
		Type:  types.TxTypeTransfer,
		To:    target,
		Value: amountWei,
	}
}

// encodeAddressStringCall handles the (address,string) signatures the
// betting contract uses: selector, address word, offset word, string tail.
func encodeAddressStringCall(signature, addr, s string) ([]byte, error) {
	rawAddr, err := parseAddress(addr)
	if err != nil {
		return nil, err
	}

	data := Selector(signature)
	data = append(data, encodeAddressWord(rawAddr)...)
	data = append(data, encodeUintWord(2*wordSize)...) // offset of the string tail
	data = append(data, encodeStringTail(s)...)
	return data, nil
}

func encodeStringCall(signature, s string) ([]byte, error) {
	data := Selector(signature)
	data = append(data, encodeUintWord(wordSize)...)
	data = append(data, encodeStringTail(s)...)
	return data, nil
}
