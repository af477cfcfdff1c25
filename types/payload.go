package types

import (
	"errors"
	"fmt"
	"time"

	tmbytes "github.com/tendermint/tendermint/libs/bytes"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

func init() {
	tmjson.RegisterType(&DataPullPayload{}, "betting/DataPullPayload")
	tmjson.RegisterType(&DecisionMakingPayload{}, "betting/DecisionMakingPayload")
	tmjson.RegisterType(&TxPreparationPayload{}, "betting/TxPreparationPayload")
}

// Payload is one agent's locally computed contribution for the current
// round. Immutable once submitted; the payload set keeps the last one per
// sender.
type Payload interface {
	Kind() RoundID
	GetSender() Address
	GetSignature() tmbytes.HexBytes
	SetSignature(sig []byte)
	SignBytes(chainID string) []byte
	ValidateBasic() error
}

// PayloadBase carries the fields common to every payload variant.
type PayloadBase struct {
	Round     RoundID          `json:"round"`
	Sender    Address          `json:"sender"`
	Timestamp time.Time        `json:"timestamp"`
	Signature tmbytes.HexBytes `json:"signature"`
}

func (pb *PayloadBase) Kind() RoundID                 { return pb.Round }
func (pb *PayloadBase) GetSender() Address            { return pb.Sender }
func (pb *PayloadBase) GetSignature() tmbytes.HexBytes { return pb.Signature }
func (pb *PayloadBase) SetSignature(sig []byte)       { pb.Signature = sig }

func (pb *PayloadBase) validateBasic(expected RoundID) error {
	if pb.Round != expected {
		return fmt.Errorf("wrong round id, expected %v, got %v", expected, pb.Round)
	}
	if len(pb.Sender) == 0 {
		return errors.New("payload has no sender")
	}
	return nil
}

// ===== DataPullRound =====

// DataPullPayload is the observed odds result, the content hash of the raw
// odds response and the on-chain bet placement flag.
type DataPullPayload struct {
	PayloadBase

	BettingResult   bool   `json:"betting_result"`
	BettingIPFSHash string `json:"betting_ipfs_hash"`
	HasPlacedBet    bool   `json:"has_placed_bet"`
}

func NewDataPullPayload(sender Address, result bool, ipfsHash string, hasPlacedBet bool) *DataPullPayload {
	return &DataPullPayload{
		PayloadBase: PayloadBase{
			Round:     DataPullRound,
			Sender:    sender,
			Timestamp: time.Now(),
		},
		BettingResult:   result,
		BettingIPFSHash: ipfsHash,
		HasPlacedBet:    hasPlacedBet,
	}
}

func (p *DataPullPayload) ValidateBasic() error {
	if err := p.validateBasic(DataPullRound); err != nil {
		return err
	}
	if p.BettingIPFSHash == "" {
		return errors.New("empty betting ipfs hash")
	}
	return nil
}

func (p *DataPullPayload) SignBytes(chainID string) []byte {
	cp := *p
	cp.Signature = nil
	return payloadSignBytes(chainID, &cp)
}

func (p *DataPullPayload) String() string {
	return fmt.Sprintf("[DataPullPayload %X result=%v ipfs=%s placed=%v]",
		tmbytes.Fingerprint(p.Sender), p.BettingResult, p.BettingIPFSHash, p.HasPlacedBet)
}

// ===== DecisionMakingRound =====

// DecisionMakingPayload carries the event this agent derived from the shared
// period state.
type DecisionMakingPayload struct {
	PayloadBase

	Event Event `json:"event"`
}

func NewDecisionMakingPayload(sender Address, event Event) *DecisionMakingPayload {
	return &DecisionMakingPayload{
		PayloadBase: PayloadBase{
			Round:     DecisionMakingRound,
			Sender:    sender,
			Timestamp: time.Now(),
		},
		Event: event,
	}
}

func (p *DecisionMakingPayload) ValidateBasic() error {
	if err := p.validateBasic(DecisionMakingRound); err != nil {
		return err
	}
	if !p.Event.IsDecisionEvent() {
		return fmt.Errorf("%v is not a decision event", p.Event)
	}
	return nil
}

func (p *DecisionMakingPayload) SignBytes(chainID string) []byte {
	cp := *p
	cp.Signature = nil
	return payloadSignBytes(chainID, &cp)
}

func (p *DecisionMakingPayload) String() string {
	return fmt.Sprintf("[DecisionMakingPayload %X event=%v]",
		tmbytes.Fingerprint(p.Sender), p.Event)
}

// ===== TxPreparationRound =====

// TxPreparationPayload carries the transaction this agent prepared. Majority
// agreement is required on both the type and the encoded bytes.
type TxPreparationPayload struct {
	PayloadBase

	Tx PreparedTx `json:"tx"`
}

func NewTxPreparationPayload(sender Address, tx PreparedTx) *TxPreparationPayload {
	return &TxPreparationPayload{
		PayloadBase: PayloadBase{
			Round:     TxPreparationRound,
			Sender:    sender,
			Timestamp: time.Now(),
		},
		Tx: tx,
	}
}

func (p *TxPreparationPayload) ValidateBasic() error {
	if err := p.validateBasic(TxPreparationRound); err != nil {
		return err
	}
	return p.Tx.ValidateBasic()
}

func (p *TxPreparationPayload) SignBytes(chainID string) []byte {
	cp := *p
	cp.Signature = nil
	return payloadSignBytes(chainID, &cp)
}

func (p *TxPreparationPayload) String() string {
	return fmt.Sprintf("[TxPreparationPayload %X tx=%v]",
		tmbytes.Fingerprint(p.Sender), p.Tx)
}

// canonical sign bytes: chain id plus the payload with a nil signature
func payloadSignBytes(chainID string, p Payload) []byte {
	bz, err := tmjson.Marshal(struct {
		ChainID string  `json:"chain_id"`
		Payload Payload `json:"payload"`
	}{chainID, p})
	if err != nil {
		panic(err)
	}
	return bz
}
