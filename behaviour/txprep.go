package behaviour

import (
	"github.com/pkg/errors"

	"github.com/mahabubAlahi/final-assignment-service/contract"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// Native transfer legs carry a symbolic single wei.
const transferAmountWei = 1

// prepareTx picks the settlement shape from the last digit of the
// synchronized transition timestamp. The timestamp is replicated state, so
// every honest agent lands on the same branch without extra coordination.
//
//	digit % 3 == 0: native transfer
//	digit % 3 == 1: placeBet contract call
//	digit % 3 == 2: multisend bundling both
func (e *Executor) prepareTx(period state.PeriodState) (types.Payload, error) {
	if period.DecisionEvent != types.EventTransact {
		return nil, errors.Errorf("transaction preparation reached with decision %v", period.DecisionEvent)
	}

	digit := period.LastTransitionTime.Unix() % 10
	if digit < 0 {
		digit += 10
	}

	var (
		tx  types.PreparedTx
		err error
	)
	switch digit % 3 {
	case 0:
		tx = contract.BuildTransferTx(e.params.TransferTargetAddress, transferAmountWei)
	case 1:
		tx, err = e.betting.BuildPlaceBetTx(e.params.TransferTargetAddress, e.params.MatchKey, e.params.BettingAmount)
	case 2:
		tx, err = e.multiSendTx()
	}
	if err != nil {
		return nil, errors.Wrap(err, "transaction preparation failed")
	}

	e.logger.Info("transaction prepared",
		"type", tx.Type, "to", tx.To, "value", tx.Value, "digit", digit)
	return types.NewTxPreparationPayload(e.sender, tx), nil
}

// multiSendTx bundles the native transfer and the placeBet call into one
// multisend payload, in that order.
func (e *Executor) multiSendTx() (types.PreparedTx, error) {
	betData, err := e.betting.PlaceBetData(e.params.TransferTargetAddress, e.params.MatchKey)
	if err != nil {
		return types.PreparedTx{}, err
	}

	return contract.BuildMultiSendTx(e.params.MultisendAddress, []contract.MultiSendTx{
		{
			Operation: contract.MultiSendCall,
			To:        e.params.TransferTargetAddress,
			Value:     transferAmountWei,
		},
		{
			Operation: contract.MultiSendCall,
			To:        e.betting.Address(),
			Value:     e.params.BettingAmount,
			Data:      betData,
		},
	})
}
