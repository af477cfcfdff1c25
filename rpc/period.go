package rpc

import (
	"github.com/pkg/errors"
	rpctypes "github.com/tendermint/tendermint/rpc/jsonrpc/types"

	"github.com/mahabubAlahi/final-assignment-service/state"
)

type ResultPeriodState struct {
	PeriodState state.PeriodState `json:"period_state"`
}

// PeriodState returns the period snapshot with the given version, or the
// live snapshot when version < 0.
func PeriodState(ctx *rpctypes.Context, version int64) (*ResultPeriodState, error) {
	if version < 0 {
		return &ResultPeriodState{PeriodState: env.Sequence.Period()}, nil
	}

	ps, found, err := env.Store.LoadSnapshot(version)
	if err != nil {
		return nil, errors.Wrapf(err, "loading period snapshot %d", version)
	}
	if !found {
		return nil, errors.Errorf("no period snapshot with version %d", version)
	}
	return &ResultPeriodState{PeriodState: ps}, nil
}
