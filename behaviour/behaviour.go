// Package behaviour implements the local, per-agent half of each round:
// the work an agent does on its own before broadcasting a payload. The
// replicated half (collection, majority voting) lives in consensus.
package behaviour

import (
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/mahabubAlahi/final-assignment-service/contract"
	"github.com/mahabubAlahi/final-assignment-service/gateway"
	"github.com/mahabubAlahi/final-assignment-service/gateway/ipfsstore"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// Params is the betting configuration surface consumed by the behaviours.
type Params struct {
	MatchKey      string `mapstructure:"match_key"`
	Opponent1     string `mapstructure:"opponent1"`
	Opponent2     string `mapstructure:"opponent2"`
	BetAgainst    string `mapstructure:"bet_against"`
	BettingAmount uint64 `mapstructure:"betting_amount"`

	TransferTargetAddress  string `mapstructure:"transfer_target_address"`
	BettingContractAddress string `mapstructure:"betting_contract_address"`
	MultisendAddress       string `mapstructure:"multisend_address"`

	OddsEndpoint   string `mapstructure:"odds_endpoint"`
	LedgerEndpoint string `mapstructure:"ledger_endpoint"`

	RoundTimeoutSeconds  int           `mapstructure:"round_timeout_seconds"`
	KeeperAllowedRetries int           `mapstructure:"keeper_allowed_retries"`
	RequestRetryDelay    time.Duration `mapstructure:"request_retry_delay"`
	RequestTimeout       time.Duration `mapstructure:"request_timeout"`
}

func (p Params) RoundTimeout() time.Duration {
	return time.Duration(p.RoundTimeoutSeconds) * time.Second
}

// Executor dispatches to the behaviour matching the active round. It
// implements consensus.PayloadProducer.
type Executor struct {
	sender types.Address
	params Params

	odds    *gateway.OddsClient
	content ipfsstore.ContentStore
	betting *contract.Betting

	logger log.Logger
}

func NewExecutor(
	sender types.Address,
	params Params,
	odds *gateway.OddsClient,
	content ipfsstore.ContentStore,
	betting *contract.Betting,
) *Executor {
	return &Executor{
		sender:  sender,
		params:  params,
		odds:    odds,
		content: content,
		betting: betting,
		logger:  log.NewNopLogger(),
	}
}

func (e *Executor) SetLogger(logger log.Logger) {
	e.logger = logger
}

// Produce runs the behaviour for the round and returns this agent's
// unsigned payload. Failures surface as errors; the caller abstains for the
// round instead of submitting a poisoned payload.
func (e *Executor) Produce(round types.RoundID, period state.PeriodState) (types.Payload, error) {
	switch round {
	case types.DataPullRound:
		return e.dataPull(period)
	case types.DecisionMakingRound:
		return e.decide(period)
	case types.TxPreparationRound:
		return e.prepareTx(period)
	default:
		return nil, errors.Errorf("no behaviour for round %v", round)
	}
}
