package behaviour

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/mahabubAlahi/final-assignment-service/gateway"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// dataPull fetches the odds, persists the raw observation and reads the bet
// placement flag from the contract. The three calls are independent; the
// fetch+persist pair and the contract read run concurrently and all must
// settle before the payload is assembled.
func (e *Executor) dataPull(_ state.PeriodState) (types.Payload, error) {
	if valid, err := e.betting.IsValidMatchKey(e.params.MatchKey); err != nil {
		return nil, errors.Wrap(err, "match key check failed")
	} else if !valid {
		return nil, errors.Errorf("match key %q is not known to the contract", e.params.MatchKey)
	}

	var (
		wg sync.WaitGroup

		oddsResp *gateway.OddsResponse
		ipfsHash string
		oddsErr  error

		placed      bool
		contractErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		var raw []byte
		oddsResp, raw, oddsErr = e.odds.FetchOdds(gateway.OddsQuery{
			Opponent1:  e.params.Opponent1,
			Opponent2:  e.params.Opponent2,
			BetAgainst: e.params.BetAgainst,
		})
		if oddsErr != nil {
			return
		}
		ipfsHash, oddsErr = e.content.Put(raw)
	}()
	go func() {
		defer wg.Done()
		placed, contractErr = e.betting.HasPlacedBet(e.params.TransferTargetAddress, e.params.MatchKey)
	}()
	wg.Wait()

	if oddsErr != nil {
		return nil, errors.Wrap(oddsErr, "odds observation failed")
	}
	if contractErr != nil {
		return nil, errors.Wrap(contractErr, "placed-bet read failed")
	}

	e.logger.Info("betting result stored",
		"result", oddsResp.Data.Result,
		"ipfs", "https://gateway.autonolas.tech/ipfs/"+ipfsHash,
		"has_placed_bet", placed)

	return types.NewDataPullPayload(e.sender, oddsResp.Data.Result, ipfsHash, placed), nil
}
