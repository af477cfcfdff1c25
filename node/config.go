package node

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	cfg "github.com/tendermint/tendermint/config"
	tmos "github.com/tendermint/tendermint/libs/os"

	"github.com/mahabubAlahi/final-assignment-service/behaviour"
)

// ParamsFile locates the betting parameter file next to the node config.
func ParamsFile(config *cfg.Config) string {
	return filepath.Join(config.RootDir, "config", "betting.yaml")
}

// LoadParams reads the betting parameters with viper. Missing optional
// fields fall back to defaults; the addresses and the match key have no
// sensible defaults and are required.
func LoadParams(file string) (behaviour.Params, error) {
	v := viper.New()
	v.SetConfigFile(file)

	v.SetDefault("betting_amount", 1)
	v.SetDefault("round_timeout_seconds", 30)
	v.SetDefault("keeper_allowed_retries", 3)
	v.SetDefault("request_retry_delay", "1s")
	v.SetDefault("request_timeout", "10s")

	if err := v.ReadInConfig(); err != nil {
		return behaviour.Params{}, errors.Wrapf(err, "reading params file %v", file)
	}

	var params behaviour.Params
	if err := v.Unmarshal(&params); err != nil {
		return behaviour.Params{}, errors.Wrap(err, "unmarshaling params")
	}

	if err := validateParams(params); err != nil {
		return behaviour.Params{}, errors.Wrapf(err, "params file %v", file)
	}
	return params, nil
}

func validateParams(params behaviour.Params) error {
	switch {
	case params.MatchKey == "":
		return errors.New("match_key is required")
	case params.BettingContractAddress == "":
		return errors.New("betting_contract_address is required")
	case params.TransferTargetAddress == "":
		return errors.New("transfer_target_address is required")
	case params.MultisendAddress == "":
		return errors.New("multisend_address is required")
	case params.OddsEndpoint == "":
		return errors.New("odds_endpoint is required")
	case params.LedgerEndpoint == "":
		return errors.New("ledger_endpoint is required")
	}
	return nil
}

const paramsTemplate = `# Betting service parameters.
match_key: "team_a_vs_team_b"
opponent1: "team_a"
opponent2: "team_b"
bet_against: "team_b"
betting_amount: 1000000000000000

transfer_target_address: "0x0000000000000000000000000000000000000000"
betting_contract_address: "0x0000000000000000000000000000000000000000"
multisend_address: "0xA238CBeb142c10Ef7Ad8442C6D1f9E89e07e7761"

odds_endpoint: "http://localhost:3001"
ledger_endpoint: "http://localhost:8545"

round_timeout_seconds: 30
keeper_allowed_retries: 3
request_retry_delay: "1s"
request_timeout: "10s"
`

// WriteParamsTemplate writes a starter betting.yaml unless one exists.
func WriteParamsTemplate(file string) error {
	if tmos.FileExists(file) {
		return nil
	}
	return tmos.WriteFile(file, []byte(paramsTemplate), 0644)
}
