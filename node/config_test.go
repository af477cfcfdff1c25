package node

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeParamsFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "betting.yaml")
	require.NoError(t, ioutil.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoadParams(t *testing.T) {
	file := writeParamsFile(t, `
match_key: "match-1"
opponent1: "alpha"
opponent2: "beta"
bet_against: "beta"
betting_amount: 7

transfer_target_address: "0x1111111111111111111111111111111111111111"
betting_contract_address: "0x2222222222222222222222222222222222222222"
multisend_address: "0x3333333333333333333333333333333333333333"

odds_endpoint: "http://localhost:3001"
ledger_endpoint: "http://localhost:8545"

round_timeout_seconds: 5
request_retry_delay: "250ms"
`)

	params, err := LoadParams(file)
	require.NoError(t, err)

	assert.Equal(t, "match-1", params.MatchKey)
	assert.Equal(t, uint64(7), params.BettingAmount)
	assert.Equal(t, 5*time.Second, params.RoundTimeout())
	assert.Equal(t, 250*time.Millisecond, params.RequestRetryDelay)

	// unset optional fields keep their defaults
	assert.Equal(t, 3, params.KeeperAllowedRetries)
	assert.Equal(t, 10*time.Second, params.RequestTimeout)
}

func TestLoadParamsRequiresAddresses(t *testing.T) {
	file := writeParamsFile(t, `
match_key: "match-1"
betting_contract_address: "0x2222222222222222222222222222222222222222"
`)

	_, err := LoadParams(file)
	assert.Error(t, err)
}

func TestLoadParamsMissingFile(t *testing.T) {
	_, err := LoadParams(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestWriteParamsTemplate(t *testing.T) {
	file := filepath.Join(t.TempDir(), "betting.yaml")
	require.NoError(t, WriteParamsTemplate(file))

	// the template must load as-is
	params, err := LoadParams(file)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, params.RoundTimeout())

	// a second write must not clobber an existing file
	require.NoError(t, ioutil.WriteFile(file, []byte("match_key: custom"), 0644))
	require.NoError(t, WriteParamsTemplate(file))
	content, err := ioutil.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "match_key: custom", string(content))
}
