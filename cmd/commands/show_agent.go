package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"

	"github.com/mahabubAlahi/final-assignment-service/privval"
)

// ShowAgentCmd prints this agent's address and public key, the identity the
// genesis file lists.
var ShowAgentCmd = &cobra.Command{
	Use:     "show-agent",
	Aliases: []string{"show_agent"},
	Short:   "Show this agent's address and pubkey",
	PreRun:  deprecateSnakeCase,
	RunE:    showAgent,
}

func showAgent(cmd *cobra.Command, args []string) error {
	keyFilePath := config.PrivValidatorKeyFile()
	if !tmos.FileExists(keyFilePath) {
		return fmt.Errorf("agent key file %s does not exist", keyFilePath)
	}

	pv := privval.LoadFilePV(keyFilePath)
	pubKey, err := pv.GetPubKey()
	if err != nil {
		return fmt.Errorf("can't get pubkey: %w", err)
	}

	bz, err := tmjson.Marshal(pubKey)
	if err != nil {
		return fmt.Errorf("failed to marshal agent pubkey: %w", err)
	}

	fmt.Printf("address: %v\npub_key: %v\n", pv.GetAddress(), string(bz))
	return nil
}
