package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"

	"github.com/mahabubAlahi/final-assignment-service/privval"
)

// GenAgentKeyCmd generates the BLS keypair this agent signs payloads with.
var GenAgentKeyCmd = &cobra.Command{
	Use:     "gen-agent-key",
	Aliases: []string{"gen_agent_key"},
	Args:    cobra.ArbitraryArgs,
	Short:   "Generate a new agent keypair",
	PreRun:  deprecateSnakeCase,
	RunE:    genAgentKey,
}

func init() {
	GenAgentKeyCmd.Flags().Int64Var(&seed, "seed", 0, "generate the key deterministically from this seed")
}

func genAgentKey(cmd *cobra.Command, args []string) error {
	privValKeyFile := config.PrivValidatorKeyFile()
	if tmos.FileExists(privValKeyFile) {
		logger.Info("Found agent key", "keyFile", privValKeyFile)
		return nil
	}

	var pv *privval.FilePV
	if seed != 0 {
		pv = privval.GenFilePVWithSeed(privValKeyFile, seed)
	} else {
		pv = privval.GenFilePV(privValKeyFile)
	}
	pv.Save()

	jsbz, err := tmjson.Marshal(pv.Key)
	if err != nil {
		return err
	}
	fmt.Printf("%v\n", string(jsbz))
	return nil
}
