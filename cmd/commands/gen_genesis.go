package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	tmos "github.com/tendermint/tendermint/libs/os"
	tmtime "github.com/tendermint/tendermint/types/time"

	"github.com/mahabubAlahi/final-assignment-service/crypto/bls"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// GenGenesisCmd generates a fleet genesis file with deterministic agent
// keys. Agent i gets the key derived from seed+i, so each agent process can
// reproduce its own key with `init --seed`.
var GenGenesisCmd = &cobra.Command{
	Use:     "gen-genesis",
	Aliases: []string{"gen_genesis"},
	Short:   "Generate a genesis file for an agent fleet",
	PreRun:  deprecateSnakeCase,
	RunE:    genGenesisFile,
}

func init() {
	GenGenesisCmd.Flags().StringVar(&chainID, "chainID", "betting-chain", "chain identifier shared by the fleet")

	GenGenesisCmd.Flags().Int64Var(&seed, "seed", 1, "base seed for the fleet's agent keys")
	GenGenesisCmd.MarkFlagRequired("seed")
	GenGenesisCmd.Flags().IntVar(&clusterCount, "cluster-count", 4, "number of agents in the fleet")
	GenGenesisCmd.MarkFlagRequired("cluster-count")
}

func genGenesisFile(cmd *cobra.Command, args []string) error {
	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file, exiting", "path", genFile)
		return nil
	}

	agents := make([]types.GenesisAgent, clusterCount)
	for id := 1; id <= clusterCount; id++ {
		priv := bls.GenPrivKeyWithSeed(seed + int64(id))
		pub := priv.PubKey()

		agents[id-1] = types.GenesisAgent{
			Address: pub.Address(),
			PubKey:  pub,
			Name:    fmt.Sprintf("agent-%v", id),
		}
	}

	genDoc := types.GenesisDoc{
		ChainID:     chainID,
		GenesisTime: tmtime.Now(),
		Agents:      agents,
	}

	if err := genDoc.SaveAs(genFile); err != nil {
		return err
	}
	logger.Info("Generated genesis file", "path", genFile, "agents", clusterCount)
	return nil
}
