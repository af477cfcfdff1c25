package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	cfg "github.com/tendermint/tendermint/config"
	tmos "github.com/tendermint/tendermint/libs/os"
	tmrand "github.com/tendermint/tendermint/libs/rand"
	"github.com/tendermint/tendermint/p2p"
	tmtime "github.com/tendermint/tendermint/types/time"

	"github.com/mahabubAlahi/final-assignment-service/node"
	"github.com/mahabubAlahi/final-assignment-service/privval"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

// InitFilesCmd initialises a fresh single-agent deployment: agent key, node
// key, genesis listing only this agent, and a betting params template.
var InitFilesCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize an agent home directory",
	RunE:  initFiles,
}

func init() {
	InitFilesCmd.Flags().Int64Var(&seed, "seed", 0, "generate the agent key deterministically from this seed")
}

func initFiles(cmd *cobra.Command, args []string) error {
	return initFilesWithConfig(config)
}

func initFilesWithConfig(config *cfg.Config) error {
	// agent key
	privValKeyFile := config.PrivValidatorKeyFile()

	var pv *privval.FilePV
	if tmos.FileExists(privValKeyFile) {
		pv = privval.LoadFilePV(privValKeyFile)
		logger.Info("Found agent key", "keyFile", privValKeyFile)
	} else {
		if seed != 0 {
			pv = privval.GenFilePVWithSeed(privValKeyFile, seed)
		} else {
			pv = privval.GenFilePV(privValKeyFile)
		}
		pv.Save()
		logger.Info("Generated agent key", "keyFile", privValKeyFile)
	}

	// node key
	nodeKeyFile := config.NodeKeyFile()
	if tmos.FileExists(nodeKeyFile) {
		logger.Info("Found node key", "path", nodeKeyFile)
	} else {
		if _, err := p2p.LoadOrGenNodeKey(nodeKeyFile); err != nil {
			return err
		}
		logger.Info("Generated node key", "path", nodeKeyFile)
	}

	// genesis file
	genFile := config.GenesisFile()
	if tmos.FileExists(genFile) {
		logger.Info("Found genesis file", "path", genFile)
	} else {
		pubKey, err := pv.GetPubKey()
		if err != nil {
			return fmt.Errorf("can't get pubkey: %w", err)
		}

		genDoc := types.GenesisDoc{
			ChainID:     fmt.Sprintf("betting-chain-%v", tmrand.Str(6)),
			GenesisTime: tmtime.Now(),
			Agents: []types.GenesisAgent{{
				Address: pubKey.Address(),
				PubKey:  pubKey,
				Name:    config.Moniker,
			}},
		}
		if err := genDoc.SaveAs(genFile); err != nil {
			return err
		}
		logger.Info("Generated genesis file", "path", genFile)
	}

	// betting params
	paramsFile := node.ParamsFile(config)
	if tmos.FileExists(paramsFile) {
		logger.Info("Found betting params", "path", paramsFile)
	} else {
		if err := node.WriteParamsTemplate(paramsFile); err != nil {
			return err
		}
		logger.Info("Generated betting params template", "path", paramsFile)
	}

	return nil
}
