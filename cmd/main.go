package main

import (
	"os"
	"path/filepath"

	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"

	cmd "github.com/mahabubAlahi/final-assignment-service/cmd/commands"
	nm "github.com/mahabubAlahi/final-assignment-service/node"
)

func main() {
	cfg.DefaultTendermintDir = ".betting_agent"
	rootCmd := cmd.RootCmd

	rootCmd.AddCommand(
		cmd.InitFilesCmd,
		cmd.GenNodeKeyCmd,
		cmd.GenAgentKeyCmd,
		cmd.GenGenesisCmd,
		cmd.ShowNodeIDCmd,
		cmd.ShowAgentCmd,
		cmd.NewRunNodeCmd(nm.DefaultNewNode),
		cli.NewCompletionCmd(rootCmd, true),
	)

	baseCmd := cli.PrepareBaseCmd(rootCmd, "BETTING", os.ExpandEnv(filepath.Join("$HOME", cfg.DefaultTendermintDir)))
	if err := baseCmd.Execute(); err != nil {
		panic(err)
	}
}
