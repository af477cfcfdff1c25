package types

import (
	"errors"
	"fmt"
	"io/ioutil"
	"time"

	"github.com/tendermint/tendermint/crypto"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmos "github.com/tendermint/tendermint/libs/os"
	tmtime "github.com/tendermint/tendermint/types/time"
)

// GenesisAgent is one fleet member as listed in the genesis file.
type GenesisAgent struct {
	Address Address       `json:"address"`
	PubKey  crypto.PubKey `json:"pub_key"`
	Name    string        `json:"name,omitempty"`
}

// GenesisDoc fixes the deployment: the chain identifier, the starting
// synchronized time and the full participant registry. Every agent of a
// fleet runs from the same genesis file.
type GenesisDoc struct {
	ChainID     string         `json:"chain_id"`
	GenesisTime time.Time      `json:"genesis_time"`
	Agents      []GenesisAgent `json:"agents"`
}

// AgentSet builds the participant registry the rounds vote against.
func (genDoc *GenesisDoc) AgentSet() *AgentSet {
	agents := make([]*Agent, len(genDoc.Agents))
	for i, ga := range genDoc.Agents {
		agents[i] = NewAgent(ga.PubKey)
	}
	return NewAgentSet(agents)
}

// ValidateAndComplete checks consistency and fills derivable fields in
// place, mirroring how the doc is repaired right after loading.
func (genDoc *GenesisDoc) ValidateAndComplete() error {
	if genDoc.ChainID == "" {
		return errors.New("genesis doc must include non-empty chain_id")
	}
	if len(genDoc.Agents) == 0 {
		return errors.New("genesis doc must list at least one agent")
	}

	for i, agent := range genDoc.Agents {
		if agent.PubKey == nil {
			return fmt.Errorf("genesis agent #%d has no pubkey", i)
		}
		if len(agent.Address) == 0 {
			genDoc.Agents[i].Address = agent.PubKey.Address()
		}
	}

	if genDoc.GenesisTime.IsZero() {
		genDoc.GenesisTime = tmtime.Now()
	}
	return nil
}

// SaveAs writes the doc as indented JSON.
func (genDoc *GenesisDoc) SaveAs(file string) error {
	bz, err := tmjson.MarshalIndent(genDoc, "", "  ")
	if err != nil {
		return err
	}
	return tmos.WriteFile(file, bz, 0644)
}

func GenesisDocFromJSON(jsonBlob []byte) (*GenesisDoc, error) {
	genDoc := GenesisDoc{}
	if err := tmjson.Unmarshal(jsonBlob, &genDoc); err != nil {
		return nil, err
	}
	if err := genDoc.ValidateAndComplete(); err != nil {
		return nil, err
	}
	return &genDoc, nil
}

func GenesisDocFromFile(genDocFile string) (*GenesisDoc, error) {
	jsonBlob, err := ioutil.ReadFile(genDocFile)
	if err != nil {
		return nil, fmt.Errorf("couldn't read genesis file: %w", err)
	}
	genDoc, err := GenesisDocFromJSON(jsonBlob)
	if err != nil {
		return nil, fmt.Errorf("error reading genesis at %v: %w", genDocFile, err)
	}
	return genDoc, nil
}
