package types

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tendermint/tendermint/crypto"
)

type Address = crypto.Address

// PrivAgent is the signing half of an agent identity. The file-backed
// implementation lives in privval.
type PrivAgent interface {
	GetPubKey() (crypto.PubKey, error)
	SignPayload(chainID string, payload Payload) error
}

// Agent is one participant of the fleet.
type Agent struct {
	Address Address       `json:"address"`
	PubKey  crypto.PubKey `json:"pub_key"`
}

func NewAgent(pubKey crypto.PubKey) *Agent {
	return &Agent{
		Address: pubKey.Address(),
		PubKey:  pubKey,
	}
}

func (a *Agent) ValidateBasic() error {
	if a == nil {
		return errors.New("nil agent")
	}
	if a.PubKey == nil {
		return errors.New("agent has no pubkey")
	}
	if len(a.Address) != crypto.AddressSize {
		return fmt.Errorf("wrong address size, got %d", len(a.Address))
	}
	return nil
}

func (a *Agent) Copy() *Agent {
	cp := *a
	return &cp
}

// AgentSet is the fixed participant registry for one deployment. Quorum and
// majority thresholds are derived from its size, never hardcoded.
type AgentSet struct {
	Agents []*Agent `json:"agents"`
}

func NewAgentSet(agents []*Agent) *AgentSet {
	set := &AgentSet{}
	set.Agents = make([]*Agent, 0, len(agents))
	set.Agents = append(set.Agents, agents...)
	return set
}

func (set *AgentSet) ValidateBasic() error {
	if set.IsNilOrEmpty() {
		return errors.New("agent set is nil or empty")
	}
	for idx, agent := range set.Agents {
		if err := agent.ValidateBasic(); err != nil {
			return fmt.Errorf("invalid agent #%d: %w", idx, err)
		}
	}
	return nil
}

func (set *AgentSet) IsNilOrEmpty() bool {
	return set == nil || len(set.Agents) == 0
}

func (set *AgentSet) Size() int {
	return len(set.Agents)
}

func (set *AgentSet) HasAddress(address Address) bool {
	for _, agent := range set.Agents {
		if bytes.Equal(agent.Address, address) {
			return true
		}
	}
	return false
}

func (set *AgentSet) GetByAddress(address Address) *Agent {
	for _, agent := range set.Agents {
		if bytes.Equal(agent.Address, address) {
			return agent.Copy()
		}
	}
	return nil
}

// QuorumThreshold returns the count that must be strictly exceeded before a
// round may resolve: more than 2/3 of the participants.
func (set *AgentSet) QuorumThreshold() int {
	return set.Size() * 2 / 3
}

// MajorityThreshold returns the count that must be strictly exceeded for a
// value to win a per-field vote: more than 1/2 of the participants.
func (set *AgentSet) MajorityThreshold() int {
	return set.Size() / 2
}
