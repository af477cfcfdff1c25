package mock

import (
	"encoding/hex"
	"sync"

	"github.com/mahabubAlahi/final-assignment-service/contract"
)

// Caller is a scriptable contract.Caller, useful for testing behaviours
// without a ledger connection. Responses are keyed by the hex of the first
// four call-data bytes (the function selector).
type Caller struct {
	mtx       sync.Mutex
	responses map[string][]byte
	err       error

	Calls [][]byte
}

var _ contract.Caller = (*Caller)(nil)

func NewCaller() *Caller {
	return &Caller{
		responses: make(map[string][]byte),
	}
}

// RespondBool scripts a solidity bool return for a selector.
func (c *Caller) RespondBool(selectorHex string, v bool) {
	word := make([]byte, 32)
	if v {
		word[31] = 1
	}
	c.mtx.Lock()
	c.responses[selectorHex] = word
	c.mtx.Unlock()
}

// Fail makes every call return err.
func (c *Caller) Fail(err error) {
	c.mtx.Lock()
	c.err = err
	c.mtx.Unlock()
}

func (c *Caller) Call(contractAddress string, data []byte) ([]byte, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.Calls = append(c.Calls, data)
	if c.err != nil {
		return nil, c.err
	}
	if len(data) >= 4 {
		if ret, ok := c.responses[hex.EncodeToString(data[:4])]; ok {
			return ret, nil
		}
	}
	return make([]byte, 32), nil
}
