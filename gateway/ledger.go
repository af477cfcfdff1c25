package gateway

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// LedgerClient performs read-only eth_call requests against a JSON-RPC
// ledger endpoint. It satisfies the contract package's Caller interface;
// signing and broadcast stay outside this service.
type LedgerClient struct {
	endpoint string
	client   *http.Client

	logger log.Logger
}

func NewLedgerClient(endpoint string, requestTimeout time.Duration) *LedgerClient {
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &LedgerClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: requestTimeout},
		logger:   log.NewNopLogger(),
	}
}

func (c *LedgerClient) SetLogger(logger log.Logger) {
	c.logger = logger
}

type ethCallRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type ethCallParams struct {
	To   string `json:"to"`
	Data string `json:"data"`
}

type ethCallResponse struct {
	Result string `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Call executes eth_call against the latest block and returns the raw
// return data.
func (c *LedgerClient) Call(contractAddress string, data []byte) ([]byte, error) {
	reqBody, err := json.Marshal(ethCallRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "eth_call",
		Params: []interface{}{
			ethCallParams{To: contractAddress, Data: "0x" + hex.EncodeToString(data)},
			"latest",
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding eth_call request")
	}

	httpResp, err := c.client.Post(c.endpoint, "application/json", bytes.NewReader(reqBody))
	if err != nil {
		return nil, errors.Wrap(err, "eth_call request failed")
	}
	defer httpResp.Body.Close()

	raw, err := ioutil.ReadAll(httpResp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading eth_call response")
	}

	var resp ethCallResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, errors.Wrap(err, "decoding eth_call response")
	}
	if resp.Error != nil {
		return nil, errors.Errorf("eth_call error %d: %s", resp.Error.Code, resp.Error.Message)
	}

	ret, err := hex.DecodeString(strings.TrimPrefix(resp.Result, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "decoding eth_call return data")
	}

	c.logger.Debug("eth_call", "to", contractAddress, "in", len(data), "out", len(ret))
	return ret, nil
}
