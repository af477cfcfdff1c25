package gateway

import (
	"encoding/hex"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerCall(t *testing.T) {
	contractAddress := "0x2222222222222222222222222222222222222222"
	callData := []byte{0xa9, 0x05, 0x9c, 0xbb}
	returnWord := make([]byte, 32)
	returnWord[31] = 1

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := ioutil.ReadAll(r.Body)
		require.NoError(t, err)

		var req ethCallRequest
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "eth_call", req.Method)
		require.Len(t, req.Params, 2)
		assert.Equal(t, "latest", req.Params[1])

		params, ok := req.Params[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, contractAddress, params["to"])
		assert.Equal(t, "0x"+hex.EncodeToString(callData), params["data"])

		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0x` + hex.EncodeToString(returnWord) + `"}`))
	}))
	defer srv.Close()

	client := NewLedgerClient(srv.URL, time.Second)

	ret, err := client.Call(contractAddress, callData)
	require.NoError(t, err)
	assert.Equal(t, returnWord, ret)
}

func TestLedgerCallSurfacesRPCError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`))
	}))
	defer srv.Close()

	client := NewLedgerClient(srv.URL, time.Second)

	_, err := client.Call("0x2222222222222222222222222222222222222222", []byte{0x01})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}

func TestLedgerCallRejectsBadReturnHex(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"0xzz"}`))
	}))
	defer srv.Close()

	client := NewLedgerClient(srv.URL, time.Second)

	_, err := client.Call("0x2222222222222222222222222222222222222222", []byte{0x01})
	assert.Error(t, err)
}
