package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQuery() OddsQuery {
	return OddsQuery{Opponent1: "alpha", Opponent2: "beta", BetAgainst: "beta"}
}

func TestFetchOdds(t *testing.T) {
	body := `{"execStatus":true,"msg":"ok","data":{"match":{"alpha":1.5,"beta":2.5},"result":true}}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/odd", r.URL.Path)
		assert.Equal(t, "alpha", r.URL.Query().Get("opponent1"))
		assert.Equal(t, "beta", r.URL.Query().Get("opponent2"))
		assert.Equal(t, "beta", r.URL.Query().Get("bet_against"))
		w.Write([]byte(body))
	}))
	defer srv.Close()

	client := NewOddsClient(srv.URL)

	resp, raw, err := client.FetchOdds(testQuery())
	require.NoError(t, err)
	assert.True(t, resp.Data.Result)
	assert.Equal(t, 1.5, resp.Data.Match["alpha"])
	assert.Equal(t, body, string(raw), "the raw body survives for persistence")
}

func TestFetchOddsRetriesThenSucceeds(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Write([]byte(`{"execStatus":false,"msg":"warming up"}`))
			return
		}
		w.Write([]byte(`{"execStatus":true,"data":{"result":false}}`))
	}))
	defer srv.Close()

	client := NewOddsClient(srv.URL, WithRetries(3, time.Millisecond))

	resp, _, err := client.FetchOdds(testQuery())
	require.NoError(t, err)
	assert.False(t, resp.Data.Result)
	assert.Equal(t, 2, attempts)
}

func TestFetchOddsExhaustsRetries(t *testing.T) {
	var attempts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewOddsClient(srv.URL, WithRetries(3, time.Millisecond))

	_, _, err := client.FetchOdds(testQuery())
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestFetchOddsRejectsGarbageBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewOddsClient(srv.URL, WithRetries(1, time.Millisecond))

	_, _, err := client.FetchOdds(testQuery())
	assert.Error(t, err)
}
