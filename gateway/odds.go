// Package gateway holds the thin adapters the rounds call out to: the
// external odds API and the content-addressed result store.
package gateway

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	defaultRequestTimeout = 10 * time.Second
	defaultRetryDelay     = 1 * time.Second
	defaultAllowedRetries = 3
)

// OddsResponse mirrors the odds provider's wire format.
type OddsResponse struct {
	ExecStatus bool     `json:"execStatus"`
	Msg        string   `json:"msg"`
	Data       OddsData `json:"data"`
}

type OddsData struct {
	Match  map[string]float64 `json:"match"`
	Result bool               `json:"result"`
}

// OddsQuery selects the match and the side to bet against.
type OddsQuery struct {
	Opponent1  string
	Opponent2  string
	BetAgainst string
}

// OddsClient fetches the current odds with a bounded retry budget. A
// provider-side failure (execStatus=false) counts as a transient fetch
// error, same as a transport failure; on exhaustion the caller abstains for
// the round.
type OddsClient struct {
	baseURL string
	client  *http.Client

	allowedRetries int
	retryDelay     time.Duration

	logger log.Logger
}

type OddsOption func(*OddsClient)

func NewOddsClient(baseURL string, options ...OddsOption) *OddsClient {
	c := &OddsClient{
		baseURL:        baseURL,
		client:         &http.Client{Timeout: defaultRequestTimeout},
		allowedRetries: defaultAllowedRetries,
		retryDelay:     defaultRetryDelay,
		logger:         log.NewNopLogger(),
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func WithRetries(allowed int, delay time.Duration) OddsOption {
	return func(c *OddsClient) {
		if allowed > 0 {
			c.allowedRetries = allowed
		}
		if delay > 0 {
			c.retryDelay = delay
		}
	}
}

func WithRequestTimeout(d time.Duration) OddsOption {
	return func(c *OddsClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

func (c *OddsClient) SetLogger(logger log.Logger) {
	c.logger = logger
}

// FetchOdds performs GET /api/odd with the query and returns the decoded
// response. The raw body of the successful attempt is returned as well, so
// callers can persist exactly what was observed.
func (c *OddsClient) FetchOdds(query OddsQuery) (*OddsResponse, []byte, error) {
	reqURL := fmt.Sprintf("%s/api/odd?%s", c.baseURL, url.Values{
		"opponent1":   []string{query.Opponent1},
		"opponent2":   []string{query.Opponent2},
		"bet_against": []string{query.BetAgainst},
	}.Encode())

	var lastErr error
	for attempt := 0; attempt < c.allowedRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(c.retryDelay)
		}

		resp, raw, err := c.fetchOnce(reqURL)
		if err != nil {
			lastErr = err
			c.logger.Error("odds fetch attempt failed", "attempt", attempt+1, "err", err)
			continue
		}

		c.logger.Info("got betting result from odds api", "result", resp.Data.Result, "match", resp.Data.Match)
		return resp, raw, nil
	}

	return nil, nil, errors.Wrapf(lastErr, "odds fetch exhausted %d attempts", c.allowedRetries)
}

func (c *OddsClient) fetchOnce(reqURL string) (*OddsResponse, []byte, error) {
	httpResp, err := c.client.Get(reqURL)
	if err != nil {
		return nil, nil, errors.Wrap(err, "odds request failed")
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, nil, errors.Errorf("odds api returned status %d", httpResp.StatusCode)
	}

	raw, err := ioutil.ReadAll(httpResp.Body)
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading odds response")
	}

	var resp OddsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, nil, errors.Wrap(err, "decoding odds response")
	}

	if !resp.ExecStatus {
		return nil, nil, errors.Errorf("odds api execStatus=false: %s", resp.Msg)
	}

	return &resp, raw, nil
}
