package main

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/tendermint/tendermint/libs/log"
	jsonrpc "github.com/tendermint/tendermint/rpc/jsonrpc/types"

	"github.com/mahabubAlahi/final-assignment-service/rpc"
)

const (
	sendTimeout = 10 * time.Second
	// see https://github.com/tendermint/tendermint/blob/master/rpc/lib/server/handlers.go
	pingPeriod = (30 * 9 / 10) * time.Second
)

// poller keeps one websocket per agent and polls `status` at a fixed
// interval, logging how each node's round sequence progresses.
type poller struct {
	Targets  []string
	Interval time.Duration

	conns       []*websocket.Conn
	connsBroken []bool
	startingWg  sync.WaitGroup
	endingWg    sync.WaitGroup
	stopped     bool

	logger log.Logger
}

func newPoller(targets []string, interval time.Duration) *poller {
	return &poller{
		Targets:     targets,
		Interval:    interval,
		conns:       make([]*websocket.Conn, len(targets)),
		connsBroken: make([]bool, len(targets)),
		logger:      log.NewNopLogger(),
	}
}

func (p *poller) SetLogger(l log.Logger) {
	p.logger = l
}

// Start opens one connection per target and spawns the read and write
// goroutines for each.
func (p *poller) Start() error {
	p.stopped = false

	for i, target := range p.Targets {
		c, _, err := connect(target)
		if err != nil {
			return errors.Wrapf(err, "connecting to %v", target)
		}
		p.conns[i] = c
	}

	p.startingWg.Add(len(p.conns))
	p.endingWg.Add(2 * len(p.conns))
	for i := range p.conns {
		go p.sendLoop(i)
		go p.receiveLoop(i)
	}

	p.startingWg.Wait()
	return nil
}

// Stop closes the connections.
func (p *poller) Stop() {
	p.stopped = true
	p.endingWg.Wait()
	for _, c := range p.conns {
		c.Close()
	}
}

func (p *poller) receiveLoop(connIndex int) {
	c := p.conns[connIndex]
	logger := p.logger.With("target", p.Targets[connIndex])
	defer p.endingWg.Done()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				logger.Error(fmt.Sprintf("failed to read response on conn %d", connIndex), "err", err)
			}
			return
		}
		if p.stopped || p.connsBroken[connIndex] {
			return
		}

		var resp jsonrpc.RPCResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			logger.Error("malformed rpc response", "err", err)
			continue
		}
		if resp.Error != nil {
			logger.Error("rpc error", "err", resp.Error)
			continue
		}

		var status rpc.ResultStatus
		if err := json.Unmarshal(resp.Result, &status); err != nil {
			logger.Error("malformed status result", "err", err)
			continue
		}

		logger.Info("status",
			"round", status.Round,
			"instance", status.Instance,
			"version", status.PeriodVersion,
			"decision", status.DecisionEvent,
			"finished", status.Finished,
		)
	}
}

func (p *poller) sendLoop(connIndex int) {
	started := false
	defer func() {
		if !started {
			p.startingWg.Done()
		}
	}()
	c := p.conns[connIndex]

	c.SetPingHandler(func(message string) error {
		err := c.WriteControl(websocket.PongMessage, []byte(message), time.Now().Add(sendTimeout))
		if err == websocket.ErrCloseSent {
			return nil
		} else if e, ok := err.(net.Error); ok && e.Temporary() {
			return nil
		}
		return err
	})

	logger := p.logger.With("addr", c.RemoteAddr())

	pingsTicker := time.NewTicker(pingPeriod)
	pollTicker := time.NewTicker(p.Interval)
	defer func() {
		pingsTicker.Stop()
		pollTicker.Stop()
		p.endingWg.Done()
	}()

	for {
		select {
		case <-pollTicker.C:
			if !started {
				p.startingWg.Done()
				started = true
			}

			c.SetWriteDeadline(time.Now().Add(sendTimeout))
			err := c.WriteJSON(jsonrpc.RPCRequest{
				JSONRPC: "2.0",
				ID:      jsonrpc.JSONRPCStringID("bench"),
				Method:  "status",
			})
			if err != nil {
				err = errors.Wrapf(err, "status poll failed on connection #%d", connIndex)
				p.connsBroken[connIndex] = true
				logger.Error(err.Error())
				return
			}

		case <-pingsTicker.C:
			// go-rpc server closes the connection in the absence of pings
			c.SetWriteDeadline(time.Now().Add(sendTimeout))
			if err := c.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				logger.Error(fmt.Sprintf("failed to write ping message on conn #%d", connIndex), "err", err)
				p.connsBroken[connIndex] = true
			}
		}

		if p.stopped {
			// a clean close is a close frame followed by the server closing
			c.SetWriteDeadline(time.Now().Add(sendTimeout))
			err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			if err != nil {
				logger.Error(fmt.Sprintf("failed to write close message on conn #%d", connIndex), "err", err)
				p.connsBroken[connIndex] = true
			}
			return
		}
	}
}

func connect(host string) (*websocket.Conn, *http.Response, error) {
	u := url.URL{Scheme: "ws", Host: host, Path: "/websocket"}
	return websocket.DefaultDialer.Dial(u.String(), nil)
}
