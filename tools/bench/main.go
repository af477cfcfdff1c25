// bench watches round progress across a local fleet: it polls every agent's
// RPC websocket for `status` and logs how the sequences advance.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/tendermint/tendermint/libs/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	var (
		targets  = flag.String("targets", "127.0.0.1:26657", "comma-separated list of agent RPC addresses")
		interval = flag.Duration("interval", 2*time.Second, "poll interval")
		duration = flag.Duration("duration", 0, "how long to poll; 0 means until interrupted")
		verbose  = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	if !*verbose {
		logger = log.NewFilter(logger, log.AllowInfo())
	}

	p := newPoller(splitTargets(*targets), *interval)
	p.SetLogger(logger)

	if err := p.Start(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *duration > 0 {
		time.Sleep(*duration)
		p.Stop()
		return
	}
	select {}
}

func splitTargets(s string) []string {
	parts := strings.Split(s, ",")
	targets := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}
