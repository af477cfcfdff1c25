// Package node wires the betting service together: config, keys, storage,
// gateways, the round sequence with its p2p reactor, and the RPC surface.
package node

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	cfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/tendermint/tendermint/libs/service"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/p2p/conn"
	rpcserver "github.com/tendermint/tendermint/rpc/jsonrpc/server"
	"github.com/tendermint/tendermint/version"
	tmdb "github.com/tendermint/tm-db"

	"github.com/mahabubAlahi/final-assignment-service/behaviour"
	"github.com/mahabubAlahi/final-assignment-service/consensus"
	"github.com/mahabubAlahi/final-assignment-service/contract"
	"github.com/mahabubAlahi/final-assignment-service/gateway"
	"github.com/mahabubAlahi/final-assignment-service/gateway/ipfsstore"
	"github.com/mahabubAlahi/final-assignment-service/libs/metric"
	"github.com/mahabubAlahi/final-assignment-service/privval"
	"github.com/mahabubAlahi/final-assignment-service/rpc"
	"github.com/mahabubAlahi/final-assignment-service/state"
	"github.com/mahabubAlahi/final-assignment-service/types"
)

type Provider func(*cfg.Config, log.Logger) (*Node, error)

type Node struct {
	service.BaseService

	// config
	config     *cfg.Config
	params     behaviour.Params
	genesisDoc *types.GenesisDoc

	// network
	transport *p2p.MultiplexTransport
	sw        *p2p.Switch
	nodeInfo  p2p.NodeInfo
	nodeKey   *p2p.NodeKey

	// service
	sequence *consensus.RoundSequence
	reactor  *consensus.Reactor

	stateDB      tmdb.DB
	stateStore   *state.Store
	contentStore *ipfsstore.Store

	metricSet    *metric.MetricSet
	rpcListeners []net.Listener
}

type Option func(*Node)

// DefaultNewNode assembles a node from the files an `init` run left under
// the config root.
func DefaultNewNode(config *cfg.Config, logger log.Logger) (*Node, error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return nil, fmt.Errorf("loading node key: %w", err)
	}

	genDoc, err := types.GenesisDocFromFile(config.GenesisFile())
	if err != nil {
		return nil, err
	}

	pv := privval.LoadFilePV(config.PrivValidatorKeyFile())

	params, err := LoadParams(ParamsFile(config))
	if err != nil {
		return nil, err
	}

	return NewNode(config, params, genDoc, pv, nodeKey, logger)
}

func NewNode(
	config *cfg.Config,
	params behaviour.Params,
	genDoc *types.GenesisDoc,
	privVal types.PrivAgent,
	nodeKey *p2p.NodeKey,
	logger log.Logger,
	options ...Option,
) (*Node, error) {
	agents := genDoc.AgentSet()
	if err := agents.ValidateBasic(); err != nil {
		return nil, fmt.Errorf("genesis agent set: %w", err)
	}

	pubKey, err := privVal.GetPubKey()
	if err != nil {
		return nil, fmt.Errorf("can't get agent pubkey: %w", err)
	}
	if !agents.HasAddress(pubKey.Address()) {
		return nil, fmt.Errorf("agent %v is not part of the genesis agent set", pubKey.Address())
	}

	// storage
	stateDB, err := tmdb.NewGoLevelDB("periodstate", config.DBDir())
	if err != nil {
		return nil, fmt.Errorf("opening period state db: %w", err)
	}
	stateStore := state.NewStore(stateDB)
	stateStore.SetLogger(logger.With("module", "state"))

	contentStore, err := ipfsstore.NewStore("content", config.DBDir())
	if err != nil {
		return nil, err
	}
	contentStore.SetLogger(logger.With("module", "ipfsstore"))

	// gateways
	odds := gateway.NewOddsClient(params.OddsEndpoint,
		gateway.WithRetries(params.KeeperAllowedRetries, params.RequestRetryDelay),
		gateway.WithRequestTimeout(params.RequestTimeout),
	)
	odds.SetLogger(logger.With("module", "odds"))

	ledger := gateway.NewLedgerClient(params.LedgerEndpoint, params.RequestTimeout)
	ledger.SetLogger(logger.With("module", "ledger"))

	betting := contract.NewBetting(params.BettingContractAddress, ledger)
	betting.SetLogger(logger.With("module", "contract"))

	executor := behaviour.NewExecutor(pubKey.Address(), params, odds, contentStore, betting)
	executor.SetLogger(logger.With("module", "behaviour"))

	// the sequence resumes from the latest persisted snapshot if one exists
	period := state.NewPeriodState(genDoc.ChainID, genDoc.GenesisTime)
	if latest, found, err := stateStore.LoadLatest(); err != nil {
		return nil, fmt.Errorf("loading latest period snapshot: %w", err)
	} else if found {
		period = latest
		logger.Info("resuming from persisted period state", "version", period.Version)
	}

	sequence := consensus.NewRoundSequence(genDoc.ChainID, agents, privVal, executor, period,
		consensus.SetRoundTimeout(params.RoundTimeout()),
		consensus.SetStateStore(stateStore),
	)
	sequence.SetLogger(logger.With("module", "sequence"))

	reactor := consensus.NewReactor(sequence)
	reactor.SetLogger(logger.With("module", "sequence"))

	metricSet := metric.NewMetricSet()
	if err := metricSet.SetMetrics("sequence", sequence.Metric()); err != nil {
		return nil, err
	}

	p2pLogger := logger.With("module", "p2p")

	nodeInfo, err := makeNodeInfo(config, nodeKey, genDoc.ChainID)
	if err != nil {
		return nil, err
	}

	transport := createTransport(nodeInfo, nodeKey)
	sw := createSwitch(config, transport, reactor, nodeInfo, nodeKey, p2pLogger)

	node := &Node{
		config:     config,
		params:     params,
		genesisDoc: genDoc,

		transport: transport,
		sw:        sw,
		nodeInfo:  nodeInfo,
		nodeKey:   nodeKey,

		sequence: sequence,
		reactor:  reactor,

		stateDB:      stateDB,
		stateStore:   stateStore,
		contentStore: contentStore,

		metricSet: metricSet,
	}
	node.BaseService = *service.NewBaseService(logger, "Node", node)

	for _, option := range options {
		option(node)
	}
	return node, nil
}

func createTransport(nodeInfo p2p.NodeInfo, nodeKey *p2p.NodeKey) *p2p.MultiplexTransport {
	return p2p.NewMultiplexTransport(nodeInfo, *nodeKey, conn.DefaultMConnConfig())
}

func createSwitch(
	config *cfg.Config,
	transport p2p.Transport,
	reactor *consensus.Reactor,
	nodeInfo p2p.NodeInfo,
	nodeKey *p2p.NodeKey,
	p2pLogger log.Logger,
) *p2p.Switch {
	sw := p2p.NewSwitch(config.P2P, transport)
	sw.SetLogger(p2pLogger)
	sw.AddReactor("SEQUENCE", reactor)

	sw.SetNodeInfo(nodeInfo)
	sw.SetNodeKey(nodeKey)

	p2pLogger.Info("P2P Node ID", "ID", nodeKey.ID(), "file", config.NodeKeyFile())
	return sw
}

func makeNodeInfo(config *cfg.Config, nodeKey *p2p.NodeKey, chainID string) (p2p.NodeInfo, error) {
	nodeInfo := p2p.DefaultNodeInfo{
		ProtocolVersion: p2p.NewProtocolVersion(8, 11, 0),
		DefaultNodeID:   nodeKey.ID(),
		Network:         chainID,
		Version:         version.TMCoreSemVer,
		Channels: []byte{
			consensus.PayloadChannel,
		},
		Moniker: config.Moniker,
		Other: p2p.DefaultNodeInfoOther{
			TxIndex:    "off",
			RPCAddress: config.RPC.ListenAddress,
		},
	}

	lAddr := config.P2P.ExternalAddress
	if lAddr == "" {
		lAddr = config.P2P.ListenAddress
	}
	nodeInfo.ListenAddr = lAddr

	err := nodeInfo.Validate()
	return nodeInfo, err
}

func (n *Node) Switch() *p2p.Switch {
	return n.sw
}

func (n *Node) NodeInfo() p2p.NodeInfo {
	return n.nodeInfo
}

func (n *Node) Sequence() *consensus.RoundSequence {
	return n.sequence
}

func (n *Node) OnStart() error {
	addr, err := p2p.NewNetAddressString(p2p.IDAddressString(n.nodeKey.ID(), n.config.P2P.ListenAddress))
	if err != nil {
		return err
	}
	if err := n.transport.Listen(*addr); err != nil {
		return err
	}

	if err := n.sw.Start(); err != nil {
		return err
	}

	n.Logger.Info("dialing persistent peers", "peers", n.config.P2P.PersistentPeers)
	err = n.sw.DialPeersAsync(splitAndTrimEmpty(n.config.P2P.PersistentPeers, ",", " "))
	if err != nil {
		return fmt.Errorf("could not dial peers from persistent_peers field: %w", err)
	}

	if n.config.RPC.ListenAddress != "" {
		listeners, err := n.startRPC()
		if err != nil {
			return err
		}
		n.rpcListeners = listeners
	}

	// the switch must be up before the sequence starts so the first
	// payload broadcast has somewhere to go
	return n.sequence.Start()
}

func (n *Node) OnStop() {
	for _, l := range n.rpcListeners {
		if err := l.Close(); err != nil {
			n.Logger.Error("error closing rpc listener", "err", err)
		}
	}

	if err := n.sequence.Stop(); err != nil {
		n.Logger.Error("error stopping round sequence", "err", err)
	}

	if err := n.sw.Stop(); err != nil {
		n.Logger.Error("error stopping switch", "err", err)
	}
	if err := n.transport.Close(); err != nil {
		n.Logger.Error("error closing transport", "err", err)
	}

	if err := n.contentStore.Close(); err != nil {
		n.Logger.Error("error closing content store", "err", err)
	}
	if err := n.stateDB.Close(); err != nil {
		n.Logger.Error("error closing period state db", "err", err)
	}
}

func (n *Node) startRPC() ([]net.Listener, error) {
	rpc.SetEnvironment(&rpc.Environment{
		Sequence:  n.sequence,
		Store:     n.stateStore,
		MetricSet: n.metricSet,
	})

	rpcLogger := n.Logger.With("module", "rpc-server")
	listenAddrs := splitAndTrimEmpty(n.config.RPC.ListenAddress, ",", " ")
	listeners := make([]net.Listener, 0, len(listenAddrs))

	for _, listenAddr := range listenAddrs {
		mux := http.NewServeMux()
		rpcserver.RegisterRPCFuncs(mux, rpc.Routes, rpcLogger)

		config := rpcserver.DefaultConfig()
		config.MaxOpenConnections = n.config.RPC.MaxOpenConnections

		listener, err := rpcserver.Listen(listenAddr, config)
		if err != nil {
			return nil, err
		}

		go func() {
			if err := rpcserver.Serve(listener, mux, rpcLogger, config); err != nil {
				rpcLogger.Error("rpc server stopped", "err", err)
			}
		}()
		listeners = append(listeners, listener)
	}

	return listeners, nil
}

// splitAndTrimEmpty slices s by sep, trims cutset from every element and
// drops the empty ones.
func splitAndTrimEmpty(s, sep, cutset string) []string {
	if s == "" {
		return []string{}
	}

	spl := strings.Split(s, sep)
	nonEmptyStrings := make([]string, 0, len(spl))
	for i := 0; i < len(spl); i++ {
		element := strings.Trim(spl[i], cutset)
		if element != "" {
			nonEmptyStrings = append(nonEmptyStrings, element)
		}
	}
	return nonEmptyStrings
}
