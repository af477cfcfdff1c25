package consensus

import (
	"fmt"

	"github.com/mahabubAlahi/final-assignment-service/types"
	"github.com/tendermint/tendermint/libs/cmap"
	"github.com/tendermint/tendermint/libs/events"
	tmjson "github.com/tendermint/tendermint/libs/json"
	"github.com/tendermint/tendermint/p2p"
)

const (
	PayloadChannel = byte(0x40)

	maxMsgSize = 1048576 // 1MB
)

// ------ Event ------
// events the sequence fires for the reactor
const (
	EventNewPayload       = "NewPayload"
	EventSequenceFinished = "SequenceFinished"
)

// ------ Message ------
type Message interface {
	ValidateBasic() error
}

// PayloadMessage wraps one agent's payload for broadcast and delivery.
type PayloadMessage struct {
	Payload types.Payload
}

func (msg *PayloadMessage) ValidateBasic() error {
	if msg.Payload == nil {
		return fmt.Errorf("payload message without payload")
	}
	return msg.Payload.ValidateBasic()
}

func (msg *PayloadMessage) String() string {
	return fmt.Sprintf("[Payload %v]", msg.Payload)
}

// ------- Reactor ------

// Reactor gossips payloads between agent processes. Outbound payloads are
// picked up from the sequence's event switch after local validation;
// inbound payloads are decoded and funneled into the peer message queue.
type Reactor struct {
	p2p.BaseReactor

	peers *cmap.CMap

	sequence *RoundSequence
}

type ReactorOption func(*Reactor)

func NewReactor(sequence *RoundSequence, options ...ReactorOption) *Reactor {
	conR := &Reactor{
		peers:    cmap.NewCMap(),
		sequence: sequence,
	}
	conR.BaseReactor = *p2p.NewBaseReactor("Sequence", conR)

	for _, option := range options {
		option(conR)
	}

	conR.subscribeToBroadcastEvents()

	return conR
}

func (conR *Reactor) OnStart() error {
	conR.Logger.Info("Sequence Reactor started.")
	return nil
}

func (conR *Reactor) OnStop() {}

func (conR *Reactor) GetChannels() []*p2p.ChannelDescriptor {
	return []*p2p.ChannelDescriptor{
		{
			ID:                 PayloadChannel,
			Priority:           10,
			SendQueueCapacity:  100,
			RecvBufferCapacity: maxMsgSize,
		},
	}
}

func (conR *Reactor) InitPeer(peer p2p.Peer) p2p.Peer {
	return peer
}

func (conR *Reactor) AddPeer(peer p2p.Peer) {
	conR.peers.Set(p2p.IDAddressString(peer.ID(), ""), peer)
}

func (conR *Reactor) RemovePeer(peer p2p.Peer, reason interface{}) {
	conR.peers.Delete(p2p.IDAddressString(peer.ID(), ""))
}

func (conR *Reactor) Receive(chID byte, src p2p.Peer, msgBytes []byte) {
	if !conR.IsRunning() {
		conR.Logger.Debug("Receive", "src", src, "chID", chID, "bytes", msgBytes)
		return
	}

	switch chID {
	case PayloadChannel:
		var payload types.Payload
		if err := tmjson.Unmarshal(msgBytes, &payload); err != nil {
			conR.Logger.Error("try to unmarshal payload failed", "err", err, "msgBytes", msgBytes)
			break
		}

		conR.Logger.Debug(fmt.Sprintf("Receive payload from #{%v}", src.ID()), "payload", payload)
		conR.sequence.peerMsgQueue <- msgInfo{
			Msg:    &PayloadMessage{Payload: payload},
			PeerID: src.ID(),
		}

	default:
		conR.Logger.Error(fmt.Sprintf("Unknown chID %X", chID))
	}
}

// subscribeToBroadcastEvents forwards locally accepted payloads to every
// peer. The sequence has already validated them; receivers validate again
// on their side.
func (conR *Reactor) subscribeToBroadcastEvents() {
	const subscriber = "sequence-reactor"

	conR.sequence.eventSwitch.AddListenerForEvent(subscriber, EventNewPayload, func(data events.EventData) {
		conR.broadcastPayload(data.(types.Payload))
	})
}

func (conR *Reactor) broadcastPayload(payload types.Payload) {
	bz, err := tmjson.Marshal(payload)
	if err != nil {
		conR.Logger.Error("Marshal payload failed.", "err", err)
		return
	}
	conR.Logger.Debug("ready to broadcast payload", "payload", payload)
	conR.Switch.Broadcast(PayloadChannel, bz)
}
