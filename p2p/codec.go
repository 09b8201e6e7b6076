package p2p

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Wire messages use CBOR Core Deterministic Encoding (RFC 8949 §4.2):
// sorted map keys, smallest integer encoding, no indefinite-length items.
// The same logical message always produces identical bytes, so envelopes
// can be hashed or deduplicated by their encoding.

var encMode cbor.EncMode
var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("p2p: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("p2p: CBOR decoder initialization failed: " + err.Error())
	}
}

// MsgType tags an envelope with the message shape it carries.
type MsgType uint8

const (
	MsgJoin MsgType = iota + 1
	MsgLeave
	MsgRequest
	MsgBroadcast
	MsgMultiRequest
	MsgMultiRequestResponse
)

// Message is implemented by every wire message shape.
type Message interface {
	msgType() MsgType
}

func (Join) msgType() MsgType                 { return MsgJoin }
func (Leave) msgType() MsgType                { return MsgLeave }
func (Request) msgType() MsgType              { return MsgRequest }
func (Broadcast) msgType() MsgType            { return MsgBroadcast }
func (MultiRequest) msgType() MsgType         { return MsgMultiRequest }
func (MultiRequestResponse) msgType() MsgType { return MsgMultiRequestResponse }

type envelope struct {
	Type MsgType         `cbor:"t"`
	Body cbor.RawMessage `cbor:"b"`
}

// Marshal encodes msg into a tagged envelope.
func Marshal(msg Message) ([]byte, error) {
	body, err := encMode.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("p2p: encode %T: %w", msg, err)
	}
	data, err := encMode.Marshal(envelope{Type: msg.msgType(), Body: body})
	if err != nil {
		return nil, fmt.Errorf("p2p: encode envelope: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a tagged envelope back into its message shape.
func Unmarshal(data []byte) (Message, error) {
	var env envelope
	if err := decMode.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("p2p: decode envelope: %w", err)
	}
	msg, err := emptyMessage(env.Type)
	if err != nil {
		return nil, err
	}
	if err := decMode.Unmarshal(env.Body, msg); err != nil {
		return nil, fmt.Errorf("p2p: decode %T: %w", msg, err)
	}
	return deref(msg), nil
}

func emptyMessage(t MsgType) (Message, error) {
	switch t {
	case MsgJoin:
		return &Join{}, nil
	case MsgLeave:
		return &Leave{}, nil
	case MsgRequest:
		return &Request{}, nil
	case MsgBroadcast:
		return &Broadcast{}, nil
	case MsgMultiRequest:
		return &MultiRequest{}, nil
	case MsgMultiRequestResponse:
		return &MultiRequestResponse{}, nil
	}
	return nil, fmt.Errorf("p2p: unknown message type %d", t)
}

func deref(msg Message) Message {
	switch m := msg.(type) {
	case *Join:
		return *m
	case *Leave:
		return *m
	case *Request:
		return *m
	case *Broadcast:
		return *m
	case *MultiRequest:
		return *m
	case *MultiRequestResponse:
		return *m
	}
	return msg
}
