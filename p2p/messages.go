// Package p2p defines the message shapes exchanged with the peer network
// actor that propagates and requests chain data, together with their wire
// codec. Only the shapes and the actor's call surface live here; transport,
// scheduling and retry belong to the node implementation that consumes this
// package.
package p2p

import (
	"context"
	"fmt"
)

// IDSize is the byte length of network identifiers: a 32-byte hash followed
// by a 4-byte DHT location.
const IDSize = 36

// Space identifies a shared network context (one DNA/application network).
type Space [IDSize]byte

// Agent identifies a participant within a space.
type Agent [IDSize]byte

// Basis is the DHT coordinate whose neighborhood a broadcast targets.
type Basis [IDSize]byte

// MarshalBinary implements encoding.BinaryMarshaler so identifiers encode
// as CBOR byte strings.
func (s Space) MarshalBinary() ([]byte, error) { return append([]byte(nil), s[:]...), nil }
func (a Agent) MarshalBinary() ([]byte, error) { return append([]byte(nil), a[:]...), nil }
func (b Basis) MarshalBinary() ([]byte, error) { return append([]byte(nil), b[:]...), nil }

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (s *Space) UnmarshalBinary(data []byte) error { return copyID(s[:], data) }
func (a *Agent) UnmarshalBinary(data []byte) error { return copyID(a[:], data) }
func (b *Basis) UnmarshalBinary(data []byte) error { return copyID(b[:], data) }

func copyID(dst, data []byte) error {
	if len(data) != IDSize {
		return fmt.Errorf("p2p: identifier is %d bytes, want %d", len(data), IDSize)
	}
	copy(dst, data)
	return nil
}

// Join announces a space/agent pair on the network.
type Join struct {
	Space Space `cbor:"space"`
	Agent Agent `cbor:"agent"`
}

// Leave withdraws a space/agent pair from the network.
type Leave struct {
	Space Space `cbor:"space"`
	Agent Agent `cbor:"agent"`
}

// Request asks a single remote agent for data and awaits its response.
type Request struct {
	Space   Space  `cbor:"space"`
	Agent   Agent  `cbor:"agent"`
	Payload []byte `cbor:"payload"`
}

// Broadcast publishes data to the neighborhood of remote nodes surrounding
// the basis coordinate.
type Broadcast struct {
	Space Space `cbor:"space"`
	Agent Agent `cbor:"agent"`
	Basis Basis `cbor:"basis"`
	// TimeoutMS bounds the wait for delivery counts; zero means fire and
	// forget.
	TimeoutMS uint64 `cbor:"timeout_ms"`
	Payload   []byte `cbor:"payload"`
}

// MultiRequest asks several agents near the basis coordinate and aggregates
// their responses.
type MultiRequest struct {
	Space Space `cbor:"space"`
	Agent Agent `cbor:"agent"`
	Basis Basis `cbor:"basis"`
	// RemoteAgentCount is the target number of agents: zero requests a
	// reasonable default, MaxUint32 as many as possible.
	RemoteAgentCount uint32 `cbor:"remote_agent_count"`
	// TimeoutMS bounds the aggregation; use Broadcast instead of zero.
	TimeoutMS uint64 `cbor:"timeout_ms"`
	Payload   []byte `cbor:"payload"`
}

// MultiRequestResponse pairs one agent with its response payload.
type MultiRequestResponse struct {
	Agent   Agent  `cbor:"agent"`
	Payload []byte `cbor:"payload"`
}

// Sender is the call surface of the network actor. Implementations own all
// transport concerns; callers treat every method as potentially blocking
// until the context is done.
type Sender interface {
	Join(ctx context.Context, msg Join) error
	Leave(ctx context.Context, msg Leave) error
	Request(ctx context.Context, msg Request) ([]byte, error)
	// Broadcast returns the approximate number of nodes reached.
	Broadcast(ctx context.Context, msg Broadcast) (uint32, error)
	MultiRequest(ctx context.Context, msg MultiRequest) ([]MultiRequestResponse, error)
}
