package chainstate

import (
	"errors"
	"fmt"

	"github.com/meshvine/chainstate/chainhash"
)

// ErrHeadMoved matches any HeadMovedError via errors.Is.
var ErrHeadMoved = errors.New("chain head moved")

// ErrNotFound reports a missing sequence index.
var ErrNotFound = errors.New("chain item not found")

// HeadMovedError is the rejection of an optimistic commit: the persisted
// chain head diverged from the buffer's baseline between construction and
// flush. It is recoverable; the caller retries with a fresh buffer.
type HeadMovedError struct {
	// Old is the head the buffer was constructed against; nil for an empty
	// chain.
	Old *chainhash.Hash

	// New is the head observed at flush time; nil for an empty chain.
	New *chainhash.Hash
}

func (e *HeadMovedError) Error() string {
	return fmt.Sprintf("chain head moved: expected %s, found %s", formatHead(e.Old), formatHead(e.New))
}

func (e *HeadMovedError) Is(target error) bool {
	return target == ErrHeadMoved
}

func formatHead(h *chainhash.Hash) string {
	if h == nil {
		return "none"
	}
	return h.Short()
}
