package chainstate

import (
	"fmt"

	"github.com/meshvine/chainstate/chainhash"
	"github.com/meshvine/chainstate/seqdb"
)

// SequenceBuffer accumulates chain appends in memory against a snapshot of
// the persisted chain. It is single-owner: it must not be shared across
// goroutines, and it is consumed by exactly one Flush.
type SequenceBuffer struct {
	nextIndex  uint32
	generation uint32
	pending    []LogItem

	// baselineHead is the persisted head observed at construction and is
	// never updated afterwards; Flush checks it against the store's current
	// head to detect a concurrent writer.
	baselineHead *chainhash.Hash

	// currentHead is baselineHead until the first append, then the address
	// of the most recently appended pending item.
	currentHead *chainhash.Hash

	flushed bool
}

// New constructs a buffer against view, which is typically a fresh read
// snapshot. The persisted item with the highest index determines the next
// index to assign, the generation for this buffer's appends, and the
// baseline head; an empty store yields index 0, generation 0 and no head.
func New(view seqdb.View) (*SequenceBuffer, error) {
	b := &SequenceBuffer{}
	item, err := lastItem(view)
	if err != nil {
		return nil, err
	}
	if item != nil {
		b.nextIndex = item.Index + 1
		b.generation = item.Generation + 1
		head := item.Header
		b.baselineHead = &head
		b.currentHead = &head
	}
	return b, nil
}

// ChainHead returns the address of the most recent item, pending or
// persisted, or nil if the chain is empty and nothing has been appended.
// The caller embeds this as the backlink of the next header it builds.
func (b *SequenceBuffer) ChainHead() *chainhash.Hash {
	return b.currentHead
}

// AddHeader appends a pending item recording ref. It assigns the next
// sequence index, stamps the buffer's generation, and advances the chain
// head. In-memory only; cannot fail.
func (b *SequenceBuffer) AddHeader(ref chainhash.Hash) {
	b.pending = append(b.pending, LogItem{
		Index:              b.nextIndex,
		Header:             ref,
		Generation:         b.generation,
		TransformsComplete: false,
	})
	b.nextIndex++
	head := ref
	b.currentHead = &head
}

// Len returns the number of pending appends.
func (b *SequenceBuffer) Len() int {
	return len(b.pending)
}

// NextIndex returns the sequence index the next append would receive.
func (b *SequenceBuffer) NextIndex() uint32 {
	return b.nextIndex
}

// Generation returns the opaque commit-group counter this buffer stamps on
// its appends.
func (b *SequenceBuffer) Generation() uint32 {
	return b.generation
}

// Flush validates the buffer against txn and stages every pending item.
//
// The persisted head is recomputed under txn's own snapshot and compared to
// the baseline captured at construction. If they differ, a concurrent writer
// extended the chain in the meantime: Flush returns a *HeadMovedError and
// stages nothing, leaving txn untouched. Otherwise every pending item is
// staged keyed by its index; the caller's Commit persists them atomically.
//
// A buffer is consumed by its first Flush call regardless of outcome; to
// retry after a conflict, build a new buffer from a fresh snapshot. Calling
// Flush twice is a programming error and panics.
func (b *SequenceBuffer) Flush(txn *seqdb.Txn) error {
	if b.flushed {
		panic("chainstate: sequence buffer flushed twice")
	}
	b.flushed = true

	observed, err := Head(txn)
	if err != nil {
		return err
	}
	if !chainhash.Equal(b.baselineHead, observed) {
		return &HeadMovedError{Old: b.baselineHead, New: observed}
	}

	encoded := make([][]byte, len(b.pending))
	for i := range b.pending {
		encoded[i], err = encodeItem(&b.pending[i])
		if err != nil {
			return err
		}
	}
	for i := range b.pending {
		if err := txn.Put(b.pending[i].Index, encoded[i]); err != nil {
			return err
		}
	}
	return nil
}

// Head returns the persisted chain head under view, or nil for an empty
// store. This is the same computation New performs for its baseline.
func Head(view seqdb.View) (*chainhash.Hash, error) {
	item, err := lastItem(view)
	if err != nil || item == nil {
		return nil, err
	}
	head := item.Header
	return &head, nil
}

func lastItem(view seqdb.View) (*LogItem, error) {
	_, value, ok, err := view.Last()
	if err != nil {
		return nil, fmt.Errorf("chainstate: read chain head: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return decodeItem(value)
}
