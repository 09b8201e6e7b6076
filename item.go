package chainstate

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/meshvine/chainstate/chainhash"
)

// LogItem is one persisted record of the chain sequence.
type LogItem struct {
	// Index is the sequence index, identical to the storage key.
	// TODO: drop the field once seqdb iteration callbacks are enough for all
	// consumers to recover the key.
	Index uint32

	// Header is the content address of the chain header this item records.
	Header chainhash.Hash

	// Generation groups all items written by a single commit. Constant
	// within one commit, monotonically non-decreasing across commits.
	Generation uint32

	// TransformsComplete is written false on append and later flipped by the
	// publishing workflow; the sequencing core never mutates it.
	TransformsComplete bool
}

// wireItem is the msgpack shape of a LogItem. The header travels as a byte
// string so its encoding does not depend on msgpack's array handling.
type wireItem struct {
	Index      uint32 `msgpack:"i"`
	Header     []byte `msgpack:"h"`
	Generation uint32 `msgpack:"g"`
	Complete   bool   `msgpack:"c"`
}

func encodeItem(item *LogItem) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.GetEncoder()
	enc.Reset(&buf)
	enc.SetSortMapKeys(true)
	err := enc.Encode(&wireItem{
		Index:      item.Index,
		Header:     item.Header[:],
		Generation: item.Generation,
		Complete:   item.TransformsComplete,
	})
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("chainstate: encode item %d: %w", item.Index, err)
	}
	return buf.Bytes(), nil
}

func decodeItem(data []byte) (*LogItem, error) {
	var r bytes.Reader
	r.Reset(data)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	var w wireItem
	err := dec.Decode(&w)
	msgpack.PutDecoder(dec)
	if err != nil {
		return nil, fmt.Errorf("chainstate: decode item: %w", err)
	}
	if len(w.Header) != chainhash.Size {
		return nil, fmt.Errorf("chainstate: decode item %d: header address is %d bytes, want %d", w.Index, len(w.Header), chainhash.Size)
	}
	item := &LogItem{
		Index:              w.Index,
		Generation:         w.Generation,
		TransformsComplete: w.Complete,
	}
	copy(item.Header[:], w.Header)
	return item, nil
}
