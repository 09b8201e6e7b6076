package chainstate

import (
	"fmt"

	"github.com/meshvine/chainstate/seqdb"
)

// Walk calls f for every persisted item in ascending sequence order,
// stopping at the first error, which it returns.
func Walk(view seqdb.View, f func(item LogItem) error) error {
	return view.Ascend(func(key uint32, value []byte) error {
		item, err := decodeItem(value)
		if err != nil {
			return err
		}
		if item.Index != key {
			return fmt.Errorf("chainstate: item at key %d records index %d", key, item.Index)
		}
		return f(*item)
	})
}

// SetTransformsComplete marks the item at index as published. This is the
// downstream publishing workflow's half of the TransformsComplete contract;
// the sequencing buffer itself only ever writes the flag as false.
func SetTransformsComplete(txn *seqdb.Txn, index uint32) error {
	value, ok, err := txn.Get(index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNotFound, index)
	}
	item, err := decodeItem(value)
	if err != nil {
		return err
	}
	if item.TransformsComplete {
		return nil
	}
	item.TransformsComplete = true
	encoded, err := encodeItem(item)
	if err != nil {
		return err
	}
	return txn.Put(index, encoded)
}
