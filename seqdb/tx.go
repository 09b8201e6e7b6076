package seqdb

import (
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

// View is the read contract shared by read snapshots and write transactions.
// The sequencing layer is written against View so that the commit-time head
// re-check can run under the write transaction's own isolation.
type View interface {
	// Get returns the value stored at key, reporting whether it exists.
	Get(key uint32) (value []byte, ok bool, err error)

	// Last returns the entry with the maximum key, if any.
	Last() (key uint32, value []byte, ok bool, err error)

	// Ascend calls f for every entry in ascending key order, stopping at the
	// first error, which it returns.
	Ascend(f func(key uint32, value []byte) error) error
}

// Snap is a read-only snapshot of the store.
type Snap struct {
	btx *bbolt.Tx
}

var _ View = (*Snap)(nil)

// Close releases the snapshot. Safe to call after Commit on a Txn.
func (s *Snap) Close() {
	// The only error Rollback returns is ErrTxClosed, which just means
	// Commit already ran (the normal write path).
	err := s.btx.Rollback()
	if err != nil && err != bbolt.ErrTxClosed {
		panic(err) // not expected to happen unless the Bolt API changes
	}
}

func (s *Snap) bucket() *bbolt.Bucket {
	b := s.btx.Bucket(chainBucket)
	if b == nil {
		panic("seqdb: chain bucket missing; store not opened via Open")
	}
	return b
}

// Get returns the value stored at key.
func (s *Snap) Get(key uint32) ([]byte, bool, error) {
	raw := s.bucket().Get(keyBytes(key))
	if raw == nil {
		return nil, false, nil
	}
	value, err := openFrame(raw)
	if err != nil {
		return nil, false, fmt.Errorf("seqdb: key %d: %w", key, err)
	}
	return value, true, nil
}

// Last returns the entry with the maximum key.
func (s *Snap) Last() (uint32, []byte, bool, error) {
	k, raw := s.bucket().Cursor().Last()
	if k == nil {
		return 0, nil, false, nil
	}
	key, err := parseKey(k)
	if err != nil {
		return 0, nil, false, err
	}
	value, err := openFrame(raw)
	if err != nil {
		return 0, nil, false, fmt.Errorf("seqdb: key %d: %w", key, err)
	}
	return key, value, true, nil
}

// Ascend iterates all entries in ascending key order.
func (s *Snap) Ascend(f func(key uint32, value []byte) error) error {
	c := s.bucket().Cursor()
	for k, raw := c.First(); k != nil; k, raw = c.Next() {
		key, err := parseKey(k)
		if err != nil {
			return err
		}
		value, err := openFrame(raw)
		if err != nil {
			return fmt.Errorf("seqdb: key %d: %w", key, err)
		}
		if err := f(key, value); err != nil {
			return err
		}
	}
	return nil
}

// Txn is a write transaction. It embeds Snap, so every read runs under the
// transaction's own snapshot. Writes become visible atomically on Commit.
type Txn struct {
	Snap
}

var _ View = (*Txn)(nil)

// Put stages value at key. The write is not visible to other handles until
// Commit.
func (t *Txn) Put(key uint32, value []byte) error {
	err := t.bucket().Put(keyBytes(key), appendFrame(nil, value))
	if err != nil {
		return fmt.Errorf("seqdb: put key %d: %w", key, err)
	}
	return nil
}

// Commit atomically persists every staged write.
func (t *Txn) Commit() error {
	if err := t.btx.Commit(); err != nil {
		return fmt.Errorf("seqdb: commit: %w", err)
	}
	return nil
}

func keyBytes(key uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], key)
	return b[:]
}

func parseKey(k []byte) (uint32, error) {
	if len(k) != 4 {
		return 0, dataErrf(k, 0, nil, "malformed chain key")
	}
	return binary.BigEndian.Uint32(k), nil
}
