// Package seqdb implements the ordered log store backing a source chain:
// a single Bolt bucket keyed by big-endian uint32 sequence indices, so byte
// order equals numeric order and a reverse cursor peek yields the item with
// the highest index.
//
// Access is split into two handle types. A Snap is a read-only snapshot of
// the store; a Txn is a write transaction that also satisfies the read
// contract. Bolt guarantees that at most one write transaction is live at a
// time and that readers observe a consistent snapshot, which is exactly the
// isolation the sequencing layer above relies on.
package seqdb

import (
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"
)

var chainBucket = []byte("chain")

// Options configures a store.
type Options struct {
	// Logger receives debug-level store events. Defaults to slog.Default().
	Logger *slog.Logger

	// IsTesting relaxes durability (no fsync) and shrinks the initial mmap,
	// making throwaway databases cheap to create.
	IsTesting bool

	// MmapSize overrides the initial mmap size when nonzero.
	MmapSize int
}

// DB is an open chain store.
type DB struct {
	bdb    *bbolt.DB
	logger *slog.Logger
}

// Open creates or opens the store file at path.
func Open(path string, opt Options) (*DB, error) {
	bopt := *bbolt.DefaultOptions
	bopt.Timeout = 10 * time.Second
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 64
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, &bopt)
	if err != nil {
		return nil, fmt.Errorf("seqdb: %w", err)
	}

	err = bdb.Update(func(btx *bbolt.Tx) error {
		_, err := btx.CreateBucketIfNotExists(chainBucket)
		return err
	})
	if err != nil {
		bdb.Close()
		return nil, fmt.Errorf("seqdb: %w", err)
	}

	logger := opt.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("seqdb: opened", "path", path, "testing", opt.IsTesting)

	return &DB{bdb: bdb, logger: logger}, nil
}

// Close closes the store.
func (db *DB) Close() error {
	return db.bdb.Close()
}

// Bolt exposes the underlying Bolt database for maintenance tooling.
func (db *DB) Bolt() *bbolt.DB {
	return db.bdb
}

// BeginRead opens a read snapshot. The caller must Close it.
func (db *DB) BeginRead() *Snap {
	btx, err := db.bdb.Begin(false)
	if err != nil {
		panic(fmt.Errorf("seqdb: failed to start reading: %w", err))
	}
	return &Snap{btx: btx}
}

// BeginUpdate opens a write transaction. Bolt blocks until any other write
// transaction finishes, so two write handles are never live concurrently.
// The caller must Commit or Close it.
func (db *DB) BeginUpdate() *Txn {
	btx, err := db.bdb.Begin(true)
	if err != nil {
		panic(fmt.Errorf("seqdb: failed to start writing: %w", err))
	}
	return &Txn{Snap{btx: btx}}
}

// Read runs f with a read snapshot.
func (db *DB) Read(f func(snap *Snap)) {
	snap := db.BeginRead()
	defer snap.Close()
	f(snap)
}

// ReadErr runs f with a read snapshot, propagating its error.
func (db *DB) ReadErr(f func(snap *Snap) error) error {
	snap := db.BeginRead()
	defer snap.Close()
	return f(snap)
}

// Update runs f with a write transaction, committing if f returns nil and
// rolling back otherwise.
func (db *DB) Update(f func(txn *Txn) error) error {
	txn := db.BeginUpdate()
	defer txn.Close()
	if err := f(txn); err != nil {
		return err
	}
	return txn.Commit()
}
