/*
Package chainstate maintains a strictly ordered, append-only sequence of
locally authored chain headers for one agent, and guarantees that two
concurrent writers cannot silently fork that sequence.

The central type is SequenceBuffer, an in-memory overlay over the persisted
chain (package seqdb). A buffer is constructed against a read snapshot,
capturing the persisted head as its baseline. Appends accumulate in memory
only. At commit time, Flush re-reads the persisted head under the write
transaction's own snapshot and compares it to the baseline: if the head moved
since the buffer was built, Flush returns a HeadMovedError and writes
nothing; otherwise it stages every pending item, and the caller's transaction
commit makes the whole batch durable atomically.

This is optimistic concurrency control: no lock is held between buffer
construction and flush. If two writers both start from head H, at most one
extends the chain from H; the other observes the drift and must rebuild a
fresh buffer from a new snapshot to retry. The retry loop belongs to the
caller; this package only classifies and surfaces the conflict.

# Stored items

Every persisted item records its sequence index (the storage key, contiguous
from 0), the header's content address, the generation shared by all items of
one commit, and a publishing flag that a downstream workflow flips once the
header's network transforms are done. Items are msgpack-encoded; the store
adds a checksum frame around each value.

# Usage

	db, err := seqdb.Open(path, seqdb.Options{})
	...
	snap := db.BeginRead()
	buf, err := chainstate.New(snap)
	snap.Close()
	...
	prev := buf.ChainHead() // backlink for the next header
	buf.AddHeader(ref)
	...
	err = db.Update(buf.Flush)
	if errors.Is(err, chainstate.ErrHeadMoved) {
		// rebuild the buffer from a fresh snapshot and retry
	}
*/
package chainstate
