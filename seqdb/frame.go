package seqdb

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Value frame: payload followed by a big-endian xxhash64 of the payload.
// The checksum catches torn or bit-rotted values before they are decoded
// into chain items.

const frameTrailerSize = 8

func appendFrame(dst, payload []byte) []byte {
	dst = append(dst, payload...)
	var sum [frameTrailerSize]byte
	binary.BigEndian.PutUint64(sum[:], xxhash.Sum64(payload))
	return append(dst, sum[:]...)
}

func openFrame(raw []byte) ([]byte, error) {
	if len(raw) < frameTrailerSize {
		return nil, dataErrf(raw, 0, nil, "value frame too short")
	}
	payload := raw[:len(raw)-frameTrailerSize]
	want := binary.BigEndian.Uint64(raw[len(raw)-frameTrailerSize:])
	if got := xxhash.Sum64(payload); got != want {
		return nil, dataErrf(raw, len(payload), nil, "value checksum mismatch: computed %016x, stored %016x", got, want)
	}
	return payload, nil
}
