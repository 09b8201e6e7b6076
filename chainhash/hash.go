// Package chainhash defines the content address used throughout chainstate:
// a fixed-size BLAKE3 keyed hash identifying a chain header. The sequencing
// core never interprets the bytes; it only stores, copies and compares them.
package chainhash

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Size is the byte length of a Hash.
const Size = 32

// Hash is a 32-byte content address.
type Hash [Size]byte

// headerDomainKey is the BLAKE3 keyed-hashing key for header addresses.
// Changing it invalidates every address ever derived; the bytes are the
// ASCII domain name zero-padded to 32 bytes so they remain readable in
// hex dumps.
var headerDomainKey = [32]byte{
	'c', 'h', 'a', 'i', 'n', 's', 't', 'a', 't', 'e', '.', 'h', 'e', 'a', 'd', 'e',
	'r', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// Sum computes the header-domain content address of data.
func Sum(data []byte) Hash {
	hasher, err := blake3.NewKeyed(headerDomainKey[:])
	if err != nil {
		// NewKeyed only fails on a wrong key length, which the fixed-size
		// array rules out.
		panic("chainhash: BLAKE3 keyed hasher init failed: " + err.Error())
	}
	hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// String returns the canonical hex encoding of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns an abbreviated form of h for logs and error messages.
func (h Hash) Short() string {
	return hex.EncodeToString(h[:6])
}

// Parse decodes a 64-character hex string into a Hash.
func Parse(s string) (Hash, error) {
	var h Hash
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("chainhash: %w", err)
	}
	if len(raw) != Size {
		return h, fmt.Errorf("chainhash: address is %d bytes, want %d", len(raw), Size)
	}
	copy(h[:], raw)
	return h, nil
}

// Equal reports whether two optional hashes refer to the same address.
// A nil pointer stands for "no address" and only equals another nil.
func Equal(a, b *Hash) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
