package backwalk

import (
	"hash"

	"golang.org/x/crypto/sha3"
)

// AddressLen is the size of an address digest fragment in bytes.
const AddressLen = 20

// Address is the digest fragment derived from a point: the low 20 bytes of
// the Keccak-256 hash of its raw concatenated big-endian coordinates.
type Address [AddressLen]byte

// AddressHasher derives address digests from points. The underlying hash
// state is fully reinitialized for every derivation, so derivations are
// independent of each other; the struct only exists to reuse the buffers.
// An AddressHasher is not safe for concurrent use.
type AddressHasher struct {
	state hash.Hash
	buf   [64]byte
	sum   [32]byte
}

// NewAddressHasher returns a hasher using legacy (pre-NIST padding)
// Keccak-256, the variant the address-derivation convention requires.
func NewAddressHasher() *AddressHasher {
	return &AddressHasher{state: sha3.NewLegacyKeccak256()}
}

// Derive returns the address digest of p. It never mutates p.
func (h *AddressHasher) Derive(p *Point) Address {
	// Raw concatenated coordinates, 32 bytes each, no leading tag byte.
	p.X.PutBytesUnchecked(h.buf[0:32])
	p.Y.PutBytesUnchecked(h.buf[32:64])

	h.state.Reset()
	h.state.Write(h.buf[:])
	h.state.Sum(h.sum[:0])

	var addr Address
	copy(addr[:], h.sum[12:32])
	return addr
}
