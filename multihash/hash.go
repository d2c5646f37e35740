package multihash

import (
	"bytes"
	"encoding/hex"
	"fmt"

	mh "github.com/multiformats/go-multihash"
	_ "github.com/multiformats/go-multihash/register/blake3"
)

// Digest wraps a BLAKE3 multihash of a canonical state encoding
// Format: <0x1e><0x20><32 bytes> = 34 bytes total
type Digest []byte

// NewDigest creates a BLAKE3 multihash from data
func NewDigest(data []byte) (Digest, error) {
	h, err := mh.Sum(data, mh.BLAKE3, 32)
	if err != nil {
		return nil, fmt.Errorf("failed to hash data: %w", err)
	}
	return Digest(h), nil
}

// Verify checks that the digest matches the provided data
func (d Digest) Verify(data []byte) error {
	decoded, err := mh.Decode(mh.Multihash(d))
	if err != nil {
		return fmt.Errorf("invalid multihash: %w", err)
	}

	if decoded.Code != mh.BLAKE3 {
		return fmt.Errorf("expected BLAKE3 hash, got 0x%x", decoded.Code)
	}

	computed, err := mh.Sum(data, decoded.Code, decoded.Length)
	if err != nil {
		return fmt.Errorf("hash computation failed: %w", err)
	}

	if !bytes.Equal(computed, d) {
		return fmt.Errorf("hash verification failed")
	}

	return nil
}

// Equal reports whether two digests are identical
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// Bytes returns the raw multihash bytes
func (d Digest) Bytes() []byte {
	return []byte(d)
}

// Hex returns the hex-encoded multihash
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

// String implements fmt.Stringer
func (d Digest) String() string {
	return d.Hex()
}
