package hash

import (
	"fmt"
	"io"
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/taurusgroup/pvc/internal/params"
	"github.com/taurusgroup/pvc/pkg/math/curve"
	"github.com/zeebo/blake3"
)

const DigestLengthBytes = params.SecBytes * 2 // 64

// Hash is the hash function we use for fingerprinting commitment keys and
// aggregation results.
//
// Internally, this is a wrapper around blake3, which has an easily extendable output.
type Hash struct {
	h *blake3.Hasher
}

// New creates a Hash struct, with an initial domain written into it.
func New(init ...WriterToWithDomain) *Hash {
	hash := &Hash{h: blake3.New()}
	for _, i := range init {
		_ = hash.WriteAny(i)
	}
	return hash
}

// Digest returns a reader for the current output of the function.
//
// This finalizes the current state of the hash, and returns what's
// essentially a stream of random bytes.
func (hash *Hash) Digest() io.Reader {
	return hash.h.Digest()
}

// Sum returns a slice of length DigestLengthBytes resulting from the current hash state.
// If a different length is required, use io.ReadFull(hash.Digest(), out) instead.
func (hash *Hash) Sum() []byte {
	out := make([]byte, DigestLengthBytes)
	if _, err := io.ReadFull(hash.Digest(), out); err != nil {
		panic(fmt.Sprintf("hash.Sum: internal hash failure: %v", err))
	}
	return out
}

// WriteAny takes many different data types and writes them to the hash state.
//
// Currently supported types:
//
//   - []byte
//   - string
//   - uint64
//   - *big.Int
//   - *saferith.Nat
//   - curve.Scalar
//   - curve.Point
//   - hash.WriterToWithDomain
//
// This function will apply its own domain separation for all but the last type.
// The last type already suggests which domain to use, and this function respects it.
func (hash *Hash) WriteAny(data ...interface{}) error {
	var toBeWritten WriterToWithDomain
	for _, d := range data {
		switch t := d.(type) {
		case []byte:
			toBeWritten = &BytesWithDomain{TheDomain: "[]byte", Bytes: t}
		case string:
			toBeWritten = &BytesWithDomain{TheDomain: "string", Bytes: []byte(t)}
		case uint64:
			toBeWritten = &BytesWithDomain{TheDomain: "uint64", Bytes: big.NewInt(0).SetUint64(t).FillBytes(make([]byte, 8))}
		case *big.Int:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *big.Int: nil")
			}
			bytes, err := t.GobEncode()
			if err != nil {
				return fmt.Errorf("hash.Hash: GobEncode: %w", err)
			}
			toBeWritten = &BytesWithDomain{TheDomain: "big.Int", Bytes: bytes}
		case *saferith.Nat:
			if t == nil {
				return fmt.Errorf("hash.Hash: write *saferith.Nat: nil")
			}
			toBeWritten = &BytesWithDomain{TheDomain: "saferith.Nat", Bytes: t.Bytes()}
		case curve.Scalar:
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write curve.Scalar: %w", err)
			}
			toBeWritten = &BytesWithDomain{TheDomain: "curve.Scalar", Bytes: bytes}
		case curve.Point:
			bytes, err := t.MarshalBinary()
			if err != nil {
				return fmt.Errorf("hash.Hash: write curve.Point: %w", err)
			}
			toBeWritten = &BytesWithDomain{TheDomain: "curve.Point", Bytes: bytes}
		case WriterToWithDomain:
			toBeWritten = t
		default:
			panic(fmt.Sprintf("hash.Hash: unsupported type %T", d))
		}
		if err := writeWithDomain(hash.h, toBeWritten); err != nil {
			return fmt.Errorf("hash.Hash: write %s: %w", toBeWritten.Domain(), err)
		}
	}
	return nil
}

// Clone returns a copy of the Hash in its current state.
func (hash *Hash) Clone() *Hash {
	return &Hash{h: hash.h.Clone()}
}
