// Package sigrecover turns an on-chain ECDSA signature into the target
// public-key point for the backward walk. The flawed expansion scheme only
// leaks addresses; the full point has to be recovered from a signature made
// by the target key.
package sigrecover

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"

	"seedwalk/pkg/backwalk"
)

// Signature is one ECDSA signature over the secp256k1 curve.
type Signature struct {
	Z *big.Int // message hash the signature commits to
	R *big.Int // r component
	S *big.Int // s component
	V int      // recovery id (0-3), -1 when unknown
}

// ParseSignatures reads signatures from a JSON file.
//
// Expected format:
//
//	[
//	  {"z": "0x...", "r": "0x...", "s": "0x...", "v": 0},
//	  {"z": "...", "r": "...", "s": "..."}
//	]
//
// z, r and s accept hex (with or without 0x) or decimal; v is optional.
func ParseSignatures(jsonFile string) ([]*Signature, error) {
	file, err := os.Open(jsonFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	decoder := json.NewDecoder(file)
	decoder.UseNumber() // Preserve large numbers as json.Number instead of float64

	var items []map[string]interface{}
	if err := decoder.Decode(&items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	signatures := make([]*Signature, 0, len(items))
	for _, item := range items {
		sig := &Signature{V: -1}

		for _, field := range []struct {
			name string
			dst  **big.Int
		}{
			{"z", &sig.Z},
			{"r", &sig.R},
			{"s", &sig.S},
		} {
			val, ok := item[field.name]
			if !ok {
				return nil, fmt.Errorf("missing %s field", field.name)
			}
			n, err := parseBigInt(val)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", field.name, err)
			}
			*field.dst = n
		}

		if vVal, ok := item["v"]; ok {
			v, err := parseBigInt(vVal)
			if err != nil {
				return nil, fmt.Errorf("failed to parse v: %w", err)
			}
			sig.V = normalizeRecoveryID(int(v.Int64()))
		}

		signatures = append(signatures, sig)
	}
	return signatures, nil
}

// RecoverPublicKey recovers the signing public key as an affine point. When
// the signature carries no recovery id, every id is tried and the candidate
// whose derived address equals targetAddr wins; with a zero targetAddr the
// first recoverable candidate is returned.
func RecoverPublicKey(sig *Signature, targetAddr backwalk.Address) (*backwalk.Point, error) {
	hash := leftPad32(sig.Z)

	recids := []int{sig.V}
	if sig.V < 0 {
		recids = []int{0, 1, 2, 3}
	}

	var zeroAddr backwalk.Address
	hasher := backwalk.NewAddressHasher()
	compact := make([]byte, 65)
	copy(compact[1:33], leftPad32(sig.R))
	copy(compact[33:65], leftPad32(sig.S))

	for _, recid := range recids {
		compact[0] = byte(27 + recid)
		pub, _, err := ecdsa.RecoverCompact(compact, hash)
		if err != nil {
			continue
		}
		point := pointFromPubKey(pub)
		if targetAddr == zeroAddr || hasher.Derive(point) == targetAddr {
			return point, nil
		}
	}
	return nil, errors.New("sigrecover: no recovery id yields the target address")
}

// normalizeRecoveryID maps the common on-chain encodings of v (0-3 raw,
// 27/28 legacy, >= 35 replay-protected) down to a raw recovery id.
func normalizeRecoveryID(v int) int {
	switch {
	case v >= 35:
		return (v - 35) % 2
	case v >= 27:
		return (v - 27) & 3
	default:
		return v
	}
}

func pointFromPubKey(pub *secp256k1.PublicKey) *backwalk.Point {
	var j secp256k1.JacobianPoint
	pub.AsJacobian(&j)
	j.ToAffine()
	j.X.Normalize()
	j.Y.Normalize()
	return backwalk.NewPoint(&j.X, &j.Y)
}

// leftPad32 encodes n as exactly 32 big-endian bytes.
func leftPad32(n *big.Int) []byte {
	var b [32]byte
	n.FillBytes(b[:])
	return b[:]
}

// parseBigInt parses a big integer from various formats (hex string, decimal string, number).
func parseBigInt(val interface{}) (*big.Int, error) {
	switch v := val.(type) {
	case string:
		s := strings.TrimPrefix(v, "0x")
		s = strings.TrimPrefix(s, "0X")

		if strings.ContainsAny(s, "abcdefABCDEF") || len(s) > 20 {
			bytes, err := hex.DecodeString(s)
			if err != nil {
				z := new(big.Int)
				if _, ok := z.SetString(s, 10); !ok {
					return nil, fmt.Errorf("invalid number format: %s", v)
				}
				return z, nil
			}
			return new(big.Int).SetBytes(bytes), nil
		}

		z := new(big.Int)
		if _, ok := z.SetString(s, 10); !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	case json.Number:
		z := new(big.Int)
		if _, ok := z.SetString(string(v), 10); !ok {
			return nil, fmt.Errorf("invalid number format: %s", v)
		}
		return z, nil

	default:
		return nil, fmt.Errorf("unsupported value type %T", val)
	}
}
