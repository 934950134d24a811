package backwalk

import (
	"encoding/hex"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// Fixed secp256k1 generator coordinates together with their field negations
// (p - Gx, p - Gy). The negated constants are spelled out rather than derived
// at runtime; the package tests verify all four against the curve library.
var (
	genX    = mustFieldVal("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798")
	genY    = mustFieldVal("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8")
	negGenX = mustFieldVal("8641998106234453aa5f9d6a3178f4f8fd640324d231d726a60d7ea3e907e497")
	negGenY = mustFieldVal("b7c52588d95c3b9aa25b0403f1eef75702e84bb7597aabe663b82f6f04ef2777")
)

func mustFieldVal(s string) secp256k1.FieldVal {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("backwalk: invalid field constant: " + err.Error())
	}
	var f secp256k1.FieldVal
	if overflow := f.SetByteSlice(b); overflow {
		panic("backwalk: field constant overflows the field prime")
	}
	return f
}
