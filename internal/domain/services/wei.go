package services

import (
	"math"
	"math/big"
)

// maxUint128 is the saturation ceiling for amount encoding (spec.md 4.6 /
// open question 5): the source casts `amount * 10^decimals` to u128 via an
// `as` cast, which saturates rather than panicking on overflow. big.Float's
// conversion to big.Int does not saturate on its own, so this helper clamps
// explicitly before the big-endian encode. The amount arrives as a float64,
// so a wei value above 2^53 keeps only float64 precision (its low-order
// digits are lost), as in the source's f64-based conversion.
var maxUint128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// weiAmountSaturating converts a whole-token amount to its wei-scale integer
// representation, clamped to [0, 2^128-1], and returns it as a 32-byte
// big-endian word (the high 16 bytes are always zero since the value never
// exceeds 128 bits).
func weiAmountSaturating(amountWhole float64, decimals uint8) [32]byte {
	var out [32]byte
	if amountWhole <= 0 || math.IsNaN(amountWhole) {
		return out
	}

	scaled := new(big.Float).SetFloat64(amountWhole)
	scaled.Mul(scaled, new(big.Float).SetFloat64(math.Pow(10, float64(decimals))))

	i, _ := scaled.Int(nil)
	if i.Cmp(maxUint128) > 0 {
		i = maxUint128
	}

	b := i.Bytes()
	copy(out[32-len(b):], b)
	return out
}
