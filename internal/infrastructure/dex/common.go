package dex

import (
	"context"
	"fmt"
	"math"
	"math/big"

	ethgo "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	infraeth "github.com/bimakw/arbiscan-bot/internal/infrastructure/ethereum"
)

// Selectors shared by every venue's ERC20 and V3-style pool contract.
var (
	token0Selector    = common.Hex2Bytes("0dfe1681") // token0() returns (address)
	token1Selector    = common.Hex2Bytes("d21220a7") // token1() returns (address)
	decimalsSelector  = common.Hex2Bytes("313ce567") // decimals() returns (uint8)
	balanceOfSelector = common.Hex2Bytes("70a08231") // balanceOf(address) returns (uint256)
	feeSelector       = common.Hex2Bytes("ddca3f43") // fee() returns (uint24)
)

// callAddress invokes a no-argument function returning a single address.
func callAddress(ctx context.Context, c *infraeth.Client, to common.Address, selector []byte) (common.Address, error) {
	result, err := c.CallContract(ctx, ethgo.CallMsg{To: &to, Data: selector})
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", entities.ErrPoolRead, err)
	}
	if len(result) < 32 {
		return common.Address{}, fmt.Errorf("%w: short response", entities.ErrPoolRead)
	}
	return common.BytesToAddress(result[12:32]), nil
}

// decodeDecimalsResult decodes a decimals() response, defaulting to 18 on
// any failure (short response from a failed/reverted call) per spec.md 4.1
// step 2.
func decodeDecimalsResult(result []byte) uint8 {
	if len(result) < 32 {
		return 18
	}
	v := new(big.Int).SetBytes(result[24:32]).Uint64()
	if v > 18 {
		return 18
	}
	return uint8(v)
}

// batchPoolReads fans decimals(token0), decimals(token1),
// balanceOf(token0, pool), balanceOf(token1, pool), and the venue's own
// price/tick call(s) out through the client's Multicall (C1), replacing a
// chain of sequential RPC round trips with one bounded-concurrency batch.
// decimals failures are tolerated per decodeDecimalsResult; a short
// balanceOf or extra-call response is fatal for the pool read.
func batchPoolReads(ctx context.Context, c *infraeth.Client, pool, token0, token1 common.Address, extra []ethgo.CallMsg) (dec0, dec1 uint8, amount0, amount1 *big.Int, extraResults [][]byte, err error) {
	balanceOfData0 := make([]byte, 4+32)
	copy(balanceOfData0[0:4], balanceOfSelector)
	copy(balanceOfData0[4+12:4+32], pool.Bytes())
	balanceOfData1 := make([]byte, len(balanceOfData0))
	copy(balanceOfData1, balanceOfData0)

	calls := append([]ethgo.CallMsg{
		{To: &token0, Data: decimalsSelector},
		{To: &token1, Data: decimalsSelector},
		{To: &token0, Data: balanceOfData0},
		{To: &token1, Data: balanceOfData1},
	}, extra...)

	results, _ := c.Multicall(ctx, calls)

	dec0 = decodeDecimalsResult(results[0])
	dec1 = decodeDecimalsResult(results[1])

	if len(results[2]) < 32 {
		return 0, 0, nil, nil, nil, fmt.Errorf("%w: short balanceOf response", entities.ErrPoolRead)
	}
	if len(results[3]) < 32 {
		return 0, 0, nil, nil, nil, fmt.Errorf("%w: short balanceOf response", entities.ErrPoolRead)
	}
	amount0 = new(big.Int).SetBytes(results[2][0:32])
	amount1 = new(big.Int).SetBytes(results[3][0:32])

	return dec0, dec1, amount0, amount1, results[4:], nil
}

// decodeFeeResult decodes a fee() response and validates it against the
// spec'd tiers; any other value is an invariant violation, fatal for the
// pair per spec.md 4.1 step 3 and 7.
func decodeFeeResult(result []byte, validTiers []uint32) (uint32, error) {
	if len(result) < 32 {
		return 0, fmt.Errorf("%w: short fee() response", entities.ErrPoolRead)
	}
	fee := uint32(new(big.Int).SetBytes(result[28:32]).Uint64())
	for _, tier := range validTiers {
		if fee == tier {
			return fee, nil
		}
	}
	return 0, fmt.Errorf("%w: fee=%d", entities.ErrInvalidFee, fee)
}

// decodeInt256 decodes a 32-byte two's-complement ABI word into a signed
// big.Int, needed for tick (int24, sign-extended to a 256-bit word).
func decodeInt256(word []byte) *big.Int {
	v := new(big.Int).SetBytes(word)
	if len(word) > 0 && word[0]&0x80 != 0 {
		modulus := new(big.Int).Lsh(big.NewInt(1), 256)
		v.Sub(v, modulus)
	}
	return v
}

// deriveNativePrice implements spec.md 4.1 step 4: raw = sqrt_price_x96^2 /
// 2^192, inverted and decimal-adjusted when token0 is WETH.
func deriveNativePrice(sqrtPriceX96 *big.Int, token0IsWETH bool, dec0, dec1 uint8) float64 {
	sqrtF, _ := new(big.Float).SetInt(sqrtPriceX96).Float64()
	raw := (sqrtF * sqrtF) / math.Pow(2, 192)

	diff := int(dec0) - int(dec1)
	if diff < 0 {
		diff = -diff
	}
	adjustment := math.Pow(10, float64(diff))

	if token0IsWETH {
		return 1.0 / raw / adjustment
	}
	return raw / adjustment
}

// deriveNativeLiquidity implements spec.md 4.1 step 5.
func deriveNativeLiquidity(a0, a1, price float64, token0IsWETH bool) float64 {
	if token0IsWETH {
		return a0 + a1*price
	}
	return a0*price + a1
}

// adjustBalance converts a raw ERC20 balance to whole-token units.
func adjustBalance(amount *big.Int, decimals uint8) float64 {
	f, _ := new(big.Float).SetInt(amount).Float64()
	return f / math.Pow(10, float64(decimals))
}

// packAddress writes addr right-aligned into buf[offset:offset+32].
func packAddress(buf []byte, offset int, addr common.Address) {
	copy(buf[offset+12:offset+32], addr.Bytes())
}

// packUint writes v right-aligned (big-endian) into buf[offset:offset+32].
func packUint(buf []byte, offset int, v *big.Int) {
	b := v.Bytes()
	copy(buf[offset+32-len(b):offset+32], b)
}

// normalizeDirection implements spec.md 4.3 step 1: swap (in, out) and their
// decimals when the caller's order doesn't satisfy the direction's WETH
// constraint.
func normalizeDirection(weth common.Address, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, direction entities.Direction) (common.Address, uint8, common.Address, uint8) {
	switch direction {
	case entities.DirectionBuy:
		if tokenIn != weth {
			return tokenOut, decOut, tokenIn, decIn
		}
	case entities.DirectionSell:
		if tokenIn == weth {
			return tokenOut, decOut, tokenIn, decIn
		}
	}
	return tokenIn, decIn, tokenOut, decOut
}

// quoteUnitAmount scales 1 whole token of decIn into wei, the fixed probe
// amount spec.md 4.3 step 2 always quotes at.
func quoteUnitAmount(decIn uint8) *big.Int {
	unit := new(big.Float).SetFloat64(math.Pow(10, float64(decIn)))
	i, _ := unit.Int(nil)
	return i
}

// scaleQuoterOutput implements spec.md 4.3 step 4: amount_out =
// caller_amount * quoter_unit_out / 10^dec_out.
func scaleQuoterOutput(callerAmount float64, unitOut *big.Int, decOut uint8) float64 {
	unitF, _ := new(big.Float).SetInt(unitOut).Float64()
	return callerAmount * unitF / math.Pow(10, float64(decOut))
}
