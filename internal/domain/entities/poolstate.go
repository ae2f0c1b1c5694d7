package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState is a snapshot of one venue pool's on-chain state, read fresh
// every block. It is short-lived: one instance per pair per block.
type PoolState struct {
	Token0         common.Address
	Token1         common.Address
	Token0Decimals uint8
	Token1Decimals uint8

	// Token{0,1}Amount are raw ERC20.balanceOf(pool) results.
	Token0Amount *big.Int
	Token1Amount *big.Int

	// Token{0,1}AmountAdjusted are the same balances in whole-token units.
	Token0AmountAdjusted float64
	Token1AmountAdjusted float64

	PoolAddress common.Address

	SqrtPriceX96 *big.Int
	Tick         int32

	// Fee is the pool's fee tier in hundredths of a bip. Zero for Camelot,
	// whose fee is only known at simulation time via the quoter.
	Fee uint32

	// Price is native-denominated (WETH-per-other-token once the token0==WETH
	// branch inverts it; see the venue adapter's ReadPoolState).
	Price float64

	// Liquidity is the WETH-denominated real reserve. Logically a 128-bit
	// unsigned quantity for storage purposes; kept as float64 here since it
	// only ever feeds the tier classifier and USDC normalization, neither of
	// which needs exact integer precision.
	Liquidity float64

	// FetchedAtBlock is the block number current when this snapshot was
	// read. The pool-state cache uses it to detect a stale hit: an entry
	// fetched at an earlier block is treated as a miss even if its TTL
	// hasn't expired yet.
	FetchedAtBlock uint64
}

// Token0IsWETH reports whether this pool's token0 leg is the WETH address.
func (s PoolState) Token0IsWETH(weth common.Address) bool {
	return s.Token0 == weth
}

// NonWETHToken returns the address and decimals of whichever of token0/token1
// is not WETH, given the configured WETH address.
func (s PoolState) NonWETHToken(weth common.Address) (common.Address, uint8) {
	if s.Token0 == weth {
		return s.Token1, s.Token1Decimals
	}
	return s.Token0, s.Token0Decimals
}
