package dex

import (
	"context"
	"fmt"
	"math/big"

	ethgo "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/config"
	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
	infraeth "github.com/bimakw/arbiscan-bot/internal/infrastructure/ethereum"
)

var (
	// globalState() returns (uint160 price, int24 tick, uint16 fee, uint16
	// timepointIndex, uint8 communityFeeToken0, uint8 communityFeeToken1,
	// bool unlocked) on Algebra-derived pools, which Camelot V3 forks from.
	camelotGlobalStateSelector = common.Hex2Bytes("e76c01e4")

	// quoteExactInputSingle(address,address,uint256,uint160) returns
	// (uint256 amountOut, uint16 fee) -- Camelot's quoter reports the fee
	// it used alongside the output amount, since the pool itself doesn't
	// expose one.
	camelotQuoteSelector = common.Hex2Bytes("2d9ebd1d")
)

// CamelotV3Adapter reads Camelot V3 pools (Algebra-style globalState, no
// pool-level fee) and quotes trades via Camelot's quoter.
type CamelotV3Adapter struct {
	eth  *infraeth.Client
	weth common.Address
}

func NewCamelotV3Adapter(eth *infraeth.Client, weth common.Address) *CamelotV3Adapter {
	return &CamelotV3Adapter{eth: eth, weth: weth}
}

func (a *CamelotV3Adapter) DEXType() entities.DEXType { return entities.DEXCamelotV3 }

func (a *CamelotV3Adapter) RouterAddress() common.Address {
	return config.CamelotV3SwapRouterAddress
}

func (a *CamelotV3Adapter) ReadPoolState(ctx context.Context, poolAddress common.Address) (entities.PoolState, error) {
	token0, err := callAddress(ctx, a.eth, poolAddress, token0Selector)
	if err != nil {
		return entities.PoolState{}, err
	}
	token1, err := callAddress(ctx, a.eth, poolAddress, token1Selector)
	if err != nil {
		return entities.PoolState{}, err
	}

	dec0, dec1, amount0, amount1, extra, err := batchPoolReads(ctx, a.eth, poolAddress, token0, token1,
		[]ethgo.CallMsg{{To: &poolAddress, Data: camelotGlobalStateSelector}})
	if err != nil {
		return entities.PoolState{}, err
	}
	result := extra[0]
	if len(result) < 64 {
		return entities.PoolState{}, fmt.Errorf("%w: short globalState() response", entities.ErrPoolRead)
	}
	sqrtPriceX96 := new(big.Int).SetBytes(result[0:32])
	tick := int32(decodeInt256(result[32:64]).Int64())

	token0IsWETH := token0 == a.weth
	amount0Adj := adjustBalance(amount0, dec0)
	amount1Adj := adjustBalance(amount1, dec1)
	price := deriveNativePrice(sqrtPriceX96, token0IsWETH, dec0, dec1)
	liquidity := deriveNativeLiquidity(amount0Adj, amount1Adj, price, token0IsWETH)

	return entities.PoolState{
		Token0:               token0,
		Token1:               token1,
		Token0Decimals:       dec0,
		Token1Decimals:       dec1,
		Token0Amount:         amount0,
		Token1Amount:         amount1,
		Token0AmountAdjusted: amount0Adj,
		Token1AmountAdjusted: amount1Adj,
		PoolAddress:          poolAddress,
		SqrtPriceX96:         sqrtPriceX96,
		Tick:                 tick,
		Fee:                  0, // unknown until the quoter reports it
		Price:                price,
		Liquidity:            liquidity,
	}, nil
}

func (a *CamelotV3Adapter) Normalize(ctx context.Context, native entities.PoolState) (float64, float64, float64, error) {
	ref, err := a.ReadPoolState(ctx, config.CamelotWETHUSDCPool)
	if err != nil {
		return 0, 0, 0, err
	}
	wethUSDC := 1.0 / ref.Price
	return native.Price * wethUSDC, native.Liquidity * wethUSDC, wethUSDC, nil
}

func (a *CamelotV3Adapter) Quote(ctx context.Context, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, amountInWhole float64, _ *uint32, direction entities.Direction) (float64, uint32, error) {
	tokenIn, decIn, tokenOut, decOut = normalizeDirection(a.weth, tokenIn, decIn, tokenOut, decOut, direction)

	unitIn := quoteUnitAmount(decIn)

	data := make([]byte, 4+32*4)
	copy(data[0:4], camelotQuoteSelector)
	packAddress(data, 4, tokenIn)
	packAddress(data, 36, tokenOut)
	packUint(data, 68, unitIn)
	// limitSqrtPrice at offset 100 left at zero: no limit.

	quoter := config.CamelotV3QuoterAddress
	result, err := a.eth.CallContract(ctx, ethgo.CallMsg{To: &quoter, Data: data})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", entities.ErrSimulation, err)
	}
	if len(result) < 64 {
		return 0, 0, fmt.Errorf("%w: short quoter response", entities.ErrSimulation)
	}
	unitOut := new(big.Int).SetBytes(result[0:32])
	effectiveFee := uint32(new(big.Int).SetBytes(result[32:64]).Uint64())
	return scaleQuoterOutput(amountInWhole, unitOut, decOut), effectiveFee, nil
}
