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
	// slot0() returns (uint160 sqrtPriceX96, int24 tick, uint16
	// observationIndex, uint16 observationCardinality, uint16
	// observationCardinalityNext, uint8 feeProtocol, bool unlocked)
	uniswapSlot0Selector = common.Hex2Bytes("3850c7bd")

	// quoteExactInputSingle(address,address,uint24,uint256,uint160) returns
	// (uint256 amountOut) -- the original (non-QuoterV2) Quoter the source
	// calls at UniswapV3QuoterAddress.
	uniswapQuoteSelector = common.Hex2Bytes("f7729d43")
)

// UniswapV3Adapter reads Uniswap V3 pools and quotes trades via the original
// (non-struct-param) Quoter contract.
type UniswapV3Adapter struct {
	eth  *infraeth.Client
	weth common.Address
}

func NewUniswapV3Adapter(eth *infraeth.Client, weth common.Address) *UniswapV3Adapter {
	return &UniswapV3Adapter{eth: eth, weth: weth}
}

func (a *UniswapV3Adapter) DEXType() entities.DEXType { return entities.DEXUniswapV3 }

func (a *UniswapV3Adapter) RouterAddress() common.Address {
	return config.UniswapV3SwapRouterAddress
}

func (a *UniswapV3Adapter) ReadPoolState(ctx context.Context, poolAddress common.Address) (entities.PoolState, error) {
	token0, err := callAddress(ctx, a.eth, poolAddress, token0Selector)
	if err != nil {
		return entities.PoolState{}, err
	}
	token1, err := callAddress(ctx, a.eth, poolAddress, token1Selector)
	if err != nil {
		return entities.PoolState{}, err
	}

	dec0, dec1, amount0, amount1, extra, err := batchPoolReads(ctx, a.eth, poolAddress, token0, token1,
		[]ethgo.CallMsg{{To: &poolAddress, Data: uniswapSlot0Selector}, {To: &poolAddress, Data: feeSelector}})
	if err != nil {
		return entities.PoolState{}, err
	}
	result := extra[0]
	if len(result) < 64 {
		return entities.PoolState{}, fmt.Errorf("%w: short slot0() response", entities.ErrPoolRead)
	}
	sqrtPriceX96 := new(big.Int).SetBytes(result[0:32])
	tick := int32(decodeInt256(result[32:64]).Int64())

	fee, err := decodeFeeResult(extra[1], config.V3FeeTiers)
	if err != nil {
		return entities.PoolState{}, err
	}

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
		Fee:                  fee,
		Price:                price,
		Liquidity:            liquidity,
	}, nil
}

func (a *UniswapV3Adapter) Normalize(ctx context.Context, native entities.PoolState) (float64, float64, float64, error) {
	ref, err := a.ReadPoolState(ctx, config.UniswapWETHUSDCPool)
	if err != nil {
		return 0, 0, 0, err
	}
	wethUSDC := 1.0 / ref.Price
	return native.Price * wethUSDC, native.Liquidity * wethUSDC, wethUSDC, nil
}

func (a *UniswapV3Adapter) Quote(ctx context.Context, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, amountInWhole float64, fee *uint32, direction entities.Direction) (float64, uint32, error) {
	tokenIn, decIn, tokenOut, decOut = normalizeDirection(a.weth, tokenIn, decIn, tokenOut, decOut, direction)

	var feeTier uint32
	if fee != nil {
		feeTier = *fee
	}

	unitIn := quoteUnitAmount(decIn)

	data := make([]byte, 4+32*5)
	copy(data[0:4], uniswapQuoteSelector)
	packAddress(data, 4, tokenIn)
	packAddress(data, 36, tokenOut)
	packUint(data, 68, big.NewInt(int64(feeTier)))
	packUint(data, 100, unitIn)
	// sqrtPriceLimitX96 at offset 132 left at zero: no limit.

	quoter := config.UniswapV3QuoterAddress
	result, err := a.eth.CallContract(ctx, ethgo.CallMsg{To: &quoter, Data: data})
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", entities.ErrSimulation, err)
	}
	if len(result) < 32 {
		return 0, 0, fmt.Errorf("%w: short quoter response", entities.ErrSimulation)
	}
	unitOut := new(big.Int).SetBytes(result[0:32])
	return scaleQuoterOutput(amountInWhole, unitOut, decOut), feeTier, nil
}
