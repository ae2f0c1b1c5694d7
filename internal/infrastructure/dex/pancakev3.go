package dex

import (
	"bytes"
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
	// slot0() same shape as Uniswap V3's.
	pancakeSlot0Selector = common.Hex2Bytes("3850c7bd")

	// quoteExactInputSingle((address,address,uint256,uint24,uint160))
	// returns (uint256,uint160,uint32,uint256) -- QuoterV2-shaped, same
	// struct layout PancakeSwap's fork kept from Uniswap.
	pancakeQuoteSelector = common.Hex2Bytes("c6a5026a")
)

// pancakePriceLimits are the spec's sqrtPriceLimitX96 minimum+1/maximum
// constants, selected by whether tokenFrom < tokenTo.
var (
	pancakePriceLimitLow  = big.NewInt(4295128740)
	pancakePriceLimitHigh = mustBigIntFromString("1461446703485210103287273052203988822378723970341")
)

func mustBigIntFromString(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("dex: invalid pancake price limit constant")
	}
	return v
}

// PancakeV3Adapter reads PancakeSwap V3 pools and quotes trades via
// QuoterV3.
type PancakeV3Adapter struct {
	eth  *infraeth.Client
	weth common.Address
}

func NewPancakeV3Adapter(eth *infraeth.Client, weth common.Address) *PancakeV3Adapter {
	return &PancakeV3Adapter{eth: eth, weth: weth}
}

func (a *PancakeV3Adapter) DEXType() entities.DEXType { return entities.DEXPancakeswapV3 }

func (a *PancakeV3Adapter) RouterAddress() common.Address {
	return config.PancakeswapV3SwapRouterAddress
}

func (a *PancakeV3Adapter) ReadPoolState(ctx context.Context, poolAddress common.Address) (entities.PoolState, error) {
	token0, err := callAddress(ctx, a.eth, poolAddress, token0Selector)
	if err != nil {
		return entities.PoolState{}, err
	}
	token1, err := callAddress(ctx, a.eth, poolAddress, token1Selector)
	if err != nil {
		return entities.PoolState{}, err
	}

	dec0, dec1, amount0, amount1, extra, err := batchPoolReads(ctx, a.eth, poolAddress, token0, token1,
		[]ethgo.CallMsg{{To: &poolAddress, Data: pancakeSlot0Selector}, {To: &poolAddress, Data: feeSelector}})
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

func (a *PancakeV3Adapter) Normalize(ctx context.Context, native entities.PoolState) (float64, float64, float64, error) {
	ref, err := a.ReadPoolState(ctx, config.PancakeswapWETHUSDCPool)
	if err != nil {
		return 0, 0, 0, err
	}
	wethUSDC := 1.0 / ref.Price
	return native.Price * wethUSDC, native.Liquidity * wethUSDC, wethUSDC, nil
}

func priceLimit(tokenFrom, tokenTo common.Address) *big.Int {
	if bytes.Compare(tokenFrom.Bytes(), tokenTo.Bytes()) < 0 {
		return pancakePriceLimitLow
	}
	return pancakePriceLimitHigh
}

func (a *PancakeV3Adapter) Quote(ctx context.Context, tokenIn common.Address, decIn uint8, tokenOut common.Address, decOut uint8, amountInWhole float64, fee *uint32, direction entities.Direction) (float64, uint32, error) {
	tokenIn, decIn, tokenOut, decOut = normalizeDirection(a.weth, tokenIn, decIn, tokenOut, decOut, direction)

	var feeTier uint32
	if fee != nil {
		feeTier = *fee
	}

	unitIn := quoteUnitAmount(decIn)
	limit := priceLimit(tokenIn, tokenOut)

	data := make([]byte, 4+32*5)
	copy(data[0:4], pancakeQuoteSelector)
	packAddress(data, 4, tokenIn)
	packAddress(data, 36, tokenOut)
	packUint(data, 68, unitIn)
	packUint(data, 100, big.NewInt(int64(feeTier)))
	packUint(data, 132, limit)

	quoter := config.PancakeswapV3QuoterAddress
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
