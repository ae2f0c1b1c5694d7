// Package catalog implements C10: loading the venue pair list from a JSON
// file and splitting it into the three venue-pair categories the scan
// orchestrators (C7) run independently.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/bimakw/arbiscan-bot/internal/domain/entities"
)

// exchangeInfo is one venue's listing for a pair: its pool address and the
// liquidity the catalog was generated with (unused past load time; pool
// state is re-read fresh every block).
type exchangeInfo struct {
	PairAddress string `json:"PairAddress"`
	Liquidity   uint64 `json:"Liquidity"`
}

// pairData is one row of the catalog file: a named pair plus whichever
// venues list it. Any of the three venue fields may be absent.
type pairData struct {
	Pair       string         `json:"Pair"`
	UniSwap    *exchangeInfo  `json:"UniSwap"`
	Camelot    *exchangeInfo  `json:"Camelot"`
	PancakeSwap *exchangeInfo `json:"PancakeSwap"`
}

// Categories holds the three independent pair lists, one per orchestrator
// instance.
type Categories struct {
	CamelotUniswap     []entities.PairTuple
	CamelotPancakeswap  []entities.PairTuple
	PancakeswapUniswap []entities.PairTuple
}

// Load reads path (the catalog JSON file) and builds the three category
// lists. PoolIndex increments by 2 for every tuple emitted across all three
// categories combined, in file order, matching the source's single shared
// counter.
func Load(path string) (Categories, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Categories{}, fmt.Errorf("catalog: read %s: %w", path, err)
	}

	var rows []pairData
	if err := json.Unmarshal(data, &rows); err != nil {
		return Categories{}, fmt.Errorf("catalog: parse %s: %w", path, err)
	}

	var cats Categories
	index := 0

	for _, row := range rows {
		if row.Camelot != nil && row.UniSwap != nil {
			cats.CamelotUniswap = append(cats.CamelotUniswap, entities.PairTuple{
				VenueAPool: common.HexToAddress(row.Camelot.PairAddress),
				VenueBPool: common.HexToAddress(row.UniSwap.PairAddress),
				PairName:   row.Pair,
				PoolIndex:  index,
			})
			index += 2
		}
		if row.Camelot != nil && row.PancakeSwap != nil {
			cats.CamelotPancakeswap = append(cats.CamelotPancakeswap, entities.PairTuple{
				VenueAPool: common.HexToAddress(row.Camelot.PairAddress),
				VenueBPool: common.HexToAddress(row.PancakeSwap.PairAddress),
				PairName:   row.Pair,
				PoolIndex:  index,
			})
			index += 2
		}
		if row.PancakeSwap != nil && row.UniSwap != nil {
			cats.PancakeswapUniswap = append(cats.PancakeswapUniswap, entities.PairTuple{
				VenueAPool: common.HexToAddress(row.PancakeSwap.PairAddress),
				VenueBPool: common.HexToAddress(row.UniSwap.PairAddress),
				PairName:   row.Pair,
				PoolIndex:  index,
			})
			index += 2
		}
	}

	return cats, nil
}
