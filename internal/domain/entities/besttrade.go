package entities

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// BestTrade is the process-wide singleton slot C8 maintains. Its zero value
// is the documented initial state: profit 0, every byte field zero.
type BestTrade struct {
	ProfitUSDC float64

	BuyDex  common.Address
	SellDex common.Address

	BuyTokenIn   common.Address
	BuyTokenOut  common.Address
	SellTokenIn  common.Address
	SellTokenOut common.Address

	BuyFee  uint32
	SellFee uint32

	BuyAmount  [32]byte
	SellAmount [32]byte
}

// IsNonInitial implements the producer loop's broadcast predicate: true iff
// any of these fields has moved off its zero value. Profit alone is not
// sufficient since a zero-profit trade with real fee/dex data still counts
// (see testable property 3 / scenario S5).
func (b BestTrade) IsNonInitial() bool {
	if b.ProfitUSDC > 0 || b.BuyFee > 0 || b.SellFee > 0 {
		return true
	}
	if b.BuyDex != (common.Address{}) || b.SellDex != (common.Address{}) {
		return true
	}
	return false
}

// ArbTran is one leg of a round trip: a single venue call with its input and
// output token, fee, and input amount in wei.
type ArbTran struct {
	Dex       common.Address
	TokenFrom common.Address
	TokenTo   common.Address
	Fee       uint32
	Amount    [32]byte
}

// arbTranWireSize is 20 + 20 + 20 + 4 + 32.
const arbTranWireSize = 96

// OpportunityWireSize is the encoded length of two back-to-back ArbTran
// records.
const OpportunityWireSize = 2 * arbTranWireSize

// OpportunityContainerCapacity is the fixed-capacity byte container the
// encoded Opportunity is placed into before being handed to the shared-memory
// ring buffer. The codec never produces more than OpportunityWireSize bytes,
// well under this capacity.
const OpportunityContainerCapacity = 262

// Opportunity is the wire record C9 broadcasts: two sequential trades
// forming a round trip that begins and ends in WETH.
type Opportunity struct {
	First  ArbTran
	Second ArbTran
}

// PackTrade mirrors the source's pack_trade_data: it carries BestTrade's
// fields into the two-leg wire shape without transformation.
func PackTrade(b BestTrade) Opportunity {
	return Opportunity{
		First: ArbTran{
			Dex:       b.BuyDex,
			TokenFrom: b.BuyTokenIn,
			TokenTo:   b.BuyTokenOut,
			Fee:       b.BuyFee,
			Amount:    b.BuyAmount,
		},
		Second: ArbTran{
			Dex:       b.SellDex,
			TokenFrom: b.SellTokenIn,
			TokenTo:   b.SellTokenOut,
			Fee:       b.SellFee,
			Amount:    b.SellAmount,
		},
	}
}

func encodeArbTran(buf []byte, t ArbTran) {
	copy(buf[0:20], t.Dex.Bytes())
	copy(buf[20:40], t.TokenFrom.Bytes())
	copy(buf[40:60], t.TokenTo.Bytes())
	binary.LittleEndian.PutUint32(buf[60:64], t.Fee)
	copy(buf[64:96], t.Amount[:])
}

func decodeArbTran(buf []byte) ArbTran {
	var t ArbTran
	t.Dex = common.BytesToAddress(buf[0:20])
	t.TokenFrom = common.BytesToAddress(buf[20:40])
	t.TokenTo = common.BytesToAddress(buf[40:60])
	t.Fee = binary.LittleEndian.Uint32(buf[60:64])
	copy(t.Amount[:], buf[64:96])
	return t
}

// Encode produces the fixed OpportunityWireSize-byte wire representation.
func (o Opportunity) Encode() []byte {
	buf := make([]byte, OpportunityWireSize)
	encodeArbTran(buf[0:arbTranWireSize], o.First)
	encodeArbTran(buf[arbTranWireSize:OpportunityWireSize], o.Second)
	return buf
}

// DecodeOpportunity is the inverse of Encode.
func DecodeOpportunity(buf []byte) (Opportunity, error) {
	if len(buf) < OpportunityWireSize {
		return Opportunity{}, fmt.Errorf("entities: short opportunity buffer: %d bytes", len(buf))
	}
	return Opportunity{
		First:  decodeArbTran(buf[0:arbTranWireSize]),
		Second: decodeArbTran(buf[arbTranWireSize:OpportunityWireSize]),
	}, nil
}
