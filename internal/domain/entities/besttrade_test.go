package entities

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestOpportunityEncodeDecodeRoundTrip(t *testing.T) {
	trade := BestTrade{
		ProfitUSDC:   12.5,
		BuyDex:       common.HexToAddress("0x1111111111111111111111111111111111111111"),
		SellDex:      common.HexToAddress("0x2222222222222222222222222222222222222222"),
		BuyTokenIn:   common.HexToAddress("0x3333333333333333333333333333333333333333"),
		BuyTokenOut:  common.HexToAddress("0x4444444444444444444444444444444444444444"),
		SellTokenIn:  common.HexToAddress("0x4444444444444444444444444444444444444444"),
		SellTokenOut: common.HexToAddress("0x3333333333333333333333333333333333333333"),
		BuyFee:       500,
		SellFee:      3000,
	}
	copy(trade.BuyAmount[:], big.NewInt(1_500_000_000_000_000_000).FillBytes(make([]byte, 32)))
	copy(trade.SellAmount[:], big.NewInt(42).FillBytes(make([]byte, 32)))

	opp := PackTrade(trade)
	encoded := opp.Encode()

	if len(encoded) > OpportunityContainerCapacity {
		t.Fatalf("encoded length %d exceeds container capacity %d", len(encoded), OpportunityContainerCapacity)
	}

	decoded, err := DecodeOpportunity(encoded)
	if err != nil {
		t.Fatalf("DecodeOpportunity: %v", err)
	}

	if decoded != opp {
		t.Fatalf("round trip mismatch: got %+v, want %+v", decoded, opp)
	}
}

func TestDecodeOpportunityShortBuffer(t *testing.T) {
	_, err := DecodeOpportunity(make([]byte, OpportunityWireSize-1))
	if err == nil {
		t.Fatal("expected error decoding short buffer")
	}
}

func TestIsNonInitial(t *testing.T) {
	cases := []struct {
		name  string
		trade BestTrade
		want  bool
	}{
		{"zero value", BestTrade{}, false},
		{"positive profit", BestTrade{ProfitUSDC: 1}, true},
		{"zero profit, non-zero buy fee", BestTrade{BuyFee: 500}, true},
		{"zero profit, non-zero sell fee", BestTrade{SellFee: 500}, true},
		{"zero profit, buy dex set", BestTrade{BuyDex: common.HexToAddress("0x1")}, true},
		{"zero profit, sell dex set", BestTrade{SellDex: common.HexToAddress("0x1")}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := c.trade.IsNonInitial(); got != c.want {
				t.Fatalf("IsNonInitial() = %v, want %v", got, c.want)
			}
		})
	}
}

func TestArbTranFeeLittleEndian(t *testing.T) {
	buf := make([]byte, arbTranWireSize)
	encodeArbTran(buf, ArbTran{Fee: 0x01020304})
	if !bytes.Equal(buf[60:64], []byte{0x04, 0x03, 0x02, 0x01}) {
		t.Fatalf("fee not little-endian: % x", buf[60:64])
	}
}
