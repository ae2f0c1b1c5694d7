package services

import (
	"math"
	"testing"
)

func TestClassifyTierBoundaries(t *testing.T) {
	cases := []struct {
		name string
		liq  float64
		want uint8
	}{
		{"zero", 0, 0},
		{"just under tier 1", 19_999.99, 0},
		{"tier 1 floor", 20_000, 1},
		{"just under tier 2", 49_999.99, 1},
		{"tier 2 floor", 50_000, 2},
		{"just under tier 3", 199_999.99, 2},
		{"tier 3 floor", 200_000, 3},
		{"just under tier 4", 999_999.99, 3},
		{"tier 4 floor", 1_000_000, 4},
		{"negative", -1, TierUnknown},
		{"nan", math.NaN(), TierUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ClassifyTier(c.liq)
			if got != c.want {
				t.Fatalf("ClassifyTier(%v) = %d, want %d", c.liq, got, c.want)
			}
		})
	}
}

func TestClassifyTierMonotone(t *testing.T) {
	prev := ClassifyTier(0)
	for liq := 0.0; liq <= 2_000_000; liq += 10_000 {
		tier := ClassifyTier(liq)
		if tier < prev {
			t.Fatalf("tier decreased at liq=%v: %d -> %d", liq, prev, tier)
		}
		prev = tier
	}
}
