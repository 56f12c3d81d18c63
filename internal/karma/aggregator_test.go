package karma

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yashikart/karmaledger/internal/sheet"
)

type doubleWeigher struct{}

func (doubleWeigher) Weigh(b Breakdown) float64 { return b.PositiveKarma * 2 }

func TestAggregateEmptySheet(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)

	sum := a.Aggregate(sheet.BalanceSheet{})

	require.Zero(t, sum.NetKarma)
	require.Zero(t, sum.WeightedScore)
	require.Zero(t, sum.Breakdown)
}

func TestAggregatePositiveUnweighted(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)

	sum := a.Aggregate(sheet.BalanceSheet{DharmaPoints: 10, SevaPoints: 20, PunyaTokens: 30})

	require.Equal(t, 60.0, sum.Breakdown.PositiveKarma)
	require.Equal(t, 60.0, sum.NetKarma)
}

func TestAggregatePaapTierMultipliers(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)
	s := sheet.BalanceSheet{
		PaapTokens: map[string]float64{
			"minor":        4, // *1.0
			"major":        2, // *2.0
			"catastrophic": 1, // unknown tier, major fallback *2.0
		},
	}

	sum := a.Aggregate(s)

	require.InDelta(t, 10.0, sum.Breakdown.NegativeKarma, 1e-9)
	require.InDelta(t, -10.0, sum.NetKarma, 1e-9)
}

func TestAggregateRnanubandhanScalarFallback(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)
	s := sheet.FromMap(map[string]any{"Rnanubandhan": 12.5})

	sum := a.Aggregate(s)

	// legacy scalar lands on the empty tier → major fallback *2.0
	require.Greater(t, sum.Breakdown.Rnanubandhan, 0.0)
	require.InDelta(t, 25.0, sum.Breakdown.Rnanubandhan, 1e-9)
	require.InDelta(t, -25.0, sum.NetKarma, 1e-9)
}

func TestAggregateDebtShapeTolerance(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)

	shapes := []any{
		map[string]any{"minor": 10.0, "major": 5.0},
		[]any{
			map[string]any{"severity": "minor", "amount": 10.0},
			"poison",
			map[string]any{"severity": "major", "amount": 5.0},
		},
		15.0,
		nil,
	}

	for i, shape := range shapes {
		s := sheet.FromMap(map[string]any{"Rnanubandhan": shape})
		sum := a.Aggregate(s)
		require.False(t, sum.NetKarma != sum.NetKarma, "shape %d produced NaN", i)
	}
}

func TestAggregateFullFormula(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)
	s := sheet.BalanceSheet{
		DharmaPoints:   10,
		SevaPoints:     5,
		PunyaTokens:    5,
		PaapTokens:     map[string]float64{"minor": 2},
		DridhaKarma:    10,
		AdridhaKarma:   5,
		SanchitaKarma:  3,
		PrarabdhaKarma: 2,
		Rnanubandhan:   sheet.Debt{{Severity: "minor", Amount: 10}},
	}

	sum := a.Aggregate(s)

	// 20 - 2 + 10*1.2 + 5*0.8 + 3 + 2 - 10 = 29
	require.InDelta(t, 29.0, sum.NetKarma, 1e-9)
	require.InDelta(t, 12.0, sum.Breakdown.Dridha, 1e-9)
	require.InDelta(t, 4.0, sum.Breakdown.Adridha, 1e-9)
	require.InDelta(t, 10.0, sum.Breakdown.Rnanubandhan, 1e-9)
}

func TestAggregateWeigherInjection(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), doubleWeigher{})

	sum := a.Aggregate(sheet.BalanceSheet{DharmaPoints: 20})

	require.Equal(t, 20.0, sum.NetKarma)
	require.Equal(t, 40.0, sum.WeightedScore)
}

func TestAggregateDeterministicAcrossRuns(t *testing.T) {
	a := NewAggregator(DefaultScoringConfig(), nil)
	s := sheet.BalanceSheet{
		PaapTokens: map[string]float64{"minor": 0.1, "major": 0.2, "maha": 0.3, "odd": 0.7},
	}

	first := a.Aggregate(s)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, a.Aggregate(s), "run %d", i)
	}
}
