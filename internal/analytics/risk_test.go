package analytics_test

import (
	"math"
	"testing"

	"github.com/alejandrodnm/tradedash/internal/analytics"
	"github.com/alejandrodnm/tradedash/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- distribución de pnl ---

func TestPnLDistribution_Buckets(t *testing.T) {
	dist := analytics.PnLDistribution(tradesWithPnL(-1500, -1000, -200, -50, 0, 50, 100, 750, 1000, 2500))
	require.Len(t, dist, 8)

	want := []struct {
		label string
		count int
		pnl   float64
	}{
		{"< -$1000", 1, -1500},
		{"-$1000 to -$500", 1, -1000}, // -1000 cae en el rango con min inclusivo
		{"-$500 to -$100", 1, -200},
		{"-$100 to $0", 1, -50},
		{"$0 to $100", 2, 50},
		{"$100 to $500", 1, 100},
		{"$500 to $1000", 1, 750},
		{"> $1000", 2, 3500},
	}
	for i, w := range want {
		assert.Equal(t, w.label, dist[i].Range)
		assert.Equal(t, w.count, dist[i].Count, w.label)
		assert.InDelta(t, w.pnl, dist[i].PnL, 1e-9, w.label)
	}
}

func TestPnLDistribution_OmitsEmpty(t *testing.T) {
	dist := analytics.PnLDistribution(tradesWithPnL(10, 20))
	require.Len(t, dist, 1)
	assert.Equal(t, "$0 to $100", dist[0].Range)
	assert.Equal(t, 2, dist[0].Count)

	assert.Empty(t, analytics.PnLDistribution(nil))
}

// --- risk metrics ---

func TestRiskMetrics_Empty(t *testing.T) {
	_, ok := analytics.RiskMetrics(nil)
	assert.False(t, ok)
}

func TestRiskMetrics_Basic(t *testing.T) {
	// pnlPercent = pnl en makeTrade
	trades := tradesWithPnL(10, 20, -15, 25)
	m, ok := analytics.RiskMetrics(trades)
	require.True(t, ok)

	assert.InDelta(t, 10.0, m.AvgReturn, 1e-9)
	// desviaciones [0, 10, -25, 15] → var 950/4
	assert.InDelta(t, math.Sqrt(237.5), m.StdDev, 1e-9)
	// floor(4 × 0.05) = 0 → mínimo
	assert.InDelta(t, -15.0, m.ValueAtRisk95, 1e-9)
	// total 40 / max drawdown 15
	assert.InDelta(t, 40.0/15.0, m.CalmarRatio, 1e-9)
	assert.InDelta(t, 10.0/15.0*math.Sqrt(252), m.SortinoRatio, 1e-9)
}

func TestRiskMetrics_VaRIndex(t *testing.T) {
	pnls := make([]float64, 40)
	for i := range pnls {
		pnls[i] = float64(i) - 10 // -10 .. 29
	}
	m, ok := analytics.RiskMetrics(reversed(tradesWithPnL(pnls...)))
	require.True(t, ok)
	// floor(40 × 0.05) = 2 → tercer valor más bajo
	assert.InDelta(t, -8.0, m.ValueAtRisk95, 1e-9)
}

func TestRiskMetrics_SingleTrade(t *testing.T) {
	m, ok := analytics.RiskMetrics(tradesWithPnL(-3))
	require.True(t, ok)
	assert.InDelta(t, -3.0, m.AvgReturn, 1e-9)
	assert.Equal(t, 0.0, m.StdDev)
	assert.InDelta(t, -3.0, m.ValueAtRisk95, 1e-9)
	assert.Equal(t, 0.0, m.SortinoRatio)
	assert.InDelta(t, -1.0, m.CalmarRatio, 1e-9) // -3 / 3
}

func TestRiskMetrics_NoDrawdownMeansZeroCalmar(t *testing.T) {
	m, ok := analytics.RiskMetrics(tradesWithPnL(1, 2))
	require.True(t, ok)
	assert.Equal(t, 0.0, m.CalmarRatio)
}

// --- Sortino ---

func TestSortinoRatio(t *testing.T) {
	trades := []domain.Trade{makeTrade(1, 0, 100), makeTrade(2, 1, -50)}
	trades[0].PnLPercent = 5
	trades[1].PnLPercent = -2
	// mean 1.5, downside sqrt(4/1) = 2
	assert.InDelta(t, 0.75*math.Sqrt(252), analytics.SortinoRatio(trades), 1e-9)
}

func TestSortinoRatio_AllWinnersIsInfinite(t *testing.T) {
	assert.True(t, math.IsInf(analytics.SortinoRatio(tradesWithPnL(1, 2)), 1))
}

func TestSortinoRatio_Degenerate(t *testing.T) {
	assert.Equal(t, 0.0, analytics.SortinoRatio(tradesWithPnL(5)))
	assert.Equal(t, 0.0, analytics.SortinoRatio(tradesWithPnL(0, 0)))
}
