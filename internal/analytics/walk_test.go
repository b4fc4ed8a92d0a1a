package analytics_test

import (
	"testing"

	"github.com/alejandrodnm/tradedash/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxDrawdown_PeakToTrough(t *testing.T) {
	// acumulado [10, 30, 15, 40] → pico 30, valle 15
	assert.InDelta(t, 15.0, analytics.MaxDrawdown(tradesWithPnL(10, 20, -15, 25)), 1e-9)
}

func TestMaxDrawdown_IgnoresInputOrder(t *testing.T) {
	trades := tradesWithPnL(10, 20, -15, 25)
	assert.InDelta(t, 15.0, analytics.MaxDrawdown(reversed(trades)), 1e-9)
}

func TestMaxDrawdown_NonDecreasingIsZero(t *testing.T) {
	assert.Equal(t, 0.0, analytics.MaxDrawdown(tradesWithPnL(5, 0, 3, 8)))
	assert.Equal(t, 0.0, analytics.MaxDrawdown(nil))
}

func TestMaxDrawdown_StartsFromZero(t *testing.T) {
	// la curva arranca en 0: perder desde el inicio también es drawdown
	assert.InDelta(t, 30.0, analytics.MaxDrawdown(tradesWithPnL(-10, -20, 5)), 1e-9)
}

func TestDrawdownSeries_Values(t *testing.T) {
	points := analytics.DrawdownSeries(reversed(tradesWithPnL(10, 20, -15, 25)), nil)
	require.Len(t, points, 4)

	assert.InDelta(t, 10.0, points[0].CumulativePnL, 1e-9)
	assert.InDelta(t, 30.0, points[1].CumulativePnL, 1e-9)
	assert.InDelta(t, 15.0, points[2].CumulativePnL, 1e-9)
	assert.InDelta(t, 40.0, points[3].CumulativePnL, 1e-9)

	assert.Equal(t, 0.0, points[1].Drawdown)
	assert.InDelta(t, -15.0, points[2].Drawdown, 1e-9)
	assert.InDelta(t, -50.0, points[2].DrawdownPercent, 1e-9)
	assert.Equal(t, 0.0, points[3].Drawdown)
	assert.Equal(t, "2024-03-06", points[0].Date)

	for i := 1; i < len(points); i++ {
		assert.False(t, points[i].Timestamp.Before(points[i-1].Timestamp))
	}
}

func TestDrawdownSeries_NoPeakMeansZeroPercent(t *testing.T) {
	points := analytics.DrawdownSeries(tradesWithPnL(-10, -5), nil)
	require.Len(t, points, 2)
	for _, p := range points {
		assert.LessOrEqual(t, p.Drawdown, 0.0)
		assert.Equal(t, 0.0, p.DrawdownPercent)
	}
	assert.InDelta(t, -15.0, points[1].Drawdown, 1e-9)
}

func TestDrawdownSeries_DoesNotMutateInput(t *testing.T) {
	trades := reversed(tradesWithPnL(1, 2, 3))
	firstID := trades[0].ID
	_ = analytics.DrawdownSeries(trades, nil)
	assert.Equal(t, firstID, trades[0].ID)
}

func TestDrawdownSeries_Empty(t *testing.T) {
	assert.Empty(t, analytics.DrawdownSeries(nil, nil))
}
