package metrics_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradedash/internal/adapters/metrics"
	"github.com/alejandrodnm/tradedash/internal/domain"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestPrometheus_Report(t *testing.T) {
	p := metrics.NewPrometheus("test")

	report := domain.Report{
		GeneratedAt: time.Unix(1714555800, 0),
		TotalInput:  10,
		Stats: domain.TradeStats{
			TotalTrades: 4,
			TotalPnL:    125.5,
			WinRate:     75,
			MaxDrawdown: 30,
		},
		BySymbol: []domain.SymbolStats{
			{Symbol: "SOL/USDC", Trades: 3, PnL: 140},
			{Symbol: "BTC/USDC", Trades: 1, PnL: -14.5},
		},
	}
	require.NoError(t, p.Report(context.Background(), report))

	out := scrape(t, p.Handler())
	assert.Contains(t, out, "test_reports_generated_total 1")
	assert.Contains(t, out, "test_portfolio_trades_loaded 10")
	assert.Contains(t, out, "test_portfolio_trades_matched 4")
	assert.Contains(t, out, "test_portfolio_pnl_total 125.5")
	assert.Contains(t, out, "test_portfolio_win_rate_percent 75")
	assert.Contains(t, out, "test_portfolio_max_drawdown 30")
	assert.Contains(t, out, `test_symbol_pnl_total{symbol="BTC/USDC"} -14.5`)
	assert.Contains(t, out, `test_symbol_trades{symbol="SOL/USDC"} 3`)
	assert.Contains(t, out, "test_last_report_timestamp_seconds 1.7145558e+09")
}

func TestPrometheus_DropsStaleSymbols(t *testing.T) {
	p := metrics.NewPrometheus("test")
	ctx := context.Background()

	require.NoError(t, p.Report(ctx, domain.Report{
		BySymbol: []domain.SymbolStats{{Symbol: "WIF/USDC", Trades: 1, PnL: 2}},
	}))
	require.NoError(t, p.Report(ctx, domain.Report{
		BySymbol: []domain.SymbolStats{{Symbol: "JUP/USDC", Trades: 2, PnL: 5}},
	}))

	out := scrape(t, p.Handler())
	assert.NotContains(t, out, "WIF/USDC")
	assert.Contains(t, out, `symbol="JUP/USDC"`)
	assert.Contains(t, out, "test_reports_generated_total 2")
}

func TestPrometheus_SeparateRegistries(t *testing.T) {
	// dos instancias no colisionan al registrar
	assert.NotPanics(t, func() {
		metrics.NewPrometheus("")
		metrics.NewPrometheus("")
	})
}
