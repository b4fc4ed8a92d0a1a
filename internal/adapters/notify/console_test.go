package notify_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/tradedash/internal/adapters/notify"
	"github.com/alejandrodnm/tradedash/internal/analytics"
	"github.com/alejandrodnm/tradedash/internal/domain"
)

var genAt = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func makeTrade(id, symbol string, ts time.Time, pnl float64, ot domain.OrderType) domain.Trade {
	return domain.Trade{
		ID:          id,
		Timestamp:   ts,
		Symbol:      symbol,
		Side:        domain.SideLong,
		EntryPrice:  100,
		ExitPrice:   100 + pnl,
		Size:        1,
		PnL:         pnl,
		PnLPercent:  pnl,
		Fees:        0.1,
		OrderType:   ot,
		DurationSec: 3600,
	}
}

func sampleReport(t *testing.T) domain.Report {
	t.Helper()
	day := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	trades := []domain.Trade{
		makeTrade("a", "SOL/USDC", day, 120, domain.OrderLimit),
		makeTrade("b", "BTC/USDC", day.Add(24*time.Hour), -40, domain.OrderStopLoss),
		makeTrade("c", "SOL/USDC", day.Add(48*time.Hour), 15, domain.OrderMarket),
	}
	return analytics.BuildReport(trades, analytics.ReportOptions{Now: genAt})
}

func TestConsole_Report_Compact(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	require.NoError(t, c.Report(context.Background(), sampleReport(t)))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "\n"), "modo compacto es una sola línea")
	assert.Contains(t, out, "[09:30:00] 3/3 trades")
	assert.Contains(t, out, "pnl $95.00")
	assert.Contains(t, out, "maxDD $40.00")
	assert.Contains(t, out, "best SOL/USDC $135.00")
}

func TestConsole_Report_Tables(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	require.NoError(t, c.Report(context.Background(), sampleReport(t)))

	out := buf.String()
	for _, section := range []string{"PORTFOLIO", "RISK", "BY SYMBOL", "DAILY PERFORMANCE", "BY ORDER TYPE", "WHEN", "PNL DISTRIBUTION"} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "2024-03-06")
	assert.Contains(t, out, "-$40.00")
	assert.Contains(t, out, "stop-loss")
	assert.Contains(t, out, "$100 to $500")
	assert.Contains(t, out, "Best hour: 14:00")
}

func TestConsole_Report_NoTrades(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	report := analytics.BuildReport(nil, analytics.ReportOptions{Now: genAt})
	require.NoError(t, c.Report(context.Background(), report))
	assert.Contains(t, buf.String(), "no trades match")
	assert.NotContains(t, buf.String(), "PORTFOLIO")
}

func TestConsole_Report_InfiniteSortino(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, true)

	report := sampleReport(t)
	report.Risk = &domain.RiskMetrics{SortinoRatio: math.Inf(1)}
	require.NoError(t, c.Report(context.Background(), report))
	assert.Contains(t, buf.String(), "Sortino: INF")
}

func TestConsole_Report_FilterLabel(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsoleWriter(&buf, false)

	report := sampleReport(t)
	report.Filter.Symbol = "SOL/USDC"
	report.Filter.Search = "breakout"
	require.NoError(t, c.Report(context.Background(), report))
	assert.Contains(t, buf.String(), `SOL/USDC "breakout"`)
}

func TestCSV_Report_Writer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, notify.NewCSVWriter(&buf).Report(context.Background(), sampleReport(t)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,pnl,cumulative_pnl,trades,win_rate", lines[0])
	assert.Equal(t, "2024-03-05,120.00,120.00,1,100.00", lines[1])
	assert.Equal(t, "2024-03-06,-40.00,80.00,1,0.00", lines[2])
	assert.Equal(t, "2024-03-07,15.00,95.00,1,100.00", lines[3])
}

func TestCSV_Report_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.csv")
	r := notify.NewCSVFile(path)

	require.NoError(t, r.Report(context.Background(), sampleReport(t)))
	// segundo ciclo sobrescribe, no añade
	require.NoError(t, r.Report(context.Background(), sampleReport(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "date,pnl"))
	assert.Len(t, strings.Split(strings.TrimSpace(string(data)), "\n"), 4)
}

func TestCSV_Report_BadPath(t *testing.T) {
	r := notify.NewCSVFile(filepath.Join(t.TempDir(), "missing", "x.csv"))
	err := r.Report(context.Background(), sampleReport(t))
	assert.Error(t, err)
}
