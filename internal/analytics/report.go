package analytics

import (
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// ReportOptions es la selección actual del dashboard.
type ReportOptions struct {
	Filter   Filter
	Interval domain.Interval
	Location *time.Location // nil = UTC
	Now      time.Time      // GeneratedAt; zero = time.Now()
}

// BuildReport filtra una vez y calcula todas las vistas sobre el mismo conjunto.
// Symbols se calcula sobre la entrada sin filtrar para alimentar el selector.
func BuildReport(trades []domain.Trade, opts ReportOptions) domain.Report {
	interval := opts.Interval
	if interval == "" {
		interval = domain.IntervalDaily
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	filtered := opts.Filter.Apply(trades)

	report := domain.Report{
		GeneratedAt: now,
		Filter: domain.ReportFilter{
			From:     opts.Filter.From,
			To:       opts.Filter.To,
			Symbol:   opts.Filter.Symbol,
			Search:   opts.Filter.Search,
			Interval: interval,
		},
		TotalInput:   len(trades),
		Symbols:      Symbols(trades),
		Stats:        TradeStats(filtered),
		BySymbol:     SymbolStats(filtered),
		Timeline:     TimePerformance(filtered, interval, opts.Location),
		Fees:         FeeBreakdown(filtered),
		OrderTypes:   OrderTypePerformance(filtered),
		Drawdown:     DrawdownSeries(filtered, opts.Location),
		Hours:        HourOfDayStats(filtered, opts.Location),
		Days:         DayOfWeekStats(filtered, opts.Location),
		Distribution: PnLDistribution(filtered),
	}
	if risk, ok := RiskMetrics(filtered); ok {
		report.Risk = &risk
	}
	return report
}
