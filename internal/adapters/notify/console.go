package notify

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// maxTimelineRows limita la tabla temporal; con más buckets se muestran los últimos.
const maxTimelineRows = 31

// Console implementa ports.Reporter.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un reporter que escribe a stdout.
// table=false imprime solo la línea compacta.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un reporter para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Report imprime el report en el modo configurado.
func (c *Console) Report(_ context.Context, r domain.Report) error {
	if r.Stats.TotalTrades == 0 {
		fmt.Fprintf(c.out, "[%s] no trades match the current filters (%d loaded)\n",
			r.GeneratedAt.Format("15:04:05"), r.TotalInput)
		return nil
	}

	c.printCompact(r)
	if !c.table {
		return nil
	}

	c.printSummary(r)
	c.printRisk(r)
	c.printSymbols(r)
	c.printTimeline(r)
	c.printOrderTypes(r)
	c.printSlots(r)
	c.printDistribution(r)
	return nil
}

// printCompact imprime lo esencial en una línea.
func (c *Console) printCompact(r domain.Report) {
	s := r.Stats
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d/%d trades | pnl %s | win %.1f%% | pf %.2f | sharpe %.2f | maxDD %s",
		r.GeneratedAt.Format("15:04:05"), s.TotalTrades, r.TotalInput,
		money(s.TotalPnL), s.WinRate, s.ProfitFactor, s.SharpeRatio, money(s.MaxDrawdown))

	if f := filterLabel(r.Filter); f != "" {
		fmt.Fprintf(&sb, " | %s", f)
	}
	if len(r.BySymbol) > 0 {
		best := r.BySymbol[0]
		fmt.Fprintf(&sb, " | best %s %s", best.Symbol, money(best.PnL))
	}
	fmt.Fprintln(c.out, sb.String())
}

func (c *Console) printSummary(r domain.Report) {
	s := r.Stats
	fmt.Fprintln(c.out, "\n=== PORTFOLIO ===")

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value", "Metric", "Value")
	table.Append("Total PnL", money(s.TotalPnL), "Win rate", fmt.Sprintf("%.2f%%", s.WinRate))
	table.Append("Volume", money(s.TotalVolume), "Wins / Losses", fmt.Sprintf("%d / %d", s.WinningTrades, s.LosingTrades))
	table.Append("Fees", money(s.TotalFees), "Long / Short", fmt.Sprintf("%d / %d", s.LongTrades, s.ShortTrades))
	table.Append("Largest gain", money(s.LargestGain), "Avg win", money(s.AvgWin))
	table.Append("Largest loss", money(s.LargestLoss), "Avg loss", money(s.AvgLoss))
	table.Append("Profit factor", fmt.Sprintf("%.2f", s.ProfitFactor), "Sharpe", fmt.Sprintf("%.2f", s.SharpeRatio))
	table.Append("Max drawdown", money(s.MaxDrawdown), "Avg duration", durationLabel(s.AvgTradeDuration))
	table.Render()

	if len(r.Fees) > 0 {
		parts := make([]string, 0, len(r.Fees))
		for _, f := range r.Fees {
			parts = append(parts, fmt.Sprintf("%s %s (%.1f%%)", f.OrderType, money(f.Amount), f.Percentage))
		}
		fmt.Fprintf(c.out, "  Fees: %s\n", strings.Join(parts, " | "))
	}
}

func (c *Console) printRisk(r domain.Report) {
	if r.Risk == nil {
		return
	}
	m := r.Risk
	fmt.Fprintln(c.out, "\n=== RISK ===")
	fmt.Fprintf(c.out, "  Avg return: %.2f%%  StdDev: %.2f%%  VaR95: %.2f%%  Calmar: %.2f  Sortino: %s\n",
		m.AvgReturn, m.StdDev, m.ValueAtRisk95, m.CalmarRatio, ratio(m.SortinoRatio))

	if len(r.Drawdown) > 0 {
		worst := r.Drawdown[0]
		for _, p := range r.Drawdown {
			if p.Drawdown < worst.Drawdown {
				worst = p
			}
		}
		if worst.Drawdown < 0 {
			fmt.Fprintf(c.out, "  Deepest drawdown: %s (%.1f%%) on %s\n",
				money(worst.Drawdown), worst.DrawdownPercent, worst.Date)
		}
	}
}

func (c *Console) printSymbols(r domain.Report) {
	fmt.Fprintln(c.out, "\n=== BY SYMBOL ===")
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Symbol", "Trades", "PnL", "Win%", "Volume")
	for i, s := range r.BySymbol {
		table.Append(
			fmt.Sprintf("%d", i+1),
			s.Symbol,
			fmt.Sprintf("%d", s.Trades),
			money(s.PnL),
			fmt.Sprintf("%.1f", s.WinRate),
			money(s.Volume),
		)
	}
	table.Render()
}

func (c *Console) printTimeline(r domain.Report) {
	rows := r.Timeline
	if len(rows) > maxTimelineRows {
		rows = rows[len(rows)-maxTimelineRows:]
	}

	fmt.Fprintf(c.out, "\n=== %s PERFORMANCE ===\n", strings.ToUpper(string(r.Filter.Interval)))
	table := tablewriter.NewWriter(c.out)
	table.Header("Period", "Trades", "PnL", "Cumulative", "Win%")
	for _, p := range rows {
		table.Append(
			p.Date,
			fmt.Sprintf("%d", p.Trades),
			money(p.PnL),
			money(p.CumulativePnL),
			fmt.Sprintf("%.1f", p.WinRate),
		)
	}
	table.Render()
}

func (c *Console) printOrderTypes(r domain.Report) {
	fmt.Fprintln(c.out, "\n=== BY ORDER TYPE ===")
	table := tablewriter.NewWriter(c.out)
	table.Header("Order type", "Trades", "PnL", "Win%")
	for _, o := range r.OrderTypes {
		table.Append(string(o.OrderType), fmt.Sprintf("%d", o.Trades), money(o.PnL), fmt.Sprintf("%.1f", o.WinRate))
	}
	table.Render()
}

// printSlots imprime hora del día y día de la semana en una línea cada uno.
func (c *Console) printSlots(r domain.Report) {
	fmt.Fprintln(c.out, "\n=== WHEN ===")
	if len(r.Hours) > 0 {
		best := r.Hours[0]
		for _, h := range r.Hours {
			if h.AvgPnL > best.AvgPnL {
				best = h
			}
		}
		fmt.Fprintf(c.out, "  Best hour: %s (avg %s over %d trades)\n", best.Label, money(best.AvgPnL), best.Trades)
	}

	parts := make([]string, 0, len(r.Days))
	for _, d := range r.Days {
		parts = append(parts, fmt.Sprintf("%s %s/%.0f%%", d.Day.String()[:3], money(d.TotalPnL), d.WinRate))
	}
	if len(parts) > 0 {
		fmt.Fprintf(c.out, "  Days: %s\n", strings.Join(parts, " | "))
	}
}

func (c *Console) printDistribution(r domain.Report) {
	if len(r.Distribution) == 0 {
		return
	}
	fmt.Fprintln(c.out, "\n=== PNL DISTRIBUTION ===")

	peak := 0
	for _, b := range r.Distribution {
		peak = max(peak, b.Count)
	}
	for _, b := range r.Distribution {
		bar := strings.Repeat("█", max(1, b.Count*30/peak))
		fmt.Fprintf(c.out, "  %-16s %-30s %d (%s)\n", b.Range, bar, b.Count, money(b.PnL))
	}
	fmt.Fprintln(c.out)
}

// --- helpers ---

func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "INF"
	}
	return fmt.Sprintf("%.2f", v)
}

func durationLabel(seconds float64) string {
	return (time.Duration(seconds) * time.Second).Round(time.Second).String()
}

func filterLabel(f domain.ReportFilter) string {
	var parts []string
	if f.Symbol != "" && f.Symbol != "all" {
		parts = append(parts, f.Symbol)
	}
	if f.From != nil {
		parts = append(parts, "from "+f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		parts = append(parts, "to "+f.To.Format("2006-01-02"))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("%q", f.Search))
	}
	return strings.Join(parts, " ")
}
