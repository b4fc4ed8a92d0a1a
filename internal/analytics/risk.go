package analytics

import (
	"math"
	"sort"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// pnlRange es un rango semiabierto [min, max) de la distribución de pnl.
type pnlRange struct {
	min, max float64
	label    string
}

var pnlRanges = []pnlRange{
	{math.Inf(-1), -1000, "< -$1000"},
	{-1000, -500, "-$1000 to -$500"},
	{-500, -100, "-$500 to -$100"},
	{-100, 0, "-$100 to $0"},
	{0, 100, "$0 to $100"},
	{100, 500, "$100 to $500"},
	{500, 1000, "$500 to $1000"},
	{1000, math.Inf(1), "> $1000"},
}

// PnLDistribution reparte los trades en 8 rangos fijos de pnl (min <= pnl < max).
// Los rangos sin trades se omiten.
func PnLDistribution(trades []domain.Trade) []domain.PnLBucket {
	buckets := make([]domain.PnLBucket, len(pnlRanges))
	for i, r := range pnlRanges {
		buckets[i].Range = r.label
	}

	for _, t := range trades {
		for i, r := range pnlRanges {
			if t.PnL >= r.min && t.PnL < r.max {
				buckets[i].Count++
				buckets[i].PnL += t.PnL
				break
			}
		}
	}

	out := make([]domain.PnLBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Count > 0 {
			out = append(out, b)
		}
	}
	return out
}

// RiskMetrics calcula las métricas de riesgo sobre pnlPercent.
// Devuelve false si no hay trades.
func RiskMetrics(trades []domain.Trade) (domain.RiskMetrics, bool) {
	if len(trades) == 0 {
		return domain.RiskMetrics{}, false
	}

	returns := pnlPercents(trades)
	avg := mean(returns)

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)
	var95 := sorted[int(math.Floor(float64(len(sorted))*0.05))]

	var totalPnL float64
	for _, t := range trades {
		totalPnL += t.PnL
	}

	return domain.RiskMetrics{
		AvgReturn:     avg,
		StdDev:        stdDev(returns, avg),
		ValueAtRisk95: var95,
		CalmarRatio:   safeDiv(totalPnL, MaxDrawdown(trades)),
		SortinoRatio:  SortinoRatio(trades),
	}, true
}

// SortinoRatio es como Sharpe pero con la desviación de los retornos negativos.
// Sin retornos negativos devuelve +Inf si el retorno medio es positivo, si no 0.
// Requiere al menos 2 trades.
func SortinoRatio(trades []domain.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}

	returns := pnlPercents(trades)
	avg := mean(returns)

	var sumSq float64
	negatives := 0
	for _, r := range returns {
		if r < 0 {
			sumSq += r * r
			negatives++
		}
	}
	if negatives == 0 {
		if avg > 0 {
			return math.Inf(1)
		}
		return 0
	}

	downside := math.Sqrt(sumSq / float64(negatives))
	if downside <= 0 {
		return 0
	}
	return avg / downside * annualization
}
