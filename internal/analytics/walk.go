package analytics

import (
	"sort"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// equityStep es el estado de la curva de equity tras aplicar un trade.
type equityStep struct {
	Trade      domain.Trade
	Cumulative float64 // pnl acumulado, la curva arranca en 0
	Peak       float64 // máximo acumulado visto, nunca baja de 0
	Drawdown   float64 // Peak - Cumulative, siempre >= 0
}

// sortedByTime devuelve una copia ordenada por timestamp ascendente.
// El orden es estable para trades con el mismo timestamp.
func sortedByTime(trades []domain.Trade) []domain.Trade {
	sorted := make([]domain.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// walkEquity recorre los trades en orden cronológico acumulando pnl y el pico,
// y llama a visit en cada paso. No modifica la entrada.
func walkEquity(trades []domain.Trade, visit func(step equityStep)) {
	var cumulative, peak float64
	for _, t := range sortedByTime(trades) {
		cumulative += t.PnL
		peak = max(peak, cumulative)
		visit(equityStep{
			Trade:      t,
			Cumulative: cumulative,
			Peak:       peak,
			Drawdown:   peak - cumulative,
		})
	}
}

// MaxDrawdown devuelve la mayor caída pico-valle de la curva de pnl acumulado.
// Siempre >= 0; 0 si la curva nunca baja.
func MaxDrawdown(trades []domain.Trade) float64 {
	var maxDD float64
	walkEquity(trades, func(step equityStep) {
		maxDD = max(maxDD, step.Drawdown)
	})
	return maxDD
}
