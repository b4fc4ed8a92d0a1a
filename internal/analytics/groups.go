package analytics

import (
	"sort"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// accumulator suma los trades de un grupo.
type accumulator struct {
	key    string
	trades int
	wins   int
	pnl    float64
	volume float64
	fees   float64
}

func (a *accumulator) add(t domain.Trade) {
	a.trades++
	a.pnl += t.PnL
	a.volume += t.Volume()
	a.fees += t.Fees
	if t.IsWin() {
		a.wins++
	}
}

func (a *accumulator) winRate() float64 {
	return pct(a.wins, a.trades)
}

// groupBy agrupa por la clave derivada y devuelve los grupos en orden de primera
// aparición. Los llamadores ordenan con sort.SliceStable, así que los empates
// quedan en ese orden y no dependen de la iteración del map.
func groupBy(trades []domain.Trade, key func(domain.Trade) string) []*accumulator {
	index := make(map[string]*accumulator)
	var groups []*accumulator
	for _, t := range trades {
		k := key(t)
		acc, ok := index[k]
		if !ok {
			acc = &accumulator{key: k}
			index[k] = acc
			groups = append(groups, acc)
		}
		acc.add(t)
	}
	return groups
}

// SymbolStats devuelve una fila por símbolo, ordenadas por pnl descendente.
func SymbolStats(trades []domain.Trade) []domain.SymbolStats {
	groups := groupBy(trades, func(t domain.Trade) string { return t.Symbol })

	out := make([]domain.SymbolStats, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.SymbolStats{
			Symbol:  g.key,
			Trades:  g.trades,
			PnL:     g.pnl,
			WinRate: g.winRate(),
			Volume:  g.volume,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PnL > out[j].PnL })
	return out
}

// FeeBreakdown agrupa fees por tipo de orden, ordenado por monto descendente.
// Percentage es 0 si no hubo fees.
func FeeBreakdown(trades []domain.Trade) []domain.FeeBreakdown {
	var totalFees float64
	for _, t := range trades {
		totalFees += t.Fees
	}

	groups := groupBy(trades, func(t domain.Trade) string { return string(t.OrderType) })

	out := make([]domain.FeeBreakdown, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.FeeBreakdown{
			OrderType:  domain.OrderType(g.key),
			Amount:     g.fees,
			Percentage: safeDiv(g.fees, totalFees) * 100,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// OrderTypePerformance agrupa pnl por tipo de orden, ordenado por pnl descendente.
func OrderTypePerformance(trades []domain.Trade) []domain.OrderTypePerformance {
	groups := groupBy(trades, func(t domain.Trade) string { return string(t.OrderType) })

	out := make([]domain.OrderTypePerformance, 0, len(groups))
	for _, g := range groups {
		out = append(out, domain.OrderTypePerformance{
			OrderType: domain.OrderType(g.key),
			PnL:       g.pnl,
			Trades:    g.trades,
			WinRate:   g.winRate(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PnL > out[j].PnL })
	return out
}

// Symbols devuelve los símbolos distintos ordenados alfabéticamente.
func Symbols(trades []domain.Trade) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range trades {
		if _, ok := seen[t.Symbol]; ok {
			continue
		}
		seen[t.Symbol] = struct{}{}
		out = append(out, t.Symbol)
	}
	sort.Strings(out)
	return out
}
