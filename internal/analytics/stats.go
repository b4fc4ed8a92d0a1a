// Package analytics transforma una lista plana de trades cerrados en las vistas
// estadísticas del dashboard: resumen de portfolio, ratios de riesgo, curva de
// drawdown, buckets temporales y breakdowns por símbolo y tipo de orden.
//
// Todas las funciones son puras: no guardan estado, no modifican la entrada
// (los sort y filtros trabajan sobre copias) y aceptan una secuencia vacía
// devolviendo ceros o slices vacíos. Toda división comprueba su denominador;
// el único valor no finito posible es SortinoRatio = +Inf.
package analytics

import (
	"math"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// annualization escala los ratios por trade a una base anual de 252 sesiones.
// Se aplica por trade, no por periodo.
var annualization = math.Sqrt(252)

// TradeStats calcula el resumen escalar del conjunto de trades.
func TradeStats(trades []domain.Trade) domain.TradeStats {
	if len(trades) == 0 {
		return domain.TradeStats{}
	}

	var (
		s                  domain.TradeStats
		totalDuration      float64
		winAmount, lossAbs float64
	)
	s.TotalTrades = len(trades)

	for _, t := range trades {
		s.TotalPnL += t.PnL
		s.TotalVolume += t.Volume()
		s.TotalFees += t.Fees
		totalDuration += float64(t.DurationSec)

		switch {
		case t.IsWin():
			s.WinningTrades++
			winAmount += t.PnL
		case t.IsLoss():
			s.LosingTrades++
			lossAbs += -t.PnL
		}

		switch t.Side {
		case domain.SideLong:
			s.LongTrades++
		case domain.SideShort:
			s.ShortTrades++
		}

		// clamp hacia 0: sin ganancias LargestGain = 0, sin pérdidas LargestLoss = 0
		s.LargestGain = max(s.LargestGain, t.PnL)
		s.LargestLoss = min(s.LargestLoss, t.PnL)
	}

	s.WinRate = pct(s.WinningTrades, s.TotalTrades)
	s.AvgTradeDuration = totalDuration / float64(s.TotalTrades)
	s.AvgWin = safeDiv(winAmount, float64(s.WinningTrades))
	s.AvgLoss = safeDiv(lossAbs, float64(s.LosingTrades))
	s.ProfitFactor = safeDiv(winAmount, lossAbs)
	s.SharpeRatio = SharpeRatio(trades)
	s.MaxDrawdown = MaxDrawdown(trades)

	return s
}

// SharpeRatio usa pnlPercent de cada trade como serie de retornos.
// Requiere al menos 2 trades; stdDev poblacional (divide por N).
func SharpeRatio(trades []domain.Trade) float64 {
	if len(trades) < 2 {
		return 0
	}
	returns := pnlPercents(trades)
	avg := mean(returns)
	sd := stdDev(returns, avg)
	if sd <= 0 {
		return 0
	}
	return avg / sd * annualization
}

// --- helpers numéricos ---

func pnlPercents(trades []domain.Trade) []float64 {
	out := make([]float64, len(trades))
	for i, t := range trades {
		out[i] = t.PnLPercent
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stdDev es la desviación estándar poblacional.
func stdDev(xs []float64, avg float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sumSq float64
	for _, x := range xs {
		d := x - avg
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// safeDiv devuelve 0 si el denominador es 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// pct devuelve part/total × 100, o 0 si total es 0.
func pct(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
