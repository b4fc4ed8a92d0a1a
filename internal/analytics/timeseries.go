package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

const dateLayout = "2006-01-02"

// inLocation usa UTC si loc es nil.
func inLocation(ts time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return ts.In(loc)
}

// bucketKey deriva la clave del bucket temporal en la zona horaria dada.
// Los tres formatos tienen padding de ceros, así que el orden lexicográfico es cronológico.
func bucketKey(ts time.Time, interval domain.Interval, loc *time.Location) string {
	local := inLocation(ts, loc)
	switch interval {
	case domain.IntervalWeekly:
		// domingo que abre la semana
		y, m, d := local.Date()
		start := time.Date(y, m, d-int(local.Weekday()), 0, 0, 0, 0, local.Location())
		return start.Format(dateLayout)
	case domain.IntervalMonthly:
		return local.Format("2006-01")
	default:
		return local.Format(dateLayout)
	}
}

// TimePerformance agrupa los trades en buckets diarios, semanales o mensuales,
// ordenados por fecha ascendente, con el pnl acumulado arrastrado entre buckets.
// Sin trades devuelve un slice vacío.
func TimePerformance(trades []domain.Trade, interval domain.Interval, loc *time.Location) []domain.TimePerformance {
	if len(trades) == 0 {
		return []domain.TimePerformance{}
	}

	groups := groupBy(sortedByTime(trades), func(t domain.Trade) string {
		return bucketKey(t.Timestamp, interval, loc)
	})
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].key < groups[j].key })

	out := make([]domain.TimePerformance, 0, len(groups))
	var cumulative float64
	for _, g := range groups {
		cumulative += g.pnl
		out = append(out, domain.TimePerformance{
			Date:          g.key,
			PnL:           g.pnl,
			CumulativePnL: cumulative,
			Trades:        g.trades,
			WinRate:       g.winRate(),
		})
	}
	return out
}

// DrawdownSeries devuelve un punto por trade en orden cronológico con el drawdown
// respecto al pico. Los valores son <= 0; DrawdownPercent es 0 mientras el pico sea 0.
func DrawdownSeries(trades []domain.Trade, loc *time.Location) []domain.DrawdownPoint {
	out := make([]domain.DrawdownPoint, 0, len(trades))
	walkEquity(trades, func(step equityStep) {
		var ddPct float64
		if step.Peak > 0 {
			ddPct = step.Drawdown / step.Peak * 100
		}
		out = append(out, domain.DrawdownPoint{
			Timestamp:       step.Trade.Timestamp,
			Date:            inLocation(step.Trade.Timestamp, loc).Format(dateLayout),
			Drawdown:        negate(step.Drawdown),
			DrawdownPercent: negate(ddPct),
			CumulativePnL:   step.Cumulative,
		})
	})
	return out
}

// negate evita devolver -0 cuando no hay drawdown.
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// slotAccumulator es el acumulador de un slot fijo.
type slotAccumulator struct {
	trades int
	wins   int
	pnl    float64
}

func (s slotAccumulator) stats() domain.SlotStats {
	return domain.SlotStats{
		Trades:   s.trades,
		TotalPnL: s.pnl,
		Wins:     s.wins,
		AvgPnL:   safeDiv(s.pnl, float64(s.trades)),
		WinRate:  pct(s.wins, s.trades),
	}
}

// fillSlots reparte los trades en n slots según slotOf.
func fillSlots(trades []domain.Trade, n int, slotOf func(time.Time) int) []slotAccumulator {
	slots := make([]slotAccumulator, n)
	for _, t := range trades {
		i := slotOf(t.Timestamp)
		slots[i].trades++
		slots[i].pnl += t.PnL
		if t.IsWin() {
			slots[i].wins++
		}
	}
	return slots
}

// HourOfDayStats agrega por hora local (0-23). Solo incluye horas con trades.
func HourOfDayStats(trades []domain.Trade, loc *time.Location) []domain.HourStats {
	slots := fillSlots(trades, 24, func(ts time.Time) int {
		return inLocation(ts, loc).Hour()
	})

	out := make([]domain.HourStats, 0, 24)
	for hour, s := range slots {
		if s.trades == 0 {
			continue
		}
		out = append(out, domain.HourStats{
			Hour:      hour,
			Label:     fmt.Sprintf("%d:00", hour),
			SlotStats: s.stats(),
		})
	}
	return out
}

// DayOfWeekStats agrega por día de la semana local, domingo a sábado.
// Solo incluye días con trades.
func DayOfWeekStats(trades []domain.Trade, loc *time.Location) []domain.DayStats {
	slots := fillSlots(trades, 7, func(ts time.Time) int {
		return int(inLocation(ts, loc).Weekday())
	})

	out := make([]domain.DayStats, 0, 7)
	for day, s := range slots {
		if s.trades == 0 {
			continue
		}
		out = append(out, domain.DayStats{
			Day:       time.Weekday(day),
			SlotStats: s.stats(),
		})
	}
	return out
}
