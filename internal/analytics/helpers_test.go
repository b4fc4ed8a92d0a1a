package analytics_test

import (
	"fmt"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

var baseTime = time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC) // miércoles

// makeTrade crea un trade con pnl dado, offset en horas desde baseTime.
func makeTrade(id int, offsetHours int, pnl float64) domain.Trade {
	return domain.Trade{
		ID:          fmt.Sprintf("t-%d", id),
		Timestamp:   baseTime.Add(time.Duration(offsetHours) * time.Hour),
		Symbol:      "SOL/USDC",
		Side:        domain.SideLong,
		EntryPrice:  100,
		ExitPrice:   100 + pnl,
		Size:        1,
		PnL:         pnl,
		PnLPercent:  pnl,
		Fees:        0.1,
		OrderType:   domain.OrderMarket,
		DurationSec: 600,
	}
}

// tradesWithPnL crea trades en orden cronológico, una hora de separación.
func tradesWithPnL(pnls ...float64) []domain.Trade {
	out := make([]domain.Trade, len(pnls))
	for i, p := range pnls {
		out[i] = makeTrade(i, i, p)
	}
	return out
}

func reversed(trades []domain.Trade) []domain.Trade {
	out := make([]domain.Trade, len(trades))
	for i, t := range trades {
		out[len(trades)-1-i] = t
	}
	return out
}
