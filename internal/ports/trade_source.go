package ports

import (
	"context"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// TradeSource entrega la secuencia de trades cerrados que alimenta al dashboard.
// No garantiza ningún orden; el motor de analytics ordena donde lo necesita.
type TradeSource interface {
	FetchTrades(ctx context.Context) ([]domain.Trade, error)
}
