package fills

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

const (
	tradesPerPage  = 500
	tradesMaxPages = 20
)

type rawTrade struct {
	ID         string      `json:"id"`
	Timestamp  json.Number `json:"timestamp"` // ms epoch
	Symbol     string      `json:"symbol"`
	Side       string      `json:"side"`
	EntryPrice json.Number `json:"entryPrice"`
	ExitPrice  json.Number `json:"exitPrice"`
	Size       json.Number `json:"size"`
	PnL        json.Number `json:"pnl"`
	PnLPercent json.Number `json:"pnlPercent"`
	Fees       json.Number `json:"fees"`
	OrderType  string      `json:"orderType"`
	Duration   json.Number `json:"duration"` // segundos
	Notes      string      `json:"notes,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
}

// FetchTrades pagina /trades hasta una página incompleta o tradesMaxPages.
// Implementa ports.TradeSource.
func (c *Client) FetchTrades(ctx context.Context) ([]domain.Trade, error) {
	var all []domain.Trade

	for page := 0; page < tradesMaxPages; page++ {
		offset := page * tradesPerPage
		url := fmt.Sprintf("%s/trades?limit=%d&offset=%d", c.base, tradesPerPage, offset)

		var resp []rawTrade
		if err := c.get(ctx, url, &resp); err != nil {
			return nil, fmt.Errorf("fills.FetchTrades: %w", err)
		}

		for _, rt := range resp {
			t, ok := mapTrade(rt)
			if !ok {
				slog.Debug("skipping malformed trade",
					"id", rt.ID,
					"side", rt.Side,
					"order_type", rt.OrderType,
					"timestamp", rt.Timestamp,
				)
				continue
			}
			all = append(all, t)
		}

		slog.Debug("fetched trades page",
			"page", page,
			"count", len(resp),
			"total", len(all),
		)

		if len(resp) < tradesPerPage {
			break
		}
	}

	return all, nil
}

// mapTrade convierte el payload en domain.Trade. Devuelve false si falta el ID,
// side u orderType no son conocidos o el timestamp no es un entero positivo en ms.
func mapTrade(rt rawTrade) (domain.Trade, bool) {
	side := domain.Side(rt.Side)
	orderType := domain.OrderType(rt.OrderType)
	if rt.ID == "" || !side.Valid() || !orderType.Valid() {
		return domain.Trade{}, false
	}

	tsMs, err := rt.Timestamp.Int64()
	if err != nil || tsMs <= 0 {
		return domain.Trade{}, false
	}
	// algunas APIs mandan la duración con decimales
	duration := int64(toFloat(rt.Duration))

	return domain.Trade{
		ID:          rt.ID,
		Timestamp:   time.UnixMilli(tsMs).UTC(),
		Symbol:      rt.Symbol,
		Side:        side,
		EntryPrice:  toFloat(rt.EntryPrice),
		ExitPrice:   toFloat(rt.ExitPrice),
		Size:        toFloat(rt.Size),
		PnL:         toFloat(rt.PnL),
		PnLPercent:  toFloat(rt.PnLPercent),
		Fees:        toFloat(rt.Fees),
		OrderType:   orderType,
		DurationSec: duration,
		Notes:       rt.Notes,
		Tags:        rt.Tags,
	}, true
}

func toFloat(n json.Number) float64 {
	f, _ := n.Float64()
	return f
}
