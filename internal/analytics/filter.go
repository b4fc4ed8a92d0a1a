package analytics

import (
	"strings"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// AllSymbols es el valor del selector que desactiva el filtro por símbolo.
const AllSymbols = "all"

// FilterByDateRange devuelve los trades con from <= timestamp <= to.
// Un límite nil no acota ese lado. Conserva el orden de entrada.
func FilterByDateRange(trades []domain.Trade, from, to *time.Time) []domain.Trade {
	if from == nil && to == nil {
		return trades
	}
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if from != nil && t.Timestamp.Before(*from) {
			continue
		}
		if to != nil && t.Timestamp.After(*to) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FilterBySymbol filtra por símbolo exacto. "all" o vacío devuelve la entrada tal cual.
func FilterBySymbol(trades []domain.Trade, symbol string) []domain.Trade {
	if symbol == "" || symbol == AllSymbols {
		return trades
	}
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if t.Symbol == symbol {
			out = append(out, t)
		}
	}
	return out
}

// FilterBySearch busca query (sin distinguir mayúsculas) en símbolo, notas y tags.
// Query vacía devuelve la entrada tal cual.
func FilterBySearch(trades []domain.Trade, query string) []domain.Trade {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return trades
	}
	out := make([]domain.Trade, 0, len(trades))
	for _, t := range trades {
		if matchesSearch(t, q) {
			out = append(out, t)
		}
	}
	return out
}

func matchesSearch(t domain.Trade, q string) bool {
	if strings.Contains(strings.ToLower(t.Symbol), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Notes), q) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Filter combina los filtros del dashboard. El valor cero no filtra nada.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Symbol string
	Search string
}

// Apply aplica rango de fechas, símbolo y búsqueda, en ese orden.
func (f Filter) Apply(trades []domain.Trade) []domain.Trade {
	out := FilterByDateRange(trades, f.From, f.To)
	out = FilterBySymbol(out, f.Symbol)
	return FilterBySearch(out, f.Search)
}
