package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Side es la dirección de la posición.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// OrderType es el tipo de orden con la que se cerró el trade.
type OrderType string

const (
	OrderMarket     OrderType = "market"
	OrderLimit      OrderType = "limit"
	OrderStopLoss   OrderType = "stop-loss"
	OrderTakeProfit OrderType = "take-profit"
)

// OrderTypes lista los tipos de orden conocidos en orden estable.
var OrderTypes = []OrderType{OrderMarket, OrderLimit, OrderStopLoss, OrderTakeProfit}

// Valid devuelve true si el side es long o short.
func (s Side) Valid() bool {
	return s == SideLong || s == SideShort
}

// Valid devuelve true si el tipo de orden es uno de los conocidos.
func (o OrderType) Valid() bool {
	for _, t := range OrderTypes {
		if o == t {
			return true
		}
	}
	return false
}

// Trade es un trade cerrado (entrada y salida). No existe el concepto de posición abierta.
type Trade struct {
	ID          string
	Timestamp   time.Time
	Symbol      string
	Side        Side
	EntryPrice  float64
	ExitPrice   float64
	Size        float64
	PnL         float64 // realizado, en moneda quote
	PnLPercent  float64 // pnl / volumen × 100
	Fees        float64
	OrderType   OrderType
	DurationSec int64
	Notes       string
	Tags        []string
}

// Volume es el nocional de entrada: size × entryPrice.
func (t Trade) Volume() float64 {
	return t.Size * t.EntryPrice
}

// IsWin devuelve true si el trade cerró con ganancia. pnl == 0 no es ni win ni loss.
func (t Trade) IsWin() bool { return t.PnL > 0 }

// IsLoss devuelve true si el trade cerró con pérdida.
func (t Trade) IsLoss() bool { return t.PnL < 0 }

// ErrTradeNotFound se devuelve cuando una edición de journal no encuentra el trade.
var ErrTradeNotFound = errors.New("trade not found")

// JournalEdit reemplaza las notas y tags de un trade existente, identificado por ID.
type JournalEdit struct {
	TradeID string
	Notes   string
	Tags    []string
}

// ApplyJournalEdit devuelve una nueva secuencia con las notas/tags del trade editado
// reemplazados. El resto de campos es inmutable y la entrada no se modifica.
// El bool indica si algún trade coincidió con el ID.
func ApplyJournalEdit(trades []Trade, edit JournalEdit) ([]Trade, bool) {
	out := make([]Trade, len(trades))
	copy(out, trades)

	found := false
	for i := range out {
		if out[i].ID != edit.TradeID {
			continue
		}
		out[i].Notes = edit.Notes
		if len(edit.Tags) > 0 {
			out[i].Tags = append([]string(nil), edit.Tags...)
		} else {
			out[i].Tags = nil
		}
		found = true
	}
	return out, found
}

// ParseTags separa una lista de tags por comas, recorta espacios y descarta vacíos.
func ParseTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Interval es la granularidad de los buckets temporales.
type Interval string

const (
	IntervalDaily   Interval = "daily"
	IntervalWeekly  Interval = "weekly"
	IntervalMonthly Interval = "monthly"
)

// ParseInterval convierte un string de config/flag en Interval.
func ParseInterval(s string) (Interval, error) {
	switch Interval(strings.ToLower(strings.TrimSpace(s))) {
	case "", IntervalDaily:
		return IntervalDaily, nil
	case IntervalWeekly:
		return IntervalWeekly, nil
	case IntervalMonthly:
		return IntervalMonthly, nil
	}
	return "", fmt.Errorf("domain.ParseInterval: unknown interval %q", s)
}
