package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// TradeStore persiste el historial de trades y las ediciones del journal.
type TradeStore interface {
	TradeSource

	// SaveTrades inserta los trades nuevos. Un trade ya guardado no se reescribe:
	// solo notas y tags cambian, vía UpdateJournal.
	SaveTrades(ctx context.Context, trades []domain.Trade) error

	// ListTrades devuelve los trades con from <= timestamp <= to (nil = sin límite),
	// del más reciente al más antiguo.
	ListTrades(ctx context.Context, from, to *time.Time) ([]domain.Trade, error)

	// UpdateJournal reemplaza notas y tags del trade indicado.
	UpdateJournal(ctx context.Context, edit domain.JournalEdit) error

	// Symbols devuelve los símbolos distintos guardados, ordenados.
	Symbols(ctx context.Context) ([]string, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
