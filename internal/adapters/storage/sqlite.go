package storage

// sqlite.go: historial de trades y journal.
//
// Estrategia:
//   - `trades`: UNA fila por trade (id). Los trades cerrados son inmutables, así que
//     SaveTrades hace INSERT OR IGNORE: reimportar la misma fuente no pisa el journal.
//   - notas y tags son lo único editable (UpdateJournal).
//   - timestamp en milisegundos epoch para ordenar y filtrar por índice sin parsear fechas.

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/tradedash/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
    id           TEXT PRIMARY KEY,
    ts_ms        INTEGER NOT NULL,
    symbol       TEXT    NOT NULL,
    side         TEXT    NOT NULL,
    entry_price  REAL    NOT NULL DEFAULT 0,
    exit_price   REAL    NOT NULL DEFAULT 0,
    size         REAL    NOT NULL DEFAULT 0,
    pnl          REAL    NOT NULL DEFAULT 0,
    pnl_percent  REAL    NOT NULL DEFAULT 0,
    fees         REAL    NOT NULL DEFAULT 0,
    order_type   TEXT    NOT NULL,
    duration_sec INTEGER NOT NULL DEFAULT 0,
    notes        TEXT    NOT NULL DEFAULT '',
    tags         TEXT    NOT NULL DEFAULT '',
    updated_at   DATETIME
);

CREATE INDEX IF NOT EXISTS idx_trades_ts     ON trades(ts_ms DESC);
CREATE INDEX IF NOT EXISTS idx_trades_symbol ON trades(symbol);
`

const tradeColumns = `id, ts_ms, symbol, side, entry_price, exit_price, size, pnl,
	pnl_percent, fees, order_type, duration_sec, notes, tags`

// SQLiteStorage implementa ports.TradeStore usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada y aplica el schema.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}
	return &SQLiteStorage{db: db}, nil
}

// SaveTrades inserta los trades en una transacción. Los IDs existentes se ignoran.
func (s *SQLiteStorage) SaveTrades(ctx context.Context, trades []domain.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO trades (`+tradeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveTrades: prepare: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		if _, err := stmt.ExecContext(ctx,
			t.ID, t.Timestamp.UnixMilli(), t.Symbol, string(t.Side),
			t.EntryPrice, t.ExitPrice, t.Size, t.PnL, t.PnLPercent, t.Fees,
			string(t.OrderType), t.DurationSec, t.Notes, joinTags(t.Tags),
		); err != nil {
			return fmt.Errorf("storage.SaveTrades: insert %q: %w", t.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveTrades: commit: %w", err)
	}
	return nil
}

// FetchTrades devuelve todo el historial; implementa ports.TradeSource.
func (s *SQLiteStorage) FetchTrades(ctx context.Context) ([]domain.Trade, error) {
	return s.ListTrades(ctx, nil, nil)
}

// ListTrades devuelve los trades en el rango inclusivo dado, más recientes primero.
func (s *SQLiteStorage) ListTrades(ctx context.Context, from, to *time.Time) ([]domain.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trades WHERE 1=1`
	var args []any
	if from != nil {
		query += ` AND ts_ms >= ?`
		args = append(args, from.UnixMilli())
	}
	if to != nil {
		query += ` AND ts_ms <= ?`
		args = append(args, to.UnixMilli())
	}
	query += ` ORDER BY ts_ms DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage.ListTrades: query: %w", err)
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var (
			t               domain.Trade
			tsMs            int64
			side, orderType string
			tags            string
		)
		if err := rows.Scan(
			&t.ID, &tsMs, &t.Symbol, &side, &t.EntryPrice, &t.ExitPrice, &t.Size,
			&t.PnL, &t.PnLPercent, &t.Fees, &orderType, &t.DurationSec, &t.Notes, &tags,
		); err != nil {
			return nil, fmt.Errorf("storage.ListTrades: scan: %w", err)
		}
		t.Timestamp = time.UnixMilli(tsMs).UTC()
		t.Side = domain.Side(side)
		t.OrderType = domain.OrderType(orderType)
		t.Tags = splitTags(tags)
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage.ListTrades: rows: %w", err)
	}
	return trades, nil
}

// UpdateJournal reemplaza notas y tags. Devuelve domain.ErrTradeNotFound si el ID no existe.
func (s *SQLiteStorage) UpdateJournal(ctx context.Context, edit domain.JournalEdit) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE trades SET notes = ?, tags = ?, updated_at = ? WHERE id = ?`,
		edit.Notes, joinTags(edit.Tags), time.Now().UTC(), edit.TradeID,
	)
	if err != nil {
		return fmt.Errorf("storage.UpdateJournal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage.UpdateJournal: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("storage.UpdateJournal: %q: %w", edit.TradeID, domain.ErrTradeNotFound)
	}
	return nil
}

// Symbols devuelve los símbolos distintos guardados.
func (s *SQLiteStorage) Symbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM trades ORDER BY symbol`)
	if err != nil {
		return nil, fmt.Errorf("storage.Symbols: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, fmt.Errorf("storage.Symbols: scan: %w", err)
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// Close cierra la conexión.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Los tags se guardan separados por coma; al editar ya llegan sin comas (domain.ParseTags).
func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return domain.ParseTags(s)
}
