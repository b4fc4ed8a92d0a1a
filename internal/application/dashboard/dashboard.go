// Package dashboard orquesta fuente, store, motor de analytics y reporters.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/tradedash/internal/analytics"
	"github.com/alejandrodnm/tradedash/internal/domain"
	"github.com/alejandrodnm/tradedash/internal/ports"
)

// Config contiene la selección del dashboard y el modo de refresco.
type Config struct {
	Refresh  time.Duration
	Filter   analytics.Filter
	Interval domain.Interval
	Location *time.Location // nil = UTC
	Once     bool           // un solo ciclo, sin ticker
}

// DefaultConfig devuelve refresco de 30s, vista diaria en UTC, sin filtros.
func DefaultConfig() Config {
	return Config{
		Refresh:  30 * time.Second,
		Interval: domain.IntervalDaily,
		Location: time.UTC,
	}
}

// Service es el orquestador del ciclo fetch → sync → report.
type Service struct {
	cfg       Config
	source    ports.TradeSource
	store     ports.TradeStore
	reporters []ports.Reporter
	now       func() time.Time

	// Sin store, las ediciones del journal viven en memoria y se reaplican
	// sobre cada fetch.
	mu    sync.Mutex
	last  []domain.Trade
	edits []domain.JournalEdit
}

// New crea un Service con las dependencias inyectadas.
// source nil lee solo del store; store nil trabaja en memoria.
func New(cfg Config, source ports.TradeSource, store ports.TradeStore, reporters ...ports.Reporter) *Service {
	if cfg.Refresh <= 0 {
		cfg.Refresh = DefaultConfig().Refresh
	}
	return &Service{
		cfg:       cfg,
		source:    source,
		store:     store,
		reporters: reporters,
		now:       time.Now,
	}
}

// Run ejecuta ciclos hasta que el contexto se cancele.
// Con cfg.Once solo ejecuta uno y devuelve su error.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("dashboard starting",
		"refresh", s.cfg.Refresh,
		"interval", s.cfg.Interval,
		"symbol", s.cfg.Filter.Symbol,
		"once", s.cfg.Once,
	)

	if _, err := s.RunOnce(ctx); err != nil {
		slog.Error("dashboard cycle failed", "err", err)
		if s.cfg.Once {
			return err
		}
	}

	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("dashboard stopped")
			return nil
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				slog.Error("dashboard cycle failed", "err", err)
			}
		}
	}
}

// RunOnce ejecuta un ciclo completo y entrega el report a todos los reporters.
// Los errores de reporters se loguean; solo fallan fetch y store.
func (s *Service) RunOnce(ctx context.Context) (domain.Report, error) {
	start := time.Now()

	trades, symbols, err := s.load(ctx)
	if err != nil {
		return domain.Report{}, err
	}

	report := analytics.BuildReport(trades, analytics.ReportOptions{
		Filter:   s.cfg.Filter,
		Interval: s.cfg.Interval,
		Location: s.cfg.Location,
		Now:      s.now(),
	})
	if symbols != nil {
		// con rango de fechas el store solo devuelve parte del historial;
		// el selector sigue mostrando todos los símbolos guardados
		report.Symbols = symbols
	}

	for _, r := range s.reporters {
		if err := r.Report(ctx, report); err != nil {
			slog.Warn("reporter error", "err", err)
		}
	}

	slog.Info("dashboard cycle complete",
		"loaded", len(trades),
		"matched", report.Stats.TotalTrades,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

// Annotate reemplaza notas y tags de un trade.
// Con store, un ID desconocido dispara un sync de la fuente y un reintento.
// Sin store, la edición se aplica en memoria sobre el último ciclo y se
// reaplica en los siguientes.
func (s *Service) Annotate(ctx context.Context, edit domain.JournalEdit) error {
	if s.store == nil {
		return s.annotateInMemory(edit)
	}

	err := s.store.UpdateJournal(ctx, edit)
	if errors.Is(err, domain.ErrTradeNotFound) && s.source != nil {
		slog.Debug("trade not stored yet, syncing source", "trade_id", edit.TradeID)
		if _, serr := s.sync(ctx); serr != nil {
			return fmt.Errorf("dashboard.Annotate: %w", serr)
		}
		err = s.store.UpdateJournal(ctx, edit)
	}
	if err != nil {
		return fmt.Errorf("dashboard.Annotate: %w", err)
	}
	slog.Info("journal updated", "trade_id", edit.TradeID, "tags", len(edit.Tags))
	return nil
}

func (s *Service) annotateInMemory(edit domain.JournalEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated, found := domain.ApplyJournalEdit(s.last, edit)
	if !found {
		return fmt.Errorf("dashboard.Annotate: %q: %w", edit.TradeID, domain.ErrTradeNotFound)
	}
	s.last = updated

	for i, e := range s.edits {
		if e.TradeID == edit.TradeID {
			s.edits[i] = edit
			return nil
		}
	}
	s.edits = append(s.edits, edit)
	return nil
}

// sync trae los trades de la fuente y, con store, guarda los nuevos.
func (s *Service) sync(ctx context.Context) ([]domain.Trade, error) {
	if s.source == nil {
		return nil, nil
	}
	fetched, err := s.source.FetchTrades(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	slog.Debug("trades fetched", "count", len(fetched))

	if s.store != nil && len(fetched) > 0 {
		if err := s.store.SaveTrades(ctx, fetched); err != nil {
			return nil, fmt.Errorf("save: %w", err)
		}
	}
	return fetched, nil
}

// load devuelve los trades del ciclo y, con store, el universo de símbolos.
// Con store relee en el rango del filtro para que las ediciones del journal
// prevalezcan sobre la fuente.
func (s *Service) load(ctx context.Context) ([]domain.Trade, []string, error) {
	fetched, err := s.sync(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard.load: %w", err)
	}

	if s.store == nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, e := range s.edits {
			fetched, _ = domain.ApplyJournalEdit(fetched, e)
		}
		s.last = fetched
		return fetched, nil, nil
	}

	trades, err := s.store.ListTrades(ctx, s.cfg.Filter.From, s.cfg.Filter.To)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard.load: list: %w", err)
	}
	symbols, err := s.store.Symbols(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("dashboard.load: symbols: %w", err)
	}
	return trades, symbols, nil
}
