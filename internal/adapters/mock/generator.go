// Package mock genera historiales de trades sintéticos para demo y tests.
package mock

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

const feeRate = 0.001 // 0.1% sobre el volumen

var symbols = []string{"SOL/USDC", "BTC/USDC", "ETH/USDC", "JTO/USDC", "BONK/USDC", "WIF/USDC", "JUP/USDC"}

// priceBand es el rango de precio de entrada por símbolo: base + rand × spread.
var priceBands = map[string][2]float64{
	"SOL":  {100, 50},
	"BTC":  {45000, 5000},
	"ETH":  {2500, 500},
	"JTO":  {2, 1},
	"BONK": {0.00001, 0.00001},
	"WIF":  {1.5, 1},
	"JUP":  {0.8, 0.4},
}

var notes = []string{
	"Strong breakout pattern",
	"Support level held well",
	"Resistance broken",
	"Followed the trend",
	"Quick scalp opportunity",
	"News-driven move",
	"High volume confirmation",
	"RSI oversold signal",
	"MACD crossover",
	"Fibonacci retracement level",
}

var allTags = []string{"breakout", "reversal", "scalp", "swing", "news", "technical", "momentum"}

// Config controla el generador.
type Config struct {
	Count int
	Days  int   // ventana hacia atrás desde Now; <= 0 usa 30
	Seed  int64 // 0 = semilla a partir del reloj
	Now   time.Time
}

// Generator implementa ports.TradeSource con trades sintéticos.
// Con la misma semilla y Now produce exactamente la misma secuencia.
type Generator struct {
	cfg Config
}

// NewGenerator crea un Generator con la configuración dada.
func NewGenerator(cfg Config) *Generator {
	if cfg.Count < 0 {
		cfg.Count = 0
	}
	if cfg.Days <= 0 {
		cfg.Days = 30
	}
	return &Generator{cfg: cfg}
}

// FetchTrades genera la secuencia completa, más recientes primero.
func (g *Generator) FetchTrades(_ context.Context) ([]domain.Trade, error) {
	now := g.cfg.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := g.cfg.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}
	return Generate(rand.New(rand.NewSource(seed)), g.cfg.Count, now, time.Duration(g.cfg.Days)*24*time.Hour), nil
}

// Generate crea count trades distribuidos uniformemente en [now-window, now].
func Generate(rng *rand.Rand, count int, now time.Time, window time.Duration) []domain.Trade {
	start := now.Add(-window)
	trades := make([]domain.Trade, 0, count)

	for i := 0; i < count; i++ {
		ts := start.Add(time.Duration(rng.Float64() * float64(window))).Truncate(time.Millisecond)
		symbol := symbols[rng.Intn(len(symbols))]
		side := domain.SideShort
		if rng.Float64() > 0.5 {
			side = domain.SideLong
		}
		orderType := domain.OrderTypes[rng.Intn(len(domain.OrderTypes))]

		entry := entryPrice(rng, symbol)
		change := (rng.Float64() - 0.45) * 0.1 // sesgo levemente positivo
		exit := entry * (1 + change)
		size := rng.Float64()*10 + 1
		volume := size * entry

		pnl := size * (exit - entry)
		if side == domain.SideShort {
			pnl = size * (entry - exit)
		}
		fees := volume * feeRate
		pnl -= fees

		t := domain.Trade{
			ID:          newID(rng),
			Timestamp:   ts,
			Symbol:      symbol,
			Side:        side,
			EntryPrice:  entry,
			ExitPrice:   exit,
			Size:        size,
			PnL:         pnl,
			PnLPercent:  pnl / volume * 100,
			Fees:        fees,
			OrderType:   orderType,
			DurationSec: int64(rng.Intn(86400)) + 60, // 1 min a 24 h
		}
		if rng.Float64() > 0.7 {
			t.Notes = notes[rng.Intn(len(notes))]
		}
		if rng.Float64() > 0.6 {
			t.Tags = randomTags(rng)
		}
		trades = append(trades, t)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp.After(trades[j].Timestamp)
	})
	return trades
}

func entryPrice(rng *rand.Rand, symbol string) float64 {
	base, _, _ := strings.Cut(symbol, "/")
	band, ok := priceBands[base]
	if !ok {
		return 100
	}
	return band[0] + rng.Float64()*band[1]
}

// randomTags elige entre 1 y 3 tags distintos.
func randomTags(rng *rand.Rand) []string {
	n := rng.Intn(3) + 1
	perm := rng.Perm(len(allTags))
	tags := make([]string, n)
	for i := 0; i < n; i++ {
		tags[i] = allTags[perm[i]]
	}
	return tags
}

// newID deriva un UUID v4 del rng para que la secuencia sea reproducible.
func newID(rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
