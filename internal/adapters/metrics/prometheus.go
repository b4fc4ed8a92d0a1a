// Package metrics publica el último report del dashboard como métricas Prometheus.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// Prometheus implementa ports.Reporter exponiendo gauges del report actual.
// Usa un registry propio para no mezclarse con el global.
type Prometheus struct {
	reg *prometheus.Registry

	ReportsGenerated prometheus.Counter
	LastReport       prometheus.Gauge

	TradesLoaded  prometheus.Gauge
	TradesMatched prometheus.Gauge
	TotalPnL      prometheus.Gauge
	TotalFees     prometheus.Gauge
	WinRate       prometheus.Gauge
	ProfitFactor  prometheus.Gauge
	SharpeRatio   prometheus.Gauge
	MaxDrawdown   prometheus.Gauge

	SymbolPnL    *prometheus.GaugeVec
	SymbolTrades *prometheus.GaugeVec
}

// NewPrometheus registra todas las métricas bajo namespace.
func NewPrometheus(namespace string) *Prometheus {
	if namespace == "" {
		namespace = "tradedash"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	gauge := func(name, help string) prometheus.Gauge {
		return f.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Subsystem: "portfolio", Name: name, Help: help})
	}

	return &Prometheus{
		reg: reg,
		ReportsGenerated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_generated_total",
			Help:      "Total number of dashboard reports built",
		}),
		LastReport: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_report_timestamp_seconds",
			Help:      "Unix time of the last report",
		}),
		TradesLoaded:  gauge("trades_loaded", "Trades loaded from the source before filtering"),
		TradesMatched: gauge("trades_matched", "Trades matching the current filters"),
		TotalPnL:      gauge("pnl_total", "Sum of pnl over matched trades"),
		TotalFees:     gauge("fees_total", "Sum of fees over matched trades"),
		WinRate:       gauge("win_rate_percent", "Winning trades over matched trades, in percent"),
		ProfitFactor:  gauge("profit_factor", "Gross profit over gross loss"),
		SharpeRatio:   gauge("sharpe_ratio", "Annualized Sharpe ratio of per-trade returns"),
		MaxDrawdown:   gauge("max_drawdown", "Largest peak-to-trough drop of cumulative pnl"),
		SymbolPnL: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "symbol",
			Name:      "pnl_total",
			Help:      "Sum of pnl per symbol",
		}, []string{"symbol"}),
		SymbolTrades: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "symbol",
			Name:      "trades",
			Help:      "Matched trades per symbol",
		}, []string{"symbol"}),
	}
}

// Report actualiza los gauges. Los símbolos que desaparecen del filtro se borran.
func (p *Prometheus) Report(_ context.Context, r domain.Report) error {
	p.ReportsGenerated.Inc()
	p.LastReport.Set(float64(r.GeneratedAt.Unix()))

	s := r.Stats
	p.TradesLoaded.Set(float64(r.TotalInput))
	p.TradesMatched.Set(float64(s.TotalTrades))
	p.TotalPnL.Set(s.TotalPnL)
	p.TotalFees.Set(s.TotalFees)
	p.WinRate.Set(s.WinRate)
	p.ProfitFactor.Set(s.ProfitFactor)
	p.SharpeRatio.Set(s.SharpeRatio)
	p.MaxDrawdown.Set(s.MaxDrawdown)

	p.SymbolPnL.Reset()
	p.SymbolTrades.Reset()
	for _, sym := range r.BySymbol {
		p.SymbolPnL.WithLabelValues(sym.Symbol).Set(sym.PnL)
		p.SymbolTrades.WithLabelValues(sym.Symbol).Set(float64(sym.Trades))
	}
	return nil
}

// Handler devuelve el handler HTTP para /metrics.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}
