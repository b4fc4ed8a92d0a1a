package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alejandrodnm/tradedash/config"
	"github.com/alejandrodnm/tradedash/internal/adapters/fills"
	"github.com/alejandrodnm/tradedash/internal/adapters/metrics"
	"github.com/alejandrodnm/tradedash/internal/adapters/mock"
	"github.com/alejandrodnm/tradedash/internal/adapters/notify"
	"github.com/alejandrodnm/tradedash/internal/adapters/storage"
	"github.com/alejandrodnm/tradedash/internal/analytics"
	"github.com/alejandrodnm/tradedash/internal/application/dashboard"
	"github.com/alejandrodnm/tradedash/internal/domain"
	"github.com/alejandrodnm/tradedash/internal/ports"
)

// options son los flags de la línea de comandos.
type options struct {
	configPath  string
	source      string
	symbol      string
	from, to    string
	search      string
	interval    string
	watch       bool
	table       bool
	csvPath     string
	metricsAddr string
	verbose     bool
	logFormat   string
	annotate    string
	notes       string
	tags        string
}

func parseFlags(args []string) (options, error) {
	var o options
	fs := flag.NewFlagSet("tradedash", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "config.yaml", "path to config file")
	fs.StringVar(&o.source, "source", "", "trade source: mock|sqlite|http (overrides config)")
	fs.StringVar(&o.symbol, "symbol", "", "symbol filter, \"all\" for every symbol (overrides config)")
	fs.StringVar(&o.from, "from", "", "start date YYYY-MM-DD or RFC3339, inclusive")
	fs.StringVar(&o.to, "to", "", "end date YYYY-MM-DD (whole day) or RFC3339, inclusive")
	fs.StringVar(&o.search, "search", "", "case-insensitive text search over symbol, notes and tags")
	fs.StringVar(&o.interval, "interval", "", "timeline bucket: daily|weekly|monthly (overrides config)")
	fs.BoolVar(&o.watch, "watch", false, "refresh every dashboard.refresh_seconds until interrupted")
	fs.BoolVar(&o.table, "table", false, "print full tables (default: compact 1-line)")
	fs.StringVar(&o.csvPath, "csv", "", "write the timeline as CSV to this file on every cycle")
	fs.StringVar(&o.metricsAddr, "metrics-addr", "", "Prometheus metrics HTTP address, e.g. :9090 (overrides config)")
	fs.BoolVar(&o.verbose, "verbose", false, "set log level to debug")
	fs.StringVar(&o.logFormat, "format", "", "log format: text|json (overrides config)")
	fs.StringVar(&o.annotate, "annotate", "", "trade ID whose journal notes/tags to replace, then exit")
	fs.StringVar(&o.notes, "notes", "", "journal notes for -annotate (empty clears)")
	fs.StringVar(&o.tags, "tags", "", "comma-separated journal tags for -annotate (empty clears)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, opts)
	cancel()
	if err != nil {
		slog.Error("tradedash failed", "err", err)
		os.Exit(1)
	}
}

// run devuelve el error en vez de salir, así los defer (store.Close) siempre corren.
func run(ctx context.Context, opts options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	setupLogger(cfg.Log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	bucket, err := domain.ParseInterval(cfg.Dashboard.Interval)
	if err != nil {
		return err
	}
	fromT, err := parseBound(opts.from, loc, false)
	if err != nil {
		return fmt.Errorf("invalid -from: %w", err)
	}
	toT, err := parseBound(opts.to, loc, true)
	if err != nil {
		return fmt.Errorf("invalid -to: %w", err)
	}
	if opts.annotate != "" && cfg.Source.Kind == config.SourceMock {
		return fmt.Errorf("-annotate needs a persistent source (sqlite or http), got %q", cfg.Source.Kind)
	}

	slog.Info("tradedash starting",
		"config", opts.configPath,
		"source", cfg.Source.Kind,
		"interval", bucket,
		"timezone", loc.String(),
		"watch", opts.watch,
	)

	source, store, err := openSources(cfg)
	if err != nil {
		return fmt.Errorf("open trade source %q: %w", cfg.Source.Kind, err)
	}
	var tradeStore ports.TradeStore
	if store != nil {
		defer store.Close()
		tradeStore = store
	}

	reporters := []ports.Reporter{notify.NewConsole(opts.table)}
	if opts.csvPath != "" {
		reporters = append(reporters, notify.NewCSVFile(opts.csvPath))
	}
	if cfg.Metrics.Addr != "" && opts.annotate == "" {
		prom := metrics.NewPrometheus(cfg.Metrics.Namespace)
		reporters = append(reporters, prom)
		startMetricsServer(cfg.Metrics.Addr, prom.Handler())
	}

	dashCfg := dashboard.DefaultConfig()
	dashCfg.Refresh = cfg.RefreshInterval()
	dashCfg.Interval = bucket
	dashCfg.Location = loc
	dashCfg.Once = !opts.watch
	dashCfg.Filter = analytics.Filter{
		From:   fromT,
		To:     toT,
		Symbol: cfg.Dashboard.Symbol,
		Search: opts.search,
	}

	svc := dashboard.New(dashCfg, source, tradeStore, reporters...)

	if opts.annotate != "" {
		edit := domain.JournalEdit{TradeID: opts.annotate, Notes: opts.notes, Tags: domain.ParseTags(opts.tags)}
		return svc.Annotate(ctx, edit)
	}

	if err := svc.Run(ctx); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	slog.Info("tradedash stopped cleanly")
	return nil
}

// loadConfig carga el YAML y aplica los overrides de los flags.
func loadConfig(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	if opts.verbose {
		cfg.Log.Level = "debug"
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	if opts.source != "" {
		if err := cfg.OverrideSource(opts.source); err != nil {
			return nil, err
		}
	}
	if opts.symbol != "" {
		cfg.Dashboard.Symbol = opts.symbol
	}
	if opts.interval != "" {
		cfg.Dashboard.Interval = opts.interval
	}
	if opts.metricsAddr != "" {
		cfg.Metrics.Addr = opts.metricsAddr
	}
	return cfg, nil
}

// startMetricsServer sirve /metrics y /health en segundo plano.
func startMetricsServer(addr string, metricsHandler http.Handler) {
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metricsHandler)
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		})
		slog.Info("metrics server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "err", err)
		}
	}()
}

// openSources resuelve fuente y store según source.kind.
// mock trabaja solo en memoria; sqlite usa el store como fuente.
func openSources(cfg *config.Config) (ports.TradeSource, *storage.SQLiteStorage, error) {
	var source ports.TradeSource
	switch cfg.Source.Kind {
	case config.SourceMock:
		return mock.NewGenerator(mock.Config{
			Count: cfg.Source.MockTrades,
			Days:  cfg.Source.MockDays,
			Seed:  cfg.Source.MockSeed,
		}), nil, nil
	case config.SourceSQLite:
	case config.SourceHTTP:
		source = fills.NewClient(cfg.API.FillsBase,
			fills.WithToken(cfg.API.Token),
			fills.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
		)
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		return nil, nil, err
	}
	return source, store, nil
}

// parseBound acepta YYYY-MM-DD en loc o RFC3339. Con endOfDay una fecha
// sin hora cubre el día completo.
func parseBound(s string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return nil, fmt.Errorf("parse %q: want YYYY-MM-DD or RFC3339", s)
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
