package domain

import "time"

// TradeStats es el resumen escalar de todo el portfolio sobre un conjunto de trades.
// Con cero trades todos los campos valen 0.
type TradeStats struct {
	TotalPnL         float64
	TotalVolume      float64
	TotalFees        float64
	TotalTrades      int
	WinningTrades    int
	LosingTrades     int
	WinRate          float64 // 0-100
	AvgTradeDuration float64 // segundos
	LongTrades       int
	ShortTrades      int
	LargestGain      float64 // >= 0
	LargestLoss      float64 // <= 0
	AvgWin           float64
	AvgLoss          float64 // valor absoluto
	ProfitFactor     float64
	SharpeRatio      float64
	MaxDrawdown      float64 // >= 0
}

// SymbolStats es una fila por símbolo.
type SymbolStats struct {
	Symbol  string
	Trades  int
	PnL     float64
	WinRate float64
	Volume  float64
}

// TimePerformance es una fila por bucket temporal (día, semana o mes).
type TimePerformance struct {
	Date          string // YYYY-MM-DD o YYYY-MM
	PnL           float64
	CumulativePnL float64
	Trades        int
	WinRate       float64
}

// FeeBreakdown es el total de fees por tipo de orden.
type FeeBreakdown struct {
	OrderType  OrderType
	Amount     float64
	Percentage float64
}

// OrderTypePerformance es el rendimiento agregado por tipo de orden.
type OrderTypePerformance struct {
	OrderType OrderType
	PnL       float64
	Trades    int
	WinRate   float64
}

// DrawdownPoint es un punto de la curva de drawdown, uno por trade en orden cronológico.
// Drawdown y DrawdownPercent son <= 0 para graficar bajo el eje.
type DrawdownPoint struct {
	Timestamp       time.Time
	Date            string
	Drawdown        float64
	DrawdownPercent float64
	CumulativePnL   float64
}

// SlotStats agrega los trades que caen en un slot fijo (hora del día, día de la semana).
type SlotStats struct {
	Trades   int
	TotalPnL float64
	Wins     int
	AvgPnL   float64
	WinRate  float64
}

// HourStats es el bucket de una hora del día (0-23).
type HourStats struct {
	Hour  int
	Label string // "15:00"
	SlotStats
}

// DayStats es el bucket de un día de la semana (0 = domingo).
type DayStats struct {
	Day time.Weekday
	SlotStats
}

// PnLBucket es un rango fijo de la distribución de pnl.
type PnLBucket struct {
	Range string
	Count int
	PnL   float64
}

// RiskMetrics son las métricas ajustadas por riesgo sobre pnlPercent.
type RiskMetrics struct {
	AvgReturn     float64
	StdDev        float64
	ValueAtRisk95 float64
	CalmarRatio   float64
	SortinoRatio  float64 // +Inf si no hay retornos negativos y avgReturn > 0
}

// ReportFilter describe la selección con la que se construyó un Report.
type ReportFilter struct {
	From     *time.Time
	To       *time.Time
	Symbol   string
	Search   string
	Interval Interval
}

// Report contiene todas las vistas derivadas para un conjunto filtrado de trades.
// Se recalcula completo en cada cambio de filtro; nunca se persiste.
type Report struct {
	GeneratedAt  time.Time
	Filter       ReportFilter
	TotalInput   int // trades antes de filtrar
	Symbols      []string
	Stats        TradeStats
	BySymbol     []SymbolStats
	Timeline     []TimePerformance
	Fees         []FeeBreakdown
	OrderTypes   []OrderTypePerformance
	Drawdown     []DrawdownPoint
	Hours        []HourStats
	Days         []DayStats
	Distribution []PnLBucket
	Risk         *RiskMetrics // nil si no hay trades
}
