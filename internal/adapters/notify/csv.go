package notify

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

var timelineHeader = []string{"date", "pnl", "cumulative_pnl", "trades", "win_rate"}

// CSV implementa ports.Reporter volcando la serie temporal del report.
// Con path vacío escribe en el writer recibido; si no, reescribe el fichero en cada ciclo.
type CSV struct {
	path string
	out  io.Writer
}

// NewCSVFile crea un reporter que sobrescribe path en cada Report.
func NewCSVFile(path string) *CSV {
	return &CSV{path: path}
}

// NewCSVWriter crea un reporter que escribe a w (tests, stdout).
func NewCSVWriter(w io.Writer) *CSV {
	return &CSV{out: w}
}

// Report escribe una fila por bucket con la cabecera timelineHeader.
func (c *CSV) Report(_ context.Context, r domain.Report) error {
	w := c.out
	if c.path != "" {
		f, err := os.Create(c.path)
		if err != nil {
			return fmt.Errorf("notify.CSV: create %s: %w", c.path, err)
		}
		defer f.Close()
		w = f
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(timelineHeader); err != nil {
		return fmt.Errorf("notify.CSV: header: %w", err)
	}
	for _, p := range r.Timeline {
		row := []string{
			p.Date,
			strconv.FormatFloat(p.PnL, 'f', 2, 64),
			strconv.FormatFloat(p.CumulativePnL, 'f', 2, 64),
			strconv.Itoa(p.Trades),
			strconv.FormatFloat(p.WinRate, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("notify.CSV: row %s: %w", p.Date, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("notify.CSV: flush: %w", err)
	}
	return nil
}
