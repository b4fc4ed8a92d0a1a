package ports

import (
	"context"

	"github.com/alejandrodnm/tradedash/internal/domain"
)

// Reporter presenta un Report al usuario.
type Reporter interface {
	// Report renderiza todas las vistas del report.
	// En la implementación de consola, imprime tablas formateadas.
	Report(ctx context.Context, report domain.Report) error
}
