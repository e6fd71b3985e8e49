package stock

import (
	"context"

	"github.com/kartoffan/labstock/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un repositorio
// de movimientos atado a esa tx. Garantiza atomicidad para el libro de stock: si fn
// devuelve error no queda ningún movimiento escrito.
//
// La implementación debe traducir fallos de serialización (deadlock, aborto por
// concurrencia) a domain.ErrConflict para que el coordinador pueda reintentar.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error
}
