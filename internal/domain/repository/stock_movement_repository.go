package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// MovementFilter filtros opcionales para listar movimientos (campos vacíos = sin filtro).
type MovementFilter struct {
	ItemID     string
	LabID      string
	SupplierID string
	Type       string
	From       *time.Time
	To         *time.Time
}

// StockMovementRepository define el puerto de persistencia del libro de movimientos.
// El libro es append-only: Create y Delete (corrección administrativa) son las únicas
// escrituras; no existe Update.
type StockMovementRepository interface {
	// Create persiste un movimiento ya validado.
	Create(ctx context.Context, m *entity.StockMovement) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	// List devuelve movimientos filtrados, ordenados por timestamp descendente.
	List(ctx context.Context, filter MovementFilter, limit, offset int) ([]*entity.StockMovement, error)
	// Delete elimina de forma definitiva. Devuelve domain.ErrNotFound si no existe.
	// Invalida retroactivamente cualquier balance calculado que incluyera el movimiento.
	Delete(ctx context.Context, id string) error

	// SumByItemAndLab devuelve la suma de cantidades del par (ítem, laboratorio); 0 sin movimientos.
	SumByItemAndLab(ctx context.Context, itemID, labID string) (decimal.Decimal, error)
	// SumByLab devuelve la suma de cantidades agrupada por ítem para un laboratorio,
	// en una sola pasada sobre sus movimientos.
	SumByLab(ctx context.Context, labID string) (map[string]decimal.Decimal, error)

	// LockStockKey serializa a los escritores del par (ítem, laboratorio) durante la
	// transacción en curso. Solo tiene sentido dentro de un TxRunner.Run.
	LockStockKey(ctx context.Context, itemID, labID string) error
}
