package repository

import (
	"context"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// SupplierRepository define el puerto de persistencia para proveedores.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	Update(ctx context.Context, supplier *entity.Supplier) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error)
	SetActive(ctx context.Context, id string, active bool) error
}
