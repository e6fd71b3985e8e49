package repository

import (
	"context"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// ItemFilter filtros opcionales para listar ítems.
type ItemFilter struct {
	LabID      string
	CategoryID string
	Name       string // coincidencia parcial, case-insensitive
	Active     *bool
}

// ItemRepository define el puerto de persistencia para ítems.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.Item, error)
	GetByLabAndCode(ctx context.Context, labID, code string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, filter ItemFilter, limit, offset int) ([]*entity.Item, error)
	SetActive(ctx context.Context, id string, active bool) error
}
