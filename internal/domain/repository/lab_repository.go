package repository

import (
	"context"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// LabRepository define el puerto de persistencia para laboratorios.
type LabRepository interface {
	Create(ctx context.Context, lab *entity.Lab) error
	GetByID(ctx context.Context, id string) (*entity.Lab, error)
	Update(ctx context.Context, lab *entity.Lab) error
	List(ctx context.Context, limit, offset int) ([]*entity.Lab, error)
	Delete(ctx context.Context, id string) error
}
