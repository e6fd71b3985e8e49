package movement

import (
	"context"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// UseCase consultas y corrección administrativa sobre el libro de movimientos.
// Las escrituras normales pasan siempre por el coordinador de stock; aquí solo
// hay lectura filtrada y el borrado duro de auditoría.
type UseCase struct {
	movRepo repository.StockMovementRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(movRepo repository.StockMovementRepository) *UseCase {
	return &UseCase{movRepo: movRepo}
}

// GetByID obtiene un movimiento. domain.ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToMovementResponse(mov), nil
}

// List devuelve una página de movimientos filtrados, orden timestamp descendente.
func (uc *UseCase) List(ctx context.Context, filter dto.MovementFilterRequest, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, err := uc.movRepo.List(ctx, repository.MovementFilter{
		ItemID:     filter.ItemID,
		LabID:      filter.LabID,
		SupplierID: filter.SupplierID,
		Type:       filter.Type,
		From:       filter.From,
		To:         filter.To,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *dto.ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un movimiento de forma definitiva (solo corrección administrativa).
// Rompe retroactivamente el balance derivado que lo incluía: quien recalcule después
// verá un historial distinto. No hay ajuste compensatorio automático.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.movRepo.Delete(ctx, id)
}
