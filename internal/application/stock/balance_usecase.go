package stock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// BalanceUseCase calcula balances actuales agregando el libro de movimientos.
// Sin caché y sin contador materializado: cada llamada recalcula desde el libro,
// así el balance no puede divergir del historial. La suma incluye los cinco tipos
// de movimiento; las patas de traslado afectan stock real igual que IN/OUT.
type BalanceUseCase struct {
	movRepo  repository.StockMovementRepository
	itemRepo repository.ItemRepository
	labRepo  repository.LabRepository
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(
	movRepo repository.StockMovementRepository,
	itemRepo repository.ItemRepository,
	labRepo repository.LabRepository,
) *BalanceUseCase {
	return &BalanceUseCase{movRepo: movRepo, itemRepo: itemRepo, labRepo: labRepo}
}

// BalanceOf devuelve el balance actual de un ítem en un laboratorio (0 si no hay movimientos).
func (uc *BalanceUseCase) BalanceOf(ctx context.Context, itemID, labID string) (*dto.StockQuantity, error) {
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	lab, err := uc.labRepo.GetByID(ctx, labID)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	qty, err := uc.movRepo.SumByItemAndLab(ctx, itemID, labID)
	if err != nil {
		return nil, err
	}
	return &dto.StockQuantity{ItemID: item.ID, ItemName: item.Name, Quantity: qty}, nil
}

// BalancesByItem devuelve el balance por ítem de un laboratorio en una sola pasada
// de agregación (O(movimientos del laboratorio)). Usado por el monitor de umbrales.
func (uc *BalanceUseCase) BalancesByItem(ctx context.Context, labID string) (map[string]decimal.Decimal, error) {
	lab, err := uc.labRepo.GetByID(ctx, labID)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	return uc.movRepo.SumByLab(ctx, labID)
}

// BalancesForLab devuelve las cantidades de todos los ítems con movimientos en el
// laboratorio, con nombre de ítem, ordenadas alfabéticamente.
func (uc *BalanceUseCase) BalancesForLab(ctx context.Context, labID string) ([]dto.StockQuantity, error) {
	sums, err := uc.BalancesByItem(ctx, labID)
	if err != nil {
		return nil, err
	}
	if len(sums) == 0 {
		return []dto.StockQuantity{}, nil
	}

	ids := make([]string, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	items, err := uc.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	quantities := make([]dto.StockQuantity, 0, len(items))
	for _, item := range items {
		quantities = append(quantities, dto.StockQuantity{
			ItemID:   item.ID,
			ItemName: item.Name,
			Quantity: sums[item.ID],
		})
	}
	sort.Slice(quantities, func(i, j int) bool { return quantities[i].ItemName < quantities[j].ItemName })
	return quantities, nil
}
