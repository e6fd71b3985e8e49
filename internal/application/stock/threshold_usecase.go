package stock

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// ThresholdUseCase clasifica ítems por umbral de stock en un laboratorio.
// Derivado puro del cálculo de balances: no hay estado "en alerta" almacenado.
type ThresholdUseCase struct {
	balance  *BalanceUseCase
	itemRepo repository.ItemRepository
}

// NewThresholdUseCase construye el caso de uso.
func NewThresholdUseCase(balance *BalanceUseCase, itemRepo repository.ItemRepository) *ThresholdUseCase {
	return &ThresholdUseCase{balance: balance, itemRepo: itemRepo}
}

// LowStockItems devuelve los ítems del laboratorio cuyo balance es <= su umbral de
// stock bajo. Lista vacía es un resultado legítimo; domain.ErrNotFound solo si el
// laboratorio no existe.
func (uc *ThresholdUseCase) LowStockItems(ctx context.Context, labID string) ([]*entity.Item, error) {
	return uc.itemsBelow(ctx, labID, func(item *entity.Item, balance decimal.Decimal) bool {
		return balance.LessThanOrEqual(item.LowStockThreshold)
	})
}

// OutOfStockItems devuelve los ítems del laboratorio con balance <= 0.
func (uc *ThresholdUseCase) OutOfStockItems(ctx context.Context, labID string) ([]*entity.Item, error) {
	return uc.itemsBelow(ctx, labID, func(_ *entity.Item, balance decimal.Decimal) bool {
		return balance.LessThanOrEqual(decimal.Zero)
	})
}

func (uc *ThresholdUseCase) itemsBelow(
	ctx context.Context,
	labID string,
	match func(item *entity.Item, balance decimal.Decimal) bool,
) ([]*entity.Item, error) {
	balances, err := uc.balance.BalancesByItem(ctx, labID)
	if err != nil {
		return nil, err
	}
	if len(balances) == 0 {
		return []*entity.Item{}, nil
	}

	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	items, err := uc.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	matched := make([]*entity.Item, 0)
	for _, item := range items {
		if match(item, balances[item.ID]) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return matched, nil
}
