package movement_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/application/movement"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// fakeLedger fake mínimo del libro para consultas y borrado.
type fakeLedger struct {
	movements []*entity.StockMovement
}

var _ repository.StockMovementRepository = (*fakeLedger)(nil)

func (f *fakeLedger) Create(_ context.Context, m *entity.StockMovement) error {
	f.movements = append(f.movements, m)
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	for _, m := range f.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range f.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.LabID != "" && m.LabID != filter.LabID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) Delete(_ context.Context, id string) error {
	for i, m := range f.movements {
		if m.ID == id {
			f.movements = append(f.movements[:i], f.movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeLedger) SumByItemAndLab(_ context.Context, itemID, labID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, m := range f.movements {
		if m.ItemID == itemID && m.LabID == labID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum, nil
}

func (f *fakeLedger) SumByLab(_ context.Context, labID string) (map[string]decimal.Decimal, error) {
	sums := make(map[string]decimal.Decimal)
	for _, m := range f.movements {
		if m.LabID == labID {
			sums[m.ItemID] = sums[m.ItemID].Add(m.Quantity)
		}
	}
	return sums, nil
}

func (f *fakeLedger) LockStockKey(_ context.Context, _, _ string) error { return nil }

func seededLedger() *fakeLedger {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return &fakeLedger{movements: []*entity.StockMovement{
		{ID: "m1", ItemID: "item-1", LabID: "lab-1", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(10), Reason: "compra", Timestamp: base},
		{ID: "m2", ItemID: "item-1", LabID: "lab-1", Type: entity.MovementTypeOUT, Quantity: decimal.NewFromInt(-4), Reason: "consumo", Timestamp: base.Add(time.Hour)},
		{ID: "m3", ItemID: "item-2", LabID: "lab-2", Type: entity.MovementTypeIN, Quantity: decimal.NewFromInt(2), Reason: "compra", Timestamp: base.Add(2 * time.Hour)},
	}}
}

func TestGetByID_Existente(t *testing.T) {
	uc := movement.NewUseCase(seededLedger())
	out, err := uc.GetByID(context.Background(), "m2")
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeOUT, out.Type)
	assert.True(t, out.Quantity.Equal(decimal.NewFromInt(-4)))
}

func TestGetByID_Inexistente_NotFound(t *testing.T) {
	uc := movement.NewUseCase(seededLedger())
	_, err := uc.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorItemYOrdenDescendente(t *testing.T) {
	uc := movement.NewUseCase(seededLedger())
	out, err := uc.List(context.Background(), dto.MovementFilterRequest{ItemID: "item-1"}, dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "m2", out.Items[0].ID, "más reciente primero")
	assert.Equal(t, "m1", out.Items[1].ID)
	assert.Equal(t, 20, out.Page.Limit, "paginación por defecto")
}

func TestList_SinResultados_PaginaVacia(t *testing.T) {
	uc := movement.NewUseCase(seededLedger())
	out, err := uc.List(context.Background(), dto.MovementFilterRequest{LabID: "lab-99"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestDelete_CambiaBalanceRetroactivamente(t *testing.T) {
	ledger := seededLedger()
	uc := movement.NewUseCase(ledger)
	ctx := context.Background()

	before, err := ledger.SumByItemAndLab(ctx, "item-1", "lab-1")
	require.NoError(t, err)
	require.True(t, before.Equal(decimal.NewFromInt(6)))

	require.NoError(t, uc.Delete(ctx, "m2"))

	// El balance derivado ya no incluye el movimiento borrado.
	after, err := ledger.SumByItemAndLab(ctx, "item-1", "lab-1")
	require.NoError(t, err)
	assert.True(t, after.Equal(decimal.NewFromInt(10)))
}

func TestDelete_Inexistente_NotFound(t *testing.T) {
	uc := movement.NewUseCase(seededLedger())
	err := uc.Delete(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
