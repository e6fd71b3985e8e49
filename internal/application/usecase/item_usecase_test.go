package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/application/usecase"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

const (
	testLabID      = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	testCategoryID = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
)

type stubItemRepo struct {
	items map[string]*entity.Item
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

func (r *stubItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.items[item.ID] = item
	return nil
}

func (r *stubItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	return r.items[id], nil
}

func (r *stubItemRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *stubItemRepo) GetByLabAndCode(_ context.Context, labID, code string) (*entity.Item, error) {
	for _, item := range r.items {
		if item.LabID == labID && item.Code == code {
			return item, nil
		}
	}
	return nil, nil
}

func (r *stubItemRepo) Update(_ context.Context, item *entity.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *stubItemRepo) List(_ context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.Item, error) {
	var out []*entity.Item
	for _, item := range r.items {
		if filter.Active != nil && item.IsActive != *filter.Active {
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *stubItemRepo) SetActive(_ context.Context, id string, active bool) error {
	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = active
	return nil
}

type stubLabRepo struct{ labs map[string]*entity.Lab }

var _ repository.LabRepository = (*stubLabRepo)(nil)

func (r *stubLabRepo) Create(_ context.Context, lab *entity.Lab) error { r.labs[lab.ID] = lab; return nil }
func (r *stubLabRepo) GetByID(_ context.Context, id string) (*entity.Lab, error) {
	return r.labs[id], nil
}
func (r *stubLabRepo) Update(_ context.Context, lab *entity.Lab) error { r.labs[lab.ID] = lab; return nil }
func (r *stubLabRepo) List(_ context.Context, limit, offset int) ([]*entity.Lab, error) {
	return nil, nil
}
func (r *stubLabRepo) Delete(_ context.Context, id string) error { delete(r.labs, id); return nil }

type stubCategoryRepo struct{ categories map[string]*entity.Category }

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func (r *stubCategoryRepo) Create(_ context.Context, c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}
func (r *stubCategoryRepo) GetByID(_ context.Context, id string) (*entity.Category, error) {
	return r.categories[id], nil
}
func (r *stubCategoryRepo) GetByName(_ context.Context, name string) (*entity.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, nil
}
func (r *stubCategoryRepo) Update(_ context.Context, c *entity.Category) error {
	r.categories[c.ID] = c
	return nil
}
func (r *stubCategoryRepo) List(_ context.Context, limit, offset int) ([]*entity.Category, error) {
	return nil, nil
}
func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	delete(r.categories, id)
	return nil
}

func newItemUC() (*usecase.ItemUseCase, *stubItemRepo) {
	items := &stubItemRepo{items: map[string]*entity.Item{}}
	labs := &stubLabRepo{labs: map[string]*entity.Lab{
		testLabID: {ID: testLabID, Name: "Laboratorio Central"},
	}}
	categories := &stubCategoryRepo{categories: map[string]*entity.Category{
		testCategoryID: {ID: testCategoryID, Name: "Reactivos"},
	}}
	return usecase.NewItemUseCase(items, labs, categories), items
}

func TestItemCreate_UmbralPorDefecto(t *testing.T) {
	uc, _ := newItemUC()
	out, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name:       "Etanol 96%",
		Code:       "ETH-96",
		LabID:      testLabID,
		CategoryID: testCategoryID,
		Unit:       "ml",
	})
	require.NoError(t, err)
	assert.True(t, out.LowStockThreshold.Equal(decimal.NewFromInt(5)),
		"sin umbral explícito se usa 5")
	assert.True(t, out.IsActive)
	assert.NotEmpty(t, out.ID)
}

func TestItemCreate_UmbralExplicito(t *testing.T) {
	uc, _ := newItemUC()
	threshold := decimal.NewFromInt(20)
	out, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name:              "Guantes de nitrilo",
		LabID:             testLabID,
		CategoryID:        testCategoryID,
		Unit:              "caja",
		LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.True(t, out.LowStockThreshold.Equal(threshold))
}

func TestItemCreate_CodigoDuplicadoEnLaboratorio(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateItemRequest{
		Name: "Etanol", Code: "ETH-96", LabID: testLabID, CategoryID: testCategoryID, Unit: "ml",
	})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateItemRequest{
		Name: "Etanol absoluto", Code: "ETH-96", LabID: testLabID, CategoryID: testCategoryID, Unit: "ml",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemCreate_LaboratorioInexistente_NotFound(t *testing.T) {
	uc, _ := newItemUC()
	_, err := uc.Create(context.Background(), dto.CreateItemRequest{
		Name: "Etanol", LabID: "99999999-9999-4999-8999-999999999999", CategoryID: testCategoryID, Unit: "ml",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUpdate_CamposNilNoSeModifican(t *testing.T) {
	uc, _ := newItemUC()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateItemRequest{
		Name: "Etanol", Code: "ETH-96", LabID: testLabID, CategoryID: testCategoryID, Unit: "ml",
	})
	require.NoError(t, err)

	newName := "Etanol 96% v/v"
	out, err := uc.Update(ctx, created.ID, dto.UpdateItemRequest{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, out.Name)
	assert.Equal(t, "ETH-96", out.Code, "el código no cambia si no se envía")
	assert.Equal(t, "ml", out.Unit)
}

func TestItemArchive_LuegoUnarchive(t *testing.T) {
	uc, items := newItemUC()
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateItemRequest{
		Name: "Etanol", LabID: testLabID, CategoryID: testCategoryID, Unit: "ml",
	})
	require.NoError(t, err)

	require.NoError(t, uc.Archive(ctx, created.ID))
	assert.False(t, items.items[created.ID].IsActive)

	require.NoError(t, uc.Unarchive(ctx, created.ID))
	assert.True(t, items.items[created.ID].IsActive)
}

func TestItemArchive_Inexistente_NotFound(t *testing.T) {
	uc, _ := newItemUC()
	err := uc.Archive(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
