package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para ítems. El stock no se toca aquí: se deriva
// del libro de movimientos.
type ItemUseCase struct {
	repo         repository.ItemRepository
	labRepo      repository.LabRepository
	categoryRepo repository.CategoryRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, labRepo repository.LabRepository, categoryRepo repository.CategoryRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo, labRepo: labRepo, categoryRepo: categoryRepo}
}

// Create crea un ítem. Nombre único por laboratorio; umbral de stock bajo por defecto 5.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	lab, err := uc.labRepo.GetByID(ctx, in.LabID)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	category, err := uc.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrNotFound
	}
	if in.Code != "" {
		existing, err := uc.repo.GetByLabAndCode(ctx, in.LabID, in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}

	threshold := decimal.NewFromInt(5)
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}
	now := time.Now()
	item := &entity.Item{
		ID:                uuid.New().String(),
		Name:              in.Name,
		Code:              in.Code,
		LabID:             in.LabID,
		CategoryID:        in.CategoryID,
		Unit:              in.Unit,
		LowStockThreshold: threshold,
		ReorderLevel:      derefOrZero(in.ReorderLevel),
		MinQuantity:       derefOrZero(in.MinQuantity),
		MaxQuantity:       derefOrZero(in.MaxQuantity),
		Location:          in.Location,
		StorageConditions: in.StorageConditions,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// GetByID obtiene un ítem. domain.ErrNotFound si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToItemResponse(item), nil
}

// Update actualiza un ítem; campos nil no se modifican.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Code != nil && *in.Code != item.Code {
		if *in.Code != "" {
			existing, err := uc.repo.GetByLabAndCode(ctx, item.LabID, *in.Code)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != item.ID {
				return nil, domain.ErrDuplicate
			}
		}
		item.Code = *in.Code
	}
	if in.CategoryID != nil {
		category, err := uc.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		if category == nil {
			return nil, domain.ErrNotFound
		}
		item.CategoryID = *in.CategoryID
	}
	if in.Unit != nil {
		item.Unit = *in.Unit
	}
	if in.LowStockThreshold != nil {
		item.LowStockThreshold = *in.LowStockThreshold
	}
	if in.ReorderLevel != nil {
		item.ReorderLevel = *in.ReorderLevel
	}
	if in.MinQuantity != nil {
		item.MinQuantity = *in.MinQuantity
	}
	if in.MaxQuantity != nil {
		item.MaxQuantity = *in.MaxQuantity
	}
	if in.Location != nil {
		item.Location = *in.Location
	}
	if in.StorageConditions != nil {
		item.StorageConditions = *in.StorageConditions
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return dto.ToItemResponse(item), nil
}

// List lista ítems con filtros y paginación.
func (uc *ItemUseCase) List(ctx context.Context, filter dto.ItemFilterRequest, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, repository.ItemFilter{
		LabID:      filter.LabID,
		CategoryID: filter.CategoryID,
		Name:       filter.Name,
		Active:     filter.Active,
	}, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, i := range list {
		items = append(items, *dto.ToItemResponse(i))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Archive desactiva un ítem (no se borra: los movimientos lo referencian).
func (uc *ItemUseCase) Archive(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, false)
}

// Unarchive reactiva un ítem archivado.
func (uc *ItemUseCase) Unarchive(ctx context.Context, id string) error {
	return uc.setActive(ctx, id, true)
}

func (uc *ItemUseCase) setActive(ctx context.Context, id string, active bool) error {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.SetActive(ctx, id, active)
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
