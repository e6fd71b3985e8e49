package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// CreateItemRequest body para POST /api/v1/items.
type CreateItemRequest struct {
	Name              string           `json:"name" validate:"required,max=150"`
	Code              string           `json:"code,omitempty" validate:"omitempty,max=50"`
	LabID             string           `json:"lab_id" validate:"required,uuid4"`
	CategoryID        string           `json:"category_id" validate:"required,uuid4"`
	Unit              string           `json:"unit" validate:"required,max=10"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	ReorderLevel      *decimal.Decimal `json:"reorder_level,omitempty"`
	MinQuantity       *decimal.Decimal `json:"min_quantity,omitempty"`
	MaxQuantity       *decimal.Decimal `json:"max_quantity,omitempty"`
	Location          string           `json:"location,omitempty" validate:"omitempty,max=100"`
	StorageConditions string           `json:"storage_conditions,omitempty" validate:"omitempty,max=255"`
}

// UpdateItemRequest body para PUT /api/v1/items/{id}. Campos nil no se modifican.
type UpdateItemRequest struct {
	Name              *string          `json:"name,omitempty" validate:"omitempty,max=150"`
	Code              *string          `json:"code,omitempty" validate:"omitempty,max=50"`
	CategoryID        *string          `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Unit              *string          `json:"unit,omitempty" validate:"omitempty,max=10"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	ReorderLevel      *decimal.Decimal `json:"reorder_level,omitempty"`
	MinQuantity       *decimal.Decimal `json:"min_quantity,omitempty"`
	MaxQuantity       *decimal.Decimal `json:"max_quantity,omitempty"`
	Location          *string          `json:"location,omitempty" validate:"omitempty,max=100"`
	StorageConditions *string          `json:"storage_conditions,omitempty" validate:"omitempty,max=255"`
}

// ItemFilterRequest filtros de query para GET /api/v1/items.
type ItemFilterRequest struct {
	LabID      string `query:"lab_id" validate:"omitempty,uuid4"`
	CategoryID string `query:"category_id" validate:"omitempty,uuid4"`
	Name       string `query:"name"`
	Active     *bool  `query:"active"`
}

// ItemResponse representación HTTP de un ítem.
type ItemResponse struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Code              string          `json:"code,omitempty"`
	LabID             string          `json:"lab_id"`
	CategoryID        string          `json:"category_id"`
	Unit              string          `json:"unit"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	ReorderLevel      decimal.Decimal `json:"reorder_level"`
	MinQuantity       decimal.Decimal `json:"min_quantity"`
	MaxQuantity       decimal.Decimal `json:"max_quantity"`
	Location          string          `json:"location,omitempty"`
	StorageConditions string          `json:"storage_conditions,omitempty"`
	IsActive          bool            `json:"is_active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ItemListResponse página de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ToItemResponse convierte la entidad a su representación HTTP.
func ToItemResponse(i *entity.Item) *ItemResponse {
	if i == nil {
		return nil
	}
	return &ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Code:              i.Code,
		LabID:             i.LabID,
		CategoryID:        i.CategoryID,
		Unit:              i.Unit,
		LowStockThreshold: i.LowStockThreshold,
		ReorderLevel:      i.ReorderLevel,
		MinQuantity:       i.MinQuantity,
		MaxQuantity:       i.MaxQuantity,
		Location:          i.Location,
		StorageConditions: i.StorageConditions,
		IsActive:          i.IsActive,
		CreatedAt:         i.CreatedAt,
		UpdatedAt:         i.UpdatedAt,
	}
}
