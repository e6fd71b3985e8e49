package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// MovementFilterRequest filtros de query para GET /api/v1/stock-movements.
type MovementFilterRequest struct {
	ItemID     string     `query:"item_id" validate:"omitempty,uuid4"`
	LabID      string     `query:"lab_id" validate:"omitempty,uuid4"`
	SupplierID string     `query:"supplier_id" validate:"omitempty,uuid4"`
	Type       string     `query:"type" validate:"omitempty,oneof=IN OUT ADJUST TRANSFER_IN TRANSFER_OUT"`
	From       *time.Time `query:"from"`
	To         *time.Time `query:"to"`
}

// MovementResponse representación HTTP de un movimiento del libro.
type MovementResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	LabID          string          `json:"lab_id"`
	PerformedBy    string          `json:"performed_by"`
	Type           string          `json:"type"`
	Quantity       decimal.Decimal `json:"quantity"`
	SupplierID     string          `json:"supplier_id,omitempty"`
	BatchNumber    string          `json:"batch_number,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Reason         string          `json:"reason"`
	Timestamp      time.Time       `json:"timestamp"`
}

// MovementListResponse página de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToMovementResponse convierte la entidad a su representación HTTP.
func ToMovementResponse(m *entity.StockMovement) *MovementResponse {
	if m == nil {
		return nil
	}
	return &MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		LabID:          m.LabID,
		PerformedBy:    m.PerformedBy,
		Type:           m.Type,
		Quantity:       m.Quantity,
		SupplierID:     m.SupplierID,
		BatchNumber:    m.BatchNumber,
		ExpirationDate: m.ExpirationDate,
		Reference:      m.Reference,
		Reason:         m.Reason,
		Timestamp:      m.Timestamp,
	}
}
