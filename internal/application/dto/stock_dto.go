package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockInRequest body para POST /api/v1/stocks/in (recepción de stock).
type StockInRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid4"`
	LabID          string          `json:"lab_id" validate:"required,uuid4"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	SupplierID     string          `json:"supplier_id,omitempty" validate:"omitempty,uuid4"`
	BatchNumber    string          `json:"batch_number,omitempty" validate:"omitempty,max=100"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Reference      string          `json:"reference,omitempty" validate:"omitempty,max=255"`
	Reason         string          `json:"reason" validate:"required,max=500"`
}

// StockOutRequest body para POST /api/v1/stocks/out (salida de stock).
type StockOutRequest struct {
	ItemID   string          `json:"item_id" validate:"required,uuid4"`
	LabID    string          `json:"lab_id" validate:"required,uuid4"`
	Quantity decimal.Decimal `json:"quantity" validate:"required"`
	Purpose  string          `json:"purpose,omitempty" validate:"omitempty,max=255"`
	Reason   string          `json:"reason" validate:"required,max=500"`
}

// StockAdjustRequest body para POST /api/v1/stocks/adjust (ajuste manual, delta con signo).
type StockAdjustRequest struct {
	ItemID     string          `json:"item_id" validate:"required,uuid4"`
	LabID      string          `json:"lab_id" validate:"required,uuid4"`
	Adjustment decimal.Decimal `json:"adjustment" validate:"required"`
	Reason     string          `json:"reason" validate:"required,max=500"`
}

// StockTransferRequest body para POST /api/v1/stocks/transfer (traslado entre laboratorios).
type StockTransferRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid4"`
	FromLabID      string          `json:"from_lab_id" validate:"required,uuid4"`
	ToLabID        string          `json:"to_lab_id" validate:"required,uuid4"`
	Quantity       decimal.Decimal `json:"quantity" validate:"required"`
	BatchNumber    string          `json:"batch_number,omitempty" validate:"omitempty,max=100"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	Reason         string          `json:"reason" validate:"required,max=500"`
}

// StockQuantity balance derivado de un ítem en un laboratorio.
type StockQuantity struct {
	ItemID   string          `json:"item_id"`
	ItemName string          `json:"item_name"`
	Quantity decimal.Decimal `json:"quantity"`
}

// InsufficientStockDetails detalle del rechazo por stock insuficiente.
type InsufficientStockDetails struct {
	ItemID    string          `json:"item_id"`
	LabID     string          `json:"lab_id"`
	Available decimal.Decimal `json:"available"`
	Requested decimal.Decimal `json:"requested"`
}
