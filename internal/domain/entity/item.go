package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa un insumo o material de laboratorio. El stock no vive aquí:
// se deriva de los movimientos por laboratorio.
type Item struct {
	ID                string
	Name              string
	Code              string
	LabID             string
	CategoryID        string
	Unit              string // ml, g, unidad, caja...
	LowStockThreshold decimal.Decimal
	ReorderLevel      decimal.Decimal
	MinQuantity       decimal.Decimal
	MaxQuantity       decimal.Decimal
	Location          string
	StorageConditions string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
