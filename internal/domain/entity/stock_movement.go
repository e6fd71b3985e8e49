package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIN          = "IN"           // entrada (recepción de proveedor, devolución)
	MovementTypeOUT         = "OUT"          // salida (consumo)
	MovementTypeADJUST      = "ADJUST"       // ajuste manual (recuento, corrección, merma)
	MovementTypeTransferIn  = "TRANSFER_IN"  // pata de crédito de un traslado entre laboratorios
	MovementTypeTransferOut = "TRANSFER_OUT" // pata de débito de un traslado entre laboratorios
)

// ValidMovementType indica si el tipo es uno de los cinco conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeIN, MovementTypeOUT, MovementTypeADJUST, MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// StockMovement es un registro inmutable del libro de stock: un cambio de cantidad
// de un ítem dentro de un laboratorio. El balance nunca se almacena aparte; siempre
// se deriva como la suma de Quantity de los movimientos comprometidos del par
// (ítem, laboratorio), por lo que no puede divergir del historial.
//
// Convención de signo: IN y TRANSFER_IN positivos, OUT y TRANSFER_OUT negativos,
// ADJUST lleva el delta con el signo que indique el solicitante.
type StockMovement struct {
	ID          string
	ItemID      string
	LabID       string
	PerformedBy string // UserID del actor; siempre explícito, nunca ambiente
	Type        string
	Quantity    decimal.Decimal

	SupplierID     string // solo con sentido para IN
	BatchNumber    string
	ExpirationDate *time.Time
	Reference      string // factura, orden, laboratorio contraparte en traslados
	Reason         string

	Timestamp time.Time // asignado al confirmar; no monotónico entre escritores concurrentes
}
