package entity

import "time"

// Supplier representa un proveedor de insumos (referenciado por entradas IN).
type Supplier struct {
	ID          string
	Name        string
	ContactName string
	Email       string
	Phone       string
	Address     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
