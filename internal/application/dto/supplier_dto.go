package dto

import (
	"time"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// CreateSupplierRequest body para POST /api/v1/suppliers.
type CreateSupplierRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	ContactName string `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	Email       string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// UpdateSupplierRequest body para PUT /api/v1/suppliers/{id}.
type UpdateSupplierRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	ContactName *string `json:"contact_name,omitempty" validate:"omitempty,max=150"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone       *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=255"`
}

// SupplierResponse representación HTTP de un proveedor.
type SupplierResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SupplierListResponse página de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// ToSupplierResponse convierte la entidad a su representación HTTP.
func ToSupplierResponse(s *entity.Supplier) *SupplierResponse {
	if s == nil {
		return nil
	}
	return &SupplierResponse{
		ID:          s.ID,
		Name:        s.Name,
		ContactName: s.ContactName,
		Email:       s.Email,
		Phone:       s.Phone,
		Address:     s.Address,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
