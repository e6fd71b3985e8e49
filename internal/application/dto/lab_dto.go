package dto

import (
	"time"

	"github.com/kartoffan/labstock/internal/domain/entity"
)

// CreateLabRequest body para POST /api/v1/labs.
type CreateLabRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Location    string `json:"location,omitempty" validate:"omitempty,max=255"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// UpdateLabRequest body para PUT /api/v1/labs/{id}.
type UpdateLabRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=150"`
	Location    *string `json:"location,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// LabResponse representación HTTP de un laboratorio.
type LabResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LabListResponse página de laboratorios.
type LabListResponse struct {
	Items []LabResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// ToLabResponse convierte la entidad a su representación HTTP.
func ToLabResponse(l *entity.Lab) *LabResponse {
	if l == nil {
		return nil
	}
	return &LabResponse{
		ID:          l.ID,
		Name:        l.Name,
		Location:    l.Location,
		Description: l.Description,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
