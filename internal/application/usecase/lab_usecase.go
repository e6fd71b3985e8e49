package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// LabUseCase casos de uso CRUD para laboratorios.
type LabUseCase struct {
	repo repository.LabRepository
}

// NewLabUseCase construye el caso de uso.
func NewLabUseCase(repo repository.LabRepository) *LabUseCase {
	return &LabUseCase{repo: repo}
}

// Create crea un laboratorio.
func (uc *LabUseCase) Create(ctx context.Context, in dto.CreateLabRequest) (*dto.LabResponse, error) {
	now := time.Now()
	lab := &entity.Lab{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Location:    in.Location,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, lab); err != nil {
		return nil, err
	}
	return dto.ToLabResponse(lab), nil
}

// GetByID obtiene un laboratorio. domain.ErrNotFound si no existe.
func (uc *LabUseCase) GetByID(ctx context.Context, id string) (*dto.LabResponse, error) {
	lab, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	return dto.ToLabResponse(lab), nil
}

// Update actualiza un laboratorio; campos nil no se modifican.
func (uc *LabUseCase) Update(ctx context.Context, id string, in dto.UpdateLabRequest) (*dto.LabResponse, error) {
	lab, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lab == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		lab.Name = *in.Name
	}
	if in.Location != nil {
		lab.Location = *in.Location
	}
	if in.Description != nil {
		lab.Description = *in.Description
	}
	lab.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, lab); err != nil {
		return nil, err
	}
	return dto.ToLabResponse(lab), nil
}

// List lista laboratorios con paginación.
func (uc *LabUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.LabListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LabResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *dto.ToLabResponse(l))
	}
	return &dto.LabListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina un laboratorio. domain.ErrNotFound si no existe.
func (uc *LabUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}
