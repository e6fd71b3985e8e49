package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

var _ repository.LabRepository = (*LabRepo)(nil)

// LabRepo implementación de LabRepository sobre PostgreSQL (usable con pool o tx).
type LabRepo struct {
	q Querier
}

// NewLabRepository construye el adaptador de laboratorios.
func NewLabRepository(q Querier) *LabRepo {
	return &LabRepo{q: q}
}

// Create persiste un laboratorio.
func (r *LabRepo) Create(ctx context.Context, lab *entity.Lab) error {
	query := `
		INSERT INTO labs (id, name, location, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		lab.ID, lab.Name, lab.Location, lab.Description, lab.CreatedAt, lab.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create lab: %w", err)
	}
	return nil
}

// GetByID obtiene un laboratorio. Devuelve nil, nil si no existe.
func (r *LabRepo) GetByID(ctx context.Context, id string) (*entity.Lab, error) {
	query := `
		SELECT id, name, location, description, created_at, updated_at
		FROM labs WHERE id = $1`
	var l entity.Lab
	err := r.q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Location, &l.Description, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lab: %w", err)
	}
	return &l, nil
}

// Update actualiza un laboratorio existente.
func (r *LabRepo) Update(ctx context.Context, lab *entity.Lab) error {
	query := `
		UPDATE labs SET name = $2, location = $3, description = $4, updated_at = $5
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		lab.ID, lab.Name, lab.Location, lab.Description, lab.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update lab: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista laboratorios ordenados por nombre.
func (r *LabRepo) List(ctx context.Context, limit, offset int) ([]*entity.Lab, error) {
	query := `
		SELECT id, name, location, description, created_at, updated_at
		FROM labs ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	defer rows.Close()
	var list []*entity.Lab
	for rows.Next() {
		var l entity.Lab
		if err := rows.Scan(&l.ID, &l.Name, &l.Location, &l.Description, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan lab: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// Delete elimina un laboratorio. domain.ErrNotFound si no existe;
// domain.ErrConflict si tiene ítems o movimientos asociados.
func (r *LabRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM labs WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete lab: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
