package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx).
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, item_id, lab_id, performed_by, type, quantity,
		supplier_id, batch_number, expiration_date, reference, reason, created_at`

// Create persiste un movimiento. El libro no tiene Update: cada fila es definitiva.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	supplierID := nullIfEmpty(m.SupplierID)
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.LabID, m.PerformedBy, m.Type, m.Quantity,
		supplierID, m.BatchNumber, m.ExpirationDate, m.Reference, m.Reason, m.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil, nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List lista movimientos con filtros opcionales, más recientes primero.
// El desempate por id hace la paginación estable entre timestamps iguales.
func (r *StockMovementRepo) List(ctx context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.ItemID != "" {
		query += fmt.Sprintf(" AND item_id = $%d", pos)
		args = append(args, filter.ItemID)
		pos++
	}
	if filter.LabID != "" {
		query += fmt.Sprintf(" AND lab_id = $%d", pos)
		args = append(args, filter.LabID)
		pos++
	}
	if filter.SupplierID != "" {
		query += fmt.Sprintf(" AND supplier_id = $%d", pos)
		args = append(args, filter.SupplierID)
		pos++
	}
	if filter.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, filter.Type)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento de forma definitiva. domain.ErrNotFound si no existe.
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByItemAndLab deriva el balance del par (ítem, laboratorio) sumando el libro.
func (r *StockMovementRepo) SumByItemAndLab(ctx context.Context, itemID, labID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM stock_movements WHERE item_id = $1 AND lab_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, itemID, labID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum by item and lab: %w", err)
	}
	return sum, nil
}

// SumByLab deriva todos los balances de un laboratorio en una sola pasada.
// Ítems sin movimientos no aparecen en el mapa.
func (r *StockMovementRepo) SumByLab(ctx context.Context, labID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, COALESCE(SUM(quantity), 0)
		FROM stock_movements WHERE lab_id = $1
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, labID)
	if err != nil {
		return nil, fmt.Errorf("sum by lab: %w", err)
	}
	defer rows.Close()
	sums := make(map[string]decimal.Decimal)
	for rows.Next() {
		var itemID string
		var sum decimal.Decimal
		if err := rows.Scan(&itemID, &sum); err != nil {
			return nil, fmt.Errorf("scan sum: %w", err)
		}
		sums[itemID] = sum
	}
	return sums, rows.Err()
}

// LockStockKey serializa a los escritores del par (ítem, laboratorio) con un
// advisory lock transaccional. No existe fila de stock que bloquear con FOR UPDATE
// porque el balance es derivado, así que el lock va sobre el hash de la clave.
// Se libera solo al terminar la transacción.
func (r *StockMovementRepo) LockStockKey(ctx context.Context, itemID, labID string) error {
	query := `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`
	if _, err := r.q.Exec(ctx, query, itemID+":"+labID); err != nil {
		return fmt.Errorf("lock stock key: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	var supplierID *string
	err := row.Scan(
		&m.ID, &m.ItemID, &m.LabID, &m.PerformedBy, &m.Type, &m.Quantity,
		&supplierID, &m.BatchNumber, &m.ExpirationDate, &m.Reference, &m.Reason, &m.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	if supplierID != nil {
		m.SupplierID = *supplierID
	}
	return &m, nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
