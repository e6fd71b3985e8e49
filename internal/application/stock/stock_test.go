package stock_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/application/stock"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: libro de movimientos + runner transaccional con rollback
// ──────────────────────────────────────────────────────────────────────────────

// memLedger libro de movimientos en memoria, compartido entre repo y runner.
type memLedger struct {
	mu        sync.Mutex
	movements []*entity.StockMovement
}

func (l *memLedger) balanceOf(itemID, labID string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balanceOfLocked(itemID, labID)
}

func (l *memLedger) balanceOfLocked(itemID, labID string) decimal.Decimal {
	sum := decimal.Zero
	for _, m := range l.movements {
		if m.ItemID == itemID && m.LabID == labID {
			sum = sum.Add(m.Quantity)
		}
	}
	return sum
}

// memMovementRepo implementa el puerto del libro sobre memLedger. Con inTx=true
// asume que el runner ya sostiene el mutex del libro.
type memMovementRepo struct {
	ledger       *memLedger
	inTx         bool
	failCreateAt int // 1-based: la n-ésima llamada a Create de esta tx falla
	creates      int
}

var _ repository.StockMovementRepository = (*memMovementRepo)(nil)

func (r *memMovementRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.ledger.mu.Lock()
	return r.ledger.mu.Unlock
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	unlock := r.lock()
	defer unlock()
	r.creates++
	if r.failCreateAt > 0 && r.creates == r.failCreateAt {
		return errors.New("fallo inyectado en create")
	}
	clone := *m
	r.ledger.movements = append(r.ledger.movements, &clone)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, id string) (*entity.StockMovement, error) {
	unlock := r.lock()
	defer unlock()
	for _, m := range r.ledger.movements {
		if m.ID == id {
			clone := *m
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *memMovementRepo) List(_ context.Context, filter repository.MovementFilter, limit, offset int) ([]*entity.StockMovement, error) {
	unlock := r.lock()
	defer unlock()
	var matched []*entity.StockMovement
	for _, m := range r.ledger.movements {
		if filter.ItemID != "" && m.ItemID != filter.ItemID {
			continue
		}
		if filter.LabID != "" && m.LabID != filter.LabID {
			continue
		}
		if filter.SupplierID != "" && m.SupplierID != filter.SupplierID {
			continue
		}
		if filter.Type != "" && m.Type != filter.Type {
			continue
		}
		if filter.From != nil && m.Timestamp.Before(*filter.From) {
			continue
		}
		if filter.To != nil && m.Timestamp.After(*filter.To) {
			continue
		}
		clone := *m
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Timestamp.After(matched[j].Timestamp) })
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memMovementRepo) Delete(_ context.Context, id string) error {
	unlock := r.lock()
	defer unlock()
	for i, m := range r.ledger.movements {
		if m.ID == id {
			r.ledger.movements = append(r.ledger.movements[:i], r.ledger.movements[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memMovementRepo) SumByItemAndLab(_ context.Context, itemID, labID string) (decimal.Decimal, error) {
	if r.inTx {
		return r.ledger.balanceOfLocked(itemID, labID), nil
	}
	return r.ledger.balanceOf(itemID, labID), nil
}

func (r *memMovementRepo) SumByLab(_ context.Context, labID string) (map[string]decimal.Decimal, error) {
	unlock := r.lock()
	defer unlock()
	sums := make(map[string]decimal.Decimal)
	for _, m := range r.ledger.movements {
		if m.LabID == labID {
			sums[m.ItemID] = sums[m.ItemID].Add(m.Quantity)
		}
	}
	return sums, nil
}

func (r *memMovementRepo) LockStockKey(_ context.Context, _, _ string) error {
	// El runner en memoria serializa con el mutex del libro.
	return nil
}

// memTxRunner implementa stock.TxRunner: serializa con el mutex del libro y
// revierte el libro al estado previo si el callback falla.
type memTxRunner struct {
	ledger       *memLedger
	conflicts    int // fallos de serialización simulados antes de la primera tx que avanza
	failCreateAt int
}

var _ stock.TxRunner = (*memTxRunner)(nil)

func (r *memTxRunner) Run(_ context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	if r.conflicts > 0 {
		r.conflicts--
		return fmt.Errorf("%w: serialización simulada", domain.ErrConflict)
	}
	snapshot := len(r.ledger.movements)
	repo := &memMovementRepo{ledger: r.ledger, inTx: true, failCreateAt: r.failCreateAt}
	if err := fn(repo); err != nil {
		r.ledger.movements = r.ledger.movements[:snapshot]
		return err
	}
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los repos de referencia (mapas en memoria)
// ──────────────────────────────────────────────────────────────────────────────

type mapItemRepo struct {
	mu    sync.Mutex
	items map[string]*entity.Item
}

var _ repository.ItemRepository = (*mapItemRepo)(nil)

func (r *mapItemRepo) Create(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = item
	return nil
}

func (r *mapItemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id], nil
}

func (r *mapItemRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *mapItemRepo) GetByLabAndCode(_ context.Context, labID, code string) (*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range r.items {
		if item.LabID == labID && item.Code == code {
			return item, nil
		}
	}
	return nil, nil
}

func (r *mapItemRepo) Update(_ context.Context, item *entity.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	r.items[item.ID] = item
	return nil
}

func (r *mapItemRepo) List(_ context.Context, filter repository.ItemFilter, limit, offset int) ([]*entity.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Item
	for _, item := range r.items {
		if filter.LabID != "" && item.LabID != filter.LabID {
			continue
		}
		if filter.CategoryID != "" && item.CategoryID != filter.CategoryID {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Active != nil && item.IsActive != *filter.Active {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *mapItemRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	item.IsActive = active
	return nil
}

type mapLabRepo struct {
	labs map[string]*entity.Lab
}

var _ repository.LabRepository = (*mapLabRepo)(nil)

func (r *mapLabRepo) Create(_ context.Context, lab *entity.Lab) error {
	r.labs[lab.ID] = lab
	return nil
}

func (r *mapLabRepo) GetByID(_ context.Context, id string) (*entity.Lab, error) {
	return r.labs[id], nil
}

func (r *mapLabRepo) Update(_ context.Context, lab *entity.Lab) error {
	if _, ok := r.labs[lab.ID]; !ok {
		return domain.ErrNotFound
	}
	r.labs[lab.ID] = lab
	return nil
}

func (r *mapLabRepo) List(_ context.Context, limit, offset int) ([]*entity.Lab, error) {
	var out []*entity.Lab
	for _, lab := range r.labs {
		out = append(out, lab)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *mapLabRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.labs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.labs, id)
	return nil
}

type mapSupplierRepo struct {
	suppliers map[string]*entity.Supplier
}

var _ repository.SupplierRepository = (*mapSupplierRepo)(nil)

func (r *mapSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	r.suppliers[s.ID] = s
	return nil
}

func (r *mapSupplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.suppliers[id], nil
}

func (r *mapSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	if _, ok := r.suppliers[s.ID]; !ok {
		return domain.ErrNotFound
	}
	r.suppliers[s.ID] = s
	return nil
}

func (r *mapSupplierRepo) List(_ context.Context, activeOnly bool, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, s := range r.suppliers {
		if activeOnly && !s.IsActive {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *mapSupplierRepo) SetActive(_ context.Context, id string, active bool) error {
	s, ok := r.suppliers[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.IsActive = active
	return nil
}

type mapUserRepo struct {
	users map[string]*entity.User
}

var _ repository.UserRepository = (*mapUserRepo)(nil)

func (r *mapUserRepo) Create(_ context.Context, u *entity.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *mapUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.users[id], nil
}

func (r *mapUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (r *mapUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.users[u.ID] = u
	return nil
}

func (r *mapUserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, nil
}

func (r *mapUserRepo) SetStatus(_ context.Context, id, status string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

const (
	itemEthanol = "11111111-1111-4111-8111-111111111111"
	itemBeakers = "22222222-2222-4222-8222-222222222222"
	labCentral  = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
	labAnexo    = "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb"
	supplierQ   = "cccccccc-cccc-4ccc-8ccc-cccccccccccc"
	userManager = "dddddddd-dddd-4ddd-8ddd-dddddddddddd"
)

type stockFixture struct {
	ledger    *memLedger
	runner    *memTxRunner
	items     *mapItemRepo
	labs      *mapLabRepo
	suppliers *mapSupplierRepo
	users     *mapUserRepo

	mutation  *stock.MutationUseCase
	balance   *stock.BalanceUseCase
	threshold *stock.ThresholdUseCase
}

func newStockFixture() *stockFixture {
	now := time.Now()
	ledger := &memLedger{}
	runner := &memTxRunner{ledger: ledger}
	items := &mapItemRepo{items: map[string]*entity.Item{
		itemEthanol: {
			ID: itemEthanol, Name: "Etanol 96%", Code: "ETH-96", LabID: labCentral,
			Unit: "ml", LowStockThreshold: decimal.NewFromInt(5), IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		},
		itemBeakers: {
			ID: itemBeakers, Name: "Vaso de precipitado 250ml", Code: "VP-250", LabID: labCentral,
			Unit: "unidad", LowStockThreshold: decimal.NewFromInt(10), IsActive: true,
			CreatedAt: now, UpdatedAt: now,
		},
	}}
	labs := &mapLabRepo{labs: map[string]*entity.Lab{
		labCentral: {ID: labCentral, Name: "Laboratorio Central"},
		labAnexo:   {ID: labAnexo, Name: "Laboratorio Anexo"},
	}}
	suppliers := &mapSupplierRepo{suppliers: map[string]*entity.Supplier{
		supplierQ: {ID: supplierQ, Name: "Químicos del Sur", IsActive: true},
	}}
	users := &mapUserRepo{users: map[string]*entity.User{
		userManager: {ID: userManager, Email: "manager@lab.local", Role: entity.RoleLabManager, Status: entity.UserStatusActive},
	}}

	movRepo := &memMovementRepo{ledger: ledger}
	balance := stock.NewBalanceUseCase(movRepo, items, labs)
	return &stockFixture{
		ledger:    ledger,
		runner:    runner,
		items:     items,
		labs:      labs,
		suppliers: suppliers,
		users:     users,
		mutation:  stock.NewMutationUseCase(runner, items, labs, suppliers, users),
		balance:   balance,
		threshold: stock.NewThresholdUseCase(balance, items),
	}
}
