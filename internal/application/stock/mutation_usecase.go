package stock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
	"github.com/kartoffan/labstock/internal/domain/repository"
)

// Reintentos acotados ante domain.ErrConflict (fallo de serialización).
const maxTxAttempts = 3

// MutationUseCase coordina todas las escrituras del libro de stock.
//
// Cada operación es transaccional: adquiere el candado del par (ítem, laboratorio),
// verifica precondiciones leyendo el balance dentro de la misma transacción y
// agrega el movimiento como un paso indivisible. Un check-then-append sin candado
// permitiría sobrevender bajo concurrencia; aquí la verificación y el append son
// atómicos respecto a cualquier otro escritor del mismo par.
//
// El actor (performedBy) se recibe explícito en cada mutación; el coordinador no
// consulta ninguna identidad ambiente.
type MutationUseCase struct {
	txRunner     TxRunner
	itemRepo     repository.ItemRepository
	labRepo      repository.LabRepository
	supplierRepo repository.SupplierRepository
	userRepo     repository.UserRepository
}

// NewMutationUseCase construye el coordinador de mutaciones de stock.
func NewMutationUseCase(
	txRunner TxRunner,
	itemRepo repository.ItemRepository,
	labRepo repository.LabRepository,
	supplierRepo repository.SupplierRepository,
	userRepo repository.UserRepository,
) *MutationUseCase {
	return &MutationUseCase{
		txRunner:     txRunner,
		itemRepo:     itemRepo,
		labRepo:      labRepo,
		supplierRepo: supplierRepo,
		userRepo:     userRepo,
	}
}

// Receive registra una entrada de stock (IN). No requiere verificación de balance:
// el stock siempre puede aumentar.
func (uc *MutationUseCase) Receive(ctx context.Context, performedBy string, in dto.StockInRequest) (*entity.StockMovement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.resolveRefs(ctx, in.ItemID, in.LabID, performedBy); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		supplier, err := uc.supplierRepo.GetByID(ctx, in.SupplierID)
		if err != nil {
			return nil, err
		}
		if supplier == nil {
			return nil, domain.ErrNotFound
		}
	}

	var mov *entity.StockMovement
	err := uc.runSerialized(ctx, func(movRepo repository.StockMovementRepository) error {
		if err := movRepo.LockStockKey(ctx, in.ItemID, in.LabID); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:             uuid.New().String(),
			ItemID:         in.ItemID,
			LabID:          in.LabID,
			PerformedBy:    performedBy,
			Type:           entity.MovementTypeIN,
			Quantity:       in.Quantity,
			SupplierID:     in.SupplierID,
			BatchNumber:    in.BatchNumber,
			ExpirationDate: in.ExpirationDate,
			Reference:      in.Reference,
			Reason:         in.Reason,
			Timestamp:      time.Now(),
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Issue registra una salida de stock (OUT). Verifica balance suficiente y agrega
// el movimiento bajo el candado del par; si no alcanza devuelve
// *domain.InsufficientStockError y el libro queda intacto.
func (uc *MutationUseCase) Issue(ctx context.Context, performedBy string, in dto.StockOutRequest) (*entity.StockMovement, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.resolveRefs(ctx, in.ItemID, in.LabID, performedBy); err != nil {
		return nil, err
	}

	var mov *entity.StockMovement
	err := uc.runSerialized(ctx, func(movRepo repository.StockMovementRepository) error {
		if err := movRepo.LockStockKey(ctx, in.ItemID, in.LabID); err != nil {
			return err
		}
		available, err := movRepo.SumByItemAndLab(ctx, in.ItemID, in.LabID)
		if err != nil {
			return err
		}
		if available.LessThan(in.Quantity) {
			return &domain.InsufficientStockError{
				ItemID:    in.ItemID,
				LabID:     in.LabID,
				Available: available,
				Requested: in.Quantity,
			}
		}
		mov = &entity.StockMovement{
			ID:          uuid.New().String(),
			ItemID:      in.ItemID,
			LabID:       in.LabID,
			PerformedBy: performedBy,
			Type:        entity.MovementTypeOUT,
			Quantity:    in.Quantity.Neg(),
			Reference:   in.Purpose,
			Reason:      in.Reason,
			Timestamp:   time.Now(),
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Adjust registra un ajuste manual con el signo que traiga el delta. Sin
// precondición de balance: una corrección administrativa puede dejar el balance
// negativo a propósito (ej. registrar merma descubierta en un recuento).
func (uc *MutationUseCase) Adjust(ctx context.Context, performedBy string, in dto.StockAdjustRequest) (*entity.StockMovement, error) {
	if in.Adjustment.IsZero() || in.Reason == "" {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.resolveRefs(ctx, in.ItemID, in.LabID, performedBy); err != nil {
		return nil, err
	}

	var mov *entity.StockMovement
	err := uc.runSerialized(ctx, func(movRepo repository.StockMovementRepository) error {
		if err := movRepo.LockStockKey(ctx, in.ItemID, in.LabID); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:          uuid.New().String(),
			ItemID:      in.ItemID,
			LabID:       in.LabID,
			PerformedBy: performedBy,
			Type:        entity.MovementTypeADJUST,
			Quantity:    in.Adjustment,
			Reason:      in.Reason,
			Timestamp:   time.Now(),
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return mov, nil
}

// Transfer traslada stock entre dos laboratorios: una pata TRANSFER_OUT en origen
// y una TRANSFER_IN en destino, dentro de la misma transacción. O se comprometen
// ambas o ninguna; un traslado a medias destruiría stock en silencio. Los candados
// de ambos pares se toman en orden determinista para no interbloquear con un
// traslado en sentido contrario.
func (uc *MutationUseCase) Transfer(ctx context.Context, performedBy string, in dto.StockTransferRequest) (outMov, inMov *entity.StockMovement, err error) {
	if !in.Quantity.GreaterThan(decimal.Zero) || in.Reason == "" || in.FromLabID == in.ToLabID {
		return nil, nil, domain.ErrInvalidInput
	}
	if err := uc.resolveRefs(ctx, in.ItemID, in.FromLabID, performedBy); err != nil {
		return nil, nil, err
	}
	toLab, err := uc.labRepo.GetByID(ctx, in.ToLabID)
	if err != nil {
		return nil, nil, err
	}
	if toLab == nil {
		return nil, nil, domain.ErrNotFound
	}

	err = uc.runSerialized(ctx, func(movRepo repository.StockMovementRepository) error {
		first, second := in.FromLabID, in.ToLabID
		if second < first {
			first, second = second, first
		}
		if err := movRepo.LockStockKey(ctx, in.ItemID, first); err != nil {
			return err
		}
		if err := movRepo.LockStockKey(ctx, in.ItemID, second); err != nil {
			return err
		}

		available, err := movRepo.SumByItemAndLab(ctx, in.ItemID, in.FromLabID)
		if err != nil {
			return err
		}
		if available.LessThan(in.Quantity) {
			return &domain.InsufficientStockError{
				ItemID:    in.ItemID,
				LabID:     in.FromLabID,
				Available: available,
				Requested: in.Quantity,
			}
		}

		now := time.Now()
		outMov = &entity.StockMovement{
			ID:          uuid.New().String(),
			ItemID:      in.ItemID,
			LabID:       in.FromLabID,
			PerformedBy: performedBy,
			Type:        entity.MovementTypeTransferOut,
			Quantity:    in.Quantity.Neg(),
			Reference:   "Traslado hacia laboratorio " + in.ToLabID,
			Reason:      in.Reason,
			Timestamp:   now,
		}
		if err := movRepo.Create(ctx, outMov); err != nil {
			return err
		}
		inMov = &entity.StockMovement{
			ID:             uuid.New().String(),
			ItemID:         in.ItemID,
			LabID:          in.ToLabID,
			PerformedBy:    performedBy,
			Type:           entity.MovementTypeTransferIn,
			Quantity:       in.Quantity,
			BatchNumber:    in.BatchNumber,
			ExpirationDate: in.ExpirationDate,
			Reference:      "Traslado desde laboratorio " + in.FromLabID,
			Reason:         in.Reason,
			Timestamp:      now,
		}
		return movRepo.Create(ctx, inMov)
	})
	if err != nil {
		return nil, nil, err
	}
	return outMov, inMov, nil
}

// resolveRefs valida que ítem, laboratorio y actor existan. domain.ErrNotFound si alguno falta.
func (uc *MutationUseCase) resolveRefs(ctx context.Context, itemID, labID, performedBy string) error {
	if itemID == "" || labID == "" || performedBy == "" {
		return domain.ErrInvalidInput
	}
	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	lab, err := uc.labRepo.GetByID(ctx, labID)
	if err != nil {
		return err
	}
	if lab == nil {
		return domain.ErrNotFound
	}
	user, err := uc.userRepo.GetByID(ctx, performedBy)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	return nil
}

// runSerialized ejecuta fn en transacción reintentando solo ante domain.ErrConflict.
// Cualquier otro error (incluido InsufficientStock) se devuelve tal cual; la
// transacción ya quedó revertida por el TxRunner.
func (uc *MutationUseCase) runSerialized(ctx context.Context, fn func(movRepo repository.StockMovementRepository) error) error {
	var err error
	for attempt := 0; attempt < maxTxAttempts; attempt++ {
		err = uc.txRunner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
