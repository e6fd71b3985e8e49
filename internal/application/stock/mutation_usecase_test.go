package stock_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/domain"
	"github.com/kartoffan/labstock/internal/domain/entity"
)

func receive(t *testing.T, f *stockFixture, qty int64) *entity.StockMovement {
	t.Helper()
	mov, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(qty),
		Reason:   "recepción de proveedor",
	})
	require.NoError(t, err)
	return mov
}

// ──────────────────────────────────────────────────────────────────────────────
// Receive (IN)
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_CreaMovimientoINPositivo(t *testing.T) {
	f := newStockFixture()
	mov, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:      itemEthanol,
		LabID:       labCentral,
		Quantity:    decimal.NewFromInt(10),
		SupplierID:  supplierQ,
		BatchNumber: "L-2026-08",
		Reference:   "Factura 4412",
		Reason:      "compra mensual",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeIN, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(10)), "IN guarda cantidad positiva")
	assert.Equal(t, userManager, mov.PerformedBy)
	assert.Equal(t, supplierQ, mov.SupplierID)
	assert.NotEmpty(t, mov.ID)
	assert.False(t, mov.Timestamp.IsZero())
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(10)))
}

func TestReceive_CantidadNoPositiva_Rechazada(t *testing.T) {
	f := newStockFixture()
	for _, qty := range []int64{0, -3} {
		_, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
			ItemID:   itemEthanol,
			LabID:    labCentral,
			Quantity: decimal.NewFromInt(qty),
			Reason:   "x",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Empty(t, f.ledger.movements, "el libro queda intacto tras rechazos")
}

func TestReceive_SinReason_Rechazada(t *testing.T) {
	f := newStockFixture()
	_, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReceive_ItemInexistente_NotFound(t *testing.T) {
	f := newStockFixture()
	_, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:   "99999999-9999-4999-8999-999999999999",
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(1),
		Reason:   "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceive_ProveedorInexistente_NotFound(t *testing.T) {
	f := newStockFixture()
	_, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:     itemEthanol,
		LabID:      labCentral,
		Quantity:   decimal.NewFromInt(1),
		SupplierID: "99999999-9999-4999-8999-999999999999",
		Reason:     "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Issue (OUT)
// ──────────────────────────────────────────────────────────────────────────────

func TestIssue_GuardaCantidadNegativa(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 10)

	mov, err := f.mutation.Issue(context.Background(), userManager, dto.StockOutRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(3),
		Purpose:  "práctica de química orgánica",
		Reason:   "consumo docente",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeOUT, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(-3)), "OUT guarda cantidad negativa")
	assert.Equal(t, "práctica de química orgánica", mov.Reference)
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(7)))
}

func TestIssue_StockInsuficiente_RechazaYNoTocaElLibro(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 10)

	// 10 - 3 - 5 = 2; pedir 10 debe fallar con el detalle del rechazo.
	for _, qty := range []int64{3, 5} {
		_, err := f.mutation.Issue(context.Background(), userManager, dto.StockOutRequest{
			ItemID:   itemEthanol,
			LabID:    labCentral,
			Quantity: decimal.NewFromInt(qty),
			Reason:   "consumo",
		})
		require.NoError(t, err)
	}

	before := len(f.ledger.movements)
	_, err := f.mutation.Issue(context.Background(), userManager, dto.StockOutRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(10),
		Reason:   "consumo",
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(2)))
	assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, before, len(f.ledger.movements), "el rechazo no agrega movimientos")
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(2)))
}

func TestIssue_BalanceExacto_Permitido(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 4)

	_, err := f.mutation.Issue(context.Background(), userManager, dto.StockOutRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(4),
		Reason:   "consumo total",
	})
	require.NoError(t, err)
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).IsZero())
}

func TestIssue_ConcurrenciaNoSobrevende(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 5)

	const writers = 10
	var wg sync.WaitGroup
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.mutation.Issue(context.Background(), userManager, dto.StockOutRequest{
				ItemID:   itemEthanol,
				LabID:    labCentral,
				Quantity: decimal.NewFromInt(1),
				Reason:   "consumo concurrente",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, rejected int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 5, ok, "solo caben 5 salidas de 1 unidad")
	assert.Equal(t, 5, rejected)
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).IsZero(),
		"el balance nunca baja de cero por salidas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Adjust
// ──────────────────────────────────────────────────────────────────────────────

func TestAdjust_DeltaConSigno_SinPrecondicionDeBalance(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 2)

	// Merma descubierta en recuento: el ajuste puede dejar el balance negativo.
	mov, err := f.mutation.Adjust(context.Background(), userManager, dto.StockAdjustRequest{
		ItemID:     itemEthanol,
		LabID:      labCentral,
		Adjustment: decimal.NewFromInt(-5),
		Reason:     "merma por evaporación",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeADJUST, mov.Type)
	assert.True(t, mov.Quantity.Equal(decimal.NewFromInt(-5)))
	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(-3)),
		"el recuento físico manda aunque deje negativo")
}

func TestAdjust_DeltaCero_Rechazado(t *testing.T) {
	f := newStockFixture()
	_, err := f.mutation.Adjust(context.Background(), userManager, dto.StockAdjustRequest{
		ItemID:     itemEthanol,
		LabID:      labCentral,
		Adjustment: decimal.Zero,
		Reason:     "nada",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Transfer
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_DosPatasAtomicas(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 10)

	outMov, inMov, err := f.mutation.Transfer(context.Background(), userManager, dto.StockTransferRequest{
		ItemID:    itemEthanol,
		FromLabID: labCentral,
		ToLabID:   labAnexo,
		Quantity:  decimal.NewFromInt(2),
		Reason:    "préstamo entre sedes",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeTransferOut, outMov.Type)
	assert.True(t, outMov.Quantity.Equal(decimal.NewFromInt(-2)))
	assert.Equal(t, labCentral, outMov.LabID)
	assert.Equal(t, entity.MovementTypeTransferIn, inMov.Type)
	assert.True(t, inMov.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, labAnexo, inMov.LabID)
	assert.Equal(t, outMov.Timestamp, inMov.Timestamp, "ambas patas comparten timestamp")

	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(8)))
	assert.True(t, f.ledger.balanceOf(itemEthanol, labAnexo).Equal(decimal.NewFromInt(2)))
}

func TestTransfer_StockInsuficienteEnOrigen_Rechazado(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 1)

	_, _, err := f.mutation.Transfer(context.Background(), userManager, dto.StockTransferRequest{
		ItemID:    itemEthanol,
		FromLabID: labCentral,
		ToLabID:   labAnexo,
		Quantity:  decimal.NewFromInt(5),
		Reason:    "préstamo",
	})

	var insufficient *domain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, labCentral, insufficient.LabID, "el rechazo señala el laboratorio de origen")
	assert.True(t, f.ledger.balanceOf(itemEthanol, labAnexo).IsZero(), "el destino no recibe nada")
}

func TestTransfer_FalloEnSegundaPata_RevierteAmbas(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 10)

	// La segunda llamada a Create dentro de la tx (la pata TRANSFER_IN) falla.
	f.runner.failCreateAt = 2
	_, _, err := f.mutation.Transfer(context.Background(), userManager, dto.StockTransferRequest{
		ItemID:    itemEthanol,
		FromLabID: labCentral,
		ToLabID:   labAnexo,
		Quantity:  decimal.NewFromInt(4),
		Reason:    "préstamo",
	})
	require.Error(t, err)

	assert.True(t, f.ledger.balanceOf(itemEthanol, labCentral).Equal(decimal.NewFromInt(10)),
		"el origen no pierde stock si la pata de destino falló")
	assert.True(t, f.ledger.balanceOf(itemEthanol, labAnexo).IsZero(),
		"no queda media transferencia en el libro")
}

func TestTransfer_MismoLaboratorio_Rechazado(t *testing.T) {
	f := newStockFixture()
	_, _, err := f.mutation.Transfer(context.Background(), userManager, dto.StockTransferRequest{
		ItemID:    itemEthanol,
		FromLabID: labCentral,
		ToLabID:   labCentral,
		Quantity:  decimal.NewFromInt(1),
		Reason:    "x",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransfer_LaboratorioDestinoInexistente_NotFound(t *testing.T) {
	f := newStockFixture()
	receive(t, f, 3)
	_, _, err := f.mutation.Transfer(context.Background(), userManager, dto.StockTransferRequest{
		ItemID:    itemEthanol,
		FromLabID: labCentral,
		ToLabID:   "99999999-9999-4999-8999-999999999999",
		Quantity:  decimal.NewFromInt(1),
		Reason:    "x",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reintentos ante conflictos de serialización
// ──────────────────────────────────────────────────────────────────────────────

func TestRunSerialized_ReintentaTrasConflicto(t *testing.T) {
	f := newStockFixture()
	f.runner.conflicts = 2 // dos fallos de serialización, el tercer intento avanza

	mov, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(1),
		Reason:   "recepción con contención",
	})
	require.NoError(t, err)
	assert.NotNil(t, mov)
	assert.Len(t, f.ledger.movements, 1, "los intentos fallidos no dejan rastro")
}

func TestRunSerialized_AgotaReintentos_DevuelveConflicto(t *testing.T) {
	f := newStockFixture()
	f.runner.conflicts = 10 // más que el máximo de intentos

	_, err := f.mutation.Receive(context.Background(), userManager, dto.StockInRequest{
		ItemID:   itemEthanol,
		LabID:    labCentral,
		Quantity: decimal.NewFromInt(1),
		Reason:   "recepción",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.ledger.movements)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo: ciclo de vida del etanol
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_CicloCompletoDeStock(t *testing.T) {
	f := newStockFixture()
	ctx := context.Background()

	receive(t, f, 10)

	_, err := f.mutation.Issue(ctx, userManager, dto.StockOutRequest{
		ItemID: itemEthanol, LabID: labCentral,
		Quantity: decimal.NewFromInt(3), Reason: "práctica",
	})
	require.NoError(t, err)

	_, err = f.mutation.Issue(ctx, userManager, dto.StockOutRequest{
		ItemID: itemEthanol, LabID: labCentral,
		Quantity: decimal.NewFromInt(5), Reason: "práctica",
	})
	require.NoError(t, err)

	// Quedan 2: pedir 10 se rechaza.
	_, err = f.mutation.Issue(ctx, userManager, dto.StockOutRequest{
		ItemID: itemEthanol, LabID: labCentral,
		Quantity: decimal.NewFromInt(10), Reason: "práctica",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, _, err = f.mutation.Transfer(ctx, userManager, dto.StockTransferRequest{
		ItemID: itemEthanol, FromLabID: labCentral, ToLabID: labAnexo,
		Quantity: decimal.NewFromInt(2), Reason: "traslado final",
	})
	require.NoError(t, err)

	// El balance siempre es la suma del libro, nunca un contador aparte.
	bal, err := f.balance.BalanceOf(ctx, itemEthanol, labCentral)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.IsZero())

	bal, err = f.balance.BalanceOf(ctx, itemEthanol, labAnexo)
	require.NoError(t, err)
	assert.True(t, bal.Quantity.Equal(decimal.NewFromInt(2)))
}
