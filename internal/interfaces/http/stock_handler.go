package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kartoffan/labstock/internal/application/dto"
	"github.com/kartoffan/labstock/internal/application/stock"
)

// StockHandler maneja las operaciones de stock: entradas, salidas, ajustes,
// traslados y consultas de balance (protegido).
type StockHandler struct {
	mutation  *stock.MutationUseCase
	balance   *stock.BalanceUseCase
	threshold *stock.ThresholdUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(mutation *stock.MutationUseCase, balance *stock.BalanceUseCase, threshold *stock.ThresholdUseCase) *StockHandler {
	return &StockHandler{mutation: mutation, balance: balance, threshold: threshold}
}

// In godoc
// @Summary      Registrar entrada de stock
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockInRequest  true  "item_id, lab_id, quantity, reason; supplier_id/batch/expiración opcionales"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/in [post]
func (h *StockHandler) In(c *fiber.Ctx) error {
	var in dto.StockInRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	mov, err := h.mutation.Receive(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// Out godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con 409 INSUFFICIENT_STOCK si el balance derivado no cubre la cantidad.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockOutRequest  true  "item_id, lab_id, quantity, reason; purpose opcional"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/out [post]
func (h *StockHandler) Out(c *fiber.Ctx) error {
	var in dto.StockOutRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	mov, err := h.mutation.Issue(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// Adjust godoc
// @Summary      Ajuste manual de stock
// @Description  El ajuste lleva el delta con signo; puede dejar el balance negativo
//               (recuento físico manda).
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockAdjustRequest  true  "item_id, lab_id, adjustment (con signo), reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/adjust [post]
func (h *StockHandler) Adjust(c *fiber.Ctx) error {
	var in dto.StockAdjustRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	mov, err := h.mutation.Adjust(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// Transfer godoc
// @Summary      Trasladar stock entre laboratorios
// @Description  Registra las dos patas (TRANSFER_OUT y TRANSFER_IN) en una sola
//               transacción; o se confirman ambas o ninguna.
// @Tags         stocks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockTransferRequest  true  "item_id, from_lab_id, to_lab_id, quantity, reason"
// @Success      201   {object}  map[string]dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/transfer [post]
func (h *StockHandler) Transfer(c *fiber.Ctx) error {
	var in dto.StockTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := dto.Validate(in); err != nil {
		return respondError(c, err)
	}
	outMov, inMov, err := h.mutation.Transfer(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"out": dto.ToMovementResponse(outMov),
		"in":  dto.ToMovementResponse(inMov),
	})
}

// Quantity godoc
// @Summary      Balance derivado de un ítem en un laboratorio
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        itemId  path   string  true  "ID del ítem"
// @Param        lab_id  query  string  true  "ID del laboratorio"
// @Success      200  {object}  dto.StockQuantity
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/{itemId}/quantity [get]
func (h *StockHandler) Quantity(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	labID := c.Query("lab_id")
	if labID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lab_id es requerido"})
	}
	out, err := h.balance.BalanceOf(c.Context(), itemID, labID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Quantities godoc
// @Summary      Balances de todos los ítems de un laboratorio
// @Description  Deriva todos los balances en una sola pasada sobre el libro de movimientos.
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        lab_id  query  string  true  "ID del laboratorio"
// @Success      200  {array}   dto.StockQuantity
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/quantities [get]
func (h *StockHandler) Quantities(c *fiber.Ctx) error {
	labID := c.Query("lab_id")
	if labID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lab_id es requerido"})
	}
	out, err := h.balance.BalancesForLab(c.Context(), labID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Ítems con balance en o bajo su umbral de stock bajo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        lab_id  query  string  true  "ID del laboratorio"
// @Success      200  {array}   dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/low-stock [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	labID := c.Query("lab_id")
	if labID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lab_id es requerido"})
	}
	items, err := h.threshold.LowStockItems(c.Context(), labID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *dto.ToItemResponse(it))
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Ítems con balance cero o negativo
// @Tags         stocks
// @Security     Bearer
// @Produce      json
// @Param        lab_id  query  string  true  "ID del laboratorio"
// @Success      200  {array}   dto.ItemResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/out-of-stock [get]
func (h *StockHandler) OutOfStock(c *fiber.Ctx) error {
	labID := c.Query("lab_id")
	if labID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "lab_id es requerido"})
	}
	items, err := h.threshold.OutOfStockItems(c.Context(), labID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *dto.ToItemResponse(it))
	}
	return c.JSON(out)
}
