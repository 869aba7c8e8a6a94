package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/sporto/kic/internal/app/core/domain"
	"github.com/sporto/kic/internal/app/core/usecase"
)

// Handler 把核心操作綁上 HTTP 路由，不含任何業務邏輯
type Handler struct {
	core *usecase.CoreUseCase
}

func NewHandler(core *usecase.CoreUseCase) *Handler {
	return &Handler{
		core: core,
	}
}

// AmountRequest 存提款的請求本體，金額以分為單位
type AmountRequest struct {
	Cents int64 `json:"cents"`
}

// CreateRequestBody 建立交易申請的請求本體
type CreateRequestBody struct {
	Kind  string `json:"kind"` // "deposit" | "withdrawal"
	Cents int64  `json:"cents"`
}

// Deposit POST /accounts/:id/deposit
func (h *Handler) Deposit(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}
	var body AmountRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	tran, err := h.core.Deposit(c.Context(), actingUser(c), int64(accountID), domain.Cents(body.Cents))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"transaction": tran})
}

// Withdraw POST /accounts/:id/withdraw
func (h *Handler) Withdraw(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}
	var body AmountRequest
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	tran, err := h.core.Withdraw(c.Context(), actingUser(c), int64(accountID), domain.Cents(body.Cents))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"transaction": tran})
}

// GetBalance GET /accounts/:id/balance
func (h *Handler) GetBalance(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	balance, err := h.core.GetBalance(c.Context(), actingUser(c), int64(accountID))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// History GET /accounts/:id/transactions
func (h *Handler) History(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	history, err := h.core.History(c.Context(), actingUser(c), int64(accountID))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"transactions": history})
}

// CreateRequest POST /accounts/:id/requests
func (h *Handler) CreateRequest(c *fiber.Ctx) error {
	accountID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}
	var body CreateRequestBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	kind, ok := parseKind(body.Kind)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "kind must be deposit or withdrawal"})
	}

	req, err := h.core.CreateRequest(c.Context(), actingUser(c), int64(accountID), kind, domain.Cents(body.Cents))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"request": req})
}

// ApproveRequest POST /requests/:id/approve
func (h *Handler) ApproveRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}

	tran, err := h.core.ApproveRequest(c.Context(), requestID, actingUser(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"transaction": tran})
}

// RejectRequest POST /requests/:id/reject
func (h *Handler) RejectRequest(c *fiber.Ctx) error {
	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request id"})
	}

	req, err := h.core.RejectRequest(c.Context(), requestID, actingUser(c))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"request": req})
}

func parseKind(s string) (domain.TransactionKind, bool) {
	switch s {
	case "deposit":
		return domain.TransactionKindDeposit, true
	case "withdrawal":
		return domain.TransactionKindWithdrawal, true
	default:
		return 0, false
	}
}

// errorResponse 把領域錯誤類別轉成 HTTP 狀態碼
// 傳輸層只做對映，不發明新的錯誤類別
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidKind):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRequestNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrConcurrencyConflict):
		status = fiber.StatusConflict
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
