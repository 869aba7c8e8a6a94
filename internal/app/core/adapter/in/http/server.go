package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sporto/kic/internal/app/core/usecase"
)

// NewApp 組裝 fiber 應用與路由
func NewApp(core *usecase.CoreUseCase, directory usecase.Directory) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName: "kic-ledger",
	})

	handler := NewHandler(core)
	app.Use(ActingUser(directory))

	accounts := app.Group("/accounts/:id")
	accounts.Post("/deposit", handler.Deposit)
	accounts.Post("/withdraw", handler.Withdraw)
	accounts.Get("/balance", handler.GetBalance)
	accounts.Get("/transactions", handler.History)
	accounts.Post("/requests", handler.CreateRequest)

	requests := app.Group("/requests/:id")
	requests.Post("/approve", handler.ApproveRequest)
	requests.Post("/reject", handler.RejectRequest)

	return app
}
