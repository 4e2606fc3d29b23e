package routes

import (
	"github.com/anjiri1684/eduplatform/handlers"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

func SocketRoutes(app *fiber.App, h *handlers.Handler) {
	ws := app.Group("/ws")

	ws.Use(func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	ws.Get("/payments/:transactionId", websocket.New(h.PaymentStatusSocket))
}
