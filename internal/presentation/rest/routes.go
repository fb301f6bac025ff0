package rest

import (
	"github.com/gofiber/fiber/v2"
	"github.com/webcraft-studio/webcraft-backend/internal/application/commands"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
)

// NewPolicyMiddleware resolves the caller's session once per request and
// enforces the route policy table. Handlers downstream read the identity
// from locals and never re-check roles.
func NewPolicyMiddleware(authCommand *commands.Auth) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, guarded := RequiredRole(c.Method(), c.Path())

		id := sessionID(c)
		if id != "" {
			identity, err := authCommand.GetIdentity(c.Context(), id)
			if err == nil {
				c.Locals("identity", identity)
			} else if guarded {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "invalid session"})
			}
		}

		if guarded {
			identity := identityFrom(c)
			if identity == nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Error: "authentication required"})
			}
			if role == consts.RoleAdmin && !identity.IsAdmin() {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: "admin access required"})
			}
		}

		return c.Next()
	}
}

func RegisterHandlers(app *fiber.App, s *Server) {
	app.Post("/auth/session", s.CreateSession)
	app.Get("/auth/session", s.GetSession)

	app.Get("/plans", s.GetPlans)

	app.Get("/wizard/draft", s.GetDraft)
	app.Delete("/wizard/draft", s.ClearDraft)
	app.Put("/wizard/steps/:step", s.SaveStep)
	app.Get("/wizard/review", s.GetDraft)
	app.Post("/wizard/submit", s.SubmitRequest)

	app.Post("/payments/orders", s.CreateOrder)
	app.Post("/payments/orders/:id/capture", s.CaptureOrder)
	app.Post("/payments/webhook", s.Webhook)

	app.Get("/requests", s.ListRequests)
	app.Get("/transactions", s.ListTransactions)
	app.Post("/tickets", s.CreateTicket)
	app.Get("/tickets", s.ListTickets)

	app.Get("/admin/requests", s.ListRequests)
	app.Patch("/admin/requests/:id/status", s.UpdateRequestStatus)
	app.Get("/admin/transactions", s.ListTransactions)
	app.Get("/admin/users", s.ListUsers)
	app.Patch("/admin/tickets/:id", s.ReplyTicket)
}
