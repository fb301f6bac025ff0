package rest

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/webcraft-studio/webcraft-backend/internal/application"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
)

type Server struct {
	commands *application.Collection
}

func NewServer(commands *application.Collection) *Server {
	return &Server{commands: commands}
}

// sessionID reads the caller's session from the header or, failing that, the
// cookie the session endpoint set.
func sessionID(c *fiber.Ctx) string {
	if id := c.Get("X-Session-Id"); id != "" {
		return id
	}
	return c.Cookies("session_id")
}

func identityFrom(c *fiber.Ctx) *auth.Identity {
	if id, ok := c.Locals("identity").(*auth.Identity); ok {
		return id
	}
	return nil
}

func mapError(c *fiber.Ctx, err error) error {
	var permErr errs.PermissionsError
	var notFoundErr errs.NotFoundError
	var validationErr errs.ValidationError
	switch {
	case errors.As(err, &permErr):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &notFoundErr):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
}

func (s *Server) CreateSession(c *fiber.Ctx) error {
	var req dto.CreateSession
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	id, err := s.commands.Auth.CreateSession(c.Context(), req)
	if err != nil {
		return mapError(c, err)
	}

	c.Cookie(&fiber.Cookie{Name: "session_id", Value: id, HTTPOnly: true, SameSite: "Lax"})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"sessionId": id})
}

func (s *Server) GetSession(c *fiber.Ctx) error {
	info, err := s.commands.Auth.GetSession(c.Context(), sessionID(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(info)
}

func (s *Server) GetPlans(c *fiber.Ctx) error {
	plans, err := s.commands.GetPlans.Query(c.Context())
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(plans)
}

func (s *Server) GetDraft(c *fiber.Ctx) error {
	draft, err := s.commands.GetDraft.Query(c.Context(), sessionID(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(draft)
}

func (s *Server) SaveStep(c *fiber.Ctx) error {
	step, err := strconv.Atoi(c.Params("step"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "step must be a number"})
	}
	var req dto.SaveStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	draft, err := s.commands.SaveStep.Execute(c.Context(), sessionID(c), step, req.Payload)
	if err != nil {
		return mapError(c, err)
	}

	encoded, err := draft.Encode()
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(dto.DraftResponse{Draft: encoded})
}

func (s *Server) ClearDraft(c *fiber.Ctx) error {
	if err := s.commands.ClearDraft.Execute(c.Context(), sessionID(c)); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) SubmitRequest(c *fiber.Ctx) error {
	logo, err := c.FormFile("logo")
	if err != nil {
		// submission without a logo is valid
		logo = nil
	}

	resp, err := s.commands.SubmitRequest.Execute(c.Context(), identityFrom(c), sessionID(c), logo)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (s *Server) CreateOrder(c *fiber.Ctx) error {
	var req dto.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	orderID, err := s.commands.CreateOrder.Execute(c.Context(), identityFrom(c), req.PlanID)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateOrderResponse{OrderID: orderID})
}

func (s *Server) CaptureOrder(c *fiber.Ctx) error {
	resp, err := s.commands.CaptureOrder.Execute(c.Context(), identityFrom(c), c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	if resp.Status != "COMPLETED" {
		// no provider detail leaks to the client
		return c.Status(fiber.StatusPaymentRequired).JSON(dto.ErrorResponse{Error: "payment failed"})
	}
	return c.Status(fiber.StatusOK).JSON(resp)
}

func (s *Server) Webhook(c *fiber.Ctx) error {
	headers := make(map[string]string)
	for key, values := range c.GetReqHeaders() {
		if strings.HasPrefix(strings.ToLower(key), "paypal-") && len(values) > 0 {
			headers[strings.ToLower(key)] = values[0]
		}
	}

	if err := s.commands.Webhook.Execute(c.Context(), headers, c.Body()); err != nil {
		// only a failed audit write refuses the delivery, the provider retries
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}

func (s *Server) ListRequests(c *fiber.Ctx) error {
	requests, err := s.commands.ListRequests.Query(c.Context(), identityFrom(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(requests)
}

func (s *Server) UpdateRequestStatus(c *fiber.Ctx) error {
	requestID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id must be a number"})
	}
	var req dto.UpdateRequestStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	if err := s.commands.UpdateRequestStatus.Execute(c.Context(), identityFrom(c), requestID, req.Status); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) ListTransactions(c *fiber.Ctx) error {
	transactions, err := s.commands.ListTransactions.Query(c.Context(), identityFrom(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(transactions)
}

func (s *Server) ListUsers(c *fiber.Ctx) error {
	users, err := s.commands.ListUsers.Query(c.Context(), identityFrom(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(users)
}

func (s *Server) CreateTicket(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	ticketID, err := s.commands.CreateTicket.Execute(c.Context(), identityFrom(c), req)
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"ticketId": ticketID})
}

func (s *Server) ListTickets(c *fiber.Ctx) error {
	tickets, err := s.commands.ListTickets.Query(c.Context(), identityFrom(c))
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tickets)
}

func (s *Server) ReplyTicket(c *fiber.Ctx) error {
	ticketID, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "id must be a number"})
	}
	var req dto.ReplyTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
	}

	if err := s.commands.ReplyTicket.Execute(c.Context(), identityFrom(c), ticketID, req); err != nil {
		return mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
