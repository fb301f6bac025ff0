package application

import (
	"github.com/webcraft-studio/webcraft-backend/internal/application/commands"
	"github.com/webcraft-studio/webcraft-backend/internal/application/query"
)

// Collection bundles every command and query handler for route registration.
type Collection struct {
	*commands.Auth
	*commands.SaveStep
	*commands.ClearDraft
	*commands.SubmitRequest
	*commands.CreateOrder
	*commands.CaptureOrder
	*commands.Webhook
	*commands.CreateTicket
	*commands.ReplyTicket
	*commands.UpdateRequestStatus
	*commands.SendMail
	*query.GetPlans
	*query.GetDraft
	*query.ListRequests
	*query.ListTransactions
	*query.ListUsers
	*query.ListTickets
}
