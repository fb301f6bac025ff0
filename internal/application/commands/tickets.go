package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

type CreateTicket struct {
	uowFactory *dbs.UOWFactory
}

func NewCreateTicket(uowFactory *dbs.UOWFactory) *CreateTicket {
	return &CreateTicket{uowFactory: uowFactory}
}

func (c *CreateTicket) Execute(ctx context.Context, identity *auth.Identity, req dto.CreateTicketRequest) (uint64, error) {
	if identity == nil {
		return 0, errs.PermissionsError{Err: fmt.Errorf("ticket creation requires an authenticated user")}
	}
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return 0, errs.ValidationError{Err: fmt.Errorf("subject and message are required")}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return 0, err
	}
	defer uow.Finalize(&err)

	var ticketID uint64
	now := time.Now()
	err = tx.QueryRow(ctx,
		"INSERT INTO agency.support_tickets(user_id, subject, message, status, admin_reply, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id",
		identity.UserID, req.Subject, req.Message, consts.TicketStatusOpen, "", now, now).Scan(&ticketID)
	if err != nil {
		return 0, fmt.Errorf("err creating ticket, %v", err)
	}
	return ticketID, nil
}

type ReplyTicket struct {
	uowFactory *dbs.UOWFactory
}

func NewReplyTicket(uowFactory *dbs.UOWFactory) *ReplyTicket {
	return &ReplyTicket{uowFactory: uowFactory}
}

func (c *ReplyTicket) Execute(ctx context.Context, identity *auth.Identity, ticketID uint64, req dto.ReplyTicketRequest) error {
	if !identity.IsAdmin() {
		return errs.PermissionsError{Err: fmt.Errorf("only admins reply to tickets")}
	}
	status := consts.TicketStatus(req.Status)
	if req.Status == "" {
		status = consts.TicketStatusInProgress
	}
	if !status.Valid() {
		return errs.ValidationError{Err: fmt.Errorf("unknown ticket status %q", req.Status)}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	tag, err := tx.Exec(ctx,
		"UPDATE agency.support_tickets SET admin_reply = $1, status = $2, updated_at = $3 WHERE id = $4",
		req.Reply, status, time.Now(), ticketID)
	if err != nil {
		return fmt.Errorf("err replying to ticket, %v", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "ticket"}
	}
	return nil
}
