package query

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

type ListTickets struct {
	uowFactory *dbs.UOWFactory
}

func NewListTickets(uowFactory *dbs.UOWFactory) *ListTickets {
	return &ListTickets{uowFactory: uowFactory}
}

func (q *ListTickets) Query(ctx context.Context, identity *auth.Identity) ([]dto.TicketResponse, error) {
	if identity == nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("listing tickets requires an authenticated user")}
	}

	uow := q.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	var rows pgx.Rows
	base := "SELECT id, subject, message, status, admin_reply, created_at FROM agency.support_tickets"
	if identity.IsAdmin() {
		rows, err = tx.Query(ctx, base+" ORDER BY created_at DESC")
	} else {
		rows, err = tx.Query(ctx, base+" WHERE user_id = $1 ORDER BY created_at DESC", identity.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("err listing tickets, %v", err)
	}
	defer rows.Close()

	tickets := make([]dto.TicketResponse, 0)
	for rows.Next() {
		var t dto.TicketResponse
		if err := rows.Scan(&t.ID, &t.Subject, &t.Message, &t.Status, &t.AdminReply, &t.CreatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}
