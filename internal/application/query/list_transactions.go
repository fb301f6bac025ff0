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

type ListTransactions struct {
	uowFactory *dbs.UOWFactory
}

func NewListTransactions(uowFactory *dbs.UOWFactory) *ListTransactions {
	return &ListTransactions{uowFactory: uowFactory}
}

func (q *ListTransactions) Query(ctx context.Context, identity *auth.Identity) ([]dto.TransactionResponse, error) {
	if identity == nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("listing transactions requires an authenticated user")}
	}

	uow := q.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	var rows pgx.Rows
	base := `SELECT id, amount::text, description, status, capture_id, receipt_url, created_at
		 FROM agency.transactions`
	if identity.IsAdmin() {
		rows, err = tx.Query(ctx, base+" ORDER BY created_at DESC")
	} else {
		rows, err = tx.Query(ctx, base+" WHERE user_id = $1 ORDER BY created_at DESC", identity.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("err listing transactions, %v", err)
	}
	defer rows.Close()

	transactions := make([]dto.TransactionResponse, 0)
	for rows.Next() {
		var t dto.TransactionResponse
		if err := rows.Scan(&t.ID, &t.Amount, &t.Desc, &t.Status, &t.CaptureID, &t.ReceiptURL, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}
