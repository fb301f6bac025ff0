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

// ListRequests shows admins every website request and regular users only
// their own.
type ListRequests struct {
	uowFactory *dbs.UOWFactory
}

func NewListRequests(uowFactory *dbs.UOWFactory) *ListRequests {
	return &ListRequests{uowFactory: uowFactory}
}

func (q *ListRequests) Query(ctx context.Context, identity *auth.Identity) ([]dto.WebsiteRequestResponse, error) {
	if identity == nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("listing requests requires an authenticated user")}
	}

	uow := q.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	var rows pgx.Rows
	base := `SELECT id, title, description, business_type, required_pages, status, preview_image_url, created_at
		 FROM agency.website_requests`
	if identity.IsAdmin() {
		rows, err = tx.Query(ctx, base+" ORDER BY created_at DESC")
	} else {
		rows, err = tx.Query(ctx, base+" WHERE user_id = $1 ORDER BY created_at DESC", identity.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("err listing requests, %v", err)
	}
	defer rows.Close()

	requests := make([]dto.WebsiteRequestResponse, 0)
	for rows.Next() {
		var r dto.WebsiteRequestResponse
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.BusinessType,
			&r.RequiredPages, &r.Status, &r.PreviewImageURL, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
