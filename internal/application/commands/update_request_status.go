package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

// UpdateRequestStatus moves a website request through its lifecycle. Admin
// only; the status value is validated against the known set before touching
// the row.
type UpdateRequestStatus struct {
	uowFactory *dbs.UOWFactory
}

func NewUpdateRequestStatus(uowFactory *dbs.UOWFactory) *UpdateRequestStatus {
	return &UpdateRequestStatus{uowFactory: uowFactory}
}

func (c *UpdateRequestStatus) Execute(ctx context.Context, identity *auth.Identity, requestID uint64, status string) error {
	if !identity.IsAdmin() {
		return errs.PermissionsError{Err: fmt.Errorf("only admins change request status")}
	}
	newStatus := consts.RequestStatus(status)
	if !newStatus.Valid() {
		return errs.ValidationError{Err: fmt.Errorf("unknown request status %q", status)}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return err
	}
	defer uow.Finalize(&err)

	tag, err := tx.Exec(ctx,
		"UPDATE agency.website_requests SET status = $1, updated_at = $2 WHERE id = $3",
		newStatus, time.Now(), requestID)
	if err != nil {
		return fmt.Errorf("err updating request status, %v", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.NotFoundError{Entity: "website request"}
	}
	return nil
}
