package query

import (
	"context"
	"fmt"

	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
)

type ListUsers struct {
	uowFactory *dbs.UOWFactory
}

func NewListUsers(uowFactory *dbs.UOWFactory) *ListUsers {
	return &ListUsers{uowFactory: uowFactory}
}

func (q *ListUsers) Query(ctx context.Context, identity *auth.Identity) ([]dto.UserResponse, error) {
	if !identity.IsAdmin() {
		return nil, errs.PermissionsError{Err: fmt.Errorf("only admins list users")}
	}

	uow := q.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}
	defer uow.Finalize(&err)

	rows, err := tx.Query(ctx,
		"SELECT id, first_name, email, role, created_at FROM agency.users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("err listing users, %v", err)
	}
	defer rows.Close()

	users := make([]dto.UserResponse, 0)
	for rows.Next() {
		var u dto.UserResponse
		if err := rows.Scan(&u.ID, &u.FirstName, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
