package auth

import (
	"github.com/google/uuid"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
)

// Identity is the resolved caller of a request: who they are and what they
// may touch.
type Identity struct {
	UserID uuid.UUID
	Role   consts.Role
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == consts.RoleAdmin
}
