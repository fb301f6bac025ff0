package query

import (
	"context"
	"fmt"

	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

// GetDraft returns the wizard state accumulated under a session, for resuming
// the wizard and for the review step.
type GetDraft struct {
	drafts shared.DraftStore
}

func NewGetDraft(drafts shared.DraftStore) *GetDraft {
	return &GetDraft{drafts: drafts}
}

func (q *GetDraft) Query(ctx context.Context, sessionID string) (*dto.DraftResponse, error) {
	blob, err := q.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("err loading draft, %v", err)
	}
	if blob == nil {
		return nil, errs.NotFoundError{Entity: "draft"}
	}
	return &dto.DraftResponse{Draft: blob}, nil
}
