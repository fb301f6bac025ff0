package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/domain/wizard"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

// SaveStep is the wizard "Continue" transition: read the accumulated draft,
// merge the submitted step into it and write the whole blob back. The merge
// is rejected when the step's required fields are missing, leaving the
// stored draft untouched.
type SaveStep struct {
	drafts shared.DraftStore
}

func NewSaveStep(drafts shared.DraftStore) *SaveStep {
	return &SaveStep{drafts: drafts}
}

func (c *SaveStep) Execute(ctx context.Context, sessionID string, step int, payload json.RawMessage) (wizard.Draft, error) {
	blob, err := c.drafts.Get(ctx, sessionID)
	if err != nil {
		return wizard.Draft{}, fmt.Errorf("err loading draft, %v", err)
	}

	current, err := wizard.Decode(blob)
	if err != nil {
		return wizard.Draft{}, err
	}

	merged, err := wizard.Merge(current, step, payload)
	if err != nil {
		var vErr wizard.ValidationError
		if errors.As(err, &vErr) {
			return wizard.Draft{}, errs.ValidationError{Err: vErr}
		}
		return wizard.Draft{}, err
	}

	encoded, err := merged.Encode()
	if err != nil {
		return wizard.Draft{}, err
	}
	if err := c.drafts.Put(ctx, sessionID, encoded); err != nil {
		return wizard.Draft{}, fmt.Errorf("err persisting draft, %v", err)
	}

	return merged, nil
}

// ClearDraft drops the wizard slot for a session. Exposed for the explicit
// "start over" action; submission clears the slot itself.
type ClearDraft struct {
	drafts shared.DraftStore
}

func NewClearDraft(drafts shared.DraftStore) *ClearDraft {
	return &ClearDraft{drafts: drafts}
}

func (c *ClearDraft) Execute(ctx context.Context, sessionID string) error {
	return c.drafts.Delete(ctx, sessionID)
}
