package commands

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/dto"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/application/events"
	"github.com/webcraft-studio/webcraft-backend/internal/application/interfaces"
	"github.com/webcraft-studio/webcraft-backend/internal/domain/wizard"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/db/repo"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/mail"
	dbs "github.com/webcraft-studio/webcraft-backend/pkg/db"
	shared "github.com/webcraft-studio/webcraft-backend/pkg/interfaces"
)

const logoUploadWarning = "logo upload failed, request was submitted without it"

// SubmitRequest turns the accumulated draft into a website_requests row.
// The insert is the only fatal step: the logo upload before it and the
// image-url patch after it are best-effort, and the draft is cleared only
// once the insert is confirmed.
type SubmitRequest struct {
	uowFactory *dbs.UOWFactory
	drafts     shared.DraftStore
	uploader   interfaces.Uploader
}

func NewSubmitRequest(uowFactory *dbs.UOWFactory, drafts shared.DraftStore, uploader interfaces.Uploader) *SubmitRequest {
	return &SubmitRequest{uowFactory: uowFactory, drafts: drafts, uploader: uploader}
}

func (c *SubmitRequest) Execute(ctx context.Context, identity *auth.Identity, sessionID string, logo *multipart.FileHeader) (*dto.SubmitRequestResponse, error) {
	if identity == nil {
		return nil, errs.PermissionsError{Err: fmt.Errorf("submission requires an authenticated user")}
	}

	blob, err := c.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("err loading draft, %v", err)
	}
	if blob == nil {
		return nil, errs.NotFoundError{Entity: "draft"}
	}
	draft, err := wizard.Decode(blob)
	if err != nil {
		return nil, err
	}
	if !draft.Complete() {
		return nil, errs.ValidationError{Err: fmt.Errorf("wizard steps are not complete")}
	}

	var warning string
	logoURL := c.stageLogo(ctx, identity, logo, &warning)

	fields := draft.Flatten()
	planID, err := strconv.ParseUint(fields.PlanID, 10, 64)
	if err != nil {
		return nil, errs.ValidationError{Err: fmt.Errorf("invalid plan id %q", fields.PlanID)}
	}

	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		return nil, err
	}

	var requestID uint64
	now := time.Now()
	err = tx.QueryRow(ctx,
		`INSERT INTO agency.website_requests(
			user_id, plan_id, title, description, business_type, target_audience, primary_goal,
			color_scheme, website_style, layout_preference, required_pages, features, integrations,
			content_ready, timeline, budget, additional_requirements, preview_image_url, status,
			created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		 RETURNING id`,
		identity.UserID, planID, fields.Title, fields.Description, fields.BusinessType,
		fields.TargetAudience, fields.PrimaryGoal, fields.ColorScheme, fields.WebsiteStyle,
		fields.LayoutPreference, fields.RequiredPages, fields.Features, fields.Integrations,
		fields.ContentReady, fields.Timeline, fields.Budget, fields.AdditionalRequirements,
		"", consts.RequestStatusPending, now, now).Scan(&requestID)
	if err != nil {
		_ = uow.Rollback()
		return nil, fmt.Errorf("insert failed: %v", err)
	}

	mailData := mail.RequestReceivedData{
		BusinessName: fields.Title,
		Year:         strconv.Itoa(now.Year()),
	}
	eventRepo := repo.NewEventRepo(tx)
	if err := eventRepo.InsertEvent(ctx, events.SendMail{
		UserID:  identity.UserID.String(),
		Subject: mailData.GetSubject(),
		Data:    mailData,
	}); err != nil {
		// confirmation mail is a side effect, never worth failing the submission
		slog.Error("err enqueueing request-received mail", "err", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if logoURL != "" {
		c.patchPreviewImage(ctx, requestID, logoURL)
	}

	if err := c.drafts.Delete(ctx, sessionID); err != nil {
		// a stale draft is harmless, the submission itself is durable
		slog.Error("err clearing draft after submission", "session", sessionID, "err", err)
	}

	return &dto.SubmitRequestResponse{RequestID: requestID, Warning: warning}, nil
}

func (c *SubmitRequest) stageLogo(ctx context.Context, identity *auth.Identity, logo *multipart.FileHeader, warning *string) string {
	if logo == nil {
		return ""
	}
	f, err := logo.Open()
	if err != nil {
		slog.Error("err opening logo file", "err", err)
		*warning = logoUploadWarning
		return ""
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(logo.Filename))
	if ext == "" {
		ext = ".png"
	}
	key := fmt.Sprintf("%s/website-requests/logo-%d%s", identity.UserID, time.Now().Unix(), ext)
	contentType := logo.Header.Get("Content-Type")

	var ct *string
	if contentType != "" {
		ct = &contentType
	}
	url, err := c.uploader.Upload(ctx, key, ct, f)
	if err != nil {
		slog.Error("err uploading logo, proceeding without it", "err", err)
		*warning = logoUploadWarning
		return ""
	}
	return url
}

// patchPreviewImage is the second, independent write after the insert. Its
// failure only costs the preview image.
func (c *SubmitRequest) patchPreviewImage(ctx context.Context, requestID uint64, logoURL string) {
	uow := c.uowFactory.GetUoW()
	tx, err := uow.Begin()
	if err != nil {
		slog.Error("err starting tx for image patch", "request", requestID, "err", err)
		return
	}
	_, err = tx.Exec(ctx, "UPDATE agency.website_requests SET preview_image_url = $1, updated_at = $2 WHERE id = $3",
		logoURL, time.Now(), requestID)
	if err != nil {
		_ = uow.Rollback()
		slog.Error("err patching preview image url", "request", requestID, "err", err)
		return
	}
	if err := uow.Commit(); err != nil {
		slog.Error("err committing image patch", "request", requestID, "err", err)
	}
}
