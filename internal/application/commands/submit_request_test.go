package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/application/commands"
	"github.com/webcraft-studio/webcraft-backend/internal/application/consts"
	"github.com/webcraft-studio/webcraft-backend/internal/application/errs"
	"github.com/webcraft-studio/webcraft-backend/internal/domain/wizard"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/auth"
	"github.com/webcraft-studio/webcraft-backend/internal/infra/draft"
	"github.com/webcraft-studio/webcraft-backend/internal/testinfra"
)

func completeDraftBlob(t *testing.T, planID uint64) []byte {
	t.Helper()
	d := wizard.Draft{
		Step1: &wizard.Step1{
			BusinessName: "Acme Cafe",
			BusinessType: "restaurant",
			Description:  "Neighborhood coffee and pastry shop",
		},
		Step2: &wizard.Step2{
			ColorScheme:  "warm",
			WebsiteStyle: "modern",
		},
		Step3: &wizard.Step3{
			Pages:    []string{"Home", "Menu", "Contact"},
			Features: []string{"Online ordering"},
		},
		Step4: &wizard.Step4{
			SelectedPlanID: strconv.FormatUint(planID, 10),
			ContentReady:   "yes",
		},
		CurrentStep: wizard.StepReview,
	}
	blob, err := d.Encode()
	require.NoError(t, err)
	return blob
}

func logoFileHeader(t *testing.T) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["logo"][0]
}

func TestSubmitRequiresAuthenticatedUser(t *testing.T) {
	drafts := draft.NewMemoryStore()
	cmd := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{})

	_, err := cmd.Execute(context.Background(), nil, "session-1", nil)
	require.ErrorAs(t, err, &errs.PermissionsError{})
}

func TestSubmitWithoutDraftIsNotFound(t *testing.T) {
	userID := seedUser(t)
	drafts := draft.NewMemoryStore()
	cmd := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{})

	_, err := cmd.Execute(context.Background(), &auth.Identity{UserID: userID, Role: consts.RoleUser}, "session-absent", nil)
	require.ErrorAs(t, err, &errs.NotFoundError{})
}

func TestSubmitIncompleteDraftLeavesBlobIntact(t *testing.T) {
	userID := seedUser(t)
	ctx := context.Background()
	drafts := draft.NewMemoryStore()

	partial, err := (wizard.Draft{
		Step1:       &wizard.Step1{BusinessName: "Acme Cafe", BusinessType: "restaurant", Description: "coffee"},
		CurrentStep: wizard.StepDesign,
	}).Encode()
	require.NoError(t, err)
	require.NoError(t, drafts.Put(ctx, "session-2", partial))

	cmd := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{})
	_, err = cmd.Execute(ctx, &auth.Identity{UserID: userID, Role: consts.RoleUser}, "session-2", nil)
	require.ErrorAs(t, err, &errs.ValidationError{})

	blob, err := drafts.Get(ctx, "session-2")
	require.NoError(t, err)
	require.Equal(t, partial, blob, "failed submission must not touch the draft")
}

func TestSubmitInsertFailureLeavesDraftByteEqual(t *testing.T) {
	userID := seedUser(t)
	ctx := context.Background()
	drafts := draft.NewMemoryStore()

	// complete draft pointing at a plan that does not exist, so the
	// website_requests insert itself fails on the foreign key
	blob := completeDraftBlob(t, 999999999)
	require.NoError(t, drafts.Put(ctx, "session-fk", blob))

	cmd := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{})
	_, err := cmd.Execute(ctx, &auth.Identity{UserID: userID, Role: consts.RoleUser}, "session-fk", nil)
	require.Error(t, err)

	after, err := drafts.Get(ctx, "session-fk")
	require.NoError(t, err)
	require.Equal(t, blob, after, "failed insert must leave the stored blob byte-equal")

	var count int
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.website_requests WHERE user_id = $1", userID).Scan(&count)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestSubmitInsertsRequestAndClearsDraft(t *testing.T) {
	userID := seedUser(t)
	planID := seedPlan(t, "Starter", "29.99", "25.00")
	ctx := context.Background()

	drafts := draft.NewMemoryStore()
	require.NoError(t, drafts.Put(ctx, "session-3", completeDraftBlob(t, planID)))

	cmd := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{url: "https://assets.example.com/logo.png"})
	resp, err := cmd.Execute(ctx, &auth.Identity{UserID: userID, Role: consts.RoleUser}, "session-3", nil)
	require.NoError(t, err)
	require.NotZero(t, resp.RequestID)
	require.Empty(t, resp.Warning)

	var title, pages, status string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT title, required_pages, status FROM agency.website_requests WHERE id = $1", resp.RequestID).
		Scan(&title, &pages, &status)
	require.NoError(t, err)
	require.Equal(t, "Acme Cafe", title)
	require.Equal(t, "Home, Menu, Contact", pages)
	require.Equal(t, "pending", status)

	blob, err := drafts.Get(ctx, "session-3")
	require.NoError(t, err)
	require.Nil(t, blob, "successful submission clears the draft")

	var mailEvents int
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT count(*) FROM agency.outbox WHERE event = 'SendMail'").Scan(&mailEvents)
	require.NoError(t, err)
	require.GreaterOrEqual(t, mailEvents, 1)
}

func TestSubmitSurvivesFailingUploader(t *testing.T) {
	userID := seedUser(t)
	planID := seedPlan(t, "Starter Broken Upload", "29.99", "25.00")
	ctx := context.Background()

	drafts := draft.NewMemoryStore()
	require.NoError(t, drafts.Put(ctx, "session-4", completeDraftBlob(t, planID)))

	uploader := &stubUploader{err: fmt.Errorf("bucket unreachable")}
	cmd := commands.NewSubmitRequest(uowFactory, drafts, uploader)
	resp, err := cmd.Execute(ctx, &auth.Identity{UserID: userID, Role: consts.RoleUser}, "session-4", logoFileHeader(t))
	require.NoError(t, err)
	require.NotZero(t, resp.RequestID)
	require.NotEmpty(t, resp.Warning)

	var previewURL string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT preview_image_url FROM agency.website_requests WHERE id = $1", resp.RequestID).Scan(&previewURL)
	require.NoError(t, err)
	require.Empty(t, previewURL, "row exists without a preview image when upload fails")
}

func TestWizardScenarioEndToEnd(t *testing.T) {
	userID := seedUser(t)
	planID := seedPlan(t, "Acme Plan", "49.99", "5.00")
	ctx := context.Background()
	drafts := draft.NewMemoryStore()
	saveStep := commands.NewSaveStep(drafts)
	session := "session-acme"

	steps := []struct {
		step    int
		payload string
	}{
		{wizard.StepBusiness, `{"businessName":"Acme Cafe","businessType":"restaurant","description":"Neighborhood coffee and pastry shop","targetAudience":"locals","primaryGoal":"online orders"}`},
		{wizard.StepDesign, `{"colorScheme":"warm","websiteStyle":"modern","layoutPreference":"single page"}`},
		{wizard.StepContent, `{"pages":["Home","Menu","Contact"],"features":["Online ordering"],"integrations":["Instagram"]}`},
		{wizard.StepPlan, fmt.Sprintf(`{"selectedPlanId":"%d","contentReady":"yes","timeline":"2 weeks","budget":"500","specialRequests":"Dog friendly badge"}`, planID)},
	}
	for _, s := range steps {
		_, err := saveStep.Execute(ctx, session, s.step, json.RawMessage(s.payload))
		require.NoError(t, err)
	}

	submit := commands.NewSubmitRequest(uowFactory, drafts, &stubUploader{url: "https://assets.example.com/acme.png"})
	resp, err := submit.Execute(ctx, &auth.Identity{UserID: userID, Role: consts.RoleUser}, session, nil)
	require.NoError(t, err)

	var businessType, integrations, extras string
	err = testinfra.Pool.QueryRow(ctx,
		"SELECT business_type, integrations, additional_requirements FROM agency.website_requests WHERE id = $1",
		resp.RequestID).Scan(&businessType, &integrations, &extras)
	require.NoError(t, err)
	require.Equal(t, "restaurant", businessType)
	require.Equal(t, "Instagram", integrations)
	require.Equal(t, "Special Requests: Dog friendly badge", extras)
}
