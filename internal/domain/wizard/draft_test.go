package wizard_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/webcraft-studio/webcraft-backend/internal/domain/wizard"
)

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func TestMergeRejectsIncompleteStepPayload(t *testing.T) {
	d := wizard.Empty()

	_, err := wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe",
	}))
	require.Error(t, err)

	var vErr wizard.ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, wizard.StepBusiness, vErr.Step)
}

func TestMergeRejectsUnknownStep(t *testing.T) {
	_, err := wizard.Merge(wizard.Empty(), 9, mustJSON(t, wizard.Step1{}))
	require.Error(t, err)
}

func TestMergeLeavesDraftUnchangedOnInvalidPayload(t *testing.T) {
	d := wizard.Empty()
	d, err := wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe",
		BusinessType: "restaurant",
		Description:  "Coffee shop",
	}))
	require.NoError(t, err)

	after, err := wizard.Merge(d, wizard.StepDesign, mustJSON(t, wizard.Step2{
		ColorScheme: "nature-green",
	}))
	require.Error(t, err)
	require.Equal(t, d, after)
	require.Nil(t, after.Step2)
	require.Equal(t, 2, after.CurrentStep)
}

func TestMergeAccumulatesAcrossSteps(t *testing.T) {
	d := wizard.Empty()
	var err error

	d, err = wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe",
		BusinessType: "restaurant",
		Description:  "Coffee shop",
	}))
	require.NoError(t, err)
	require.Equal(t, 2, d.CurrentStep)

	d, err = wizard.Merge(d, wizard.StepDesign, mustJSON(t, wizard.Step2{
		ColorScheme:  "nature-green",
		WebsiteStyle: "warm-friendly",
	}))
	require.NoError(t, err)

	d, err = wizard.Merge(d, wizard.StepContent, mustJSON(t, wizard.Step3{
		Pages: []string{"home", "menu", "contact"},
	}))
	require.NoError(t, err)

	d, err = wizard.Merge(d, wizard.StepPlan, mustJSON(t, wizard.Step4{
		SelectedPlanID: "3",
	}))
	require.NoError(t, err)

	require.Equal(t, wizard.StepReview, d.CurrentStep)
	require.Equal(t, "Acme Cafe", d.Step1.BusinessName)
	require.Equal(t, "warm-friendly", d.Step2.WebsiteStyle)
	require.Equal(t, []string{"home", "menu", "contact"}, d.Step3.Pages)
	require.Equal(t, "3", d.Step4.SelectedPlanID)
	require.True(t, d.Complete())
}

func TestMergeReSaveEarlierStepKeepsLaterBlocks(t *testing.T) {
	d := completeDraft(t)

	d, err := wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe & Bakery",
		BusinessType: "restaurant",
		Description:  "Coffee shop and bakery",
	}))
	require.NoError(t, err)

	require.Equal(t, "Acme Cafe & Bakery", d.Step1.BusinessName)
	require.NotNil(t, d.Step3)
	require.NotNil(t, d.Step4)
	// editing from review drops the user onto the step after the edit
	require.Equal(t, wizard.StepDesign, d.CurrentStep)
}

func TestMergeReSaveFromReviewResumesAfterEditedStep(t *testing.T) {
	d := completeDraft(t)
	require.Equal(t, wizard.StepReview, d.CurrentStep)

	d, err := wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe",
		BusinessType: "restaurant",
		Description:  "Coffee shop, now with pastries",
	}))
	require.NoError(t, err)
	require.Equal(t, wizard.StepDesign, d.CurrentStep)

	d, err = wizard.Merge(d, wizard.StepPlan, mustJSON(t, wizard.Step4{
		SelectedPlanID: "3",
	}))
	require.NoError(t, err)
	require.Equal(t, wizard.StepReview, d.CurrentStep)
	require.True(t, d.Complete())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	d := completeDraft(t)
	payload, err := d.Encode()
	require.NoError(t, err)

	decoded, err := wizard.Decode(payload)
	require.NoError(t, err)
	require.Equal(t, d, decoded)
}

func TestDecodeEmptyPayloadYieldsEmptyDraft(t *testing.T) {
	d, err := wizard.Decode(nil)
	require.NoError(t, err)
	require.Equal(t, wizard.StepBusiness, d.CurrentStep)
	require.False(t, d.Complete())
}

func TestFlattenJoinsListsAndLabelsExtras(t *testing.T) {
	d := completeDraft(t)
	d.Step3.Features = []string{"contact-form", "gallery"}
	d.Step4.ContentDescription = "We have photos ready"
	d.Step4.SpecialRequests = "Dark mode please"
	d.Step4.SocialMediaLinks = "instagram.com/acmecafe"

	f := d.Flatten()
	require.Equal(t, "Acme Cafe", f.Title)
	require.Equal(t, "home, menu, contact", f.RequiredPages)
	require.Equal(t, "contact-form, gallery", f.Features)
	require.Equal(t, "3", f.PlanID)
	require.Equal(t,
		"Content Description: We have photos ready\n\n"+
			"Special Requests: Dark mode please\n\n"+
			"Social Media Links: instagram.com/acmecafe",
		f.AdditionalRequirements)
}

func TestFlattenMissingOptionalsStayEmpty(t *testing.T) {
	d := completeDraft(t)
	f := d.Flatten()
	require.Equal(t, "", f.AdditionalRequirements)
	require.Equal(t, "", f.Integrations)
}

func completeDraft(t *testing.T) wizard.Draft {
	t.Helper()
	d := wizard.Empty()
	var err error
	d, err = wizard.Merge(d, wizard.StepBusiness, mustJSON(t, wizard.Step1{
		BusinessName: "Acme Cafe",
		BusinessType: "restaurant",
		Description:  "Coffee shop",
	}))
	require.NoError(t, err)
	d, err = wizard.Merge(d, wizard.StepDesign, mustJSON(t, wizard.Step2{
		ColorScheme:  "nature-green",
		WebsiteStyle: "warm-friendly",
	}))
	require.NoError(t, err)
	d, err = wizard.Merge(d, wizard.StepContent, mustJSON(t, wizard.Step3{
		Pages: []string{"home", "menu", "contact"},
	}))
	require.NoError(t, err)
	d, err = wizard.Merge(d, wizard.StepPlan, mustJSON(t, wizard.Step4{
		SelectedPlanID: "3",
	}))
	require.NoError(t, err)
	return d
}
