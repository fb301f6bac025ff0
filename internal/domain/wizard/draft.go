package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	StepBusiness = 1
	StepDesign   = 2
	StepContent  = 3
	StepPlan     = 4
	StepReview   = 5
)

type Step1 struct {
	BusinessName   string `json:"businessName"`
	BusinessType   string `json:"businessType"`
	Description    string `json:"description"`
	TargetAudience string `json:"targetAudience"`
	PrimaryGoal    string `json:"primaryGoal"`
}

type Step2 struct {
	ColorScheme      string `json:"colorScheme"`
	WebsiteStyle     string `json:"websiteStyle"`
	LayoutPreference string `json:"layoutPreference"`
}

type Step3 struct {
	Pages        []string `json:"pages"`
	Features     []string `json:"features"`
	Integrations []string `json:"integrations"`
}

type Step4 struct {
	SelectedPlanID     string `json:"selectedPlanId"`
	ContentReady       string `json:"contentReady"`
	Timeline           string `json:"timeline"`
	Budget             string `json:"budget"`
	ContentDescription string `json:"contentDescription,omitempty"`
	SpecialRequests    string `json:"specialRequests,omitempty"`
	SocialMediaLinks   string `json:"socialMediaLinks,omitempty"`
}

// Draft is the accumulated wizard state. It lives in a single key-value slot
// per session and is overwritten wholesale on every step save.
type Draft struct {
	Step1       *Step1 `json:"step1,omitempty"`
	Step2       *Step2 `json:"step2,omitempty"`
	Step3       *Step3 `json:"step3,omitempty"`
	Step4       *Step4 `json:"step4,omitempty"`
	CurrentStep int    `json:"currentStep"`
}

func Empty() Draft {
	return Draft{CurrentStep: StepBusiness}
}

func Decode(payload []byte) (Draft, error) {
	if len(payload) == 0 {
		return Empty(), nil
	}
	var d Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return Draft{}, fmt.Errorf("err decoding draft, %v", err)
	}
	if d.CurrentStep == 0 {
		d.CurrentStep = StepBusiness
	}
	return d, nil
}

func (d Draft) Encode() ([]byte, error) {
	payload, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("err encoding draft, %v", err)
	}
	return payload, nil
}

// Complete reports whether every step required for submission carries a
// valid payload.
func (d Draft) Complete() bool {
	if d.Step1 == nil || d.Step2 == nil || d.Step3 == nil || d.Step4 == nil {
		return false
	}
	return validateStep1(*d.Step1) == nil &&
		validateStep2(*d.Step2) == nil &&
		validateStep3(*d.Step3) == nil &&
		validateStep4(*d.Step4) == nil
}

// RequestFields is the flattened projection of a complete draft, shaped the
// way the website_requests row stores it.
type RequestFields struct {
	Title                  string
	Description            string
	BusinessType           string
	TargetAudience         string
	PrimaryGoal            string
	ColorScheme            string
	WebsiteStyle           string
	LayoutPreference       string
	RequiredPages          string
	Features               string
	Integrations           string
	ContentReady           string
	Timeline               string
	Budget                 string
	PlanID                 string
	AdditionalRequirements string
}

// Flatten serializes list fields as comma-joined strings and concatenates
// the free-text extras into labeled sections joined by blank lines. Missing
// optionals stay empty strings so display code never sees null.
func (d Draft) Flatten() RequestFields {
	f := RequestFields{}
	if d.Step1 != nil {
		f.Title = d.Step1.BusinessName
		f.Description = d.Step1.Description
		f.BusinessType = d.Step1.BusinessType
		f.TargetAudience = d.Step1.TargetAudience
		f.PrimaryGoal = d.Step1.PrimaryGoal
	}
	if d.Step2 != nil {
		f.ColorScheme = d.Step2.ColorScheme
		f.WebsiteStyle = d.Step2.WebsiteStyle
		f.LayoutPreference = d.Step2.LayoutPreference
	}
	if d.Step3 != nil {
		f.RequiredPages = strings.Join(d.Step3.Pages, ", ")
		f.Features = strings.Join(d.Step3.Features, ", ")
		f.Integrations = strings.Join(d.Step3.Integrations, ", ")
	}
	if d.Step4 != nil {
		f.ContentReady = d.Step4.ContentReady
		f.Timeline = d.Step4.Timeline
		f.Budget = d.Step4.Budget
		f.PlanID = d.Step4.SelectedPlanID

		var sections []string
		if d.Step4.ContentDescription != "" {
			sections = append(sections, "Content Description: "+d.Step4.ContentDescription)
		}
		if d.Step4.SpecialRequests != "" {
			sections = append(sections, "Special Requests: "+d.Step4.SpecialRequests)
		}
		if d.Step4.SocialMediaLinks != "" {
			sections = append(sections, "Social Media Links: "+d.Step4.SocialMediaLinks)
		}
		f.AdditionalRequirements = strings.Join(sections, "\n\n")
	}
	return f
}
