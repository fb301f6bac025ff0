package wizard

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ValidationError struct {
	Step   int
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("step %d invalid: %s", e.Step, e.Reason)
}

// Merge is the pure reducer over the draft: it replaces only the addressed
// step's block, leaves every other block untouched and sets CurrentStep to
// the step after the one just saved, capped at the review step. An invalid
// payload is rejected and the draft is returned unchanged.
func Merge(d Draft, step int, payload json.RawMessage) (Draft, error) {
	switch step {
	case StepBusiness:
		var s Step1
		if err := json.Unmarshal(payload, &s); err != nil {
			return d, fmt.Errorf("err decoding step payload, %v", err)
		}
		if err := validateStep1(s); err != nil {
			return d, err
		}
		d.Step1 = &s
	case StepDesign:
		var s Step2
		if err := json.Unmarshal(payload, &s); err != nil {
			return d, fmt.Errorf("err decoding step payload, %v", err)
		}
		if err := validateStep2(s); err != nil {
			return d, err
		}
		d.Step2 = &s
	case StepContent:
		var s Step3
		if err := json.Unmarshal(payload, &s); err != nil {
			return d, fmt.Errorf("err decoding step payload, %v", err)
		}
		if err := validateStep3(s); err != nil {
			return d, err
		}
		d.Step3 = &s
	case StepPlan:
		var s Step4
		if err := json.Unmarshal(payload, &s); err != nil {
			return d, fmt.Errorf("err decoding step payload, %v", err)
		}
		if err := validateStep4(s); err != nil {
			return d, err
		}
		d.Step4 = &s
	default:
		return d, ValidationError{Step: step, Reason: "no such step"}
	}

	d.CurrentStep = step + 1
	if d.CurrentStep > StepReview {
		d.CurrentStep = StepReview
	}
	return d, nil
}

func validateStep1(s Step1) error {
	if strings.TrimSpace(s.BusinessName) == "" {
		return ValidationError{Step: StepBusiness, Reason: "businessName is required"}
	}
	if strings.TrimSpace(s.BusinessType) == "" {
		return ValidationError{Step: StepBusiness, Reason: "businessType is required"}
	}
	if strings.TrimSpace(s.Description) == "" {
		return ValidationError{Step: StepBusiness, Reason: "description is required"}
	}
	return nil
}

func validateStep2(s Step2) error {
	if strings.TrimSpace(s.ColorScheme) == "" {
		return ValidationError{Step: StepDesign, Reason: "colorScheme is required"}
	}
	if strings.TrimSpace(s.WebsiteStyle) == "" {
		return ValidationError{Step: StepDesign, Reason: "websiteStyle is required"}
	}
	return nil
}

func validateStep3(s Step3) error {
	if len(s.Pages) == 0 {
		return ValidationError{Step: StepContent, Reason: "at least one page must be selected"}
	}
	return nil
}

func validateStep4(s Step4) error {
	if strings.TrimSpace(s.SelectedPlanID) == "" {
		return ValidationError{Step: StepPlan, Reason: "a plan must be selected"}
	}
	return nil
}
