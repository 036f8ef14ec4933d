package types

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ResumeTextRequest replaces the resume source with pasted text
type ResumeTextRequest struct {
	Text string `json:"text" validate:"required"`
}

// TargetRoleRequest sets the target role. An empty role clears it.
type TargetRoleRequest struct {
	TargetRole string `json:"targetRole" validate:"max=200"`
}

// PersonalInfoRequest edits the extracted personal info
type PersonalInfoRequest struct {
	Name     string   `json:"name" validate:"max=200"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone" validate:"max=50"`
	Location string   `json:"location" validate:"max=200"`
	Links    []string `json:"links" validate:"dive,max=500"`
}

// SectionOrderRequest replaces the resume section order
type SectionOrderRequest struct {
	Order []string `json:"order" validate:"required,min=1,dive,required"`
}

// MoveSectionRequest moves one section key from one index to another
type MoveSectionRequest struct {
	From int `json:"from" validate:"min=0"`
	To   int `json:"to" validate:"min=0"`
}

// AnalyzeRequest starts a job-fit analysis. Exactly one of JobDescription and JobURL is required.
type AnalyzeRequest struct {
	JobDescription string `json:"jobDescription" validate:"required_without=JobURL,excluded_with=JobURL"`
	JobURL         string `json:"jobUrl" validate:"omitempty,url"`
	Instructions   string `json:"instructions" validate:"max=2000"`
}

// CoverLetterRequest replaces the live cover letter text
type CoverLetterRequest struct {
	CoverLetter string `json:"coverLetter"`
}

// NavigateRequest moves the view controller to another view
type NavigateRequest struct {
	View string `json:"view" validate:"required,oneof=profile analysis history"`
}

// Validate validates the ResumeTextRequest using the validator.
func (r *ResumeTextRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the TargetRoleRequest using the validator.
func (r *TargetRoleRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the PersonalInfoRequest using the validator.
func (r *PersonalInfoRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SectionOrderRequest using the validator.
func (r *SectionOrderRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the MoveSectionRequest using the validator.
func (r *MoveSectionRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the NavigateRequest using the validator.
func (r *NavigateRequest) Validate() error {
	return validate.Struct(r)
}
