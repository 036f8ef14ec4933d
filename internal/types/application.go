package types

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Verdict is the closed set of overall fit verdicts
type Verdict string

// Verdict values
const (
	VerdictPerfectMatch     Verdict = "Perfect Match"
	VerdictGoodMatch        Verdict = "Good Match"
	VerdictPotentialStretch Verdict = "Potential Stretch"
	VerdictUnderqualified   Verdict = "Underqualified"
	VerdictOverqualified    Verdict = "Overqualified"
)

// Probability is the closed set of interview probabilities
type Probability string

// Probability values
const (
	ProbabilityHigh   Probability = "High"
	ProbabilityMedium Probability = "Medium"
	ProbabilityLow    Probability = "Low"
)

// MatchStatus classifies one gap analysis row
type MatchStatus string

// MatchStatus values
const (
	StatusMatch   MatchStatus = "Match"
	StatusPartial MatchStatus = "Partial"
	StatusMissing MatchStatus = "Missing"
)

// ChangeType classifies one optimization change
type ChangeType string

// ChangeType values
const (
	ChangeKeyword    ChangeType = "Keyword"
	ChangePhrasing   ChangeType = "Phrasing"
	ChangeFormatting ChangeType = "Formatting"
)

// Score is a 0-100 match score. Fractional JSON numbers are rounded on decode.
type Score int

// UnmarshalJSON accepts any JSON number and rounds it to the nearest integer
func (s *Score) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("score must be a number: %w", err)
	}
	*s = Score(math.Round(f))
	return nil
}

// ApplicationAnalysis is one completed job-fit run. It is immutable once
// created except for an attached optimization.
type ApplicationAnalysis struct {
	ID            string              `json:"id"`
	Timestamp     int64               `json:"timestamp"` // Unix milliseconds
	Applicant     Applicant           `json:"applicant"`
	Job           Job                 `json:"job"`
	MatchAnalysis MatchAnalysis       `json:"matchAnalysis"`
	CoverLetter   string              `json:"coverLetter"`
	Optimization  *ResumeOptimization `json:"optimization,omitempty"`
}

// Applicant summarizes the candidate as seen by the model
type Applicant struct {
	ExtractedName     *string  `json:"extractedName"`
	ExtractedSkills   []string `json:"extractedSkills"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	ExperienceSummary string   `json:"experienceSummary"`
}

// Job identifies the posting
type Job struct {
	RoleTitle   string  `json:"roleTitle"`
	CompanyName *string `json:"companyName"`
}

// MatchAnalysis is the model's scoring and gap analysis
type MatchAnalysis struct {
	Score                Score           `json:"score"`
	Verdict              Verdict         `json:"verdict"`
	InterviewProbability Probability     `json:"interviewProbability"`
	ComparisonTable      []ComparisonRow `json:"comparisonTable"`
	Reasoning            string          `json:"reasoning"`
}

// ComparisonRow is one requirement of the gap analysis
type ComparisonRow struct {
	Requirement            string      `json:"requirement"`
	ApplicantQualification string      `json:"applicantQualification"`
	Status                 MatchStatus `json:"status"`
	Comments               string      `json:"comments"`
}

// ResumeOptimization is an ATS rewrite of the resume for one analysis
type ResumeOptimization struct {
	OriginalScore    Score          `json:"originalScore"`
	NewScore         Score          `json:"newScore"`
	StructuredResume ResumeAnalysis `json:"structuredResume"`
	Changes          []Change       `json:"changes"`
}

// Change records one term replaced during optimization
type Change struct {
	Type         ChangeType `json:"type"`
	OriginalTerm string     `json:"originalTerm"`
	NewTerm      string     `json:"newTerm"`
	Reason       string     `json:"reason"`
}

// CreatedAt returns the creation instant
func (a *ApplicationAnalysis) CreatedAt() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// Normalize replaces nil lists with empty ones
func (a *ApplicationAnalysis) Normalize() {
	a.Applicant.ExtractedSkills = nonNil(a.Applicant.ExtractedSkills)
	if a.MatchAnalysis.ComparisonTable == nil {
		a.MatchAnalysis.ComparisonTable = []ComparisonRow{}
	}
	if a.Optimization != nil {
		a.Optimization.Normalize()
	}
}

// Normalize replaces nil lists with empty ones
func (o *ResumeOptimization) Normalize() {
	o.StructuredResume.Normalize()
	if o.Changes == nil {
		o.Changes = []Change{}
	}
}

// Clone returns a deep copy of the analysis
func (a *ApplicationAnalysis) Clone() *ApplicationAnalysis {
	if a == nil {
		return nil
	}
	c := *a
	if a.Applicant.ExtractedName != nil {
		name := *a.Applicant.ExtractedName
		c.Applicant.ExtractedName = &name
	}
	c.Applicant.ExtractedSkills = cloneStrings(a.Applicant.ExtractedSkills)
	if a.Job.CompanyName != nil {
		company := *a.Job.CompanyName
		c.Job.CompanyName = &company
	}
	if a.MatchAnalysis.ComparisonTable != nil {
		c.MatchAnalysis.ComparisonTable = append([]ComparisonRow{}, a.MatchAnalysis.ComparisonTable...)
	}
	c.Optimization = a.Optimization.Clone()
	return &c
}

// Clone returns a deep copy of the optimization
func (o *ResumeOptimization) Clone() *ResumeOptimization {
	if o == nil {
		return nil
	}
	c := *o
	c.StructuredResume = *o.StructuredResume.Clone()
	if o.Changes != nil {
		c.Changes = append([]Change{}, o.Changes...)
	}
	return &c
}
