package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     interface{ Validate() error }
		wantErr bool
	}{
		{"resume text required", &ResumeTextRequest{}, true},
		{"resume text ok", &ResumeTextRequest{Text: "cv"}, false},
		{"empty role clears", &TargetRoleRequest{}, false},
		{"bad email", &PersonalInfoRequest{Email: "nope"}, true},
		{"blank email ok", &PersonalInfoRequest{Name: "Ada"}, false},
		{"empty order", &SectionOrderRequest{Order: []string{}}, true},
		{"blank key in order", &SectionOrderRequest{Order: []string{"summary", ""}}, true},
		{"negative move", &MoveSectionRequest{From: -1, To: 0}, true},
		{"description only", &AnalyzeRequest{JobDescription: "Go developer"}, false},
		{"url only", &AnalyzeRequest{JobURL: "https://jobs.example.com/1"}, false},
		{"neither", &AnalyzeRequest{}, true},
		{"both", &AnalyzeRequest{JobDescription: "x", JobURL: "https://jobs.example.com/1"}, true},
		{"bad url", &AnalyzeRequest{JobURL: "not a url"}, true},
		{"unknown view", &NavigateRequest{View: "history-detail"}, true},
		{"history view", &NavigateRequest{View: "history"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
