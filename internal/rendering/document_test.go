package rendering

import (
	"testing"

	"github.com/jonathan/jobfit-kit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResume() *types.ResumeAnalysis {
	r := &types.ResumeAnalysis{
		PersonalInfo: types.PersonalInfo{
			Name:     "Ada Lovelace",
			Email:    "ada@example.com",
			Phone:    "+44 20 0000",
			Location: "London",
			Links:    []string{"https://example.com/ada"},
		},
		ProfessionalSummary: "Engineer who ships.",
		Skills:              types.Skills{Technical: []string{"Go", "C#"}, Tools: []string{"Docker"}},
		WorkExperience: []types.Experience{{
			Role: "Engineer", Company: "Acme & Sons", Duration: "2020 - 2024",
			KeyAchievements: []string{"Cut p99 latency by 40%"},
		}},
		Education: []types.Education{{Degree: "BSc Mathematics", Institution: "UCL", Duration: "2016 - 2019"}},
		Strengths: []string{"Ownership"},
	}
	r.Normalize()
	return r
}

func TestRender_CanonicalOrderSkipsEmptySections(t *testing.T) {
	doc := Render(sampleResume(), nil)

	assert.Equal(t, []string{"summary", "skills", "experience", "education", "strengths"}, doc.Keys())
	assert.Equal(t, "Ada Lovelace", doc.Header.Name)
	assert.Equal(t, "Work Experience", doc.Sections[2].Label)
	require.NotNil(t, doc.Sections[1].Skills)
	assert.Equal(t, []string{"Go", "C#"}, doc.Sections[1].Skills.Technical)
}

func TestRender_FollowsOrder(t *testing.T) {
	doc := Render(sampleResume(), []string{"education", "experience", "summary"})
	assert.Equal(t, []string{"education", "experience", "summary", "skills", "strengths"}, doc.Keys())
}

func TestRender_NoWorkExperienceNoSection(t *testing.T) {
	r := sampleResume()
	r.WorkExperience = []types.Experience{}

	orders := [][]string{nil, {"experience"}, {"experience", "summary"}, {"references", "volunteer", "experience"}}
	for _, order := range orders {
		doc := Render(r, order)
		assert.NotContains(t, doc.Keys(), SectionExperience)
	}
}

func TestRender_InclusionRules(t *testing.T) {
	r := &types.ResumeAnalysis{
		ProfessionalSummary: "   ",
		Skills:              types.Skills{Soft: []string{"Patience"}},
		VolunteerExperience: []types.Volunteer{{Role: "Tutor", Organization: "Code Club"}},
		References:          []types.Reference{{Name: "Grace Hopper"}},
	}
	r.Normalize()

	doc := Render(r, nil)
	assert.Equal(t, []string{"skills", "volunteer", "references"}, doc.Keys())
}

func TestRender_NilAnalysis(t *testing.T) {
	doc := Render(nil, []string{"summary"})
	assert.Empty(t, doc.Sections)
	assert.NotNil(t, doc.Sections)
}
