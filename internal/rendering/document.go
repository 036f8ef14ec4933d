package rendering

import (
	"strings"

	"github.com/jonathan/jobfit-kit/internal/types"
)

// Document is a resume laid out for display: the personal-info header and the
// non-empty sections in display order.
type Document struct {
	Header   types.PersonalInfo `json:"header"`
	Sections []Section          `json:"sections"`
}

// Section is one displayed section. Only the field matching Key is set.
type Section struct {
	Key        string             `json:"key"`
	Label      string             `json:"label"`
	Summary    string             `json:"summary,omitempty"`
	Skills     *types.Skills      `json:"skills,omitempty"`
	Experience []types.Experience `json:"experience,omitempty"`
	Education  []types.Education  `json:"education,omitempty"`
	Volunteer  []types.Volunteer  `json:"volunteer,omitempty"`
	Strengths  []string           `json:"strengths,omitempty"`
	References []types.Reference  `json:"references,omitempty"`
}

// Keys returns the section keys in display order
func (d Document) Keys() []string {
	keys := make([]string, len(d.Sections))
	for i, s := range d.Sections {
		keys[i] = s.Key
	}
	return keys
}

// Render lays out analysis in the given section order. The order is
// normalized first; sections without data are skipped. A nil analysis yields
// an empty document.
func Render(analysis *types.ResumeAnalysis, order []string) Document {
	doc := Document{Sections: []Section{}}
	if analysis == nil {
		return doc
	}
	doc.Header = analysis.PersonalInfo

	for _, key := range NormalizeOrder(order) {
		section := Section{Key: key, Label: Label(key)}
		include := false

		switch key {
		case SectionSummary:
			section.Summary = analysis.ProfessionalSummary
			include = strings.TrimSpace(analysis.ProfessionalSummary) != ""
		case SectionSkills:
			skills := analysis.Skills
			section.Skills = &skills
			include = len(skills.Technical) > 0 || len(skills.Soft) > 0 || len(skills.Tools) > 0
		case SectionExperience:
			section.Experience = analysis.WorkExperience
			include = len(analysis.WorkExperience) > 0
		case SectionEducation:
			section.Education = analysis.Education
			include = len(analysis.Education) > 0
		case SectionVolunteer:
			section.Volunteer = analysis.VolunteerExperience
			include = len(analysis.VolunteerExperience) > 0
		case SectionStrengths:
			section.Strengths = analysis.Strengths
			include = len(analysis.Strengths) > 0
		case SectionReferences:
			section.References = analysis.References
			include = len(analysis.References) > 0
		}

		if include {
			doc.Sections = append(doc.Sections, section)
		}
	}
	return doc
}
