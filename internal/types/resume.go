// Package types provides type definitions for structured data used throughout the jobfit-kit system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeAnalysis is the structured resume extracted by the AI gateway.
// It is also the payload of an optimized resume.
type ResumeAnalysis struct {
	PersonalInfo        PersonalInfo `json:"personalInfo"`
	ProfessionalSummary string       `json:"professionalSummary"`
	Skills              Skills       `json:"skills"`
	WorkExperience      []Experience `json:"workExperience"`
	Education           []Education  `json:"education"`
	VolunteerExperience []Volunteer  `json:"volunteerExperience,omitempty"`
	References          []Reference  `json:"references,omitempty"`
	Strengths           []string     `json:"strengths"`
}

// PersonalInfo holds the candidate's contact details
type PersonalInfo struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Location string   `json:"location"`
	Links    []string `json:"links"`
}

// Skills groups skills by kind
type Skills struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Tools     []string `json:"tools"`
}

// Experience is one work experience entry
type Experience struct {
	Role            string   `json:"role"`
	Company         string   `json:"company"`
	Duration        string   `json:"duration"`
	KeyAchievements []string `json:"keyAchievements"`
}

// Education is one education entry. Duration is the full range of study, e.g. "2018 - 2022".
type Education struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Duration    string `json:"duration"`
}

// Volunteer is one volunteer experience entry
type Volunteer struct {
	Role         string   `json:"role"`
	Organization string   `json:"organization"`
	Duration     string   `json:"duration"`
	Description  []string `json:"description"`
}

// Reference is a professional reference
type Reference struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Contact string `json:"contact,omitempty"`
}

// Normalize replaces nil required lists with empty ones so renderers never see an absent list.
// Optional sections (volunteer, references) are left nil when absent.
func (r *ResumeAnalysis) Normalize() {
	if r == nil {
		return
	}
	r.PersonalInfo.Links = nonNil(r.PersonalInfo.Links)
	r.Skills.Technical = nonNil(r.Skills.Technical)
	r.Skills.Soft = nonNil(r.Skills.Soft)
	r.Skills.Tools = nonNil(r.Skills.Tools)
	r.Strengths = nonNil(r.Strengths)

	if r.WorkExperience == nil {
		r.WorkExperience = []Experience{}
	}
	for i := range r.WorkExperience {
		r.WorkExperience[i].KeyAchievements = nonNil(r.WorkExperience[i].KeyAchievements)
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	for i := range r.VolunteerExperience {
		r.VolunteerExperience[i].Description = nonNil(r.VolunteerExperience[i].Description)
	}
}

// Clone returns a deep copy of the resume
func (r *ResumeAnalysis) Clone() *ResumeAnalysis {
	if r == nil {
		return nil
	}
	c := *r
	c.PersonalInfo.Links = cloneStrings(r.PersonalInfo.Links)
	c.Skills = Skills{
		Technical: cloneStrings(r.Skills.Technical),
		Soft:      cloneStrings(r.Skills.Soft),
		Tools:     cloneStrings(r.Skills.Tools),
	}
	if r.WorkExperience != nil {
		c.WorkExperience = make([]Experience, len(r.WorkExperience))
		for i, e := range r.WorkExperience {
			e.KeyAchievements = cloneStrings(e.KeyAchievements)
			c.WorkExperience[i] = e
		}
	}
	if r.Education != nil {
		c.Education = append([]Education{}, r.Education...)
	}
	if r.VolunteerExperience != nil {
		c.VolunteerExperience = make([]Volunteer, len(r.VolunteerExperience))
		for i, v := range r.VolunteerExperience {
			v.Description = cloneStrings(v.Description)
			c.VolunteerExperience[i] = v
		}
	}
	if r.References != nil {
		c.References = append([]Reference{}, r.References...)
	}
	c.Strengths = cloneStrings(r.Strengths)
	return &c
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string{}, s...)
}
