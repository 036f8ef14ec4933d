package types

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// UserProfile is the persisted singleton holding the user's resume source and
// the structured resume extracted from it.
type UserProfile struct {
	ResumeText   string          `json:"resumeText"`
	ResumeFile   *ResumeFile     `json:"resumeFile"`
	TargetRole   string          `json:"targetRole"`
	Analysis     *ResumeAnalysis `json:"analysis,omitempty"`
	SectionOrder []string        `json:"sectionOrder,omitempty"`
}

// ResumeFile describes an uploaded resume. Data is the base64-encoded payload;
// it is empty when the file was converted to text or stripped to fit storage.
type ResumeFile struct {
	Data     string `json:"data"`
	MimeType string `json:"mimeType"`
	Name     string `json:"name"`
	Pages    int    `json:"pages,omitempty"`
}

// ResumeSource is the authoritative resume payload of a profile
type ResumeSource struct {
	Text     string
	MimeType string
	Data     []byte
}

// IsText reports whether the source is inline text
func (s ResumeSource) IsText() bool {
	return s.Text != ""
}

// HasFileData reports whether the profile carries a binary payload
func (p *UserProfile) HasFileData() bool {
	return p.ResumeFile != nil && p.ResumeFile.Data != ""
}

// HasResume reports whether the profile has any usable resume source
func (p *UserProfile) HasResume() bool {
	return strings.TrimSpace(p.ResumeText) != "" || p.HasFileData()
}

// Source returns the authoritative resume source. Text wins over a file payload.
func (p *UserProfile) Source() (ResumeSource, error) {
	if strings.TrimSpace(p.ResumeText) != "" {
		return ResumeSource{Text: p.ResumeText}, nil
	}
	if p.HasFileData() {
		data, err := base64.StdEncoding.DecodeString(p.ResumeFile.Data)
		if err != nil {
			return ResumeSource{}, fmt.Errorf("failed to decode resume file %s: %w", p.ResumeFile.Name, err)
		}
		return ResumeSource{MimeType: p.ResumeFile.MimeType, Data: data}, nil
	}
	return ResumeSource{}, fmt.Errorf("resume content missing")
}

// SameSource reports whether both profiles carry the same resume source
func (p *UserProfile) SameSource(o *UserProfile) bool {
	if p.ResumeText != o.ResumeText {
		return false
	}
	var pf, of ResumeFile
	if p.ResumeFile != nil {
		pf = *p.ResumeFile
	}
	if o.ResumeFile != nil {
		of = *o.ResumeFile
	}
	return pf.Data == of.Data && pf.MimeType == of.MimeType && pf.Name == of.Name
}

// WithResumeText returns a copy whose source is the given text. Any file
// payload is cleared and the extracted analysis invalidated.
func (p UserProfile) WithResumeText(text string) UserProfile {
	p.ResumeText = text
	if p.ResumeFile != nil {
		f := *p.ResumeFile
		f.Data = ""
		f.Pages = 0
		p.ResumeFile = &f
	}
	p.Analysis = nil
	return p
}

// WithResumeFile returns a copy whose source is the given file. Text is cleared
// and the extracted analysis invalidated.
func (p UserProfile) WithResumeFile(file ResumeFile) UserProfile {
	p.ResumeText = ""
	p.ResumeFile = &file
	p.Analysis = nil
	return p
}

// WithoutResume returns a copy with both resume sources removed
func (p UserProfile) WithoutResume() UserProfile {
	p.ResumeText = ""
	p.ResumeFile = nil
	p.Analysis = nil
	return p
}

// WithoutFileData returns a copy with the binary payload stripped; text and
// file metadata are kept.
func (p UserProfile) WithoutFileData() UserProfile {
	if p.ResumeFile != nil {
		f := *p.ResumeFile
		f.Data = ""
		p.ResumeFile = &f
	}
	return p
}

// Clone returns a deep copy of the profile
func (p *UserProfile) Clone() UserProfile {
	c := *p
	if p.ResumeFile != nil {
		f := *p.ResumeFile
		c.ResumeFile = &f
	}
	c.Analysis = p.Analysis.Clone()
	c.SectionOrder = cloneStrings(p.SectionOrder)
	return c
}
