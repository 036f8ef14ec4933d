package types

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleFile() ResumeFile {
	return ResumeFile{
		Data:     base64.StdEncoding.EncodeToString([]byte("%PDF-1.4 fake")),
		MimeType: "application/pdf",
		Name:     "resume.pdf",
		Pages:    2,
	}
}

func TestUserProfile_WithResumeFileClearsText(t *testing.T) {
	p := UserProfile{ResumeText: "old text", Analysis: &ResumeAnalysis{ProfessionalSummary: "x"}}

	got := p.WithResumeFile(sampleFile())

	assert.Empty(t, got.ResumeText)
	require.NotNil(t, got.ResumeFile)
	assert.True(t, got.HasFileData())
	assert.Nil(t, got.Analysis)
	// original untouched
	assert.Equal(t, "old text", p.ResumeText)
	assert.NotNil(t, p.Analysis)
}

func TestUserProfile_WithResumeTextClearsFileData(t *testing.T) {
	file := sampleFile()
	p := UserProfile{ResumeFile: &file, Analysis: &ResumeAnalysis{}}

	got := p.WithResumeText("pasted resume")

	assert.Equal(t, "pasted resume", got.ResumeText)
	require.NotNil(t, got.ResumeFile)
	assert.Empty(t, got.ResumeFile.Data)
	assert.Equal(t, "resume.pdf", got.ResumeFile.Name)
	assert.Equal(t, "application/pdf", got.ResumeFile.MimeType)
	assert.Nil(t, got.Analysis)
	assert.True(t, p.HasFileData(), "receiver must not be modified")
}

func TestUserProfile_WithoutResume(t *testing.T) {
	file := sampleFile()
	p := UserProfile{ResumeText: "a", ResumeFile: &file, TargetRole: "SRE", Analysis: &ResumeAnalysis{}}

	got := p.WithoutResume()

	assert.Empty(t, got.ResumeText)
	assert.Nil(t, got.ResumeFile)
	assert.Nil(t, got.Analysis)
	assert.Equal(t, "SRE", got.TargetRole)
	assert.False(t, got.HasResume())
}

func TestUserProfile_WithoutFileData(t *testing.T) {
	file := sampleFile()
	p := UserProfile{ResumeFile: &file, TargetRole: "SRE"}

	got := p.WithoutFileData()

	require.NotNil(t, got.ResumeFile)
	assert.Empty(t, got.ResumeFile.Data)
	assert.Equal(t, file.Name, got.ResumeFile.Name)
	assert.Equal(t, file.MimeType, got.ResumeFile.MimeType)
	assert.NotEmpty(t, p.ResumeFile.Data)
}

func TestUserProfile_Source(t *testing.T) {
	t.Run("text wins", func(t *testing.T) {
		file := sampleFile()
		p := UserProfile{ResumeText: "hello", ResumeFile: &file}
		src, err := p.Source()
		require.NoError(t, err)
		assert.True(t, src.IsText())
		assert.Equal(t, "hello", src.Text)
	})

	t.Run("file payload", func(t *testing.T) {
		file := sampleFile()
		p := UserProfile{ResumeFile: &file}
		src, err := p.Source()
		require.NoError(t, err)
		assert.False(t, src.IsText())
		assert.Equal(t, "application/pdf", src.MimeType)
		assert.Equal(t, []byte("%PDF-1.4 fake"), src.Data)
	})

	t.Run("whitespace only text is missing", func(t *testing.T) {
		p := UserProfile{ResumeText: "  \n\t"}
		_, err := p.Source()
		assert.Error(t, err)
	})

	t.Run("file without data is missing", func(t *testing.T) {
		p := UserProfile{ResumeFile: &ResumeFile{Name: "a.docx", MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}}
		_, err := p.Source()
		assert.Error(t, err)
	})

	t.Run("corrupt base64", func(t *testing.T) {
		p := UserProfile{ResumeFile: &ResumeFile{Name: "a.pdf", Data: "!!!"}}
		_, err := p.Source()
		assert.Error(t, err)
	})
}

func TestUserProfile_CloneIsDeep(t *testing.T) {
	file := sampleFile()
	p := UserProfile{
		ResumeFile:   &file,
		Analysis:     &ResumeAnalysis{Strengths: []string{"grit"}},
		SectionOrder: []string{"skills", "summary"},
	}

	c := p.Clone()
	c.ResumeFile.Name = "changed"
	c.Analysis.Strengths[0] = "changed"
	c.SectionOrder[0] = "changed"

	assert.Equal(t, "resume.pdf", p.ResumeFile.Name)
	assert.Equal(t, "grit", p.Analysis.Strengths[0])
	assert.Equal(t, "skills", p.SectionOrder[0])
}

func TestUserProfile_JSONLayout(t *testing.T) {
	p := UserProfile{ResumeText: "x", TargetRole: "Engineer"}
	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "resumeText")
	assert.Contains(t, raw, "resumeFile")
	assert.Nil(t, raw["resumeFile"])
	assert.Equal(t, "Engineer", raw["targetRole"])
	assert.NotContains(t, raw, "analysis")
}
