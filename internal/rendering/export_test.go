package rendering

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML(t *testing.T) {
	r := sampleResume()
	r.ProfessionalSummary = "Builds <fast> systems"

	out, err := HTML(Render(r, []string{"experience", "summary"}))
	require.NoError(t, err)

	assert.Contains(t, out, "<h1>Ada Lovelace</h1>")
	assert.Contains(t, out, "@page { size: A4;")
	assert.Contains(t, out, "@media print")
	assert.Contains(t, out, "Builds &lt;fast&gt; systems")
	assert.Contains(t, out, "Acme &amp; Sons")
	assert.Contains(t, out, "Go, C#")
	assert.Less(t, strings.Index(out, `id="experience"`), strings.Index(out, `id="summary"`))
	assert.NotContains(t, out, `id="volunteer"`)
}

func TestLaTeX(t *testing.T) {
	out, err := LaTeX(Render(sampleResume(), nil), "")
	require.NoError(t, err)

	assert.Contains(t, out, `\documentclass`)
	assert.Contains(t, out, `\resumesection{Professional Summary}`)
	assert.Contains(t, out, `\textbf{Engineer} \hfill 2020 - 2024`)
	assert.Contains(t, out, `Acme \& Sons`)
	assert.Contains(t, out, `Cut p99 latency by 40\%`)
	assert.Contains(t, out, `C\#`)
	assert.Contains(t, out, `\url{https://example.com/ada}`)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(out), `\end{document}`))
}

func TestLaTeX_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{range .Sections}}[{{escape .Label}}]{{end}}`), 0o644))

	out, err := LaTeX(Render(sampleResume(), []string{"strengths"}), path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "[Key Strengths][Professional Summary]"))
}

func TestLaTeX_TemplateErrors(t *testing.T) {
	_, err := LaTeX(Document{}, filepath.Join(t.TempDir(), "missing.tex"))
	var tmplErr *TemplateError
	require.ErrorAs(t, err, &tmplErr)
	assert.Contains(t, err.Error(), "not found")

	path := filepath.Join(t.TempDir(), "broken.tex")
	require.NoError(t, os.WriteFile(path, []byte(`{{range .Sections}`), 0o644))
	_, err = LaTeX(Document{}, path)
	assert.ErrorAs(t, err, &tmplErr)
}

func TestPDF_PrintsRenderedHTML(t *testing.T) {
	var printed string
	restore := printPDF
	printPDF = func(_ context.Context, html string, timeout time.Duration) ([]byte, error) {
		printed = html
		assert.Equal(t, 5*time.Second, timeout)
		return []byte("%PDF-1.7"), nil
	}
	t.Cleanup(func() { printPDF = restore })

	doc := Render(sampleResume(), nil)
	data, err := Export(context.Background(), doc, FormatPDF, ExportOptions{PDFTimeout: 5 * time.Second})
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-1.7"), data)
	want, err := HTML(doc)
	require.NoError(t, err)
	assert.Equal(t, want, printed)
}

func TestPDF_BrowserFailure(t *testing.T) {
	restore := printPDF
	printPDF = func(context.Context, string, time.Duration) ([]byte, error) {
		return nil, errors.New("chrome not found")
	}
	t.Cleanup(func() { printPDF = restore })

	_, err := PDF(context.Background(), Document{}, 0)
	var renderErr *RenderError
	assert.ErrorAs(t, err, &renderErr)
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": FormatHTML, "HTML": FormatHTML, "tex": FormatLaTeX, "latex": FormatLaTeX, "pdf": FormatPDF}
	for in, want := range tests {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("docx")
	assert.Error(t, err)

	assert.Equal(t, ".tex", FormatLaTeX.Extension())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
}
