package rendering

import (
	"bytes"
	"context"
	"embed"
	htmltemplate "html/template"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/jonathan/jobfit-kit/internal/browser"
)

//go:embed templates/*.tmpl
var templateFiles embed.FS

// Format is an export format
type Format string

// Export formats
const (
	FormatHTML  Format = "html"
	FormatLaTeX Format = "latex"
	FormatPDF   Format = "pdf"
)

// ContentType returns the media type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatLaTeX:
		return "application/x-latex; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the file extension of the format, including the dot
func (f Format) Extension() string {
	if f == FormatLaTeX {
		return ".tex"
	}
	return "." + string(f)
}

// ParseFormat parses an export format name; "tex" is accepted for LaTeX
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "html":
		return FormatHTML, nil
	case "latex", "tex":
		return FormatLaTeX, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", &RenderError{Message: "unknown export format " + s + "; use html, latex or pdf"}
	}
}

// ExportOptions tunes Export
type ExportOptions struct {
	// LaTeXTemplate is a template file used instead of the built-in one
	LaTeXTemplate string
	// PDFTimeout bounds headless Chrome; zero uses the browser default
	PDFTimeout time.Duration
}

// printPDF is replaced in tests
var printPDF = browser.PrintPDF

var htmlTemplate = htmltemplate.Must(htmltemplate.New("resume.html.tmpl").
	Funcs(htmltemplate.FuncMap{"join": strings.Join}).
	ParseFS(templateFiles, "templates/resume.html.tmpl"))

// HTML renders a print-ready A4 page of the document
func HTML(doc Document) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, doc); err != nil {
		return "", &TemplateError{Message: "failed to execute html template", Cause: err}
	}
	return buf.String(), nil
}

// LaTeX renders the document as a LaTeX source. An empty templatePath uses the
// built-in template.
func LaTeX(doc Document, templatePath string) (string, error) {
	tmpl, err := parseLaTeXTemplate(templatePath)
	if err != nil {
		return "", err
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, doc); err != nil {
		return "", &TemplateError{Message: "failed to execute latex template", Cause: err}
	}
	return buf.String(), nil
}

// PDF prints the document's HTML rendering through headless Chrome
func PDF(ctx context.Context, doc Document, timeout time.Duration) ([]byte, error) {
	page, err := HTML(doc)
	if err != nil {
		return nil, err
	}
	data, err := printPDF(ctx, page, timeout)
	if err != nil {
		return nil, &RenderError{Message: "failed to print pdf", Cause: err}
	}
	return data, nil
}

// Export renders the document in the requested format
func Export(ctx context.Context, doc Document, format Format, opts ExportOptions) ([]byte, error) {
	switch format {
	case FormatHTML:
		out, err := HTML(doc)
		return []byte(out), err
	case FormatLaTeX:
		out, err := LaTeX(doc, opts.LaTeXTemplate)
		return []byte(out), err
	case FormatPDF:
		return PDF(ctx, doc, opts.PDFTimeout)
	default:
		return nil, &RenderError{Message: "unknown export format " + string(format)}
	}
}

func parseLaTeXTemplate(templatePath string) (*template.Template, error) {
	var content []byte
	var err error
	if templatePath == "" {
		content, err = templateFiles.ReadFile("templates/resume.tex.tmpl")
	} else {
		content, err = os.ReadFile(templatePath)
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &TemplateError{Message: "template file not found: " + templatePath, Cause: err}
		}
		return nil, &TemplateError{Message: "failed to read template file: " + templatePath, Cause: err}
	}

	tmpl, err := template.New("resume").Funcs(template.FuncMap{
		"escape":     EscapeLaTeX,
		"escapeJoin": escapeJoin,
		"contact":    contactLine,
	}).Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Message: "failed to parse template", Cause: err}
	}
	return tmpl, nil
}
