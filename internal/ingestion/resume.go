package ingestion

import (
	"bytes"
	"encoding/base64"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobfit-kit/internal/types"
)

// Accepted media types
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MediaTypeText = "text/plain"
)

var extensionTypes = map[string]string{
	".pdf":  MediaTypePDF,
	".docx": MediaTypeDOCX,
	".txt":  MediaTypeText,
}

// Result is a successfully ingested upload. Exactly one of Text and File.Data is set.
type Result struct {
	File types.ResumeFile
	Text string
}

// IsText reports whether the upload was converted to text
func (r *Result) IsText() bool {
	return r.File.Data == ""
}

// Apply returns profile with its resume source replaced by the upload. The
// file descriptor is kept in both cases; text uploads carry no payload.
func (r *Result) Apply(profile types.UserProfile) types.UserProfile {
	if r.IsText() {
		next := profile.WithResumeFile(r.File)
		return next.WithResumeText(r.Text)
	}
	return profile.WithResumeFile(r.File)
}

// DetectMediaType normalizes the declared media type, falling back to the
// file extension when the declaration is missing or generic.
func DetectMediaType(name, declared string) string {
	if declared != "" {
		if parsed, _, err := mime.ParseMediaType(declared); err == nil {
			declared = parsed
		}
		declared = strings.ToLower(declared)
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return declared
}

// Ingest converts an uploaded resume. PDFs are kept as a base64 payload;
// DOCX and plain text are converted to text.
func Ingest(name, mediaType string, data []byte) (*Result, error) {
	mediaType = DetectMediaType(name, mediaType)
	file := types.ResumeFile{Name: name, MimeType: mediaType}

	switch mediaType {
	case MediaTypePDF:
		pages, err := countPDFPages(name, data)
		if err != nil {
			return nil, err
		}
		file.Data = base64.StdEncoding.EncodeToString(data)
		file.Pages = pages
		return &Result{File: file}, nil

	case MediaTypeDOCX:
		text, err := extractDocxText(name, data)
		if err != nil {
			return nil, err
		}
		return &Result{File: file, Text: text}, nil

	case MediaTypeText:
		if !utf8.Valid(data) {
			return nil, &ExtractionError{Name: name, Message: "text file is not valid UTF-8"}
		}
		text := string(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")))
		text = strings.ReplaceAll(text, "\r\n", "\n")
		return &Result{File: file, Text: text}, nil

	default:
		return nil, &UnsupportedFormatError{Name: name, MediaType: mediaType}
	}
}
