package ingestion

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// countPDFPages opens the document to validate it. The parser panics on some
// malformed inputs, so panics are reported as extraction errors.
func countPDFPages(name string, data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Name: name, Message: "failed to read pdf", Cause: fmt.Errorf("%v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, &ExtractionError{Name: name, Message: "failed to read pdf", Cause: err}
	}
	return reader.NumPage(), nil
}
