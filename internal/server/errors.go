// Package server provides the HTTP REST API of the job-fit assistant.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/jobfit-kit/internal/app"
	"github.com/jonathan/jobfit-kit/internal/gateway"
	"github.com/jonathan/jobfit-kit/internal/ingestion"
	"github.com/jonathan/jobfit-kit/internal/rendering"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validation    *ErrValidation
		fieldErrors   validator.ValidationErrors
		missingResume *gateway.MissingResumeError
		input         *gateway.InputError
		aiResponse    *gateway.AIResponseError
		notFound      *app.NotFoundError
		transition    *app.InvalidTransitionError
		invalidMove   *rendering.InvalidMoveError
		unsupported   *ingestion.UnsupportedFormatError
		extraction    *ingestion.ExtractionError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &fieldErrors),
		errors.As(err, &missingResume), errors.As(err, &input):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &transition), errors.As(err, &invalidMove),
		errors.Is(err, app.ErrOperationInFlight), errors.Is(err, app.ErrNoAnalysis),
		errors.Is(err, app.ErrNoResumeAnalysis), errors.Is(err, app.ErrResumeChanged):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &unsupported):
		return http.StatusUnsupportedMediaType
	case errors.As(err, &extraction), errors.Is(err, ingestion.ErrContentExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.As(err, &aiResponse), errors.Is(err, ingestion.ErrHTTPRequestFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
