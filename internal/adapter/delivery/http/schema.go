package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

const statusError = "error"

// validity accepts the validity window as a JSON string, number or null.
type validity string

func (v *validity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = validity(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("validity must be a string or a number: %w", err)
		}
		*v = validity(n.String())
	}

	return nil
}

// submissionRequest is one row of a registration batch.
type submissionRequest struct {
	URL       string   `json:"url"`
	Validity  validity `json:"validity"`
	ShortCode string   `json:"shortcode"`
}

// submitRequest is the body of a registration request.
type submitRequest struct {
	URLs []submissionRequest `json:"urls" validate:"required"`
}

func (req submitRequest) toSubmissions() []entity.Submission {
	subs := make([]entity.Submission, len(req.URLs))
	for i, u := range req.URLs {
		subs[i] = entity.Submission{
			URL:             u.URL,
			ValidityMinutes: string(u.Validity),
			CustomShortCode: u.ShortCode,
		}
	}
	return subs
}

type clickResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Location  string    `json:"location"`
}

// urlResponse represents a registered URL together with its click ledger.
type urlResponse struct {
	ID           string          `json:"id"`
	ShortCode    string          `json:"shortcode"`
	OriginalURL  string          `json:"originalUrl"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
	ExpiryAt     time.Time       `json:"expiryAt"`
	ClickCount   int             `json:"clickCount"`
	ClickHistory []clickResponse `json:"clickHistory"`
}

func toURLResponse(r *entity.URLRecord, now time.Time) urlResponse {
	clicks := make([]clickResponse, len(r.ClickHistory))
	for i, c := range r.ClickHistory {
		clicks[i] = clickResponse{
			Timestamp: c.Timestamp,
			Source:    c.Source,
			Location:  c.Location,
		}
	}

	return urlResponse{
		ID:           r.ID,
		ShortCode:    r.ShortCode,
		OriginalURL:  r.OriginalURL,
		Status:       r.Status(now),
		CreatedAt:    r.CreatedAt,
		ExpiryAt:     r.ExpiryAt,
		ClickCount:   r.ClickCount(),
		ClickHistory: clicks,
	}
}

func toURLResponses(records []*entity.URLRecord, now time.Time) []urlResponse {
	out := make([]urlResponse, len(records))
	for i, r := range records {
		out[i] = toURLResponse(r, now)
	}
	return out
}

type submitResponse struct {
	URLs []urlResponse `json:"urls"`
}

// statsResponse splits the registry into active and expired records.
type statsResponse struct {
	Active  []urlResponse `json:"active"`
	Expired []urlResponse `json:"expired"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	emptyBatchResponse = errorResponse{
		Status:  statusError,
		Message: "no urls provided",
	}

	urlNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "url not found",
	}

	urlExpiredResponse = errorResponse{
		Status:  statusError,
		Message: "url expired",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	default:
		return "invalid value"
	}
}

func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	errs, ok := err.(validator.ValidationErrors)
	if ok {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

// submissionErrorResponse lists every rejected entry of a batch.
func submissionErrorResponse(verr *entity.ValidationError) errorResponse {
	errs := make([]validationError, len(verr.Errors))
	for i, msg := range verr.Errors {
		errs[i] = validationError{
			Field:   "urls",
			Message: msg,
		}
	}

	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  errs,
	}
}
