package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortlink-registry/internal/entity"
)

// locationHeader carries the visitor country when the service runs behind Cloudflare.
const locationHeader = "CF-IPCountry"

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type registryUseCase interface {
	SubmitBatch(ctx context.Context, batch []entity.Submission) ([]*entity.URLRecord, error)
	Resolve(ctx context.Context, shortCode string, visit entity.Visit) (string, error)
	ListAll(ctx context.Context) ([]*entity.URLRecord, error)
	GetByShortCode(ctx context.Context, shortCode string) (*entity.URLRecord, error)
	Now() time.Time
}

type urlHandler struct {
	useCase  registryUseCase
	validate *validator.Validate
}

func newURLHandler(useCase registryUseCase, validate *validator.Validate) *urlHandler {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &urlHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *urlHandler) submitURLs(w http.ResponseWriter, r *http.Request) {
	var req submitRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, invalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, validationErrorResponse(err))
		return
	}

	records, err := h.useCase.SubmitBatch(r.Context(), req.toSubmissions())
	if err != nil {
		var verr *entity.ValidationError

		switch {
		case errors.As(err, &verr):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, submissionErrorResponse(verr))
		case errors.Is(err, entity.ErrEmptyBatch):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, emptyBatchResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, submitResponse{URLs: toURLResponses(records, h.useCase.Now())})
}

func (h *urlHandler) listURLs(w http.ResponseWriter, r *http.Request) {
	records, err := h.useCase.ListAll(r.Context())
	if err != nil {
		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	now := h.useCase.Now()
	active, expired := entity.Partition(records, now)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, statsResponse{
		Active:  toURLResponses(active, now),
		Expired: toURLResponses(expired, now),
	})
}

func (h *urlHandler) getURL(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	record, err := h.useCase.GetByShortCode(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, urlNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, serverErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toURLResponse(record, h.useCase.Now()))
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	target, err := h.useCase.Resolve(r.Context(), shortCode, entity.Visit{
		Referrer: r.Referer(),
		Location: r.Header.Get(locationHeader),
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrURLNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, urlNotFoundResponse)
		case errors.Is(err, entity.ErrURLExpired):
			render.Status(r, http.StatusGone)
			render.JSON(w, r, urlExpiredResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, serverErrorResponse)
		}
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
