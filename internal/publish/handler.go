package publish

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/model"
)

var validate = validator.New()

type draftPayload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type publishRequest struct {
	Drafts []draftPayload `json:"drafts" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Handler serves the JSON publish endpoint.
type Handler struct {
	workflow *Workflow
}

func NewHandler(w *Workflow) *Handler {
	return &Handler{workflow: w}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.reply(w, http.StatusMethodNotAllowed, messageResponse{config.HTTPErrMethodNotAllowed})
		return
	}

	if !h.workflow.Ready() {
		hlog.FromRequest(r).Error().Msg("Publish requested but GitHub is not configured")
		h.reply(w, http.StatusInternalServerError, messageResponse{config.ErrNotConfigured})
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Invalid publish payload")
		h.reply(w, http.StatusBadRequest, messageResponse{config.ErrInvalidPayload})
		return
	}
	if err := validate.Struct(req); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Msg("Invalid publish payload")
		h.reply(w, http.StatusBadRequest, messageResponse{config.ErrInvalidPayload})
		return
	}

	drafts := make([]model.Draft, 0, len(req.Drafts))
	for _, d := range req.Drafts {
		drafts = append(drafts, model.Draft{ID: model.DraftID(d.ID), Title: d.Title, Body: d.Body})
	}

	// The batch runs to completion even if the client disconnects.
	report, err := h.workflow.Publish(context.WithoutCancel(r.Context()), drafts)
	if err != nil {
		h.reply(w, http.StatusInternalServerError, messageResponse{err.Error()})
		return
	}

	status := http.StatusOK
	if !report.OK() {
		status = http.StatusMultiStatus
	}
	h.reply(w, status, report)
}

func (h *Handler) reply(w http.ResponseWriter, status int, body any) {
	h.workflow.metrics.RecordBatch(status)

	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
