// Package editor serves the server-rendered draft management pages.
package editor

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/the-drafts/internal/config"
	"github.com/debemdeboas/the-drafts/internal/model"
	"github.com/debemdeboas/the-drafts/internal/store"
	"github.com/debemdeboas/the-drafts/internal/util"
)

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

const (
	DraftsPath = "/drafts"

	StatusPublished  = "Published successfully."
	StatusPartialFmt = "Published with %d of %d drafts failing."
	StatusErrorFmt   = "Error: %s"
)

const (
	formTitle = "title"
	formBody  = "body"
)

// Publisher commits a batch of drafts. *publish.Workflow implements it.
type Publisher interface {
	Publish(ctx context.Context, drafts []model.Draft) (model.Report, error)
}

type Handler struct {
	drafts    *store.DraftStore
	publisher Publisher

	fs fs.FS
}

func NewHandler(drafts *store.DraftStore, publisher Publisher, fsys fs.FS) *Handler {
	return &Handler{
		drafts:    drafts,
		publisher: publisher,
		fs:        fsys,
	}
}

// resultView flattens a PublishResult for the template.
type resultView struct {
	Draft  string
	OK     bool
	File   string
	Commit string
	Status int
	Error  string
}

func viewOf(res model.PublishResult) resultView {
	v := resultView{Draft: res.Draft}
	switch o := res.Outcome.(type) {
	case model.Success:
		v.OK, v.File, v.Commit = true, o.Path, o.Commit
	case model.Failure:
		v.Status, v.Error = o.Status, o.Message
	}
	return v
}

// PageState is the form and status shown above the draft list.
type PageState struct {
	Editing   model.DraftID
	FormTitle string
	FormBody  string
	Status    string
	Results   []resultView
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, state PageState) {
	tmpl, err := template.ParseFS(h.fs, config.TemplatesLocalDir+"/"+config.TemplateLayout, config.TemplatesLocalDir+"/"+config.TemplateDrafts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	drafts, err := h.drafts.List(r.Context())
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list drafts")
		http.Error(w, fmt.Sprintf(config.ErrLoadingDraftsFmt, err), http.StatusInternalServerError)
		return
	}

	data := struct {
		*model.PageData
		PageState
		Drafts []model.Draft
	}{
		PageData:  model.NewPageData(r),
		PageState: state,
		Drafts:    drafts,
	}
	data.Title = "Drafts"

	w.Header().Set(config.HCType, config.CTypeHTML)
	w.Header().Set(config.HETag, util.ContentHash([]byte(data.Theme+data.SyntaxTheme)))
	w.WriteHeader(code)
	if err := tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		editorLogger.Error().Err(err).Msg("Failed to render drafts page")
	}
}

func redirectToDrafts(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DraftsPath, http.StatusSeeOther)
}

// ServeDrafts lists the drafts. ?edit=<id> fills the form with that draft.
func (h *Handler) ServeDrafts(w http.ResponseWriter, r *http.Request) {
	var state PageState

	if id := r.URL.Query().Get("edit"); id != "" {
		d, err := h.drafts.Get(r.Context(), model.DraftID(id))
		if errors.Is(err, store.ErrDraftNotFound) {
			redirectToDrafts(w, r)
			return
		} else if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		state.Editing, state.FormTitle, state.FormBody = d.ID, d.Title, d.Body
	}

	h.render(w, r, http.StatusOK, state)
}

func (h *Handler) AddDraft(w http.ResponseWriter, r *http.Request) {
	title, body := r.FormValue(formTitle), r.FormValue(formBody)

	d, err := h.drafts.Add(r.Context(), title, body)
	if errors.Is(err, store.ErrTitleRequired) {
		h.render(w, r, http.StatusBadRequest, PageState{FormTitle: title, FormBody: body, Status: config.ErrTitleRequired})
		return
	} else if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to add draft")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	hlog.FromRequest(r).Info().Str("draft_id", string(d.ID)).Str("title", d.Title).Msg("Draft added")
	redirectToDrafts(w, r)
}

func (h *Handler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	id := model.DraftID(r.PathValue("id"))

	_, err := h.drafts.Update(r.Context(), id, r.FormValue(formTitle), r.FormValue(formBody))
	if errors.Is(err, store.ErrDraftNotFound) {
		http.Error(w, config.ErrDraftNotFound, http.StatusNotFound)
		return
	} else if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to save draft")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	redirectToDrafts(w, r)
}

func (h *Handler) DeleteDraft(w http.ResponseWriter, r *http.Request) {
	id := model.DraftID(r.PathValue("id"))

	if err := h.drafts.Delete(r.Context(), id); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to delete draft")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	redirectToDrafts(w, r)
}

// PublishAll sends every stored draft to the publisher. The published drafts
// are removed only when every draft was published; drafts added while the
// batch ran are kept. The batch runs to completion even if the client
// disconnects.
func (h *Handler) PublishAll(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	r = r.WithContext(ctx)

	drafts, err := h.drafts.List(ctx)
	if err != nil {
		http.Error(w, fmt.Sprintf(config.ErrLoadingDraftsFmt, err), http.StatusInternalServerError)
		return
	}
	if len(drafts) == 0 {
		h.render(w, r, http.StatusOK, PageState{Status: config.ErrNoDrafts})
		return
	}

	report, err := h.publisher.Publish(ctx, drafts)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Publish failed")
		h.render(w, r, http.StatusOK, PageState{Status: fmt.Sprintf(StatusErrorFmt, err)})
		return
	}

	state := PageState{Results: make([]resultView, 0, len(report.Results))}
	for _, res := range report.Results {
		state.Results = append(state.Results, viewOf(res))
	}

	if report.OK() {
		ids := make([]model.DraftID, 0, len(drafts))
		for _, d := range drafts {
			ids = append(ids, d.ID)
		}
		if err := h.drafts.Remove(ctx, ids...); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("Failed to remove published drafts")
			state.Status = fmt.Sprintf(StatusErrorFmt, err)
		} else {
			state.Status = StatusPublished
		}
	} else {
		state.Status = fmt.Sprintf(StatusPartialFmt, report.Failed(), len(report.Results))
	}

	h.render(w, r, http.StatusOK, state)
}
