// Package server exposes an editor.Editor over HTTP. One handler owns one
// draft; requests are applied in arrival order.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-fieldbuilder/pkg/editor"
	"github.com/goliatone/go-fieldbuilder/pkg/model"
	"github.com/goliatone/go-fieldbuilder/pkg/preview"
)

// Handler serves the field API.
type Handler struct {
	opts   Options
	router chi.Router
	logger *slog.Logger

	mu     sync.Mutex
	editor *editor.Editor
}

// NewHandler builds the handler and its router.
func NewHandler(fns ...OptionFn) (*Handler, error) {
	opts := NewOptions(fns...)

	h := &Handler{
		opts:   opts,
		editor: opts.Editor,
		logger: opts.Logger,
	}
	if h.editor == nil {
		h.editor = editor.New()
	}
	if h.logger == nil {
		h.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if h.opts.Preview == nil {
		renderer, err := preview.New()
		if err != nil {
			return nil, err
		}
		h.opts.Preview = renderer
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	if opts.Guard != nil {
		r.Use(h.guard)
	}

	r.Route(opts.RoutePath, func(r chi.Router) {
		r.Get("/", h.get)
		r.Patch("/", h.patch)
		r.Post("/choices", h.addChoice)
		r.Delete("/choices/{text}", h.removeChoice)
		r.Post("/clear", h.clear)
		r.Post("/submit", h.submit)
		r.Get("/preview", h.preview)
	})

	h.router = r
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type noticeBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	OK      bool   `json:"ok"`
}

type stateResponse struct {
	Notice     *noticeBody       `json:"notice,omitempty"`
	Draft      model.Draft       `json:"draft"`
	Warning    string            `json:"warning"`
	MaxChoices int               `json:"maxChoices"`
	Definition *model.Definition `json:"definition,omitempty"`
	ID         string            `json:"id,omitempty"`
}

type patchRequest struct {
	Label        *string `json:"label"`
	MultiSelect  *bool   `json:"multiSelect"`
	DefaultValue *string `json:"defaultValue"`
	Order        *string `json:"order"`
}

type choiceRequest struct {
	Text string `json:"text"`
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, h.state(nil))
}

func (h *Handler) patch(w http.ResponseWriter, r *http.Request) {
	var req patchRequest
	if err := h.readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var order *model.OrderMode
	if req.Order != nil {
		mode, err := model.ParseOrderMode(*req.Order)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		order = &mode
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if req.Label != nil {
		h.editor.SetLabel(*req.Label)
	}
	if req.MultiSelect != nil {
		h.editor.SetMultiSelect(*req.MultiSelect)
	}
	if req.DefaultValue != nil {
		h.editor.SetDefaultValue(*req.DefaultValue)
	}
	if order != nil {
		h.editor.SetOrder(*order)
	}
	writeJSON(w, http.StatusOK, h.state(nil))
}

func (h *Handler) addChoice(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	if err := h.readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.respond(w, h.editor.AddChoice(req.Text))
}

func (h *Handler) removeChoice(w http.ResponseWriter, r *http.Request) {
	text := chi.URLParam(r, "text")
	// chi matches on RawPath when it is set, leaving the parameter escaped;
	// otherwise the parameter comes from the already decoded Path.
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(text)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid choice text")
			return
		}
		text = unescaped
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.respond(w, h.editor.RemoveChoice(text))
}

func (h *Handler) clear(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.respond(w, h.editor.Clear())
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	res := h.editor.Submit(r.Context())
	if res.Kind == editor.NoticeSubmitFailed || res.Kind == editor.NoticeInvalidDocument {
		h.logger.Warn("submit rejected",
			"request_id", middleware.GetReqID(r.Context()),
			"kind", res.Kind.String(),
			"error", res.Err,
		)
	}
	h.respond(w, res)
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	def := model.NewDefinition(h.editor.Draft())
	warning := h.editor.Warning()
	h.mu.Unlock()

	query := r.URL.Query()
	out, err := h.opts.Preview.Render(r.Context(), def, preview.RenderOptions{
		Name:    query.Get("name"),
		Warning: warning,
		Theme:   query.Get("theme"),
		Variant: query.Get("variant"),
	})
	if err != nil {
		h.logger.Error("preview failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", h.opts.Preview.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// respond must be called with mu held.
func (h *Handler) respond(w http.ResponseWriter, res editor.Result) {
	body := h.state(&noticeBody{
		Kind:    res.Kind.String(),
		Message: res.Message(),
		OK:      res.OK(),
	})
	if res.OK() {
		body.Definition = res.Definition
		if res.Response != nil {
			body.ID = res.Response.ID
		}
	}
	writeJSON(w, statusFor(res), body)
}

func (h *Handler) state(notice *noticeBody) stateResponse {
	draft := h.editor.Draft()
	if draft.Choices == nil {
		draft.Choices = []model.Choice{}
	}
	return stateResponse{
		Notice:     notice,
		Draft:      draft,
		Warning:    h.editor.Warning(),
		MaxChoices: h.editor.MaxChoices(),
	}
}

func statusFor(res editor.Result) int {
	switch {
	case res.OK():
		return http.StatusOK
	case res.Kind == editor.NoticeSubmitFailed:
		return http.StatusBadGateway
	default:
		return http.StatusUnprocessableEntity
	}
}

func (h *Handler) readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (h *Handler) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.opts.Guard(r); err != nil {
			code := http.StatusForbidden
			var httpErr HTTPError
			if errors.As(err, &httpErr) && httpErr != nil && httpErr.StatusCode() > 0 {
				code = httpErr.StatusCode()
			}
			writeError(w, code, http.StatusText(code))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
