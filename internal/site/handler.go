package site

import (
	"bytes"
	"embed"
	"encoding/json"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type Handler struct {
	logger *zap.Logger
	opts   Options
}

func NewHandler(logger *zap.Logger, opts Options) *Handler {
	return &Handler{logger: logger, opts: opts}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/api/sections", h.sections)
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "index.html", Compose(h.opts)); err != nil {
		h.logger.Error("rendering landing page failed", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (h *Handler) sections(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(Compose(h.opts)); err != nil {
		h.logger.Error("encoding sections failed", zap.Error(err))
	}
}
