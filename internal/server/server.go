// Package server exposes the outline service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/wikioutline/internal/app"
	"github.com/hyperifyio/wikioutline/internal/outline"
)

// Outliner produces the outline text for a country. ok is false when text is
// an error message.
type Outliner interface {
	OutlineText(ctx context.Context, country string) (text string, ok bool)
}

// Server holds the HTTP handlers and their dependencies.
type Server struct {
	outliner Outliner
}

// New creates a Server backed by o.
func New(o Outliner) *Server {
	return &Server{outliner: o}
}

// Handler returns the full middleware chain around the router. CORS sits
// outside the router so preflight requests are answered before method
// matching rejects OPTIONS.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Routes()
	h = recoverMiddleware(h)
	h = corsMiddleware(h)
	h = loggingMiddleware(h)
	return h
}

// Routes configures HTTP routes.
func (s *Server) Routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.rootHandler).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/api/outline", s.outlineHandler).Methods(http.MethodGet)
	return r
}

// rootHandler describes how to use the API.
func (s *Server) rootHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Wikipedia Country Outline API",
		"usage":   "GET /api/outline?country=<country_name>",
		"example": "/api/outline?country=Vanuatu",
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
		"version":   app.BuildVersion,
		"commit":    app.BuildCommit,
		"built":     app.BuildDate,
	})
}

// outlineHandler always answers 200 once the request is valid: upstream
// failures are reported in the body, not the status.
func (s *Server) outlineHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	values, present := q["country"]
	if !present {
		writeMissingParam(w, "country")
		return
	}
	// A repeated parameter binds its last value.
	country := values[len(values)-1]
	format := strings.ToLower(strings.TrimSpace(q.Get("format")))
	switch format {
	case "", "markdown", "md", "text", "html", "pdf":
	default:
		writeJSON(w, http.StatusUnprocessableEntity, validationError{Detail: []validationDetail{{
			Type:  "enum",
			Loc:   []string{"query", "format"},
			Msg:   "Input should be 'markdown', 'html' or 'pdf'",
			Input: format,
		}}})
		return
	}

	text, ok := s.outliner.OutlineText(r.Context(), country)
	if !ok {
		writeText(w, text)
		return
	}

	switch format {
	case "html":
		page, err := outline.ToHTML(text)
		if err != nil {
			log.Warn().Err(err).Str("country", country).Msg("html render failed")
			writeText(w, "Error: "+err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(page))
	case "pdf":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `inline; filename="`+pdfName(country)+`"`)
		if err := outline.WritePDF(w, text); err != nil {
			// Headers may already be out; log only.
			log.Error().Err(err).Str("country", country).Msg("pdf render failed")
		}
	default:
		writeText(w, text)
	}
}

func pdfName(country string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		}
		return -1
	}, strings.TrimSpace(country))
	if name == "" {
		name = "outline"
	}
	return name + ".pdf"
}

func writeText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

type validationDetail struct {
	Type  string      `json:"type"`
	Loc   []string    `json:"loc"`
	Msg   string      `json:"msg"`
	Input interface{} `json:"input"`
}

type validationError struct {
	Detail []validationDetail `json:"detail"`
}

func writeMissingParam(w http.ResponseWriter, name string) {
	writeJSON(w, http.StatusUnprocessableEntity, validationError{Detail: []validationDetail{{
		Type: "missing",
		Loc:  []string{"query", name},
		Msg:  "Field required",
	}}})
}
