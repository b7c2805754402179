package web

import (
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/hpungsan/ripple/internal/config"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/ops"
	"github.com/hpungsan/ripple/internal/pattern"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	engine   *pattern.Engine
	renderer *Renderer
}

// HandleList handles GET /entries — list entries in a journal, newest first.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	journalName := r.URL.Query().Get("journal")
	if journalName == "" {
		journalName = "default"
	}

	input := ops.ListInput{
		Journal: journalName,
		Limit:   parseIntParam(r, "limit", 20),
		Offset:  parseIntParam(r, "offset", 0),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Entries",
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Journal:    journalName,
	})
}

// HandleDetail handles GET /entries/{id} — view a single entry.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry ID is required"))
		return
	}

	result, err := ops.Get(h.db, ops.GetInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	entry := result.Entry
	rendered := renderMarkdown(entry.Body)

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   entry.EntryDate,
			Version: h.renderer.version,
			Nav:     "entries",
		},
		Entry:        entry,
		RenderedHTML: rendered,
	})
}

// HandleDelete handles DELETE /entries/{id} — permanently delete an entry.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("entry ID is required"))
		return
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/entries")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/entries", http.StatusFound)
}

// HandleReflection handles GET /reflection — run the pattern reflection
// over a journal and show the outcome.
func (h *Handlers) HandleReflection(w http.ResponseWriter, r *http.Request) {
	journalName := r.URL.Query().Get("journal")
	if journalName == "" {
		journalName = "default"
	}
	refresh := parseBoolParam(r, "refresh")

	result, err := ops.Reflect(r.Context(), h.db, h.engine, ops.ReflectInput{
		Journal:      journalName,
		ForceRefresh: refresh,
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "reflection", ReflectionPageData{
		PageData: PageData{
			Title:   "Reflection",
			Version: h.renderer.version,
			Nav:     "reflection",
		},
		Journal:   journalName,
		Outcome:   &result.Outcome,
		Refreshed: refresh,
	})
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}
