package web

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/site"
)

// PageData contains common fields used across all page templates.
type PageData struct {
	Title   string
	Version string
}

// ListPageData is the template data for the site list page.
type ListPageData struct {
	PageData
	Sites []ops.SiteSummary
}

// TurnView is one transcript entry prepared for display.
type TurnView struct {
	Author   string
	Text     template.HTML
	When     string
	IsAgent  bool
	IsSystem bool
}

// DetailPageData is the template data for the transcript page.
type DetailPageData struct {
	PageData
	Record  *site.Record
	Display string
	Turns   []TurnView
}

// ErrorPageData is the template data for the error page.
type ErrorPageData struct {
	PageData
	StatusCode int
	Message    string
}

// Renderer manages template parsing and rendering.
type Renderer struct {
	templates map[string]*template.Template
	version   string
}

// NewRenderer creates a Renderer by parsing templates from the given FS.
func NewRenderer(templateFS fs.FS, version string) *Renderer {
	funcMap := template.FuncMap{
		"formatTime": formatTime,
	}

	layoutTmpl := template.Must(template.New("layout").Funcs(funcMap).ParseFS(templateFS, "layout.html"))

	pages := map[string]string{
		"list":   "list.html",
		"detail": "detail.html",
		"error":  "error.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, file := range pages {
		t := template.Must(layoutTmpl.Clone())
		template.Must(t.ParseFS(templateFS, file))
		templates[name] = t
	}

	return &Renderer{
		templates: templates,
		version:   version,
	}
}

// renderPage renders a named page template with the given data.
func (r *Renderer) renderPage(w http.ResponseWriter, status int, name string, data any) {
	t, ok := r.templates[name]
	if !ok {
		log.Printf("template %q not found", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("template execution error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// renderError renders an error response with content negotiation.
func (r *Renderer) renderError(w http.ResponseWriter, req *http.Request, err error) {
	var sErr *errors.ScoutError
	if !stderrors.As(err, &sErr) {
		sErr = errors.NewInternal(err)
	}

	if strings.Contains(req.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(sErr.Status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"code":    string(sErr.Code),
				"message": sErr.Message,
				"status":  sErr.Status,
			},
		})
		return
	}

	r.renderPage(w, sErr.Status, "error", ErrorPageData{
		PageData:   PageData{Title: "Error", Version: r.version},
		StatusCode: sErr.Status,
		Message:    sErr.Message,
	})
}

// renderMarkdown converts markdown text to HTML using goldmark.
func renderMarkdown(md string) template.HTML {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// turnViews prepares a transcript for display. Agent turns are markdown;
// user and system turns are escaped plain text.
func turnViews(transcript []site.Turn) []TurnView {
	views := make([]TurnView, 0, len(transcript))
	for _, t := range transcript {
		v := TurnView{
			Author:   string(t.Author),
			When:     t.Timestamp.UTC().Format("2006-01-02 15:04"),
			IsAgent:  t.Author == site.AuthorAgent,
			IsSystem: t.Author == site.AuthorSystem,
		}
		if v.IsAgent {
			v.Text = renderMarkdown(t.Text)
		} else {
			v.Text = template.HTML("<p>" + template.HTMLEscapeString(t.Text) + "</p>")
		}
		views = append(views, v)
	}
	return views
}

// formatTime formats a time as "2006-01-02 15:04" UTC.
func formatTime(ts time.Time) string {
	return ts.UTC().Format("2006-01-02 15:04")
}
