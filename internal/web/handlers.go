package web

import (
	"net/http"

	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/ops"
	"github.com/hpungsan/sitescout/internal/site"
)

// Handlers holds dependencies for the web handlers.
type Handlers struct {
	orch     *ops.Orchestrator
	cfg      *config.Config
	renderer *Renderer
}

// HandleList renders the site list page.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	sites, err := h.orch.ListSites()
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, http.StatusOK, "list", ListPageData{
		PageData: PageData{Title: "Sites", Version: h.renderer.version},
		Sites:    sites,
	})
}

// HandleDetail renders one site's transcript.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	rec, err := h.orch.GetRecord(r.PathValue("id"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, http.StatusOK, "detail", DetailPageData{
		PageData: PageData{Title: rec.Domain, Version: h.renderer.version},
		Record:   rec,
		Display:  site.DisplayURL(rec.URL),
		Turns:    turnViews(rec.Transcript),
	})
}

// HandleDelete removes a site record and sends the client back to the list.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.orch.DeleteSite(r.PathValue("id")); err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sites")
	w.WriteHeader(http.StatusSeeOther)
}
