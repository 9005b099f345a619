package ops

import (
	"context"

	"github.com/hpungsan/sitescout/internal/agent"
	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/site"
	"github.com/hpungsan/sitescout/internal/store"
)

// SiteSummary is one row in a site listing.
type SiteSummary struct {
	SiteID     string      `json:"site_id"`
	URL        string      `json:"url"`
	Display    string      `json:"display"`
	Domain     string      `json:"domain"`
	Status     site.Status `json:"status"`
	Turns      int         `json:"turns"`
	CreatedAt  string      `json:"created_at"`
	HasSession bool        `json:"has_session"`
}

// ListSites returns all analyzed sites, newest first.
func (o *Orchestrator) ListSites() ([]SiteSummary, error) {
	recs, err := store.AllSites(o.db)
	if err != nil {
		return nil, err
	}

	summaries := make([]SiteSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, SiteSummary{
			SiteID:     rec.SiteID,
			URL:        rec.URL,
			Display:    site.DisplayURL(rec.URL),
			Domain:     rec.Domain,
			Status:     rec.Status,
			Turns:      len(rec.Transcript),
			CreatedAt:  rec.CreatedAt.Format("2006-01-02 15:04"),
			HasSession: rec.SessionID != "",
		})
	}
	return summaries, nil
}

// GetRecord returns the full record for a URL or a raw site ID.
// The URL form is tried first; a miss falls back to treating the
// argument as an ID, so `show` works with either.
func (o *Orchestrator) GetRecord(urlOrID string) (*site.Record, error) {
	if urlOrID == "" {
		return nil, errors.NewInvalidRequest("url or site id is required")
	}

	rec, err := store.GetSite(o.db, site.SiteID(urlOrID))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		rec, err = store.GetSite(o.db, urlOrID)
		if err != nil {
			return nil, err
		}
	}
	if rec == nil {
		return nil, errors.NewNotFound(urlOrID)
	}
	return rec, nil
}

// chatIntrospector is the optional read-only session endpoint. The live
// client implements it; test fakes usually do not.
type chatIntrospector interface {
	GetChat(ctx context.Context, chatID string) (*agent.ChatInfo, error)
}

// RemoteChatInfo fetches upstream metadata for a site's session.
func (o *Orchestrator) RemoteChatInfo(ctx context.Context, urlOrID string) (*agent.ChatInfo, error) {
	rec, err := o.GetRecord(urlOrID)
	if err != nil {
		return nil, err
	}
	if rec.SessionID == "" {
		return nil, errors.NewNotFound(urlOrID)
	}

	introspector, ok := o.svc.(chatIntrospector)
	if !ok {
		return nil, errors.NewInvalidRequest("agent service does not support session introspection")
	}
	return introspector.GetChat(ctx, rec.SessionID)
}

// DeleteSite removes a site record entirely. The remote session is not
// contacted; it simply ages out upstream.
func (o *Orchestrator) DeleteSite(urlOrID string) error {
	rec, err := o.GetRecord(urlOrID)
	if err != nil {
		return err
	}
	return store.DeleteSite(o.db, rec.SiteID)
}

// ClearHistory empties a site's transcript but keeps the record and its
// session, so the next question continues the same remote chat.
func (o *Orchestrator) ClearHistory(urlOrID string) error {
	rec, err := o.GetRecord(urlOrID)
	if err != nil {
		return err
	}
	return store.ClearHistory(o.db, rec.SiteID)
}

// Purge deletes every site record, leaving settings (credential, role)
// in place.
func (o *Orchestrator) Purge() (int, error) {
	recs, err := store.AllSites(o.db)
	if err != nil {
		return 0, err
	}
	for _, rec := range recs {
		if err := store.DeleteSite(o.db, rec.SiteID); err != nil {
			return 0, err
		}
	}
	return len(recs), nil
}
