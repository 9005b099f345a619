package ops

import (
	"context"
	"log"
	"time"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/site"
	"github.com/hpungsan/sitescout/internal/store"
)

// StartAnalysisInput contains parameters for the StartAnalysis operation.
type StartAnalysisInput struct {
	URL  string // required
	Role string
}

// StartAnalysisOutput contains the result of the StartAnalysis operation.
type StartAnalysisOutput struct {
	SiteID  string `json:"site_id"`
	Started bool   `json:"started"`
}

// StartAnalysis launches EnsureSession in the background and returns
// immediately. One analysis per site at a time: a second start while one
// is in flight is rejected as busy, unless the running one has exceeded
// the watchdog ceiling, in which case it is presumed dead, the record is
// marked error, and the slot is reclaimed.
func (o *Orchestrator) StartAnalysis(input StartAnalysisInput) (*StartAnalysisOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	siteID := site.SiteID(input.URL)

	o.mu.Lock()
	if j, ok := o.inflight[siteID]; ok {
		if time.Since(j.started) < o.watchdog() {
			o.mu.Unlock()
			return nil, errors.NewBusy(siteID)
		}
		// Stale job: reclaim.
		j.cancel()
		delete(o.inflight, siteID)
		o.markError(context.Background(), siteID)
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.inflight[siteID] = &job{started: time.Now(), cancel: cancel}
	o.mu.Unlock()

	go func() {
		defer func() {
			o.mu.Lock()
			delete(o.inflight, siteID)
			o.mu.Unlock()
			cancel()
		}()
		if _, err := o.EnsureSession(ctx, EnsureSessionInput{URL: input.URL, Role: input.Role}); err != nil && ctx.Err() == nil {
			log.Printf("background analysis for %s failed: %v", siteID, err)
		}
	}()

	return &StartAnalysisOutput{SiteID: siteID, Started: true}, nil
}

// StatusInput contains parameters for the AnalysisStatus operation.
type StatusInput struct {
	URL string // required
}

// StatusOutput contains the result of the AnalysisStatus operation.
type StatusOutput struct {
	SiteID         string      `json:"site_id"`
	Status         site.Status `json:"status"`
	InFlight       bool        `json:"in_flight"`
	ElapsedSeconds int         `json:"elapsed_seconds,omitempty"`
}

// AnalysisStatus reports the stored status plus whether a background job
// is running. A job past the watchdog ceiling is reaped here too, so
// polling alone is enough to clear a wedged analysis.
func (o *Orchestrator) AnalysisStatus(input StatusInput) (*StatusOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	siteID := site.SiteID(input.URL)

	o.mu.Lock()
	var inFlight bool
	var elapsed time.Duration
	if j, ok := o.inflight[siteID]; ok {
		elapsed = time.Since(j.started)
		if elapsed >= o.watchdog() {
			j.cancel()
			delete(o.inflight, siteID)
			o.markError(context.Background(), siteID)
		} else {
			inFlight = true
		}
	}
	o.mu.Unlock()

	rec, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}

	out := &StatusOutput{SiteID: siteID, Status: site.StatusIdle, InFlight: inFlight}
	if rec != nil {
		out.Status = rec.Status
	}
	if inFlight {
		out.ElapsedSeconds = int(elapsed.Seconds())
	}
	return out, nil
}

// CancelInput contains parameters for the CancelAnalysis operation.
type CancelInput struct {
	URL string // required
}

// CancelOutput contains the result of the CancelAnalysis operation.
type CancelOutput struct {
	SiteID   string `json:"site_id"`
	Canceled bool   `json:"canceled"`
}

// CancelAnalysis cancels the in-flight job for a site, if any, and resets
// the stored status to idle so a later visit starts clean. Cancellation
// is cooperative: the running request stops at its next context check,
// and whatever failure the interrupted run reports afterwards is
// discarded, so the record keeps the idle status written here.
func (o *Orchestrator) CancelAnalysis(input CancelInput) (*CancelOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	siteID := site.SiteID(input.URL)

	o.mu.Lock()
	j, ok := o.inflight[siteID]
	if ok {
		j.cancel()
		delete(o.inflight, siteID)
	}
	o.mu.Unlock()

	if ok {
		if rec, err := store.GetSite(o.db, siteID); err == nil && rec != nil {
			_ = store.UpdateSiteStatus(o.db, siteID, site.StatusIdle)
		}
	}
	return &CancelOutput{SiteID: siteID, Canceled: ok}, nil
}

// ResumeInterrupted resets records left mid-analysis by a previous run
// back to idle. Called once at startup, before any job can start.
func (o *Orchestrator) ResumeInterrupted() (int, error) {
	return store.ResetInterrupted(o.db)
}
