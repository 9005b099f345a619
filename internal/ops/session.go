package ops

import (
	"context"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/prompt"
	"github.com/hpungsan/sitescout/internal/reconcile"
	"github.com/hpungsan/sitescout/internal/site"
	"github.com/hpungsan/sitescout/internal/store"
)

// SummaryOutcome names which path produced (or withheld) the analysis.
type SummaryOutcome string

const (
	// OutcomeAnalysis: the first prompt was accepted.
	OutcomeAnalysis SummaryOutcome = "analysis"
	// OutcomeRetry: a directive retry after a conversational deflection
	// produced the analysis.
	OutcomeRetry SummaryOutcome = "retry"
	// OutcomeFallback: the narrower single-page prompt produced it.
	OutcomeFallback SummaryOutcome = "fallback"
	// OutcomeManual: crawling stayed broken; a locally synthesized
	// analysis was stored instead.
	OutcomeManual SummaryOutcome = "manual"
	// OutcomeDeflected: the agent kept deflecting; nothing was stored
	// but the session remains usable for questions.
	OutcomeDeflected SummaryOutcome = "deflected"
	// OutcomeGiveUp: a hard refusal (credits, service error); nothing
	// stored, no retry attempted.
	OutcomeGiveUp SummaryOutcome = "giveup"
	// OutcomeCached: a complete analysis was already on disk; no network.
	OutcomeCached SummaryOutcome = "cached"
	// OutcomeResumed: an earlier analysis never completed; the transcript
	// is served as-is and the session kept for chat.
	OutcomeResumed SummaryOutcome = "resumed"
)

// EnsureSessionInput contains parameters for the EnsureSession operation.
type EnsureSessionInput struct {
	URL  string // required, raw page URL
	Role string // optional; empty, "default", or "auto" enable detection
}

// EnsureSessionOutput contains the result of the EnsureSession operation.
type EnsureSessionOutput struct {
	SiteID    string                 `json:"site_id"`
	SessionID string                 `json:"session_id"`
	Decision  reconcile.DecisionKind `json:"decision"`
	Outcome   SummaryOutcome         `json:"outcome"`
	Summary   string                 `json:"summary,omitempty"`
	Record    *site.Record           `json:"record,omitempty"`
}

// EnsureSession is the entry point for visiting a page: it classifies the
// stored record for the URL, repairs duplicated transcripts, and either
// serves the cached analysis, resumes the existing session, or creates a
// session and runs a fresh analysis. A remote call happens only when the
// classification demands one.
func (o *Orchestrator) EnsureSession(ctx context.Context, input EnsureSessionInput) (*EnsureSessionOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}

	normalized := site.NormalizeURL(input.URL)
	siteID := site.SiteID(input.URL)

	rec, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}

	decision := reconcile.Classify(rec, normalized, o.cfg.ResultMinChars)
	if rec != nil && (decision.StartCount > 1 || decision.ResultCount > 1) {
		cleaned := reconcile.Deduplicate(rec.Transcript, normalized)
		if err := store.ReplaceTranscript(o.db, siteID, cleaned); err != nil {
			return nil, err
		}
		rec.Transcript = cleaned
	}

	out := &EnsureSessionOutput{SiteID: siteID, Decision: decision.Kind}

	switch decision.Kind {
	case reconcile.CachedComplete:
		if err := store.UpdateSiteStatus(o.db, siteID, site.StatusReady); err != nil {
			return nil, err
		}
		out.SessionID = rec.SessionID
		out.Outcome = OutcomeCached

	case reconcile.ResumeIncomplete:
		if err := store.UpdateSiteStatus(o.db, siteID, site.StatusReady); err != nil {
			return nil, err
		}
		out.SessionID = rec.SessionID
		out.Outcome = OutcomeResumed

	case reconcile.NeedsAnalysis:
		// Session exists but no analysis ever started: reuse it.
		out.SessionID = rec.SessionID
		outcome, summary, err := o.runSummary(ctx, rec, input.Role)
		if err != nil {
			return nil, err
		}
		out.Outcome = outcome
		out.Summary = summary

	case reconcile.NoSession:
		sessionID, err := o.svc.CreateChat(ctx)
		if err != nil {
			return nil, err
		}
		rec = site.NewRecord(siteID, sessionID, normalized, site.Domain(input.URL))
		if err := store.PutSite(o.db, rec); err != nil {
			return nil, err
		}
		out.SessionID = sessionID
		outcome, summary, err := o.runSummary(ctx, rec, input.Role)
		if err != nil {
			return nil, err
		}
		out.Outcome = outcome
		out.Summary = summary
	}

	final, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}
	out.Record = final
	return out, nil
}

// RefreshAnalysisInput contains parameters for the RefreshAnalysis operation.
type RefreshAnalysisInput struct {
	URL  string // required
	Role string
}

// RefreshAnalysis re-runs the analysis conversation on the site's existing
// session. The session handle is reused, never recreated, so prior chat
// context stays available to the agent. Duplicated analysis turns from
// earlier runs are repaired first.
func (o *Orchestrator) RefreshAnalysis(ctx context.Context, input RefreshAnalysisInput) (*EnsureSessionOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}

	normalized := site.NormalizeURL(input.URL)
	siteID := site.SiteID(input.URL)

	rec, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NewNotFound(siteID)
	}

	cleaned := reconcile.Deduplicate(rec.Transcript, normalized)
	if err := store.ReplaceTranscript(o.db, siteID, cleaned); err != nil {
		return nil, err
	}
	rec.Transcript = cleaned

	out := &EnsureSessionOutput{SiteID: siteID, SessionID: rec.SessionID}
	outcome, summary, err := o.runSummary(ctx, rec, input.Role)
	if err != nil {
		return nil, err
	}
	out.Outcome = outcome
	out.Summary = summary

	final, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}
	out.Record = final
	return out, nil
}

// runSummary drives the initial-summary conversation, classifying each
// reply against the rejection signatures:
//
//   - accepted            -> store it
//   - deflection          -> one directive retry, store on success
//   - crawl/depth error   -> one single-page prompt, then local synthesis
//   - hard refusal        -> store nothing, leave the chat usable
//
// Every content outcome finishes with status ready; only a transport
// failure marks the record error. At most one analysis-start and one
// analysis-result turn are persisted per run.
func (o *Orchestrator) runSummary(ctx context.Context, rec *site.Record, rolePref string) (SummaryOutcome, string, error) {
	if err := store.UpdateSiteStatus(o.db, rec.SiteID, site.StatusAnalyzing); err != nil {
		return "", "", err
	}

	role := o.resolveRole(ctx, rolePref, rec.URL)

	reply, err := o.svc.SendMessage(ctx, rec.SessionID, prompt.InitialSummary(rec.URL, role))
	if err != nil {
		o.markError(ctx, rec.SiteID)
		return "", "", err
	}

	switch prompt.ClassifyReply(reply) {
	case prompt.ReplyOK:
		if err := o.storeAnalysis(rec, reply, site.KindAnalysisResult); err != nil {
			return "", "", err
		}
		return OutcomeAnalysis, reply, nil

	case prompt.ReplyGeneric:
		retry, err := o.svc.SendMessage(ctx, rec.SessionID, prompt.ExplicitRetry(rec.URL))
		if err != nil {
			o.markError(ctx, rec.SiteID)
			return "", "", err
		}
		if prompt.LooksLikeRetrySuccess(retry) {
			if err := o.storeAnalysis(rec, retry, site.KindRetry); err != nil {
				return "", "", err
			}
			return OutcomeRetry, retry, nil
		}
		// Still deflecting. Store nothing; questions still work.
		if err := store.UpdateSiteStatus(o.db, rec.SiteID, site.StatusReady); err != nil {
			return "", "", err
		}
		return OutcomeDeflected, retry, nil

	case prompt.ReplyCrawl:
		fallback, err := o.svc.SendMessage(ctx, rec.SessionID, prompt.DepthFallback(rec.URL))
		if err != nil {
			o.markError(ctx, rec.SiteID)
			return "", "", err
		}
		if prompt.ClassifyReply(fallback) == prompt.ReplyOK {
			if err := o.storeAnalysis(rec, fallback, site.KindFallback); err != nil {
				return "", "", err
			}
			return OutcomeFallback, fallback, nil
		}
		// Crawling is broken for this URL; synthesize locally rather
		// than make a third call.
		manual := prompt.SynthesizeAnalysis(rec.URL)
		if err := o.storeAnalysis(rec, manual, site.KindManual); err != nil {
			return "", "", err
		}
		return OutcomeManual, manual, nil

	default: // prompt.ReplyGiveUp
		if err := store.UpdateSiteStatus(o.db, rec.SiteID, site.StatusReady); err != nil {
			return "", "", err
		}
		return OutcomeGiveUp, reply, nil
	}
}

// storeAnalysis persists the analysis-start marker and the result as one
// pair of turns, then marks the record ready.
func (o *Orchestrator) storeAnalysis(rec *site.Record, text string, kind site.TurnKind) error {
	start := site.NewTurn(site.AuthorSystem, prompt.AnalysisStartText(rec.URL),
		&site.TurnMetadata{Kind: site.KindAnalysisStart, URL: rec.URL})
	result := site.NewTurn(site.AuthorAgent, text,
		&site.TurnMetadata{Kind: kind, URL: rec.URL})

	if err := store.AppendTurns(o.db, rec.SiteID, start, result); err != nil {
		return err
	}
	return store.UpdateSiteStatus(o.db, rec.SiteID, site.StatusReady)
}

// markError best-effort flags the record; the original error is what the
// caller reports. A canceled run is not an error: cancellation already
// wrote the status it wants, and the aborted request's failure must not
// overwrite it.
func (o *Orchestrator) markError(ctx context.Context, siteID string) {
	if ctx.Err() != nil {
		return
	}
	_ = store.UpdateSiteStatus(o.db, siteID, site.StatusError)
}
