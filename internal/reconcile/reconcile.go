// Package reconcile decides, for a page URL and its stored record, whether
// a previously created remote session can be reused, resumed, or must be
// replaced, and repairs transcripts that accumulated duplicate automated
// analyses. Pure classification over the snapshot passed in; no I/O.
package reconcile

import (
	"github.com/hpungsan/sitescout/internal/site"
)

// DecisionKind classifies what the orchestrator should do next.
type DecisionKind string

const (
	// NoSession: no usable record exists; create a session from scratch.
	NoSession DecisionKind = "no-session"
	// CachedComplete: a complete analysis is cached; render it, no network.
	CachedComplete DecisionKind = "cached-complete"
	// ResumeIncomplete: an analysis started but never completed; the
	// session is still good enough to chat, load transcript as-is.
	ResumeIncomplete DecisionKind = "resume-incomplete"
	// NeedsAnalysis: the session exists but no analysis was ever started;
	// reuse the session ID and run one.
	NeedsAnalysis DecisionKind = "needs-analysis"
)

// Decision is the result of classifying a record against the current URL.
type Decision struct {
	Kind DecisionKind

	// StartCount and ResultCount report how many analysis-start and
	// analysis-result turns matched the URL, so callers can tell when a
	// dedup repair is worthwhile.
	StartCount  int
	ResultCount int
}

// Classify inspects a record's transcript and decides how the session can
// be used, without making any network call. A nil record or a record
// lacking a transcript is NoSession. Precedence, first match wins:
//
//  1. at least one complete result turn        -> CachedComplete
//  2. an analysis started, no complete result  -> ResumeIncomplete
//  3. session exists, zero analysis-start turns -> NeedsAnalysis
func Classify(rec *site.Record, currentURL string, minChars int) Decision {
	if rec == nil || rec.Transcript == nil {
		return Decision{Kind: NoSession}
	}

	var starts, results, complete int
	for _, t := range rec.Transcript {
		if t.IsAnalysisStart(currentURL) {
			starts++
			continue
		}
		if t.IsAnalysisResult() {
			results++
			if site.Inspect(t.Text, minChars).Complete {
				complete++
			}
		}
	}

	d := Decision{StartCount: starts, ResultCount: results}
	switch {
	case complete > 0:
		d.Kind = CachedComplete
	case starts > 0:
		d.Kind = ResumeIncomplete
	default:
		d.Kind = NeedsAnalysis
	}
	return d
}

// Deduplicate returns a new transcript in which at most one analysis-start
// turn and at most one analysis-result turn survive for the URL: the most
// recent of each kind. Earlier instances of both kinds are dropped;
// everything else (user questions, answers, unrelated system notices) is
// untouched and relative order is preserved. The input is never mutated.
//
// Idempotent: after one pass at most one turn of each kind remains, so a
// second pass removes nothing.
func Deduplicate(transcript []site.Turn, currentURL string) []site.Turn {
	if len(transcript) == 0 {
		return nil
	}

	lastStart := -1
	lastResult := -1
	for i, t := range transcript {
		if t.IsAnalysisStart(currentURL) {
			lastStart = i
		} else if t.IsAnalysisResult() {
			lastResult = i
		}
	}

	cleaned := make([]site.Turn, 0, len(transcript))
	for i, t := range transcript {
		if t.IsAnalysisStart(currentURL) && i != lastStart {
			continue
		}
		if t.IsAnalysisResult() && i != lastResult {
			continue
		}
		cleaned = append(cleaned, t)
	}
	return cleaned
}
