package site

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Status is the lifecycle state of a site record.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusConnecting Status = "connecting"
	StatusAnalyzing  Status = "analyzing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

// Author identifies who produced a turn.
type Author string

const (
	AuthorUser   Author = "user"
	AuthorAgent  Author = "agent"
	AuthorSystem Author = "system"
)

// TurnKind tags a turn so the reconciler can classify it without
// re-parsing text on every call.
type TurnKind string

const (
	KindAnalysisStart  TurnKind = "analysis-start"
	KindAnalysisResult TurnKind = "analysis-result"
	KindRetry          TurnKind = "retry"
	KindFallback       TurnKind = "fallback"
	KindManual         TurnKind = "manual"
)

// resultKinds are the kinds an agent-authored analysis result may carry,
// depending on which path produced it.
var resultKinds = map[TurnKind]bool{
	KindAnalysisResult: true,
	KindRetry:          true,
	KindFallback:       true,
	KindManual:         true,
}

// TurnMetadata is an optional classification tag on a turn.
type TurnMetadata struct {
	Kind TurnKind `json:"kind,omitempty"`
	URL  string   `json:"url,omitempty"`
}

// Turn is one message in a transcript.
type Turn struct {
	ID        string        `json:"id"`
	Author    Author        `json:"author"`
	Text      string        `json:"text"`
	Timestamp time.Time     `json:"timestamp"`
	Metadata  *TurnMetadata `json:"metadata,omitempty"`
}

// Record is the persisted state for one normalized page URL.
// SessionID is set once when the remote session is created and never
// mutated afterwards; a manual refresh reuses it.
type Record struct {
	SiteID     string    `json:"site_id"`
	SessionID  string    `json:"session_id,omitempty"`
	URL        string    `json:"url"`
	Domain     string    `json:"domain"`
	CreatedAt  time.Time `json:"created_at"`
	Status     Status    `json:"status"`
	Transcript []Turn    `json:"transcript"`
}

// NewRecord creates a record for a freshly created remote session.
func NewRecord(siteID, sessionID, url, domain string) *Record {
	return &Record{
		SiteID:     siteID,
		SessionID:  sessionID,
		URL:        url,
		Domain:     domain,
		CreatedAt:  time.Now().UTC(),
		Status:     StatusConnecting,
		Transcript: []Turn{},
	}
}

// NewTurn creates a turn stamped with a monotonic ULID and the current time.
// ULIDs sort lexicographically by creation time, which keeps transcript
// IDs aligned with chronological order.
func NewTurn(author Author, text string, meta *TurnMetadata) Turn {
	return Turn{
		ID:        ulid.Make().String(),
		Author:    author,
		Text:      text,
		Timestamp: time.Now().UTC(),
		Metadata:  meta,
	}
}

// IsAnalysisStart reports whether the turn marks the start of an automated
// analysis for the given URL. Metadata is consulted first; the text match
// covers records written before metadata tagging existed.
func (t Turn) IsAnalysisStart(url string) bool {
	if t.Author != AuthorSystem || t.Text == "" {
		return false
	}
	if t.Metadata != nil && t.Metadata.Kind == KindAnalysisStart {
		return t.Metadata.URL == "" || t.Metadata.URL == url
	}
	return strings.Contains(t.Text, "Auto-analysis started for:") && strings.Contains(t.Text, url)
}

// IsAnalysisResult reports whether the turn is an automated analysis result
// (any production path: direct, retry, fallback, or local synthesis).
func (t Turn) IsAnalysisResult() bool {
	if t.Author != AuthorAgent || t.Text == "" {
		return false
	}
	if t.Metadata != nil {
		return resultKinds[t.Metadata.Kind]
	}
	return HasAnyMarker(t.Text)
}
