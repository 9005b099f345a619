// Package ops implements the operations behind every surface (CLI, MCP,
// web): session reconciliation, the analysis conversation with its
// rejection-signature fallbacks, question answering, and background
// analysis jobs. Each operation takes an Input struct and returns an
// Output struct.
package ops

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/hpungsan/sitescout/internal/agent"
	"github.com/hpungsan/sitescout/internal/config"
	"github.com/hpungsan/sitescout/internal/prompt"
	"github.com/hpungsan/sitescout/internal/store"
)

// job tracks one in-flight background analysis.
type job struct {
	started time.Time
	cancel  context.CancelFunc
}

// Orchestrator owns the dependencies the operations share. Construct one
// per process; all methods are safe for concurrent use.
type Orchestrator struct {
	db  *sql.DB
	svc agent.Service
	cfg *config.Config

	roles prompt.RoleClassifier

	// pageText fetches page text for role detection. Optional; when nil
	// role detection sees only the URL's emptiness and lands on general.
	pageText func(ctx context.Context, url string) (string, error)

	mu       sync.Mutex
	inflight map[string]*job
}

// New creates an orchestrator with the default role classifier and page
// text fetcher.
func New(db *sql.DB, svc agent.Service, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		db:       db,
		svc:      svc,
		cfg:      cfg,
		roles:    prompt.KeywordClassifier{},
		pageText: FetchPageText,
		inflight: make(map[string]*job),
	}
}

// SetPageTextFunc overrides the page text fetcher. Tests use this to
// avoid network access.
func (o *Orchestrator) SetPageTextFunc(fn func(ctx context.Context, url string) (string, error)) {
	o.pageText = fn
}

// watchdog is the ceiling after which an in-flight analysis is presumed
// dead and its slot reclaimed.
func (o *Orchestrator) watchdog() time.Duration {
	minutes := o.cfg.WatchdogMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

// resolveRole picks the effective role for an analysis prompt: an
// explicit preference wins, then the stored one, and auto-detection
// reads the page text.
func (o *Orchestrator) resolveRole(ctx context.Context, preference, url string) string {
	if preference == "" {
		if stored, err := store.GetUserRole(o.db); err == nil {
			preference = stored
		}
	}
	switch preference {
	case "", "default", "auto":
	default:
		return preference
	}

	var text string
	if o.pageText != nil {
		// Detection is best effort; an unreachable page means general.
		text, _ = o.pageText(ctx, url)
	}
	return prompt.ResolveRole(preference, text, o.roles)
}
