package ops

import (
	"context"

	"github.com/hpungsan/sitescout/internal/errors"
	"github.com/hpungsan/sitescout/internal/prompt"
	"github.com/hpungsan/sitescout/internal/site"
	"github.com/hpungsan/sitescout/internal/store"
)

// AnswerInput contains parameters for the AnswerQuestion operation.
type AnswerInput struct {
	URL      string // required
	Question string // required
}

// AnswerOutput contains the result of the AnswerQuestion operation.
type AnswerOutput struct {
	SiteID     string `json:"site_id"`
	Answer     string `json:"answer"`
	PageScoped bool   `json:"page_scoped"`
	// Tier is which prompt produced the answer: 1 full crawl, 2 single
	// page, 3 manual reasoning. Zero for free-form chat.
	Tier int `json:"tier,omitempty"`
}

// AnswerQuestion sends a question over the site's existing session.
// Page-scoped questions walk a three-tier prompt chain (full crawl,
// single page, manual reasoning), advancing only on transport failures;
// a content-level reply at any tier is the answer. Free-form questions
// are sent once, unwrapped. On success the question and answer are
// appended to the transcript; on failure nothing is stored.
func (o *Orchestrator) AnswerQuestion(ctx context.Context, input AnswerInput) (*AnswerOutput, error) {
	if input.URL == "" {
		return nil, errors.NewInvalidRequest("url is required")
	}
	if input.Question == "" {
		return nil, errors.NewInvalidRequest("question is required")
	}

	siteID := site.SiteID(input.URL)
	rec, err := store.GetSite(o.db, siteID)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.SessionID == "" {
		return nil, errors.NewNotFound(siteID)
	}

	out := &AnswerOutput{SiteID: siteID, PageScoped: prompt.IsPageScoped(input.Question)}

	if out.PageScoped {
		tiers := []string{
			prompt.QuestionFullCrawl(input.Question, rec.URL),
			prompt.QuestionSinglePage(input.Question, rec.URL),
			prompt.QuestionManual(input.Question, rec.URL),
		}
		for i, text := range tiers {
			reply, err := o.svc.SendMessage(ctx, rec.SessionID, text)
			if err != nil {
				if errors.IsTransport(err) {
					continue
				}
				return nil, err
			}
			out.Answer = reply
			out.Tier = i + 1
			break
		}
		if out.Answer == "" {
			return nil, errors.NewAnswerExhausted(input.Question)
		}
	} else {
		reply, err := o.svc.SendMessage(ctx, rec.SessionID, input.Question)
		if err != nil {
			return nil, err
		}
		out.Answer = reply
	}

	question := site.NewTurn(site.AuthorUser, input.Question, nil)
	answer := site.NewTurn(site.AuthorAgent, out.Answer, nil)
	if err := store.AppendTurns(o.db, siteID, question, answer); err != nil {
		return nil, err
	}
	return out, nil
}
