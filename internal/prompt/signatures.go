// Package prompt holds the text the orchestrator exchanges with the agent
// service: analysis prompt templates, the rejection-signature table that
// classifies replies, the role keyword classifier, and the page-scoped
// question heuristic.
package prompt

import "strings"

// ReplyClass classifies an agent reply against the rejection signatures.
type ReplyClass string

const (
	// ReplyOK: no rejection signature matched; the reply is an analysis.
	ReplyOK ReplyClass = "ok"
	// ReplyGeneric: conversational deflection (greeting, clarifying
	// question). Worth one retry with a more directive prompt.
	ReplyGeneric ReplyClass = "generic"
	// ReplyCrawl: the crawling tool failed (depth error, invalid URL,
	// technical issue). Worth one narrower-scope prompt, then local
	// synthesis.
	ReplyCrawl ReplyClass = "crawl"
	// ReplyGiveUp: a hard refusal (insufficient credits, generic error
	// report). Not worth retrying; chat stays usable without a stored
	// analysis.
	ReplyGiveUp ReplyClass = "giveup"
)

// signature pairs a lowercase substring with its classification.
// Order matters: the first match wins, and the generic conversational
// signatures are checked before the broader error phrasings.
type signature struct {
	pattern string
	class   ReplyClass
}

// rejectionSignatures is the enumerable table of phrases indicating the
// agent did not perform the requested analysis. Classification is
// data-driven so control flow stays testable.
var rejectionSignatures = []signature{
	{"how can i assist", ReplyGeneric},
	{"how can i help", ReplyGeneric},
	{"what would you like", ReplyGeneric},
	{"please provide", ReplyGeneric},
	{"if you have any", ReplyGeneric},

	{"url depth error", ReplyCrawl},
	{"could you please confirm", ReplyCrawl},
	{"not recognized as valid", ReplyCrawl},
	{"technical issue", ReplyCrawl},
	{"crawling tool", ReplyCrawl},

	{"insufficient credits", ReplyGiveUp},
	{"error occurred", ReplyGiveUp},
	{"failed", ReplyGiveUp},
	{"alternatively, i can provide", ReplyGiveUp},
	{"recommend trying again", ReplyGiveUp},
}

// ClassifyReply matches a reply against the rejection-signature table.
// An unmatched reply is accepted as an analysis.
func ClassifyReply(reply string) ReplyClass {
	lower := strings.ToLower(reply)
	for _, sig := range rejectionSignatures {
		if strings.Contains(lower, sig.pattern) {
			return sig.class
		}
	}
	return ReplyOK
}

// LooksLikeRetrySuccess reports whether a directive-retry reply contains
// analysis structure rather than another deflection: it must mention the
// overview and highlights sections and not re-trip a generic signature.
func LooksLikeRetrySuccess(reply string) bool {
	lower := strings.ToLower(reply)
	return strings.Contains(lower, "overview") &&
		strings.Contains(lower, "highlights") &&
		ClassifyReply(reply) == ReplyOK
}
