package prompt

import (
	"regexp"
	"strings"
)

// analysisKeywords mark a question as being about the current page, which
// routes it through the crawling fallback chain instead of plain chat.
var analysisKeywords = []string{
	"analyze", "analysis", "what is this", "describe this", "explain this",
	"what does this", "tell me about", "overview", "summary", "content",
	"features", "functionality", "purpose", "target audience", "main topic",
	"website", "page", "site", "app", "platform", "service",
}

var genericOpenerRe = regexp.MustCompile(`(?i)^(can you|help me|what|how|tell me|explain|describe)`)

// IsPageScoped reports whether a question should be answered from the
// page's content. Keyword hit, or a short question with a generic opener,
// counts as page-scoped; everything else is free-form chat.
func IsPageScoped(question string) bool {
	lower := strings.ToLower(question)
	for _, kw := range analysisKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return len(question) < 30 && genericOpenerRe.MatchString(question)
}
