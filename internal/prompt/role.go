package prompt

import "regexp"

// RoleClassifier infers an audience role from page text so analysis
// prompts can lean technical, commercial, or academic.
type RoleClassifier interface {
	Detect(pageText string) string
}

// KeywordClassifier is the default classifier: first keyword family to
// match wins, in developer, business, researcher order.
type KeywordClassifier struct{}

var (
	developerRe  = regexp.MustCompile(`(?i)function|class|javascript|python|php|react|node|html|css|programming|source code|algorithm|developer|framework`)
	businessRe   = regexp.MustCompile(`(?i)market|business|strategy|revenue|customer|sales|profit|startup|company|finance|marketing|entrepreneur`)
	researcherRe = regexp.MustCompile(`(?i)research|study|data|experiment|analysis|statistical|paper|journal|dataset`)
)

// Detect maps page text to a role. Empty or unrecognized text is general.
func (KeywordClassifier) Detect(pageText string) string {
	switch {
	case developerRe.MatchString(pageText):
		return "developer"
	case businessRe.MatchString(pageText):
		return "business"
	case researcherRe.MatchString(pageText):
		return "researcher"
	default:
		return "general"
	}
}

// ResolveRole picks the effective role for an analysis: an explicit user
// preference wins, "auto" and "default" fall through to text detection.
func ResolveRole(preference, pageText string, c RoleClassifier) string {
	switch preference {
	case "", "default", "auto":
		if c == nil {
			return "general"
		}
		return c.Detect(pageText)
	default:
		return preference
	}
}
