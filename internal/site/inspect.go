package site

import (
	"strings"
	"unicode/utf8"
)

// InspectResult reports the structural completeness of an analysis result.
type InspectResult struct {
	Complete       bool
	MissingMarkers []string // canonical names of missing markers
	Chars          int
	MinChars       int
}

// canonicalMarkers lists the required structural markers in canonical order.
var canonicalMarkers = []string{
	"overview",
	"highlights",
	"insights",
}

// markerSynonyms maps canonical marker names to accepted header spellings.
// The emoji forms come from the live analysis prompt; the bracket forms
// from the locally synthesized fallback analysis.
var markerSynonyms = map[string][]string{
	"overview":   {"🎯 OVERVIEW", "🎯 **OVERVIEW", "[OVERVIEW]", "🎯 CONTENT ANALYSIS"},
	"highlights": {"📝 KEY HIGHLIGHTS", "📝 **KEY HIGHLIGHTS", "[KEY HIGHLIGHTS]", "📝 KEY POINTS"},
	"insights":   {"💡 QUICK INSIGHTS", "💡 **QUICK INSIGHTS", "[QUICK INSIGHTS]", "💡 INSIGHTS & RECOMMENDATIONS"},
}

// Inspect checks an analysis result for the three structural markers and
// the content-richness floor. A result with all markers and enough content
// is complete; anything less is partial.
func Inspect(text string, minChars int) InspectResult {
	result := InspectResult{
		Chars:    utf8.RuneCountInString(text),
		MinChars: minChars,
	}

	for _, canonical := range canonicalMarkers {
		if !hasMarker(text, markerSynonyms[canonical]) {
			result.MissingMarkers = append(result.MissingMarkers, canonical)
		}
	}

	result.Complete = len(result.MissingMarkers) == 0 && result.Chars > minChars
	return result
}

// HasAnyMarker reports whether the text carries at least one structural
// marker. Used to recognize untagged analysis results in old transcripts.
func HasAnyMarker(text string) bool {
	for _, canonical := range canonicalMarkers {
		if hasMarker(text, markerSynonyms[canonical]) {
			return true
		}
	}
	return false
}

func hasMarker(text string, synonyms []string) bool {
	lower := strings.ToLower(text)
	for _, synonym := range synonyms {
		if strings.Contains(lower, strings.ToLower(synonym)) {
			return true
		}
	}
	return false
}
