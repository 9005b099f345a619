package site

import (
	"testing"
	"time"
)

func TestNewTurn_IDsSortChronologically(t *testing.T) {
	a := NewTurn(AuthorUser, "first", nil)
	b := NewTurn(AuthorUser, "second", nil)
	if !(a.ID < b.ID) {
		t.Errorf("turn IDs out of order: %q then %q", a.ID, b.ID)
	}
}

func TestIsAnalysisStart(t *testing.T) {
	url := "https://example.com/docs"

	tagged := NewTurn(AuthorSystem, "Auto-analysis started for: "+url,
		&TurnMetadata{Kind: KindAnalysisStart, URL: url})
	if !tagged.IsAnalysisStart(url) {
		t.Error("tagged start turn not recognized")
	}
	if tagged.IsAnalysisStart("https://other.example.com/") {
		t.Error("start turn matched a different URL")
	}

	// Untagged legacy turn: text match only.
	legacy := Turn{
		Author:    AuthorSystem,
		Text:      "Auto-analysis started for: " + url,
		Timestamp: time.Now(),
	}
	if !legacy.IsAnalysisStart(url) {
		t.Error("legacy start turn not recognized by text")
	}

	// Same text from the wrong author is not a start marker.
	wrongAuthor := NewTurn(AuthorAgent, "Auto-analysis started for: "+url, nil)
	if wrongAuthor.IsAnalysisStart(url) {
		t.Error("agent-authored turn misclassified as start")
	}
}

func TestIsAnalysisResult(t *testing.T) {
	for _, kind := range []TurnKind{KindAnalysisResult, KindRetry, KindFallback, KindManual} {
		turn := NewTurn(AuthorAgent, "anything", &TurnMetadata{Kind: kind})
		if !turn.IsAnalysisResult() {
			t.Errorf("kind %q not recognized as a result", kind)
		}
	}

	chat := NewTurn(AuthorAgent, "Sure, the pricing page lists three tiers.", nil)
	if chat.IsAnalysisResult() {
		t.Error("plain chat answer misclassified as analysis result")
	}

	// Untagged legacy result: marker match.
	legacy := Turn{Author: AuthorAgent, Text: completeAnalysis}
	if !legacy.IsAnalysisResult() {
		t.Error("legacy marked-up result not recognized")
	}

	system := NewTurn(AuthorSystem, completeAnalysis, &TurnMetadata{Kind: KindAnalysisResult})
	if system.IsAnalysisResult() {
		t.Error("system-authored turn misclassified as result")
	}
}
