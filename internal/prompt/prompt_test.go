package prompt

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestClassifyReply(t *testing.T) {
	tests := []struct {
		reply string
		want  ReplyClass
	}{
		{"Hello! How can I assist you today?", ReplyGeneric},
		{"How can I help with your project?", ReplyGeneric},
		{"What would you like to know?", ReplyGeneric},
		{"Please provide the URL you want analyzed.", ReplyGeneric},
		{"If you have any other questions, let me know!", ReplyGeneric},

		{"I encountered a URL depth error while crawling.", ReplyCrawl},
		{"Could you please confirm the URL is correct?", ReplyCrawl},
		{"The address was not recognized as valid.", ReplyCrawl},
		{"There was a technical issue accessing the page.", ReplyCrawl},
		{"The crawling tool returned no content.", ReplyCrawl},

		{"You have insufficient credits to perform this action.", ReplyGiveUp},
		{"An error occurred while processing your request.", ReplyGiveUp},
		{"The request failed. I recommend trying again later.", ReplyGiveUp},

		{"🎯 **OVERVIEW:** A documentation site about Go.", ReplyOK},
		{"The page describes a static site generator.", ReplyOK},
	}

	for _, tt := range tests {
		if got := ClassifyReply(tt.reply); got != tt.want {
			t.Errorf("ClassifyReply(%q) = %q, want %q", tt.reply, got, tt.want)
		}
	}
}

func TestLooksLikeRetrySuccess(t *testing.T) {
	success := `🎯 **OVERVIEW:** docs site
📝 **KEY HIGHLIGHTS:** concise API reference
💡 **QUICK INSIGHTS:** good starting point`
	if !LooksLikeRetrySuccess(success) {
		t.Error("structured retry reply not accepted")
	}

	if LooksLikeRetrySuccess("How can I assist you today?") {
		t.Error("second deflection accepted as success")
	}
	if LooksLikeRetrySuccess("Here is an overview of what I can do for you.") {
		t.Error("overview without highlights accepted")
	}
}

func TestIsPageScoped(t *testing.T) {
	scoped := []string{
		"analyze this page for me",
		"What is the main topic?",
		"give me a summary",
		"who is the target audience of this site",
		"help me", // short + generic opener
	}
	for _, q := range scoped {
		if !IsPageScoped(q) {
			t.Errorf("expected page-scoped: %q", q)
		}
	}

	freeform := []string{
		"Write a haiku about autumn leaves falling in Kyoto gardens",
		"Translate 'good morning' to French and Spanish for my trip",
	}
	for _, q := range freeform {
		if IsPageScoped(q) {
			t.Errorf("expected free-form: %q", q)
		}
	}
}

func TestKeywordClassifier(t *testing.T) {
	c := KeywordClassifier{}
	tests := []struct {
		text string
		want string
	}{
		{"import the framework and write a function in Python", "developer"},
		{"our revenue and marketing strategy for the startup", "business"},
		{"the dataset supports the statistical experiment in this paper", "researcher"},
		{"a page about cooking pasta at home", "general"},
		{"", "general"},
	}
	for _, tt := range tests {
		if got := c.Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolveRole(t *testing.T) {
	c := KeywordClassifier{}
	if got := ResolveRole("business", "a page full of source code", c); got != "business" {
		t.Errorf("explicit preference ignored: got %q", got)
	}
	if got := ResolveRole("auto", "a function in javascript", c); got != "developer" {
		t.Errorf("auto detection failed: got %q", got)
	}
	if got := ResolveRole("default", "", c); got != "general" {
		t.Errorf("default without signal: got %q", got)
	}
	if got := ResolveRole("", "anything", nil); got != "general" {
		t.Errorf("nil classifier: got %q", got)
	}
}

func TestSynthesizeAnalysis(t *testing.T) {
	text := SynthesizeAnalysis("https://example.com/docs/intro")

	for _, marker := range []string{"[OVERVIEW]", "[KEY HIGHLIGHTS]", "[QUICK INSIGHTS]"} {
		if !strings.Contains(text, marker) {
			t.Errorf("missing %s section", marker)
		}
	}
	if !strings.Contains(text, "example.com") {
		t.Error("domain not mentioned")
	}
	// Must clear the completeness floor so the synthesized analysis is
	// served as cached on the next visit.
	if utf8.RuneCountInString(text) <= 150 {
		t.Errorf("synthesized analysis too short: %d chars", utf8.RuneCountInString(text))
	}
}

func TestSynthesizeAnalysis_UnparseableURL(t *testing.T) {
	text := SynthesizeAnalysis("::::not a url")
	for _, marker := range []string{"[OVERVIEW]", "[KEY HIGHLIGHTS]", "[QUICK INSIGHTS]"} {
		if !strings.Contains(text, marker) {
			t.Errorf("missing %s section in fallback form", marker)
		}
	}
}

func TestPromptTemplatesCarryURLAndQuestion(t *testing.T) {
	url := "https://example.com/docs"
	q := "what are the pricing tiers?"

	if !strings.Contains(InitialSummary(url, "developer"), url) {
		t.Error("initial summary missing URL")
	}
	if !strings.Contains(InitialSummary(url, "developer"), RoleInstruction("developer")) {
		t.Error("initial summary missing role instruction")
	}
	if !strings.Contains(ExplicitRetry(url), url) {
		t.Error("explicit retry missing URL")
	}
	if !strings.Contains(DepthFallback(url), "Depth: 0") {
		t.Error("depth fallback not scoped to a single page")
	}
	for _, p := range []string{QuestionFullCrawl(q, url), QuestionSinglePage(q, url), QuestionManual(q, url)} {
		if !strings.Contains(p, q) {
			t.Error("answer prompt missing the question")
		}
		if !strings.Contains(p, url) {
			t.Error("answer prompt missing the URL")
		}
	}
}
