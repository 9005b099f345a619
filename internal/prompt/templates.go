package prompt

import "fmt"

// roleInstructions fold a role-specific focus into the analysis prompt.
var roleInstructions = map[string]string{
	"developer":  "Focus analysis on technical insights, code structure, and implementation/development highlights.",
	"business":   "Highlight business insights, strategy, market opportunities, and commercial aspects.",
	"researcher": "Focus on scientific summary, data, research insights, and important findings.",
	"general":    "Provide general summary and easily understandable insights.",
}

// RoleInstruction returns the focus line for a role, defaulting to general.
func RoleInstruction(role string) string {
	if inst, ok := roleInstructions[role]; ok {
		return inst
	}
	return roleInstructions["general"]
}

// InitialSummary is the main analysis prompt: the agent must crawl the
// page immediately and answer in the fixed three-section format.
func InitialSummary(url, role string) string {
	return fmt.Sprintf(`You are Site Scout AI, a specialized web page analyzer. Your task is to AUTOMATICALLY analyze the following webpage using the 'web_crawler.crawl_and_index_website' skill: %s

IMPORTANT: You MUST use the web_crawler.crawl_and_index_website skill to analyze this page. Do NOT ask questions or wait for user input. Start the analysis immediately.

%s

Crawling Parameters:
- URL: %s
- Depth: 1 (main page content only)
- Focus: Extract and analyze the main content of this specific page

REQUIRED OUTPUT FORMAT (you must follow this exactly):

🎯 **OVERVIEW:**
- Type: [website category]
- Main Topic: [key subject in 1-2 sentences]
- Target Audience: [who this is for]

📝 **KEY HIGHLIGHTS:**
- [3-4 most important points, keep each point brief]

💡 **QUICK INSIGHTS:**
- [What users can learn/gain - 1-2 sentences]
- [Suggested follow-up questions - 1-2 examples]

Rules:
1. Start analysis immediately using web_crawler.crawl_and_index_website
2. Keep the entire summary under 150 words
3. Be concise, informative, and engaging
4. Focus on the most essential information that users need to know
5. Do NOT ask questions - just analyze and provide the summary`, url, RoleInstruction(role), url)
}

// ExplicitRetry is the directive variant sent after a conversational
// deflection.
func ExplicitRetry(url string) string {
	return fmt.Sprintf(`URGENT: You are Site Scout AI. You MUST analyze this webpage NOW: %s

CRITICAL INSTRUCTIONS:
1. Use web_crawler.crawl_and_index_website skill IMMEDIATELY
2. Do NOT ask questions or wait for user input
3. Start crawling and analysis RIGHT NOW
4. Provide summary in this EXACT format:

🎯 **OVERVIEW:**
- Type: [website category]
- Main Topic: [key subject in 1-2 sentences]
- Target Audience: [who this is for]

📝 **KEY HIGHLIGHTS:**
- [3-4 most important points]

💡 **QUICK INSIGHTS:**
- [What users can learn]
- [Follow-up questions]

DO NOT RESPOND WITH QUESTIONS. START ANALYSIS IMMEDIATELY.`, url)
}

// DepthFallback is the narrower-scope variant sent after a crawl/depth
// error: single page only, no sub-navigation.
func DepthFallback(url string) string {
	return fmt.Sprintf(`You are Site Scout AI. You MUST analyze this webpage: %s

CRITICAL: Use the 'web_crawler.crawl_and_index_website' skill immediately. Do NOT ask questions or wait for input.

Parameters:
- URL: %s
- Depth: 0 (single page only, no subpages)
- Mode: Extract main content and key information from this single page

REQUIRED OUTPUT FORMAT:

🎯 **OVERVIEW:**
- Type: [website category]
- Main Topic: [key subject in 1-2 sentences]
- Target Audience: [who this is for]

📝 **KEY HIGHLIGHTS:**
- [3-4 most important points from the page]

💡 **QUICK INSIGHTS:**
- [What users can learn from this page]
- [1-2 follow-up question examples]

Rules:
1. Start crawling immediately with web_crawler.crawl_and_index_website
2. Keep summary under 150 words
3. Focus on main page content only
4. Do NOT ask questions - just analyze and provide summary
5. If crawling fails, provide analysis based on URL structure and domain name`, url, url)
}

// QuestionFullCrawl is tier one of the answer fallback chain: crawl the
// page at depth 1 and answer from its content.
func QuestionFullCrawl(question, url string) string {
	return fmt.Sprintf(`To answer the following question, please use the 'web_crawler.crawl_and_index_website' skill to analyze content from: %s

Crawling Parameters:
- Depth: 1 (main page content only)
- Focus: Extract relevant information to answer the question

Question: %s

IMPORTANT INSTRUCTIONS:
1. First try to analyze the URL with depth 1
2. If crawling fails due to depth/URL structure issues, automatically try with depth 0 (single page only)
3. If still fails, try alternative crawling methods or manual content extraction
4. Always provide a helpful answer - never give up with error messages
5. If you encounter limitations, briefly mention them at the bottom and continue with what you can provide
6. Focus on being helpful rather than explaining technical limitations

Please provide an accurate answer based on the content from that URL.`, url, question)
}

// QuestionSinglePage is tier two: single page only.
func QuestionSinglePage(question, url string) string {
	return fmt.Sprintf(`To answer the following question, please use the 'web_crawler.crawl_and_index_website' skill to analyze content from: %s

Crawling Parameters:
- Depth: 0 (single page only - no subpages)
- Focus: Extract relevant information to answer the question

Question: %s

IMPORTANT: If this still fails, provide helpful information based on what you can access. Don't give up with error messages.`, url, question)
}

// QuestionManual is tier three: no crawling, best-effort reasoning.
func QuestionManual(question, url string) string {
	return fmt.Sprintf(`Please help me with this question: %q

I'm trying to get information from: %s

Since automated crawling isn't working, please:
1. Try to provide helpful information based on what you know
2. Suggest alternative approaches or sources
3. Give a brief, helpful response
4. If you have any relevant knowledge, share it
5. Don't explain technical limitations in detail

Focus on being helpful to the user.`, question, url)
}

// HelpfulFallback is the degraded-but-helpful message callers surface
// when every answer tier is exhausted. Never a raw error dump.
func HelpfulFallback(question string) string {
	return fmt.Sprintf(`I'm having trouble analyzing this page directly. Let me try a different approach to help you with your question about %q.

I'll attempt to provide useful information based on what I can access. If you need specific details from this page, you might want to try asking a more general question or provide some context about what you're looking for.`, question)
}

// AnalysisStartText is the system turn recorded when an automated
// analysis begins. The reconciler matches on this text for records
// written before metadata tagging.
func AnalysisStartText(url string) string {
	return "Auto-analysis started for: " + url
}
