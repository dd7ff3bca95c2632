package generation

import (
	"fmt"
	"strings"
)

// MakeBlogPrompt composes the structured-document prompt from the caller's
// topic, optional reference text and optional sitemap link constraint.
func MakeBlogPrompt(userPrompt, referenceText, sitemapURL string) string {
	parts := []string{
		"Write a complete, SEO-friendly blog article with H2/H3 subheadings, short paragraphs, and bullet/numbered lists where helpful.",
		"Return ONLY a single valid JSON object with keys: title, sections[{heading,text}], faq[{q,a}].",
	}
	if referenceText != "" {
		parts = append(parts, "Match the tone/structure:\n---REFERENCE START---\n"+referenceText+"\n---REFERENCE END---")
	}
	if sitemapURL != "" {
		parts = append(parts, fmt.Sprintf("Only create INTERNAL links under %s. Do not invent URLs.", sitemapURL))
	}
	parts = append(parts, "Topic/Prompt:\n"+userPrompt)
	return strings.Join(parts, "\n\n")
}

// MakeFieldPrompt composes the per-field rewrite prompt: target format, the
// caller's instruction verbatim, and the current content between literal
// markers.
func MakeFieldPrompt(instruction, content string, isHTML bool) string {
	format := "plain text"
	if isHTML {
		format = "HTML"
	}
	return fmt.Sprintf(
		"Rewrite the following %s content.\n\nInstruction: %s\n\n---BEGIN CONTENT---\n%s\n---END CONTENT---\n\nReturn ONLY the rewritten content, in the same %s format, with no commentary.",
		format, instruction, content, format,
	)
}
