package generation

import (
	"encoding/json"
	"html"
	"strings"
)

// Section is one heading/body pair of a generated document.
type Section struct {
	Heading string `json:"heading"`
	Text    string `json:"text"`
}

// FAQ is one question/answer pair.
type FAQ struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Document is the structured blog generation output.
type Document struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
	FAQ      []FAQ     `json:"faq"`
}

// ParseDocument interprets a provider response as a document. Unparseable
// output is wrapped as a single "Body" section under a "Draft" title so a
// degraded response still reaches the caller.
func ParseDocument(raw string) Document {
	raw = strings.TrimSpace(raw)

	var loose struct {
		Title    string            `json:"title"`
		Sections []json.RawMessage `json:"sections"`
		FAQ      []json.RawMessage `json:"faq"`
	}
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		return Document{
			Title:    "Draft",
			Sections: []Section{{Heading: "Body", Text: raw}},
			FAQ:      []FAQ{},
		}
	}

	doc := Document{
		Title:    loose.Title,
		Sections: make([]Section, 0, len(loose.Sections)),
		FAQ:      make([]FAQ, 0, len(loose.FAQ)),
	}
	if doc.Title == "" {
		doc.Title = "Draft"
	}

	for _, rawSection := range loose.Sections {
		var section Section
		if err := json.Unmarshal(rawSection, &section); err == nil {
			if section.Heading == "" {
				section.Heading = "Section"
			}
			doc.Sections = append(doc.Sections, section)
			continue
		}
		// tolerate bare strings in the sections list
		var text string
		if err := json.Unmarshal(rawSection, &text); err == nil {
			doc.Sections = append(doc.Sections, Section{Heading: "Section", Text: text})
		}
	}

	for _, rawFAQ := range loose.FAQ {
		var pair FAQ
		if err := json.Unmarshal(rawFAQ, &pair); err != nil {
			var q string
			if err := json.Unmarshal(rawFAQ, &q); err != nil {
				continue
			}
			pair = FAQ{Q: q}
		}
		if pair.Q != "" || pair.A != "" {
			doc.FAQ = append(doc.FAQ, pair)
		}
	}
	return doc
}

// RenderPreviewHTML builds display markup for a document. The title, section
// headings and FAQ questions are escaped; section bodies and answers are
// inserted as-is because the generation step produces them as HTML fragments.
func RenderPreviewHTML(doc Document) string {
	var b strings.Builder

	title := doc.Title
	if title == "" {
		title = "Draft"
	}
	b.WriteString("<div class='cg-preview'><h1 class='cg-title'>")
	b.WriteString(html.EscapeString(title))
	b.WriteString("</h1>")

	for _, section := range doc.Sections {
		b.WriteString("<section class='cg-sec'><h2>")
		b.WriteString(html.EscapeString(section.Heading))
		b.WriteString("</h2><div class='cg-body'>")
		b.WriteString(section.Text)
		b.WriteString("</div></section>")
	}

	if len(doc.FAQ) > 0 {
		b.WriteString("<section class='cg-faq'><h2>FAQ</h2><dl>")
		for _, pair := range doc.FAQ {
			b.WriteString("<dt>")
			b.WriteString(html.EscapeString(pair.Q))
			b.WriteString("</dt><dd>")
			b.WriteString(pair.A)
			b.WriteString("</dd>")
		}
		b.WriteString("</dl></section>")
	}

	b.WriteString("</div>")
	return b.String()
}
