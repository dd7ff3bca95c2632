package rewrite

import "strings"

// FieldRule declares one rewritable field of a widget type. Key is either a
// flat settings key or a repeater pattern "<listKey>[].<itemKey>". HTML marks
// the target format for the prompt. Raw marks fields stored as a wrapper
// object with a "raw" payload key; that shape is preserved on write-back.
type FieldRule struct {
	Key  string
	HTML bool
	Raw  bool
}

// repeater splits a "<list>[].<item>" key, reporting whether it matched.
func (f FieldRule) repeater() (listKey, itemKey string, ok bool) {
	i := strings.Index(f.Key, "[].")
	if i < 0 {
		return "", "", false
	}
	return f.Key[:i], f.Key[i+3:], true
}

// DefaultRules maps widget types to their rewritable fields.
var DefaultRules = map[string][]FieldRule{
	"heading":     {{Key: "title"}},
	"text-editor": {{Key: "editor", HTML: true}},
	"button":      {{Key: "text"}},
	"image":       {{Key: "caption"}},
	"icon-box": {
		{Key: "title_text"},
		{Key: "description_text", HTML: true},
	},
	"icon-list":  {{Key: "icon_list[].text"}},
	"blockquote": {{Key: "blockquote_content", HTML: true}},
	"testimonial": {
		{Key: "testimonial_content", HTML: true},
		{Key: "testimonial_name"},
	},
	"call-to-action": {
		{Key: "title"},
		{Key: "description", HTML: true, Raw: true},
	},
	"accordion": {
		{Key: "tabs[].tab_title"},
		{Key: "tabs[].tab_content", HTML: true},
	},
	"toggle": {
		{Key: "tabs[].tab_title"},
		{Key: "tabs[].tab_content", HTML: true},
	},
	"tabs": {
		{Key: "tabs[].tab_title"},
		{Key: "tabs[].tab_content", HTML: true},
	},
}
