// Package rewrite walks page-builder element trees and replaces declared
// content fields with generated text, preserving the tree's shape.
package rewrite

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Generator produces the replacement for one field's content.
type Generator func(ctx context.Context, instruction, content string, isHTML bool) (string, error)

// Part records one field rewrite for dry-run previews.
type Part struct {
	Widget string `json:"widget"`
	Field  string `json:"field"`
	Before string `json:"before"`
	After  string `json:"after"`
}

// Rewriter traverses element trees depth-first, issuing one generation call
// per non-empty rewritable field. Calls are strictly sequential; the first
// failure aborts the whole traversal.
type Rewriter struct {
	rules    map[string][]FieldRule
	generate Generator
	logger   zerolog.Logger
}

// NewRewriter constructs a rewriter over the default rule table.
func NewRewriter(generate Generator, logger zerolog.Logger) *Rewriter {
	return &Rewriter{
		rules:    DefaultRules,
		generate: generate,
		logger:   logger.With().Str("component", "rewriter").Logger(),
	}
}

// Rewrite processes every node in the tree. The decoded JSON tree is mutated
// in place unless dryRun is set, in which case only the collected parts are
// produced and the tree is left untouched.
func (r *Rewriter) Rewrite(ctx context.Context, tree []any, instruction string, dryRun bool) ([]any, []Part, error) {
	var parts []Part
	for _, element := range tree {
		node, ok := element.(map[string]any)
		if !ok {
			continue
		}
		if err := r.rewriteNode(ctx, node, instruction, dryRun, &parts); err != nil {
			return nil, nil, err
		}
	}
	return tree, parts, nil
}

func (r *Rewriter) rewriteNode(ctx context.Context, node map[string]any, instruction string, dryRun bool, parts *[]Part) error {
	widget, _ := node["widgetType"].(string)
	settings, hasSettings := node["settings"].(map[string]any)
	if widget != "" && hasSettings {
		for _, rule := range r.rules[widget] {
			if err := r.rewriteField(ctx, widget, settings, rule, instruction, dryRun, parts); err != nil {
				return err
			}
		}
	}

	children, ok := node["elements"].([]any)
	if !ok {
		return nil
	}
	for _, child := range children {
		childNode, ok := child.(map[string]any)
		if !ok {
			continue
		}
		if err := r.rewriteNode(ctx, childNode, instruction, dryRun, parts); err != nil {
			return err
		}
	}
	node["elements"] = children
	return nil
}

func (r *Rewriter) rewriteField(ctx context.Context, widget string, settings map[string]any, rule FieldRule, instruction string, dryRun bool, parts *[]Part) error {
	listKey, itemKey, isRepeater := rule.repeater()
	if !isRepeater {
		value, present := settings[rule.Key]
		if !present {
			return nil
		}
		replaced, err := r.replaceValue(ctx, widget, rule, value, instruction, parts)
		if err != nil {
			return err
		}
		if !dryRun && replaced != nil {
			settings[rule.Key] = replaced
		}
		return nil
	}

	items, ok := settings[listKey].([]any)
	if !ok {
		return nil
	}
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		value, present := entry[itemKey]
		if !present {
			continue
		}
		replaced, err := r.replaceValue(ctx, widget, rule, value, instruction, parts)
		if err != nil {
			return err
		}
		if !dryRun && replaced != nil {
			entry[itemKey] = replaced
		}
	}
	return nil
}

// replaceValue extracts the field's current text, generates its replacement
// and re-wraps it in the stored shape. A nil result means the field was
// skipped (empty content or unexpected shape); no generation call is issued
// for skipped fields.
func (r *Rewriter) replaceValue(ctx context.Context, widget string, rule FieldRule, value any, instruction string, parts *[]Part) (any, error) {
	current, ok := extractText(value, rule.Raw)
	if !ok || strings.TrimSpace(current) == "" {
		return nil, nil
	}

	generated, err := r.generate(ctx, instruction, current, rule.HTML)
	if err != nil {
		r.logger.Error().Err(err).
			Str("widget", widget).
			Str("field", rule.Key).
			Msg("field rewrite failed")
		return nil, err
	}

	*parts = append(*parts, Part{
		Widget: widget,
		Field:  rule.Key,
		Before: current,
		After:  generated,
	})
	return wrapText(value, generated, rule.Raw), nil
}

// extractText pulls the current string out of the stored value, honoring the
// wrapper-object shape when declared.
func extractText(value any, wrapped bool) (string, bool) {
	if wrapped {
		m, ok := value.(map[string]any)
		if !ok {
			return "", false
		}
		s, ok := m["raw"].(string)
		return s, ok
	}
	s, ok := value.(string)
	return s, ok
}

// wrapText rebuilds the stored value shape around the generated text. The
// wrapper object is copied rather than mutated so dry runs leave the input
// tree untouched.
func wrapText(original any, text string, wrapped bool) any {
	if !wrapped {
		return text
	}
	m, _ := original.(map[string]any)
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out["raw"] = text
	return out
}
