package testutil

import (
	"encoding/json"

	"github.com/hupe1980/activitylog/core"
)

// ContentBuilder provides a fluent helper for constructing content in tests.
// Example:
//
//	c := NewContentBuilder().Assistant().Text("ok").Call("c1", "search_logs", map[string]any{"query": "search task: all"}).Build()
type ContentBuilder struct {
	role  string
	parts []core.Part
}

// NewContentBuilder creates a builder with the assistant role.
func NewContentBuilder() *ContentBuilder { return &ContentBuilder{role: core.RoleAssistant} }

// Assistant sets the role to assistant (chainable).
func (b *ContentBuilder) Assistant() *ContentBuilder { b.role = core.RoleAssistant; return b }

// User sets the role to user (chainable).
func (b *ContentBuilder) User() *ContentBuilder { b.role = core.RoleUser; return b }

// Text appends a text part (chainable).
func (b *ContentBuilder) Text(t string) *ContentBuilder {
	b.parts = append(b.parts, core.TextPart{Text: t})
	return b
}

// Call appends a function call part with JSON encoded args (chainable).
func (b *ContentBuilder) Call(id, name string, args map[string]any) *ContentBuilder {
	raw, _ := json.Marshal(args)
	b.parts = append(b.parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
		ID:        id,
		Name:      name,
		Arguments: string(raw),
	}})
	return b
}

// RawCall appends a function call part with a verbatim argument string (chainable).
func (b *ContentBuilder) RawCall(id, name, arguments string) *ContentBuilder {
	b.parts = append(b.parts, core.FunctionCallPart{FunctionCall: core.FunctionCall{
		ID:        id,
		Name:      name,
		Arguments: arguments,
	}})
	return b
}

// Build returns the content.
func (b *ContentBuilder) Build() core.Content {
	parts := make([]core.Part, len(b.parts))
	copy(parts, b.parts)
	return core.Content{Role: b.role, Parts: parts}
}
