package model

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/hupe1980/activitylog/core"
)

// ScriptedModel is a deterministic Model for tests and offline runs. Each
// Generate call pops the next queued step; function calls without an ID get a
// generated one. Requests are recorded for later inspection.
type ScriptedModel struct {
	mu       sync.Mutex
	info     Info
	steps    []scriptStep
	requests []Request
}

type scriptStep struct {
	content core.Content
	err     error
}

// NewScriptedModel constructs an empty ScriptedModel with tool support enabled.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info: Info{Name: name, Provider: "scripted", SupportsTools: true},
	}
}

// Reply queues an assistant text answer.
func (m *ScriptedModel) Reply(text string) *ScriptedModel {
	return m.Respond(core.NewTextContent(core.RoleAssistant, text))
}

// Call queues an assistant turn requesting a single function call.
func (m *ScriptedModel) Call(name, arguments string) *ScriptedModel {
	return m.Respond(core.Content{Role: core.RoleAssistant, Parts: []core.Part{
		core.FunctionCallPart{FunctionCall: core.FunctionCall{Name: name, Arguments: arguments}},
	}})
}

// Respond queues arbitrary assistant content.
func (m *ScriptedModel) Respond(c core.Content) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, scriptStep{content: c})
	return m
}

// Fail queues an error.
func (m *ScriptedModel) Fail(err error) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, scriptStep{err: err})
	return m
}

// Requests returns a copy of the requests received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Remaining reports how many queued steps have not been consumed.
func (m *ScriptedModel) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.steps)
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (<-chan Response, <-chan error) {
	respCh := make(chan Response, 1)
	errCh := make(chan error, 1)
	defer close(respCh)
	defer close(errCh)

	if err := ctx.Err(); err != nil {
		errCh <- err
		return respCh, errCh
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	if len(m.steps) == 0 {
		m.mu.Unlock()
		errCh <- ErrScriptExhausted
		return respCh, errCh
	}
	step := m.steps[0]
	m.steps = m.steps[1:]
	m.mu.Unlock()

	if step.err != nil {
		errCh <- step.err
		return respCh, errCh
	}

	content := withCallIDs(step.content)
	finish := "stop"
	if len(content.FunctionCalls()) > 0 {
		finish = "tool_calls"
	}

	respCh <- Response{ID: uuid.NewString(), Content: content, FinishReason: finish}

	return respCh, errCh
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

func withCallIDs(c core.Content) core.Content {
	parts := make([]core.Part, len(c.Parts))
	for i, p := range c.Parts {
		if fc, ok := p.(core.FunctionCallPart); ok && fc.FunctionCall.ID == "" {
			fc.FunctionCall.ID = "call_" + uuid.NewString()
			p = fc
		}
		parts[i] = p
	}
	return core.Content{Role: c.Role, Parts: parts}
}
