package model

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hupe1980/activitylog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, m Model, req Request) (Response, error) {
	t.Helper()
	respCh, errCh := m.Generate(context.Background(), req)
	return Collect(context.Background(), respCh, errCh)
}

func TestScriptedModel_ReplaysInOrder(t *testing.T) {
	m := NewScriptedModel("script").
		Call("update_route_detail", `{"text":"I took marthalli route today"}`).
		Reply("Logged your route.")

	req := Request{Contents: []core.Content{core.NewTextContent(core.RoleUser, "I took marthalli route today")}}

	first, err := generate(t, m, req)
	require.NoError(t, err)
	assert.Equal(t, "tool_calls", first.FinishReason)
	calls := first.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "update_route_detail", calls[0].Name)
	assert.True(t, strings.HasPrefix(calls[0].ID, "call_"))

	second, err := generate(t, m, req)
	require.NoError(t, err)
	assert.Equal(t, "stop", second.FinishReason)
	assert.Equal(t, "Logged your route.", second.Content.Text())

	_, err = generate(t, m, req)
	assert.ErrorIs(t, err, ErrScriptExhausted)

	assert.Len(t, m.Requests(), 3)
	assert.Equal(t, 0, m.Remaining())
	assert.Equal(t, "scripted", m.Info().Provider)
}

func TestScriptedModel_Fail(t *testing.T) {
	boom := errors.New("rate limited")
	m := NewScriptedModel("script").Fail(boom)

	_, err := generate(t, m, Request{})
	assert.ErrorIs(t, err, boom)
}

func TestScriptedModel_CancelledContext(t *testing.T) {
	m := NewScriptedModel("script").Reply("never")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	respCh, errCh := m.Generate(ctx, Request{})
	_, err := Collect(context.Background(), respCh, errCh)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, m.Remaining())
}

func TestCollect_NoResponse(t *testing.T) {
	respCh := make(chan Response)
	errCh := make(chan error)
	close(respCh)
	close(errCh)

	_, err := Collect(context.Background(), respCh, errCh)
	assert.ErrorIs(t, err, ErrNoResponse)
}
