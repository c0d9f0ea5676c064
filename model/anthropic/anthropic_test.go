package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/activitylog/core"
	"github.com/hupe1980/activitylog/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolUseMessage = `{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-3-5-sonnet-20241022",
  "content": [
    {"type": "text", "text": "Searching."},
    {"type": "tool_use", "id": "toolu_1", "name": "search_logs", "input": {"query": "search task: all"}}
  ],
  "stop_reason": "tool_use",
  "stop_sequence": null,
  "usage": {"input_tokens": 30, "output_tokens": 9}
}`

func TestModel_GenerateToolUse(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolUseMessage))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.APIKey = "test-key"
		o.BaseURL = srv.URL + "/"
		o.MaxRetries = 0
	})

	respCh, errCh := m.Generate(context.Background(), model.Request{
		Contents: []core.Content{
			core.NewTextContent(core.RoleSystem, "You log activities."),
			core.NewTextContent(core.RoleUser, "search task: all"),
		},
		Tools: []model.ToolDefinition{{Type: "function", Function: model.FunctionDefinition{
			Name:        "search_logs",
			Description: "Search activity logs.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{"query": map[string]any{"type": "string"}},
				"required":   []string{"query"},
			},
		}}},
	})
	resp, err := model.Collect(context.Background(), respCh, errCh)
	require.NoError(t, err)

	assert.Equal(t, "msg_1", resp.ID)
	assert.Equal(t, "tool_use", resp.FinishReason)
	assert.Equal(t, "Searching.", resp.Content.Text())
	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "toolu_1", calls[0].ID)
	assert.JSONEq(t, `{"query":"search task: all"}`, calls[0].Arguments)
	assert.Equal(t, 39, resp.Usage.TotalTokens)

	assert.NotNil(t, captured["system"])
	tools, ok := captured["tools"].([]any)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Equal(t, "Search activity logs.", tools[0].(map[string]any)["description"])
}

func TestBuildMessages_ToolResultsInUserTurn(t *testing.T) {
	call := core.FunctionCall{ID: "toolu_1", Name: "update_task_detail", Arguments: `{"text":"done"}`}
	msgs := buildMessages([]core.Content{
		core.NewTextContent(core.RoleSystem, "sys"),
		core.NewTextContent(core.RoleUser, "I completed task of sales ppt creation"),
		{Role: core.RoleAssistant, Parts: []core.Part{core.FunctionCallPart{FunctionCall: call}}},
		core.NewFunctionResponseContent(call, "Updated task.txt with entry: done", nil),
	})

	require.Len(t, msgs, 3)
	assert.EqualValues(t, "user", msgs[0].Role)
	assert.EqualValues(t, "assistant", msgs[1].Role)
	assert.EqualValues(t, "user", msgs[2].Role)
	require.Len(t, msgs[2].Content, 1)
	assert.NotNil(t, msgs[2].Content[0].OfToolResult)
}

func TestResponseText(t *testing.T) {
	text, isErr := responseText(core.FunctionResponse{Error: "boom"})
	assert.Equal(t, "boom", text)
	assert.True(t, isErr)

	text, isErr = responseText(core.FunctionResponse{Response: "ok"})
	assert.Equal(t, "ok", text)
	assert.False(t, isErr)
}
