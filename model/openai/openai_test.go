package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hupe1980/activitylog/core"
	"github.com/hupe1980/activitylog/internal/testutil"
	"github.com/hupe1980/activitylog/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toolCallCompletion = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1760000000,
  "model": "llama-3.3-70b-versatile",
  "choices": [{
    "index": 0,
    "message": {
      "role": "assistant",
      "content": null,
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "update_route_detail", "arguments": "{\"text\":\"I took marthalli route today\"}"}
      }]
    },
    "finish_reason": "tool_calls"
  }],
  "usage": {"prompt_tokens": 40, "completion_tokens": 12, "total_tokens": 52}
}`

func TestModel_GenerateToolCall(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolCallCompletion))
	}))
	defer srv.Close()

	m := NewGroqModel("test-key", func(o *Options) {
		o.BaseURL = srv.URL + "/"
		o.MaxRetries = 0
	})

	req := model.Request{
		Contents: []core.Content{
			core.NewTextContent(core.RoleSystem, "You log activities."),
			core.NewTextContent(core.RoleUser, "I took marthalli route today"),
		},
		Tools: []model.ToolDefinition{{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        "update_route_detail",
				Description: "Log route details.",
				Parameters:  map[string]any{"type": "object", "properties": map[string]any{"text": map[string]any{"type": "string"}}},
			},
		}},
	}

	respCh, errCh := m.Generate(context.Background(), req)
	resp, err := model.Collect(context.Background(), respCh, errCh)
	require.NoError(t, err)

	assert.Equal(t, "chatcmpl-1", resp.ID)
	assert.Equal(t, "tool_calls", resp.FinishReason)
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 52, resp.Usage.TotalTokens)

	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, core.FunctionCall{ID: "call_1", Name: "update_route_detail", Arguments: `{"text":"I took marthalli route today"}`}, calls[0])

	assert.Equal(t, GroqLlama33Versatile, captured["model"])
	assert.EqualValues(t, 0, captured["temperature"])
	msgs, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
	tools, ok := captured["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 1)
}

func TestModel_GenerateAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.BaseURL = srv.URL + "/"
		o.APIKey = "bad"
		o.MaxRetries = 0
	})

	respCh, errCh := m.Generate(context.Background(), model.Request{
		Contents: []core.Content{core.NewTextContent(core.RoleUser, "hi")},
	})
	_, err := model.Collect(context.Background(), respCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
}

func TestBuildMessages_ToolRoundTrip(t *testing.T) {
	call := core.FunctionCall{ID: "call_1", Name: "search_logs", Arguments: `{"query":"search task: all"}`}
	contents := []core.Content{
		core.NewTextContent(core.RoleSystem, "sys"),
		testutil.NewContentBuilder().User().Text("search task: all").Build(),
		testutil.NewContentBuilder().Assistant().RawCall(call.ID, call.Name, call.Arguments).Build(),
		core.NewFunctionResponseContent(call, "No logs found in task.txt", nil),
		core.NewTextContent(core.RoleAssistant, "There are no task logs yet."),
	}

	msgs := buildMessages(contents)
	require.Len(t, msgs, 5)
	assert.NotNil(t, msgs[0].OfSystem)
	assert.NotNil(t, msgs[1].OfUser)
	require.NotNil(t, msgs[2].OfAssistant)
	require.Len(t, msgs[2].OfAssistant.ToolCalls, 1)
	assert.Equal(t, "call_1", msgs[2].OfAssistant.ToolCalls[0].ID)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "call_1", msgs[3].OfTool.ToolCallID)
	assert.NotNil(t, msgs[4].OfAssistant)
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, "ok", responseText(core.FunctionResponse{Response: "ok"}))
	assert.Equal(t, "Error: boom", responseText(core.FunctionResponse{Error: "boom"}))
	assert.Equal(t, "42", responseText(core.FunctionResponse{Response: 42}))
}

func TestModel_Info(t *testing.T) {
	assert.Equal(t, "groq", NewGroqModel("k").Info().Provider)
	info := NewModel(func(o *Options) { o.APIKey = "k" }).Info()
	assert.Equal(t, "openai", info.Provider)
	assert.True(t, info.SupportsTools)
}
