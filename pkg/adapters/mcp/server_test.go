package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/peek/pkg/adapters/memory"
	"github.com/aretw0/peek/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestFlattenValue(t *testing.T) {
	s := NewServer(memory.NewStore())

	res, err := s.handleFlatten(context.Background(), call("flatten_value", map[string]any{
		"value": `{"b": [1, 2, 3], "a": {"c": true}}`,
	}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"a":{"c":true},"b":[1,2,3]}`, text(t, res))
}

func TestFlattenValue_Bounds(t *testing.T) {
	s := NewServer(memory.NewStore())

	res, err := s.handleFlatten(context.Background(), call("flatten_value", map[string]any{
		"value":     `{"list": [1, 2, 3], "deep": {"x": {"y": 1}}}`,
		"max_depth": float64(2),
		"max_items": float64(2),
	}))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"deep": {"x": {"y": {"max_depth_reached": true}}},
		"list": [1, 2, {"max_items_reached": true}]
	}`, text(t, res))
}

func TestFlattenValue_YAML(t *testing.T) {
	s := NewServer(memory.NewStore())

	res, err := s.handleFlatten(context.Background(), call("flatten_value", map[string]any{
		"value":  "name: peek\ntags: [a, b]\n",
		"format": "yaml",
	}))
	require.NoError(t, err)
	assert.Equal(t, "name: peek\ntags:\n  - a\n  - b\n", text(t, res))
}

func TestFlattenValue_Errors(t *testing.T) {
	s := NewServer(memory.NewStore())

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing value", map[string]any{}, "value"},
		{"bad format", map[string]any{"value": "1", "format": "xml"}, domain.ErrUnknownFormat.Error()},
		{"bad document", map[string]any{"value": "{a: [1,"}, domain.ErrInvalidInput.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.handleFlatten(context.Background(), call("flatten_value", tt.args))
			require.NoError(t, err)
			assert.True(t, res.IsError)
			assert.True(t, strings.Contains(text(t, res), tt.want), text(t, res))
		})
	}
}

func TestStatusTools(t *testing.T) {
	store := memory.NewStore()
	s := NewServer(store)
	ctx := context.Background()

	status, err := s.handleGetStatus(ctx, call("get_status", nil), nil)
	require.NoError(t, err)
	assert.False(t, status.Enabled)

	status, err = s.handleSetEnabled(ctx, call("set_enabled", nil), map[string]interface{}{"enabled": true})
	require.NoError(t, err)
	assert.True(t, status.Enabled)

	enabled, err := store.Enabled(ctx)
	require.NoError(t, err)
	assert.True(t, enabled)

	_, err = s.handleSetEnabled(ctx, call("set_enabled", nil), map[string]interface{}{"enabled": "yes"})
	assert.Error(t, err)
}

func TestRegisteredTools(t *testing.T) {
	s := NewServer(memory.NewStore())
	resp := s.mcpServer.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))

	out, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{"flatten_value", "get_status", "set_enabled"} {
		assert.Contains(t, string(out), `"name":"`+name+`"`)
	}
}
