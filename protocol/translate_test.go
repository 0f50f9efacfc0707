package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func translateOne(t *testing.T, line string) Event {
	t.Helper()
	events, err := Translate([]byte(line))
	require.NoError(t, err)
	require.Len(t, events, 1)
	return events[0]
}

func TestTranslate_ServiceReady(t *testing.T) {
	ev := translateOne(t, `{"type":"service_ready","content":"worker up"}`)
	assert.Equal(t, EventTypeServiceReady, ev.Type)
	assert.Equal(t, "worker up", ev.Content)
	assert.NotEmpty(t, ev.RawJSON)
}

func TestTranslate_Ready(t *testing.T) {
	ev := translateOne(t, `{"type":"ready","model":"sonnet"}`)
	assert.Equal(t, EventTypeReady, ev.Type)
	assert.Equal(t, "sonnet", ev.Model)
}

func TestTranslate_SystemInit_SnakeCase(t *testing.T) {
	ev := translateOne(t, `{"type":"system","subtype":"init","session_id":"s1","model":"sonnet","skills":["search"]}`)
	assert.Equal(t, EventTypeSystemInit, ev.Type)
	assert.Equal(t, "s1", ev.SessionID)
	assert.Equal(t, "sonnet", ev.Model)
	assert.Equal(t, []string{"search"}, ev.Skills)
}

func TestTranslate_SystemInit_Flat(t *testing.T) {
	ev := translateOne(t, `{"type":"system_init","sessionId":"s2","model":"opus"}`)
	assert.Equal(t, EventTypeSystemInit, ev.Type)
	assert.Equal(t, "s2", ev.SessionID)
	assert.Equal(t, "opus", ev.Model)
}

func TestTranslate_SystemNonInit_Dropped(t *testing.T) {
	events, err := Translate([]byte(`{"type":"system","subtype":"compact_boundary"}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTranslate_Assistant_Flat(t *testing.T) {
	ev := translateOne(t, `{"type":"assistant","content":"Hello!"}`)
	assert.Equal(t, EventTypeAssistant, ev.Type)
	assert.Equal(t, "Hello!", ev.Content)
}

func TestTranslate_Assistant_NestedBlocks(t *testing.T) {
	line := `{"type":"assistant","message":{"role":"assistant","content":[` +
		`{"type":"thinking","thinking":"Let me check."},` +
		`{"type":"text","text":"Reading the file now."},` +
		`{"type":"tool_use","id":"tu_1","name":"Read","input":{"path":"main.go"}}]}}`

	events, err := Translate([]byte(line))
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, EventTypeAssistant, events[0].Type)
	assert.Equal(t, "Let me check.\nReading the file now.", events[0].Content)

	assert.Equal(t, EventTypeToolUse, events[1].Type)
	assert.Equal(t, "Read", events[1].ToolName)
	assert.Equal(t, "tu_1", events[1].ToolID)
	assert.JSONEq(t, `{"path":"main.go"}`, events[1].ToolInput)
}

func TestTranslate_Assistant_EmptyMessage(t *testing.T) {
	events, err := Translate([]byte(`{"type":"assistant","message":{"role":"assistant","content":[]}}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTranslate_ToolUse_Flat(t *testing.T) {
	ev := translateOne(t, `{"type":"tool_use","toolName":"Bash","toolInput":{"command":"ls"},"toolId":"t9"}`)
	assert.Equal(t, EventTypeToolUse, ev.Type)
	assert.Equal(t, "Bash", ev.ToolName)
	assert.Equal(t, "t9", ev.ToolID)
	assert.JSONEq(t, `{"command":"ls"}`, ev.ToolInput)
}

func TestTranslate_User_ToolResultBlocks(t *testing.T) {
	line := `{"type":"user","message":{"role":"user","content":[` +
		`{"type":"tool_result","tool_use_id":"tu_1","content":"file contents"}]}}`

	ev := translateOne(t, line)
	assert.Equal(t, EventTypeToolResult, ev.Type)
	assert.Equal(t, "tu_1", ev.ToolID)
	assert.Equal(t, "file contents", ev.Content)
}

func TestTranslate_Usage_MessageDelta(t *testing.T) {
	ev := translateOne(t, `{"type":"message_delta","usage":{"input_tokens":10,"output_tokens":25,"cache_read_input_tokens":5}}`)
	assert.Equal(t, EventTypeUsage, ev.Type)
	require.NotNil(t, ev.InputTokens)
	assert.Equal(t, uint64(10), *ev.InputTokens)
	require.NotNil(t, ev.OutputTokens)
	assert.Equal(t, uint64(25), *ev.OutputTokens)
	require.NotNil(t, ev.CacheReadTokens)
	assert.Equal(t, uint64(5), *ev.CacheReadTokens)
	assert.Nil(t, ev.CacheCreationTokens)
}

func TestTranslate_Usage_NoTokens_Dropped(t *testing.T) {
	events, err := Translate([]byte(`{"type":"message_delta","delta":{"stop_reason":"end_turn"}}`))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestTranslate_Result_FlatCamel(t *testing.T) {
	ev := translateOne(t, `{"type":"result","content":"done","usage":{"inputTokens":120,"outputTokens":80},"costUsd":0.0123,"durationMs":4521,"numTurns":3,"subtype":"end_turn"}`)
	assert.Equal(t, EventTypeResult, ev.Type)
	assert.Equal(t, "done", ev.Content)
	assert.Equal(t, "end_turn", ev.ResultSubtype)
	assert.False(t, ev.IsError)
	require.NotNil(t, ev.InputTokens)
	assert.Equal(t, uint64(120), *ev.InputTokens)
	require.NotNil(t, ev.OutputTokens)
	assert.Equal(t, uint64(80), *ev.OutputTokens)
	require.NotNil(t, ev.CostUSD)
	assert.InDelta(t, 0.0123, *ev.CostUSD, 1e-9)
	require.NotNil(t, ev.DurationMs)
	assert.Equal(t, int64(4521), *ev.DurationMs)
	require.NotNil(t, ev.NumTurns)
	assert.Equal(t, 3, *ev.NumTurns)
}

func TestTranslate_Result_NestedSnake(t *testing.T) {
	ev := translateOne(t, `{"type":"result","subtype":"success","is_error":false,"result":"All tests pass","total_cost_usd":0.05,"duration_ms":9000,"num_turns":7,"usage":{"input_tokens":500,"output_tokens":300}}`)
	assert.Equal(t, EventTypeResult, ev.Type)
	assert.Equal(t, "All tests pass", ev.Content)
	assert.Equal(t, "success", ev.ResultSubtype)
	require.NotNil(t, ev.CostUSD)
	assert.InDelta(t, 0.05, *ev.CostUSD, 1e-9)
	require.NotNil(t, ev.InputTokens)
	assert.Equal(t, uint64(500), *ev.InputTokens)
	require.NotNil(t, ev.NumTurns)
	assert.Equal(t, 7, *ev.NumTurns)
}

func TestTranslate_Result_AbsentMetricsStayNil(t *testing.T) {
	ev := translateOne(t, `{"type":"result","content":"done"}`)
	assert.Nil(t, ev.InputTokens)
	assert.Nil(t, ev.OutputTokens)
	assert.Nil(t, ev.CostUSD)
	assert.Nil(t, ev.DurationMs)
	assert.Nil(t, ev.NumTurns)
}

func TestTranslate_Error_Shapes(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"nested object", `{"type":"error","error":{"message":"rate limited"}}`, "rate limited"},
		{"string error", `{"type":"error","error":"boom"}`, "boom"},
		{"flat content", `{"type":"error","content":"bad request"}`, "bad request"},
		{"empty", `{"type":"error"}`, "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := translateOne(t, tt.line)
			assert.Equal(t, EventTypeError, ev.Type)
			assert.True(t, ev.IsError)
			assert.Equal(t, tt.want, ev.Content)
		})
	}
}

func TestTranslate_Interrupted(t *testing.T) {
	ev := translateOne(t, `{"type":"interrupted"}`)
	assert.Equal(t, EventTypeInterrupted, ev.Type)
}

func TestTranslate_ModelChanged(t *testing.T) {
	ev := translateOne(t, `{"type":"model_changed","model":"haiku"}`)
	assert.Equal(t, EventTypeModelChanged, ev.Type)
	assert.Equal(t, "haiku", ev.Model)
}

func TestTranslate_AgentScreenshot_PathFallback(t *testing.T) {
	ev := translateOne(t, `{"type":"agent_screenshot","path":"/tmp/shot.png"}`)
	assert.Equal(t, EventTypeAgentScreenshot, ev.Type)
	assert.Equal(t, "/tmp/shot.png", ev.Content)
}

func TestTranslate_Stopped(t *testing.T) {
	ev := translateOne(t, `{"type":"stopped"}`)
	assert.Equal(t, EventTypeStopped, ev.Type)
}

func TestTranslate_ToolProgress_Nested(t *testing.T) {
	ev := translateOne(t, `{"type":"tool_progress","toolName":"Bash","progress":{"step":2,"total":5,"message":"compiling"}}`)
	assert.Equal(t, EventTypeToolProgress, ev.Type)
	assert.Equal(t, "Bash", ev.ToolName)
	require.NotNil(t, ev.ProgressStep)
	assert.Equal(t, 2, *ev.ProgressStep)
	require.NotNil(t, ev.ProgressTotal)
	assert.Equal(t, 5, *ev.ProgressTotal)
	assert.Equal(t, "compiling", ev.ProgressMessage)
}

func TestTranslate_ToolProgress_Flat(t *testing.T) {
	ev := translateOne(t, `{"type":"tool_progress","tool_name":"Search","step":1,"total":3,"content":"scanning"}`)
	assert.Equal(t, "Search", ev.ToolName)
	require.NotNil(t, ev.ProgressStep)
	assert.Equal(t, 1, *ev.ProgressStep)
	assert.Equal(t, "scanning", ev.ProgressMessage)
}

func TestTranslate_UnknownType(t *testing.T) {
	events, err := Translate([]byte(`{"type":"telemetry_v2","payload":{}}`))
	assert.Nil(t, events)

	var unknownErr *UnknownEventError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "telemetry_v2", unknownErr.EventType)
}

func TestTranslate_MalformedLine(t *testing.T) {
	events, err := Translate([]byte(`{not json`))
	assert.Nil(t, events)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestTranslate_RawJSONPreserved(t *testing.T) {
	line := `{"type":"assistant","content":"hi"}`
	ev := translateOne(t, line)
	assert.Equal(t, line, ev.RawJSON)
}

func TestTranslateStderr_Heuristic(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Error: cannot reach API", true},
		{"request FAILED after 3 retries", true},
		{"Unhandled exception in worker", true},
		{"downloading model manifest", false},
		{"   ", false},
		{"", false},
	}

	for _, tt := range tests {
		ev, ok := TranslateStderr(tt.line)
		assert.Equal(t, tt.want, ok, "line: %q", tt.line)
		if ok {
			assert.Equal(t, EventTypeError, ev.Type)
			assert.True(t, ev.IsError)
			assert.NotEmpty(t, ev.Content)
		}
	}
}

// Events are re-serialized for downstream consumers, so translation output
// must survive an encode/decode cycle without losing populated fields.
func TestEvent_EncodeDecodeStable(t *testing.T) {
	lines := []string{
		`{"type":"service_ready","content":"worker up"}`,
		`{"type":"ready","model":"sonnet"}`,
		`{"type":"system_init","sessionId":"s1","model":"sonnet","skills":["search"]}`,
		`{"type":"assistant","content":"Hello"}`,
		`{"type":"tool_use","toolName":"Bash","toolInput":{"command":"ls"},"toolId":"t1"}`,
		`{"type":"tool_result","content":"ok","toolId":"t1"}`,
		`{"type":"usage","usage":{"input_tokens":10,"output_tokens":20}}`,
		`{"type":"result","content":"done","usage":{"inputTokens":120,"outputTokens":80,"cacheReadTokens":40,"cacheCreationTokens":10},"costUsd":0.0123,"durationMs":4521,"numTurns":3,"subtype":"end_turn"}`,
		`{"type":"error","error":{"message":"boom"}}`,
		`{"type":"interrupted","content":"turn cancelled"}`,
		`{"type":"model_changed","model":"opus"}`,
		`{"type":"agent_screenshot","path":"/tmp/shot.png"}`,
		`{"type":"stopped"}`,
		`{"type":"tool_progress","toolName":"Bash","progress":{"step":2,"total":5,"message":"compiling"}}`,
	}

	for _, line := range lines {
		events, err := Translate([]byte(line))
		require.NoError(t, err)

		for _, ev := range events {
			data, err := json.Marshal(ev)
			require.NoError(t, err)

			var decoded Event
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, ev, decoded, "line: %s", line)
		}
	}
}
