package protocol

import (
	"encoding/json"
	"strings"
)

// rawEvent captures the superset of fields seen across inbound line shapes.
// The worker emits both flat engine-native events (camelCase keys) and nested
// CLI-style messages (snake_case keys, content under message.content), so
// several fields carry two spellings that are merged during translation.
type rawEvent struct {
	Type    string   `json:"type"`
	Subtype string   `json:"subtype"`
	Content string   `json:"content"`
	Path    string   `json:"path"`
	Model   string   `json:"model"`
	Skills  []string `json:"skills"`

	Message  json.RawMessage `json:"message"`
	Usage    json.RawMessage `json:"usage"`
	Error    json.RawMessage `json:"error"`
	Progress json.RawMessage `json:"progress"`
	Result   json.RawMessage `json:"result"`

	SessionID      string `json:"sessionId"`
	SessionIDSnake string `json:"session_id"`

	ToolName       string          `json:"toolName"`
	ToolNameSnake  string          `json:"tool_name"`
	ToolInput      json.RawMessage `json:"toolInput"`
	ToolInputSnake json.RawMessage `json:"tool_input"`
	ToolID         string          `json:"toolId"`
	ToolIDSnake    string          `json:"tool_use_id"`

	IsError bool `json:"is_error"`

	TotalCostUSD *float64 `json:"total_cost_usd"`
	CostUSD      *float64 `json:"costUsd"`

	DurationMs      *int64 `json:"duration_ms"`
	DurationMsCamel *int64 `json:"durationMs"`

	NumTurns      *int `json:"num_turns"`
	NumTurnsCamel *int `json:"numTurns"`

	Step  *int `json:"step"`
	Total *int `json:"total"`
}

// contentBlock is one element of a message.content array.
type contentBlock struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Thinking  string          `json:"thinking"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Input     json.RawMessage `json:"input"`
	ToolUseID string          `json:"tool_use_id"`
	Content   json.RawMessage `json:"content"`
}

// innerMessage is the nested message object of CLI-style assistant/user lines.
type innerMessage struct {
	Role    string          `json:"role"`
	Content []contentBlock  `json:"content"`
	Usage   json.RawMessage `json:"usage"`
}

type usageSnake struct {
	InputTokens         *uint64 `json:"input_tokens"`
	OutputTokens        *uint64 `json:"output_tokens"`
	CacheReadTokens     *uint64 `json:"cache_read_input_tokens"`
	CacheCreationTokens *uint64 `json:"cache_creation_input_tokens"`
}

type usageCamel struct {
	InputTokens         *uint64 `json:"inputTokens"`
	OutputTokens        *uint64 `json:"outputTokens"`
	CacheReadTokens     *uint64 `json:"cacheReadTokens"`
	CacheCreationTokens *uint64 `json:"cacheCreationTokens"`
}

type progressObject struct {
	Step    *int   `json:"step"`
	Total   *int   `json:"total"`
	Message string `json:"message"`
}

// Translate decodes one primary-output line into zero or more canonical
// events, in the order the worker reported them.
//
// A line that is not JSON yields a *ParseError; a JSON line with an
// unrecognized type yields an *UnknownEventError. Both are recoverable: the
// caller logs and drops the line, and the stream continues. A known line
// with nothing worth surfacing (e.g. an empty assistant message) yields an
// empty slice and no error.
func Translate(line []byte) ([]Event, error) {
	var raw rawEvent
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, &ParseError{Cause: err, Line: string(line)}
	}

	switch raw.Type {
	case "service_ready":
		return []Event{{Type: EventTypeServiceReady, Content: raw.Content, RawJSON: string(line)}}, nil

	case "ready":
		return []Event{{Type: EventTypeReady, Model: raw.Model, RawJSON: string(line)}}, nil

	case "system":
		// CLI-style system messages matter only at session init.
		if raw.Subtype != "init" {
			return nil, nil
		}
		return []Event{systemInitEvent(raw, line)}, nil

	case "system_init":
		return []Event{systemInitEvent(raw, line)}, nil

	case "assistant":
		return translateAssistant(raw, line)

	case "tool_use":
		return []Event{{
			Type:      EventTypeToolUse,
			ToolName:  pickString(raw.ToolName, raw.ToolNameSnake),
			ToolInput: rawToString(pickRaw(raw.ToolInput, raw.ToolInputSnake)),
			ToolID:    pickString(raw.ToolID, raw.ToolIDSnake),
			RawJSON:   string(line),
		}}, nil

	case "user":
		return translateUser(raw, line)

	case "tool_result":
		return []Event{{
			Type:    EventTypeToolResult,
			Content: raw.Content,
			ToolID:  pickString(raw.ToolID, raw.ToolIDSnake),
			RawJSON: string(line),
		}}, nil

	case "usage", "message_delta":
		ev := Event{Type: EventTypeUsage, RawJSON: string(line)}
		applyUsage(&ev, extractUsage(raw))
		if ev.InputTokens == nil && ev.OutputTokens == nil &&
			ev.CacheReadTokens == nil && ev.CacheCreationTokens == nil {
			// Deltas without token accounting carry nothing we surface.
			return nil, nil
		}
		return []Event{ev}, nil

	case "result":
		return []Event{translateResult(raw, line)}, nil

	case "error":
		return []Event{{
			Type:    EventTypeError,
			Content: errorContent(raw),
			IsError: true,
			RawJSON: string(line),
		}}, nil

	case "interrupted":
		return []Event{{Type: EventTypeInterrupted, Content: raw.Content, RawJSON: string(line)}}, nil

	case "model_changed":
		return []Event{{Type: EventTypeModelChanged, Model: raw.Model, RawJSON: string(line)}}, nil

	case "agent_screenshot":
		return []Event{{
			Type:    EventTypeAgentScreenshot,
			Content: pickString(raw.Content, raw.Path),
			RawJSON: string(line),
		}}, nil

	case "stopped":
		return []Event{{Type: EventTypeStopped, Content: raw.Content, RawJSON: string(line)}}, nil

	case "tool_progress":
		return []Event{translateToolProgress(raw, line)}, nil

	default:
		return nil, &UnknownEventError{EventType: raw.Type, Line: string(line)}
	}
}

// TranslateStderr applies the diagnostic-stream heuristic: only lines that
// look like genuine failures are surfaced, as error events. Routine
// diagnostic noise is suppressed.
func TranslateStderr(line string) (Event, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return Event{}, false
	}
	lower := strings.ToLower(trimmed)
	if !strings.Contains(lower, "error") &&
		!strings.Contains(lower, "failed") &&
		!strings.Contains(lower, "exception") {
		return Event{}, false
	}
	return Event{Type: EventTypeError, Content: trimmed, IsError: true}, true
}

func systemInitEvent(raw rawEvent, line []byte) Event {
	return Event{
		Type:      EventTypeSystemInit,
		SessionID: pickString(raw.SessionID, raw.SessionIDSnake),
		Model:     raw.Model,
		Skills:    raw.Skills,
		RawJSON:   string(line),
	}
}

func translateAssistant(raw rawEvent, line []byte) ([]Event, error) {
	content := raw.Content
	var toolEvents []Event

	if len(raw.Message) > 0 {
		var msg innerMessage
		if err := json.Unmarshal(raw.Message, &msg); err != nil {
			return nil, &ParseError{Cause: err, Line: string(line)}
		}

		var parts []string
		for _, block := range msg.Content {
			switch block.Type {
			case "text":
				if block.Text != "" {
					parts = append(parts, block.Text)
				}
			case "thinking":
				if block.Thinking != "" {
					parts = append(parts, block.Thinking)
				}
			case "tool_use":
				toolEvents = append(toolEvents, Event{
					Type:      EventTypeToolUse,
					ToolName:  block.Name,
					ToolInput: rawToString(block.Input),
					ToolID:    block.ID,
					RawJSON:   string(line),
				})
			}
		}
		if content == "" {
			content = strings.Join(parts, "\n")
		}
	}

	var events []Event
	if content != "" {
		events = append(events, Event{
			Type:    EventTypeAssistant,
			Content: content,
			RawJSON: string(line),
		})
	}
	events = append(events, toolEvents...)
	return events, nil
}

func translateUser(raw rawEvent, line []byte) ([]Event, error) {
	if len(raw.Message) == 0 {
		return nil, nil
	}
	var msg innerMessage
	if err := json.Unmarshal(raw.Message, &msg); err != nil {
		return nil, &ParseError{Cause: err, Line: string(line)}
	}

	var events []Event
	for _, block := range msg.Content {
		if block.Type != "tool_result" {
			continue
		}
		events = append(events, Event{
			Type:    EventTypeToolResult,
			Content: rawToString(block.Content),
			ToolID:  block.ToolUseID,
			RawJSON: string(line),
		})
	}
	return events, nil
}

func translateResult(raw rawEvent, line []byte) Event {
	ev := Event{
		Type:          EventTypeResult,
		Content:       pickString(raw.Content, rawToString(raw.Result)),
		IsError:       raw.IsError,
		ResultSubtype: raw.Subtype,
		RawJSON:       string(line),
	}
	applyUsage(&ev, extractUsage(raw))
	ev.CostUSD = pickFloat(raw.TotalCostUSD, raw.CostUSD)
	ev.DurationMs = pickInt64(raw.DurationMs, raw.DurationMsCamel)
	ev.NumTurns = pickInt(raw.NumTurns, raw.NumTurnsCamel)
	return ev
}

func translateToolProgress(raw rawEvent, line []byte) Event {
	ev := Event{
		Type:     EventTypeToolProgress,
		ToolName: pickString(raw.ToolName, raw.ToolNameSnake),
		RawJSON:  string(line),
	}
	if len(raw.Progress) > 0 {
		var p progressObject
		if json.Unmarshal(raw.Progress, &p) == nil {
			ev.ProgressStep = p.Step
			ev.ProgressTotal = p.Total
			ev.ProgressMessage = p.Message
		}
	}
	if ev.ProgressStep == nil {
		ev.ProgressStep = raw.Step
	}
	if ev.ProgressTotal == nil {
		ev.ProgressTotal = raw.Total
	}
	if ev.ProgressMessage == "" {
		ev.ProgressMessage = raw.Content
	}
	return ev
}

// extractUsage pulls token accounting from the top-level usage object or,
// failing that, from message.usage.
func extractUsage(raw rawEvent) json.RawMessage {
	if len(raw.Usage) > 0 {
		return raw.Usage
	}
	if len(raw.Message) > 0 {
		var msg innerMessage
		if json.Unmarshal(raw.Message, &msg) == nil && len(msg.Usage) > 0 {
			return msg.Usage
		}
	}
	return nil
}

func applyUsage(ev *Event, usage json.RawMessage) {
	if len(usage) == 0 {
		return
	}
	var snake usageSnake
	var camel usageCamel
	_ = json.Unmarshal(usage, &snake)
	_ = json.Unmarshal(usage, &camel)
	ev.InputTokens = pickUint(snake.InputTokens, camel.InputTokens)
	ev.OutputTokens = pickUint(snake.OutputTokens, camel.OutputTokens)
	ev.CacheReadTokens = pickUint(snake.CacheReadTokens, camel.CacheReadTokens)
	ev.CacheCreationTokens = pickUint(snake.CacheCreationTokens, camel.CacheCreationTokens)
}

// errorContent extracts the message from either a nested error object or a
// flat content field.
func errorContent(raw rawEvent) string {
	if len(raw.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
		var s string
		if json.Unmarshal(raw.Error, &s) == nil && s != "" {
			return s
		}
	}
	if raw.Content != "" {
		return raw.Content
	}
	return "unknown error"
}

// rawToString renders a raw JSON value as display text: strings are
// unquoted, anything else keeps its JSON form.
func rawToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return string(raw)
}

func pickString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func pickRaw(a, b json.RawMessage) json.RawMessage {
	if len(a) > 0 {
		return a
	}
	return b
}

func pickUint(a, b *uint64) *uint64 {
	if a != nil {
		return a
	}
	return b
}

func pickFloat(a, b *float64) *float64 {
	if a != nil {
		return a
	}
	return b
}

func pickInt64(a, b *int64) *int64 {
	if a != nil {
		return a
	}
	return b
}

func pickInt(a, b *int) *int {
	if a != nil {
		return a
	}
	return b
}
