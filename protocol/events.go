package protocol

// EventType discriminates between canonical event kinds.
type EventType string

const (
	// EventTypeServiceReady fires once the worker process has bootstrapped.
	EventTypeServiceReady EventType = "service_ready"
	// EventTypeReady fires when the worker is ready for input; may carry
	// the negotiated model.
	EventTypeReady EventType = "ready"
	// EventTypeSystemInit acknowledges the session and reports its identity.
	EventTypeSystemInit EventType = "system_init"
	// EventTypeAssistant carries incremental agent text.
	EventTypeAssistant EventType = "assistant"
	// EventTypeToolUse fires when the agent invokes a tool.
	EventTypeToolUse EventType = "tool_use"
	// EventTypeToolResult carries a tool execution result.
	EventTypeToolResult EventType = "tool_result"
	// EventTypeUsage carries incremental token accounting.
	EventTypeUsage EventType = "usage"
	// EventTypeResult marks turn completion with final metrics.
	EventTypeResult EventType = "result"
	// EventTypeError reports a failure from the worker.
	EventTypeError EventType = "error"
	// EventTypeInterrupted acknowledges turn cancellation.
	EventTypeInterrupted EventType = "interrupted"
	// EventTypeModelChanged acknowledges a model switch.
	EventTypeModelChanged EventType = "model_changed"
	// EventTypeAgentScreenshot reports a captured UI artifact; Content is
	// the artifact path.
	EventTypeAgentScreenshot EventType = "agent_screenshot"
	// EventTypeStopped acknowledges worker shutdown.
	EventTypeStopped EventType = "stopped"
	// EventTypeToolProgress reports long-running tool progress.
	EventTypeToolProgress EventType = "tool_progress"
)

// Event is the canonical representation of every inbound protocol message.
//
// The wire protocol is loosely typed and grows new kinds over time, so Event
// is deliberately one permissive structure rather than one strict type per
// kind: only the fields relevant to a given Type are populated, and absence
// means not-yet-reported, never an error. No numeric field is synthesized or
// defaulted.
type Event struct {
	Type      EventType `json:"type"`
	Content   string    `json:"content,omitempty"`
	ToolName  string    `json:"toolName,omitempty"`
	ToolInput string    `json:"toolInput,omitempty"`
	ToolID    string    `json:"toolId,omitempty"`
	IsError   bool      `json:"isError,omitempty"`
	RawJSON   string    `json:"rawJson,omitempty"`
	Skills    []string  `json:"skills,omitempty"`
	Model     string    `json:"model,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`

	InputTokens         *uint64 `json:"inputTokens,omitempty"`
	OutputTokens        *uint64 `json:"outputTokens,omitempty"`
	CacheReadTokens     *uint64 `json:"cacheReadTokens,omitempty"`
	CacheCreationTokens *uint64 `json:"cacheCreationTokens,omitempty"`

	CostUSD    *float64 `json:"costUsd,omitempty"`
	DurationMs *int64   `json:"durationMs,omitempty"`
	NumTurns   *int     `json:"numTurns,omitempty"`

	ProgressStep    *int   `json:"progressStep,omitempty"`
	ProgressTotal   *int   `json:"progressTotal,omitempty"`
	ProgressMessage string `json:"progressMessage,omitempty"`

	ResultSubtype string `json:"subtype,omitempty"`
}
