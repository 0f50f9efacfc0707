package protocol

import (
	"encoding/json"
	"fmt"
)

// CommandType discriminates between outbound command kinds.
type CommandType string

const (
	CommandTypeStart       CommandType = "start"
	CommandTypeMessage     CommandType = "message"
	CommandTypeInterrupt   CommandType = "interrupt"
	CommandTypeChangeModel CommandType = "change_model"
	CommandTypeStop        CommandType = "stop"
)

// Command is the interface for all outbound commands. Each command is
// serialized as exactly one newline-terminated JSON line on the worker's
// input stream.
type Command interface {
	CommandType() CommandType
}

// StartCommand opens a session with the worker. ResumeSessionID, when set,
// asks the worker to continue a previous conversation instead of starting
// fresh.
type StartCommand struct {
	Type            CommandType `json:"type"`
	WorkingDir      string      `json:"workingDir"`
	Model           string      `json:"model,omitempty"`
	ResumeSessionID string      `json:"resumeSessionId,omitempty"`
	SkipPermissions bool        `json:"skipPermissions"`
}

// CommandType returns the command discriminator.
func (c StartCommand) CommandType() CommandType { return CommandTypeStart }

// NewStart constructs a StartCommand.
func NewStart(workingDir, model, resumeSessionID string, skipPermissions bool) StartCommand {
	return StartCommand{
		Type:            CommandTypeStart,
		WorkingDir:      workingDir,
		Model:           model,
		ResumeSessionID: resumeSessionID,
		SkipPermissions: skipPermissions,
	}
}

// MessageCommand sends one user turn to the worker.
type MessageCommand struct {
	Type    CommandType `json:"type"`
	Content string      `json:"content"`
}

// CommandType returns the command discriminator.
func (c MessageCommand) CommandType() CommandType { return CommandTypeMessage }

// NewMessage constructs a MessageCommand.
func NewMessage(content string) MessageCommand {
	return MessageCommand{Type: CommandTypeMessage, Content: content}
}

// InterruptCommand asks the worker to cancel the in-flight turn. It is
// advisory: the worker acknowledges later with an "interrupted" event.
type InterruptCommand struct {
	Type CommandType `json:"type"`
}

// CommandType returns the command discriminator.
func (c InterruptCommand) CommandType() CommandType { return CommandTypeInterrupt }

// NewInterrupt constructs an InterruptCommand.
func NewInterrupt() InterruptCommand {
	return InterruptCommand{Type: CommandTypeInterrupt}
}

// ChangeModelCommand asks the worker to switch models mid-session. The
// worker acknowledges later with a "model_changed" event.
type ChangeModelCommand struct {
	Type  CommandType `json:"type"`
	Model string      `json:"model"`
}

// CommandType returns the command discriminator.
func (c ChangeModelCommand) CommandType() CommandType { return CommandTypeChangeModel }

// NewChangeModel constructs a ChangeModelCommand.
func NewChangeModel(model string) ChangeModelCommand {
	return ChangeModelCommand{Type: CommandTypeChangeModel, Model: model}
}

// StopCommand asks the worker to shut down. Delivery is best-effort; the
// supervisor does not wait for the "stopped" acknowledgement before killing
// the process.
type StopCommand struct {
	Type CommandType `json:"type"`
}

// CommandType returns the command discriminator.
func (c StopCommand) CommandType() CommandType { return CommandTypeStop }

// NewStop constructs a StopCommand.
func NewStop() StopCommand {
	return StopCommand{Type: CommandTypeStop}
}

// EncodeCommand serializes a command to a single newline-terminated JSON
// line ready to write to the worker's input stream.
func EncodeCommand(cmd Command) ([]byte, error) {
	b, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("encode %s command: %w", cmd.CommandType(), err)
	}
	return append(b, '\n'), nil
}
