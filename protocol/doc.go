// Package protocol implements the wire protocol spoken with the agent
// worker process: outbound commands and inbound events, one JSON object per
// newline-terminated line on each channel.
//
// Outbound traffic is a small closed set of commands (start, message,
// interrupt, change_model, stop), each serialized to exactly one line.
// Inbound traffic is heterogeneous and evolves over time; Translate
// normalizes every known line shape into the single canonical Event type and
// reports unknown or malformed lines as recoverable errors so the stream is
// never torn down by protocol growth.
package protocol
