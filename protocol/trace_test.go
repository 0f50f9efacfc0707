package protocol

import (
	"bufio"
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceWriter_RecordsNumberedEntries(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTraceWriter(&buf)

	require.NoError(t, tw.Record(TraceSent, []byte(`{"type":"message","content":"hi"}`)))
	require.NoError(t, tw.Record(TraceReceived, []byte(`{"type":"assistant","content":"hello"}`)))

	scanner := bufio.NewScanner(&buf)
	var entries []TraceEntry
	for scanner.Scan() {
		var entry TraceEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry))
		entries = append(entries, entry)
	}

	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, TraceSent, entries[0].Direction)
	assert.NotEmpty(t, entries[0].Timestamp)
	assert.Equal(t, 2, entries[1].ID)
	assert.Equal(t, TraceReceived, entries[1].Direction)
	assert.JSONEq(t, `{"type":"assistant","content":"hello"}`, string(entries[1].Message))
}

func TestTranslateTraceLine_UnwrapsEnvelope(t *testing.T) {
	var buf bytes.Buffer
	tw := NewTraceWriter(&buf)
	require.NoError(t, tw.Record(TraceReceived, []byte(`{"type":"assistant","content":"from trace"}`)))

	line := bytes.TrimRight(buf.Bytes(), "\n")
	events, err := TranslateTraceLine(line)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeAssistant, events[0].Type)
	assert.Equal(t, "from trace", events[0].Content)
}

func TestTranslateTraceLine_RawLineFallback(t *testing.T) {
	events, err := TranslateTraceLine([]byte(`{"type":"assistant","content":"plain capture"}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "plain capture", events[0].Content)
}
