package kodelet

import (
	"encoding/json"
	"fmt"
)

// EventKind discriminates the wire protocol event variants emitted by
// `kodelet run --headless`.
type EventKind string

const (
	KindText          EventKind = "text"
	KindTextDelta     EventKind = "text-delta"
	KindThinking      EventKind = "thinking"
	KindThinkingStart EventKind = "thinking-start"
	KindThinkingDelta EventKind = "thinking-delta"
	KindThinkingEnd   EventKind = "thinking-end"
	KindToolUse       EventKind = "tool-use"
	KindToolResult    EventKind = "tool-result"
	KindContentEnd    EventKind = "content-end"
	// KindUnrecognized is the catch-all for wire kinds this SDK does
	// not know about. The raw line content stays accessible via Meta().Raw.
	KindUnrecognized EventKind = "unrecognized"
)

// EventMeta holds the fields common to every wire event. Raw retains
// the full decoded line so callers can reach fields added by newer CLI
// versions without an SDK upgrade.
type EventMeta struct {
	ConversationID string
	Role           string
	// Turn is the assistant response cycle counter. Zero means the CLI
	// did not emit one, not "turn zero".
	Turn int
	Raw  map[string]interface{}
}

// Meta returns the common event fields.
func (m EventMeta) Meta() EventMeta { return m }

// Event is one decoded line of the streaming wire protocol.
type Event interface {
	Kind() EventKind
	Meta() EventMeta
}

// TextEvent is a complete text block.
type TextEvent struct {
	EventMeta
	Content string
}

func (TextEvent) Kind() EventKind { return KindText }

// TextDeltaEvent is partial streamed text.
type TextDeltaEvent struct {
	EventMeta
	Delta string
}

func (TextDeltaEvent) Kind() EventKind { return KindTextDelta }

// ThinkingEvent is a complete thinking block.
type ThinkingEvent struct {
	EventMeta
	Content string
}

func (ThinkingEvent) Kind() EventKind { return KindThinking }

// ThinkingStartEvent marks the start of a thinking block.
type ThinkingStartEvent struct {
	EventMeta
}

func (ThinkingStartEvent) Kind() EventKind { return KindThinkingStart }

// ThinkingDeltaEvent is partial streamed thinking content.
type ThinkingDeltaEvent struct {
	EventMeta
	Delta string
}

func (ThinkingDeltaEvent) Kind() EventKind { return KindThinkingDelta }

// ThinkingEndEvent marks the end of a thinking block.
type ThinkingEndEvent struct {
	EventMeta
}

func (ThinkingEndEvent) Kind() EventKind { return KindThinkingEnd }

// ToolUseEvent is a tool invocation. Input is the raw JSON argument
// string exactly as the CLI emitted it.
type ToolUseEvent struct {
	EventMeta
	ToolName   string
	ToolCallID string
	Input      string
}

func (ToolUseEvent) Kind() EventKind { return KindToolUse }

// ToolResultEvent carries the outcome of one tool invocation. Result
// is a JSON string; DecodeResult parses it into a typed ToolResult.
type ToolResultEvent struct {
	EventMeta
	ToolName   string
	ToolCallID string
	Result     string
}

func (ToolResultEvent) Kind() EventKind { return KindToolResult }

// DecodeResult parses the embedded result JSON into a typed
// ToolResult. It fails only when the result string is not a JSON
// object or lacks the toolName key; once past that gate, decoding is
// best-effort and never errors (see DecodeToolResult). The raw Result
// string remains the ground truth fallback.
func (e ToolResultEvent) DecodeResult() (ToolResult, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(e.Result), &fields); err != nil {
		return nil, fmt.Errorf("tool result is not a JSON object: %w", err)
	}
	if _, ok := fields["toolName"]; !ok {
		return nil, fmt.Errorf("tool result has no toolName field")
	}
	return DecodeToolResult(fields), nil
}

// ContentEndEvent marks the end of a content block.
type ContentEndEvent struct {
	EventMeta
}

func (ContentEndEvent) Kind() EventKind { return KindContentEnd }

// UnrecognizedEvent is the catch-all for unknown wire kinds. RawKind
// preserves the kind string the CLI sent, which may be empty.
type UnrecognizedEvent struct {
	EventMeta
	RawKind string
}

func (UnrecognizedEvent) Kind() EventKind { return KindUnrecognized }

// ParseEvent converts one already-decoded wire line into a typed
// Event. Unknown or missing kinds map to UnrecognizedEvent, never an
// error; new CLI versions may add kinds at any time.
func ParseEvent(data map[string]interface{}) Event {
	meta := EventMeta{
		ConversationID: stringField(data, "conversation_id"),
		Role:           stringField(data, "role"),
		Turn:           intField(data, "turn"),
		Raw:            data,
	}

	switch kind := stringField(data, "kind"); EventKind(kind) {
	case KindText:
		return TextEvent{EventMeta: meta, Content: stringField(data, "content")}
	case KindTextDelta:
		return TextDeltaEvent{EventMeta: meta, Delta: stringField(data, "delta")}
	case KindThinking:
		return ThinkingEvent{EventMeta: meta, Content: stringField(data, "content")}
	case KindThinkingStart:
		return ThinkingStartEvent{EventMeta: meta}
	case KindThinkingDelta:
		return ThinkingDeltaEvent{EventMeta: meta, Delta: stringField(data, "delta")}
	case KindThinkingEnd:
		return ThinkingEndEvent{EventMeta: meta}
	case KindToolUse:
		return ToolUseEvent{
			EventMeta:  meta,
			ToolName:   stringField(data, "tool_name"),
			ToolCallID: stringField(data, "tool_call_id"),
			Input:      stringField(data, "input"),
		}
	case KindToolResult:
		return ToolResultEvent{
			EventMeta:  meta,
			ToolName:   stringField(data, "tool_name"),
			ToolCallID: stringField(data, "tool_call_id"),
			Result:     stringField(data, "result"),
		}
	case KindContentEnd:
		return ContentEndEvent{EventMeta: meta}
	default:
		return UnrecognizedEvent{EventMeta: meta, RawKind: kind}
	}
}

// stringField reads a string value from a decoded JSON map, defaulting
// to "" so comparisons stay total.
func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// intField reads an integer value from a decoded JSON map. JSON
// numbers decode as float64.
func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}
