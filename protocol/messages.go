package protocol

import "encoding/json"

// MessageType enumerates all control-surface message types.
type MessageType string

const (
	// Client -> server
	MsgSubmit        MessageType = "submit"
	MsgReplay        MessageType = "replay"
	MsgStop          MessageType = "stop"
	MsgSetLanguages  MessageType = "set_languages"
	MsgSwapLanguages MessageType = "swap_languages"
	MsgSetVoice      MessageType = "set_voice"
	MsgLoadHistory   MessageType = "load_history"
	MsgClearHistory  MessageType = "clear_history"
	MsgGetHistory    MessageType = "get_history"
	MsgGetState      MessageType = "get_state"
	MsgClearError    MessageType = "clear_error"

	// Server -> client
	MsgState   MessageType = "state"
	MsgHistory MessageType = "history"
	MsgOptions MessageType = "options"
	MsgAudio   MessageType = "audio"
	MsgError   MessageType = "error"
)

// Envelope is the outer JSON wrapper for all WebSocket messages.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Client -> server payloads ---

// SubmitPayload requests a translate-then-speak sequence.
type SubmitPayload struct {
	Text string `json:"text"`
}

// ReplayPayload requests speaking arbitrary text without translation.
type ReplayPayload struct {
	Text string `json:"text"`
}

// SetLanguagesPayload selects the language pair.
type SetLanguagesPayload struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// SetVoicePayload selects the synthesis voice.
type SetVoicePayload struct {
	VoiceID string `json:"voiceId"`
}

// LoadHistoryPayload restores a history entry identified by its timestamp.
type LoadHistoryPayload struct {
	Timestamp int64 `json:"timestamp"`
}

// --- Server -> client payloads ---

// AudioHeaderPayload announces a binary PCM message that follows immediately.
type AudioHeaderPayload struct {
	SampleRate int   `json:"sampleRate"`
	Channels   int   `json:"channels"`
	Frames     int   `json:"frames"`
	DurationMs int64 `json:"durationMs"`
	Size       int   `json:"size"`
}

// ErrorPayload carries a user-visible error message.
type ErrorPayload struct {
	Message string `json:"message"`
}
