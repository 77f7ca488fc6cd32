package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	data, err := Marshal(MsgSubmit, SubmitPayload{Text: "good morning"})
	require.NoError(t, err)

	msgType, raw, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, MsgSubmit, msgType)

	payload, err := UnmarshalPayload[SubmitPayload](raw)
	require.NoError(t, err)
	require.Equal(t, "good morning", payload.Text)
}

func TestMarshalNilPayload(t *testing.T) {
	data, err := Marshal(MsgStop, nil)
	require.NoError(t, err)

	msgType, raw, err := Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, MsgStop, msgType)
	require.Empty(t, raw)
}

func TestUnmarshalMissingType(t *testing.T) {
	_, _, err := Unmarshal([]byte(`{"payload":{"text":"hi"}}`))
	require.Error(t, err)
}

func TestUnmarshalMalformed(t *testing.T) {
	_, _, err := Unmarshal([]byte(`{not json`))
	require.Error(t, err)
}

func TestUnmarshalPayloadMismatch(t *testing.T) {
	data, err := Marshal(MsgSetVoice, SetVoicePayload{VoiceID: "nova"})
	require.NoError(t, err)

	_, raw, err := Unmarshal(data)
	require.NoError(t, err)

	payload, err := UnmarshalPayload[SetVoicePayload](raw)
	require.NoError(t, err)
	require.Equal(t, "nova", payload.VoiceID)
}

func TestLoadHistoryPayloadTimestamp(t *testing.T) {
	data, err := Marshal(MsgLoadHistory, LoadHistoryPayload{Timestamp: 1724500000123})
	require.NoError(t, err)

	_, raw, err := Unmarshal(data)
	require.NoError(t, err)

	payload, err := UnmarshalPayload[LoadHistoryPayload](raw)
	require.NoError(t, err)
	require.Equal(t, int64(1724500000123), payload.Timestamp)
}
