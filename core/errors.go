package core

import "errors"

// Sentinel errors for the translate-and-speak pipeline. Callers classify
// failures with errors.Is; none of these are retried automatically.
var (
	// ErrDecode indicates a malformed base64 audio payload.
	ErrDecode = errors.New("malformed base64 audio payload")

	// ErrEmptyAudio indicates a payload too short to contain one complete sample.
	ErrEmptyAudio = errors.New("audio payload contains no samples")

	// ErrPlayback indicates the output device was unavailable or rejected the buffer.
	ErrPlayback = errors.New("audio playback failed")

	// ErrTranslation indicates the translation collaborator failed.
	ErrTranslation = errors.New("translation failed")

	// ErrSynthesis indicates the synthesis collaborator failed or returned no audio.
	ErrSynthesis = errors.New("speech synthesis failed")

	// ErrEmptyInput indicates submitted text was empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrBusy indicates a translate-and-speak sequence is already in flight.
	ErrBusy = errors.New("session is busy")
)
