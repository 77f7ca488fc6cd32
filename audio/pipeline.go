package audio

import (
	"context"
	"errors"
	"fmt"

	"voxlate/core"
)

// Synthesizer produces a base64-encoded raw audio payload for the given text
// and voice. Implementations wrap a hosted model; an absent payload is a
// hard failure.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice core.Voice) (string, error)
}

// Pipeline turns text into played audio: it requests synthesis, decodes the
// base64 payload into a normalized buffer, and hands it to the player.
// It knows nothing about translation or history.
type Pipeline struct {
	synth      Synthesizer
	player     *Player
	encoding   core.AudioEncoding
	sampleRate int
	channels   int
	logger     *core.Logger
}

// NewPipeline creates a pipeline configured for the synthesis service's
// output format: mono 16-bit PCM at core.SynthesisSampleRate.
func NewPipeline(synth Synthesizer, player *Player, logger *core.Logger) *Pipeline {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	return &Pipeline{
		synth:      synth,
		player:     player,
		encoding:   core.EncodingPCM,
		sampleRate: core.SynthesisSampleRate,
		channels:   1,
		logger:     logger,
	}
}

// Speak synthesizes text with the given voice, decodes the payload and plays
// it, cancelling any prior playback. Failures abort the remainder of the
// sequence and are never retried.
func (p *Pipeline) Speak(ctx context.Context, text string, voice core.Voice) (*PlaybackHandle, error) {
	payload, err := p.synth.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrSynthesis, err)
	}

	buf, err := DecodePayload(payload, p.encoding, p.sampleRate, p.channels)
	if err != nil {
		return nil, err
	}
	if raw := len(payload); raw > 0 {
		p.logger.Debug("audio payload decoded", "voice", voice.ID, "frames", buf.Frames(), "duration", buf.Duration())
	}

	handle, err := p.player.Play(buf)
	if err != nil {
		return nil, err
	}
	return handle, nil
}

// Player exposes the underlying playback manager, for stop control.
func (p *Pipeline) Player() *Player { return p.player }

// IsAudioError reports whether err belongs to the synthesis/decode/playback
// error family that is surfaced to the user as a single speech failure.
func IsAudioError(err error) bool {
	return errors.Is(err, core.ErrSynthesis) ||
		errors.Is(err, core.ErrDecode) ||
		errors.Is(err, core.ErrEmptyAudio) ||
		errors.Is(err, core.ErrPlayback)
}
