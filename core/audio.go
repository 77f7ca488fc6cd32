package core

import "time"

// AudioEncoding identifies the wire encoding of a synthesized audio payload.
type AudioEncoding int

const (
	EncodingPCM  AudioEncoding = iota // 16-bit little-endian PCM samples.
	EncodingULaw                      // ITU-T G.711 µ-law, 8-bit samples.
)

// SynthesisSampleRate is the fixed output rate of the speech synthesis
// service. The playback device is opened at this rate and reused for the
// lifetime of the process.
const SynthesisSampleRate = 24000

// AudioBuffer holds decoded audio as independent per-channel sample planes.
// Samples are normalized floats in the range [-1.0, 1.0); the practical
// positive ceiling is 32767/32768, consistent with 16-bit PCM normalization.
type AudioBuffer struct {
	SampleRate int
	Data       [][]float32 // one plane per channel, all of equal length
}

// Channels returns the number of sample planes.
func (b *AudioBuffer) Channels() int {
	return len(b.Data)
}

// Frames returns the number of frames (samples per channel).
func (b *AudioBuffer) Frames() int {
	if len(b.Data) == 0 {
		return 0
	}
	return len(b.Data[0])
}

// Duration returns the real-time length of the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(b.Frames()) / float64(b.SampleRate) * float64(time.Second))
}
