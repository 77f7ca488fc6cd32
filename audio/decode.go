package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"voxlate/core"

	"github.com/zaf/g711"
)

// DecodeBase64 decodes a strict base64 payload into raw bytes.
func DecodeBase64(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	return raw, nil
}

// PCMToBuffer interprets pcm as interleaved signed 16-bit little-endian
// samples and converts them into per-channel float planes normalized by
// 1/32768. Frame count is floor(len/2/channels); trailing bytes past the
// last complete frame are dropped. Payloads too short for a single frame
// fail with core.ErrEmptyAudio.
func PCMToBuffer(pcm []byte, sampleRate, channels int) (*core.AudioBuffer, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d", channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}
	frames := len(pcm) / 2 / channels
	if frames == 0 {
		return nil, core.ErrEmptyAudio
	}

	data := make([][]float32, channels)
	for ch := range data {
		data[ch] = make([]float32, frames)
	}
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			off := (f*channels + ch) * 2
			sample := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
			data[ch][f] = float32(sample) / 32768.0
		}
	}
	return &core.AudioBuffer{SampleRate: sampleRate, Data: data}, nil
}

// ULawToBuffer expands ITU-T G.711 µ-law bytes to 16-bit PCM and converts
// them into a buffer.
func ULawToBuffer(ulaw []byte, sampleRate, channels int) (*core.AudioBuffer, error) {
	if len(ulaw) == 0 {
		return nil, core.ErrEmptyAudio
	}
	return PCMToBuffer(g711.DecodeUlaw(ulaw), sampleRate, channels)
}

// DecodePayload decodes a base64-encoded audio payload in the given wire
// encoding into a playable buffer.
func DecodePayload(payload string, enc core.AudioEncoding, sampleRate, channels int) (*core.AudioBuffer, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	switch enc {
	case core.EncodingULaw:
		return ULawToBuffer(raw, sampleRate, channels)
	default:
		return PCMToBuffer(raw, sampleRate, channels)
	}
}

// BufferToPCM converts a buffer back into interleaved signed 16-bit
// little-endian bytes. Samples are clamped to the representable range.
func BufferToPCM(buf *core.AudioBuffer) []byte {
	frames := buf.Frames()
	channels := buf.Channels()
	out := make([]byte, frames*channels*2)
	for f := 0; f < frames; f++ {
		for ch := 0; ch < channels; ch++ {
			sample := int32(buf.Data[ch][f] * 32768.0)
			if sample > 32767 {
				sample = 32767
			} else if sample < -32768 {
				sample = -32768
			}
			off := (f*channels + ch) * 2
			binary.LittleEndian.PutUint16(out[off:off+2], uint16(int16(sample)))
		}
	}
	return out
}
