package websocket

import (
	"voxlate/audio"
	"voxlate/core"
	"voxlate/protocol"
)

// Device streams decoded audio to the connected browser, which plays it.
// Each buffer is sent as a JSON header announcing the format followed by one
// binary message of interleaved s16le PCM. Completion is tracked with a
// timer over the buffer's real-time duration, since the browser side does
// not report playback progress.
type Device struct {
	conn   *wsConn
	logger *core.Logger
}

// Start sends the buffer to the client and returns its playback stream.
func (d *Device) Start(buf *core.AudioBuffer) (audio.Stream, error) {
	pcm := audio.BufferToPCM(buf)

	header, err := protocol.Marshal(protocol.MsgAudio, protocol.AudioHeaderPayload{
		SampleRate: buf.SampleRate,
		Channels:   buf.Channels(),
		Frames:     buf.Frames(),
		DurationMs: buf.Duration().Milliseconds(),
		Size:       len(pcm),
	})
	if err != nil {
		return nil, err
	}
	if err := d.conn.writeText(header); err != nil {
		return nil, err
	}
	if err := d.conn.writeBinary(pcm); err != nil {
		return nil, err
	}

	d.logger.Debug("audio sent", "frames", buf.Frames(), "bytes", len(pcm))
	return audio.NewTimerStream(buf.Duration()), nil
}

// Close releases the device. The connection itself is owned by the server.
func (d *Device) Close() error { return nil }
