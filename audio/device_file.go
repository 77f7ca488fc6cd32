package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"voxlate/core"
)

// WAVDevice is an OutputDevice for headless hosts: each buffer is written to
// a timestamped WAV file in the configured directory, and the stream
// completes after the buffer's real-time duration.
type WAVDevice struct {
	dir    string
	logger *core.Logger
}

// NewWAVDevice creates a WAV file device, creating dir if needed.
func NewWAVDevice(dir string, logger *core.Logger) (*WAVDevice, error) {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &WAVDevice{dir: dir, logger: logger}, nil
}

// Start writes the buffer as a WAV file and returns a timer-backed stream.
func (d *WAVDevice) Start(buf *core.AudioBuffer) (Stream, error) {
	wav, err := EncodeWAV(BufferToPCM(buf), buf.Channels(), buf.SampleRate)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(d.dir, fmt.Sprintf("speech-%d.wav", time.Now().UnixMilli()))
	if err := os.WriteFile(path, wav, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	d.logger.Info("audio written", "path", path, "duration", buf.Duration())
	return newTimerStream(buf.Duration()), nil
}

// Close releases the device.
func (d *WAVDevice) Close() error { return nil }

// NewTimerStream returns a stream that completes after a fixed real-time
// duration, for devices whose sink has no completion signal of its own.
func NewTimerStream(duration time.Duration) Stream {
	return newTimerStream(duration)
}

// timerStream completes after a fixed real-time duration. Stop cancels the
// timer so Done never fires, matching the natural-completion-only contract.
type timerStream struct {
	done  chan struct{}
	timer *time.Timer
	once  sync.Once
}

func newTimerStream(duration time.Duration) *timerStream {
	s := &timerStream{done: make(chan struct{})}
	s.timer = time.AfterFunc(duration, func() {
		s.once.Do(func() { close(s.done) })
	})
	return s
}

func (s *timerStream) Done() <-chan struct{} { return s.done }

func (s *timerStream) Stop() error {
	s.timer.Stop()
	return nil
}
