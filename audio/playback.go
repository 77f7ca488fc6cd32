package audio

import (
	"fmt"
	"sync"

	"voxlate/core"

	"github.com/google/uuid"
)

// OutputDevice is the host audio capability behind the player. A device is
// opened lazily on first playback and reused for the process lifetime.
type OutputDevice interface {
	// Start begins playing the buffer immediately and returns its stream.
	Start(buf *core.AudioBuffer) (Stream, error)
	// Close releases the device.
	Close() error
}

// Stream is one live playback of a buffer.
type Stream interface {
	// Done is closed when playback reaches the end of the buffer naturally.
	// It never fires for a stream that was stopped externally.
	Done() <-chan struct{}
	// Stop terminates playback. Stopping a stream that already finished
	// naturally is a no-op, not an error.
	Stop() error
}

// PlaybackHandle identifies one playback session.
type PlaybackHandle struct {
	id       string
	stream   Stream
	stopOnce sync.Once
	stopped  chan struct{}
}

// ID returns the session identifier.
func (h *PlaybackHandle) ID() string { return h.id }

// Done fires on natural completion of the buffer.
func (h *PlaybackHandle) Done() <-chan struct{} { return h.stream.Done() }

// Stopped fires when the session was terminated externally.
func (h *PlaybackHandle) Stopped() <-chan struct{} { return h.stopped }

// Stop terminates the session.
func (h *PlaybackHandle) Stop() error {
	var err error
	h.stopOnce.Do(func() {
		close(h.stopped)
		err = h.stream.Stop()
	})
	return err
}

// Player owns the single output device and enforces the rule that at most
// one playback session is live at any time: starting a new one first stops
// the current one, best-effort.
type Player struct {
	mu      sync.Mutex
	openFn  func() (OutputDevice, error)
	device  OutputDevice
	current *PlaybackHandle
	logger  *core.Logger
}

// NewPlayer creates a player. The device is not opened until the first Play.
func NewPlayer(open func() (OutputDevice, error), logger *core.Logger) *Player {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	return &Player{openFn: open, logger: logger}
}

// Play stops any active session and starts playing buf on the output device.
func (p *Player) Play(buf *core.AudioBuffer) (*PlaybackHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		dev, err := p.openFn()
		if err != nil {
			return nil, fmt.Errorf("%w: open output device: %v", core.ErrPlayback, err)
		}
		p.device = dev
	}

	if p.current != nil {
		if err := p.current.Stop(); err != nil {
			p.logger.Warn("failed to stop previous playback", "id", p.current.id, "error", err)
		}
		p.current = nil
	}

	stream, err := p.device.Start(buf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrPlayback, err)
	}
	handle := &PlaybackHandle{
		id:      uuid.New().String(),
		stream:  stream,
		stopped: make(chan struct{}),
	}
	p.current = handle
	p.logger.Debug("playback started", "id", handle.id, "frames", buf.Frames(), "duration", buf.Duration())

	go p.watch(handle)
	return handle, nil
}

// watch clears the current session once it ends, naturally or by stop.
func (p *Player) watch(handle *PlaybackHandle) {
	select {
	case <-handle.stream.Done():
	case <-handle.stopped:
	}
	p.mu.Lock()
	if p.current == handle {
		p.current = nil
	}
	p.mu.Unlock()
}

// Stop terminates the active session, if any.
func (p *Player) Stop() error {
	p.mu.Lock()
	handle := p.current
	p.current = nil
	p.mu.Unlock()
	if handle == nil {
		return nil
	}
	return handle.Stop()
}

// Active reports whether a playback session is currently live.
func (p *Player) Active() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil
}

// Close stops any active session and releases the device.
func (p *Player) Close() error {
	if err := p.Stop(); err != nil {
		p.logger.Warn("failed to stop playback during close", "error", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return nil
	}
	err := p.device.Close()
	p.device = nil
	return err
}
