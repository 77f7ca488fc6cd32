package audio

import (
	"context"
	"errors"
	"testing"
	"time"

	"voxlate/core"

	"github.com/stretchr/testify/require"
)

type fakeStream struct {
	done    chan struct{}
	stopped bool
}

func newFakeStream() *fakeStream {
	return &fakeStream{done: make(chan struct{})}
}

func (s *fakeStream) Done() <-chan struct{} { return s.done }

func (s *fakeStream) Stop() error {
	s.stopped = true
	return nil
}

// finish simulates the device reaching the end of the buffer.
func (s *fakeStream) finish() { close(s.done) }

type fakeDevice struct {
	streams  []*fakeStream
	startErr error
	closed   bool
}

func (d *fakeDevice) Start(buf *core.AudioBuffer) (Stream, error) {
	if d.startErr != nil {
		return nil, d.startErr
	}
	s := newFakeStream()
	d.streams = append(d.streams, s)
	return s, nil
}

func (d *fakeDevice) Close() error {
	d.closed = true
	return nil
}

func testBuffer(frames int) *core.AudioBuffer {
	return &core.AudioBuffer{SampleRate: 24000, Data: [][]float32{make([]float32, frames)}}
}

func newTestPlayer(t *testing.T) (*Player, *fakeDevice, *int) {
	t.Helper()
	dev := &fakeDevice{}
	opens := 0
	p := NewPlayer(func() (OutputDevice, error) {
		opens++
		return dev, nil
	}, core.NewLogger(nil))
	return p, dev, &opens
}

func TestPlayerLazyDeviceOpen(t *testing.T) {
	p, _, opens := newTestPlayer(t)
	require.Equal(t, 0, *opens)
	require.False(t, p.Active())

	_, err := p.Play(testBuffer(10))
	require.NoError(t, err)
	require.Equal(t, 1, *opens)

	_, err = p.Play(testBuffer(10))
	require.NoError(t, err)
	require.Equal(t, 1, *opens, "device is opened once and reused")
}

func TestPlayerSingleActiveSession(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	first, err := p.Play(testBuffer(10))
	require.NoError(t, err)
	require.True(t, p.Active())

	second, err := p.Play(testBuffer(10))
	require.NoError(t, err)
	require.NotEqual(t, first.ID(), second.ID())

	require.Len(t, dev.streams, 2)
	require.True(t, dev.streams[0].stopped, "starting a new session stops the previous one")
	require.False(t, dev.streams[1].stopped)
	require.True(t, p.Active())
}

func TestPlayerNaturalCompletion(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	handle, err := p.Play(testBuffer(10))
	require.NoError(t, err)

	select {
	case <-handle.Done():
		t.Fatal("Done fired before the stream finished")
	case <-time.After(20 * time.Millisecond):
	}

	dev.streams[0].finish()
	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("Done did not fire on natural completion")
	}
	require.Eventually(t, func() bool { return !p.Active() }, time.Second, 5*time.Millisecond)
}

func TestPlayerStopDoesNotFireDone(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	handle, err := p.Play(testBuffer(10))
	require.NoError(t, err)
	require.NoError(t, p.Stop())

	require.True(t, dev.streams[0].stopped)
	select {
	case <-handle.Stopped():
	case <-time.After(time.Second):
		t.Fatal("Stopped did not fire")
	}
	select {
	case <-handle.Done():
		t.Fatal("Done fired for a stopped session")
	case <-time.After(20 * time.Millisecond):
	}
	require.Eventually(t, func() bool { return !p.Active() }, time.Second, 5*time.Millisecond)
}

func TestPlayerStopWithoutSession(t *testing.T) {
	p, _, opens := newTestPlayer(t)
	require.NoError(t, p.Stop())
	require.Equal(t, 0, *opens)
}

func TestPlayerOpenFailure(t *testing.T) {
	p := NewPlayer(func() (OutputDevice, error) {
		return nil, errors.New("no device")
	}, core.NewLogger(nil))

	_, err := p.Play(testBuffer(10))
	require.ErrorIs(t, err, core.ErrPlayback)
	require.False(t, p.Active())
}

func TestPlayerStartFailure(t *testing.T) {
	dev := &fakeDevice{startErr: errors.New("device gone")}
	p := NewPlayer(func() (OutputDevice, error) { return dev, nil }, core.NewLogger(nil))

	_, err := p.Play(testBuffer(10))
	require.ErrorIs(t, err, core.ErrPlayback)
	require.False(t, p.Active())
}

func TestPlayerClose(t *testing.T) {
	p, dev, _ := newTestPlayer(t)

	_, err := p.Play(testBuffer(10))
	require.NoError(t, err)
	require.NoError(t, p.Close())

	require.True(t, dev.streams[0].stopped)
	require.True(t, dev.closed)
	require.False(t, p.Active())
}

type fixedSynth struct {
	payload string
	err     error
	calls   int
}

func (s *fixedSynth) Synthesize(ctx context.Context, text string, voice core.Voice) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.payload, nil
}

func TestPipelineSpeak(t *testing.T) {
	p, dev, _ := newTestPlayer(t)
	// Two s16le samples: 0.5 and -0.5.
	synth := &fixedSynth{payload: "AEAAwA=="}
	pipe := NewPipeline(synth, p, core.NewLogger(nil))

	handle, err := pipe.Speak(context.Background(), "hola", core.DefaultVoice)
	require.NoError(t, err)
	require.NotEmpty(t, handle.ID())
	require.Equal(t, 1, synth.calls)
	require.Len(t, dev.streams, 1)
}

func TestPipelineSpeakSynthesisFailure(t *testing.T) {
	p, dev, _ := newTestPlayer(t)
	synth := &fixedSynth{err: errors.New("service down")}
	pipe := NewPipeline(synth, p, core.NewLogger(nil))

	_, err := pipe.Speak(context.Background(), "hola", core.DefaultVoice)
	require.ErrorIs(t, err, core.ErrSynthesis)
	require.True(t, IsAudioError(err))
	require.Empty(t, dev.streams, "nothing reaches the device on synthesis failure")
}

func TestPipelineSpeakEmptyPayload(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	synth := &fixedSynth{payload: ""}
	pipe := NewPipeline(synth, p, core.NewLogger(nil))

	_, err := pipe.Speak(context.Background(), "hola", core.DefaultVoice)
	require.ErrorIs(t, err, core.ErrEmptyAudio)
	require.True(t, IsAudioError(err))
}

func TestPipelineSpeakBadPayload(t *testing.T) {
	p, _, _ := newTestPlayer(t)
	synth := &fixedSynth{payload: "%%%not base64%%%"}
	pipe := NewPipeline(synth, p, core.NewLogger(nil))

	_, err := pipe.Speak(context.Background(), "hola", core.DefaultVoice)
	require.ErrorIs(t, err, core.ErrDecode)
	require.True(t, IsAudioError(err))
}

func TestIsAudioError(t *testing.T) {
	require.True(t, IsAudioError(core.ErrSynthesis))
	require.True(t, IsAudioError(core.ErrDecode))
	require.True(t, IsAudioError(core.ErrEmptyAudio))
	require.True(t, IsAudioError(core.ErrPlayback))
	require.False(t, IsAudioError(core.ErrTranslation))
	require.False(t, IsAudioError(errors.New("other")))
}
