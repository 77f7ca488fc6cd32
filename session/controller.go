package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"voxlate/audio"
	"voxlate/core"
	"voxlate/history"
)

// State is the controller's lifecycle phase.
type State string

const (
	StateIdle        State = "idle"
	StateTranslating State = "translating"
	StateSpeaking    State = "speaking"
	StateError       State = "error"
)

// Translator is the translation collaborator. When source and target codes
// match it must return the input unchanged without network interaction.
type Translator interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}

// Snapshot is the externally visible controller state.
type Snapshot struct {
	State        State             `json:"state"`
	InputText    string            `json:"inputText"`
	Translation  string            `json:"translation"`
	Languages    core.LanguagePair `json:"languages"`
	Voice        core.Voice        `json:"voice"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// Controller sequences translate → record → speak as one user-initiated
// operation. At most one sequence is in flight: a Submit or Replay while busy
// is rejected with core.ErrBusy rather than queued.
type Controller struct {
	mu          sync.Mutex
	state       State
	input       string
	translation string
	languages   core.LanguagePair
	voice       core.Voice
	errMsg      string
	busy        bool
	seq         uint64 // generation counter; stale completions are ignored

	translator Translator
	pipeline   *audio.Pipeline
	store      *history.Store
	logger     *core.Logger
	onChange   func(Snapshot)
}

// NewController creates an idle controller with default language pair and voice.
func NewController(translator Translator, pipeline *audio.Pipeline, store *history.Store, logger *core.Logger) *Controller {
	if logger == nil {
		logger = core.NewDevelopmentLogger()
	}
	return &Controller{
		state:      StateIdle,
		languages:  core.LanguagePair{Source: "en", Target: "es"},
		voice:      core.DefaultVoice,
		translator: translator,
		pipeline:   pipeline,
		store:      store,
		logger:     logger,
	}
}

// SetOnChange registers a callback invoked after every state change.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current externally visible state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Busy reports whether a translate-then-speak or replay sequence is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// SetLanguages selects the language pair for subsequent submissions.
func (c *Controller) SetLanguages(pair core.LanguagePair) error {
	if err := pair.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.languages = pair
	c.mu.Unlock()
	c.notify()
	return nil
}

// SwapLanguages exchanges source and target as a single atomic action.
func (c *Controller) SwapLanguages() {
	c.mu.Lock()
	c.languages = c.languages.Swapped()
	c.mu.Unlock()
	c.notify()
}

// SetVoice selects the synthesis voice by identifier.
func (c *Controller) SetVoice(id string) error {
	voice, ok := core.VoiceByID(id)
	if !ok {
		return fmt.Errorf("unknown voice %q", id)
	}
	c.mu.Lock()
	c.voice = voice
	c.mu.Unlock()
	c.notify()
	return nil
}

// Submit runs the translate → record → speak sequence for text. Empty input
// (after trimming) is suppressed locally with core.ErrEmptyInput and causes
// no transition. Submit returns once playback has started; the transition
// back to Idle happens when playback completes naturally.
func (c *Controller) Submit(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.ErrEmptyInput
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return core.ErrBusy
	}
	c.busy = true
	c.seq++
	seq := c.seq
	c.input = text
	c.translation = ""
	c.errMsg = ""
	pair := c.languages
	voice := c.voice
	c.state = StateTranslating
	c.mu.Unlock()
	c.notify()

	translated, err := c.translator.Translate(ctx, text, pair.Source, pair.Target)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", core.ErrTranslation, err)
		c.fail(seq, wrapped)
		return wrapped
	}

	// Record before speaking: a later synthesis failure must not lose the
	// completed translation.
	if err := c.store.Append(history.NewRecord(text, translated, pair.Source, pair.Target)); err != nil {
		c.logger.Warn("failed to persist history", "error", err)
	}

	c.mu.Lock()
	c.translation = translated
	c.state = StateSpeaking
	c.mu.Unlock()
	c.notify()

	handle, err := c.pipeline.Speak(ctx, translated, voice)
	if err != nil {
		c.fail(seq, err)
		return err
	}
	go c.awaitPlayback(seq, handle)
	return nil
}

// Replay speaks arbitrary text (typically the last translation) without
// re-translating or touching history. Valid from Idle or Error.
func (c *Controller) Replay(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return core.ErrEmptyInput
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return core.ErrBusy
	}
	c.busy = true
	c.seq++
	seq := c.seq
	c.errMsg = ""
	voice := c.voice
	c.state = StateSpeaking
	c.mu.Unlock()
	c.notify()

	handle, err := c.pipeline.Speak(ctx, text, voice)
	if err != nil {
		c.fail(seq, err)
		return err
	}
	go c.awaitPlayback(seq, handle)
	return nil
}

// LoadHistoryEntry restores input, translation and language pair from a past
// record. Valid from any state; triggers no translation or playback.
func (c *Controller) LoadHistoryEntry(rec history.Record) {
	c.mu.Lock()
	c.input = rec.OriginalText
	c.translation = rec.TranslatedText
	c.languages = core.LanguagePair{Source: rec.SourceLang, Target: rec.TargetLang}
	c.mu.Unlock()
	c.notify()
}

// ClearHistory empties the history log and purges its persisted copy. It does
// not affect an in-progress sequence.
func (c *Controller) ClearHistory() error {
	return c.store.Clear()
}

// History returns the translation log, most recent first.
func (c *Controller) History() []history.Record {
	return c.store.Records()
}

// FindHistoryEntry looks up a record by its timestamp identity.
func (c *Controller) FindHistoryEntry(timestamp int64) (history.Record, bool) {
	return c.store.Find(timestamp)
}

// ClearError dismisses a displayed error, returning to Idle.
func (c *Controller) ClearError() {
	c.mu.Lock()
	if c.state != StateError {
		c.mu.Unlock()
		return
	}
	c.errMsg = ""
	c.state = StateIdle
	c.mu.Unlock()
	c.notify()
}

// StopSpeaking terminates the active playback session, if any, and returns
// the controller to Idle.
func (c *Controller) StopSpeaking() {
	c.mu.Lock()
	if c.state != StateSpeaking {
		c.mu.Unlock()
		return
	}
	c.seq++ // invalidate pending completion watchers
	c.busy = false
	c.state = StateIdle
	c.mu.Unlock()
	c.notify()

	if err := c.pipeline.Player().Stop(); err != nil {
		c.logger.Warn("failed to stop playback", "error", err)
	}
}

func (c *Controller) awaitPlayback(seq uint64, handle *audio.PlaybackHandle) {
	select {
	case <-handle.Done():
	case <-handle.Stopped():
		return // external stop; state handled by whoever stopped it
	}
	c.mu.Lock()
	if c.seq != seq {
		c.mu.Unlock()
		return
	}
	c.busy = false
	c.state = StateIdle
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) fail(seq uint64, err error) {
	c.mu.Lock()
	if c.seq != seq {
		c.mu.Unlock()
		return
	}
	c.busy = false
	c.errMsg = userMessage(err)
	c.state = StateError
	c.mu.Unlock()
	c.logger.Warn("sequence failed", "error", err)
	c.notify()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        c.state,
		InputText:    c.input,
		Translation:  c.translation,
		Languages:    c.languages,
		Voice:        c.voice,
		ErrorMessage: c.errMsg,
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	fn := c.onChange
	snap := c.snapshotLocked()
	c.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

// userMessage maps pipeline errors onto the two user-visible failure
// messages; anything in the synthesis/decode/playback family reads as a
// single speech failure.
func userMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrTranslation):
		return "Translation failed. Please try again."
	case audio.IsAudioError(err):
		return "Speech synthesis failed. Please try again."
	default:
		return err.Error()
	}
}
