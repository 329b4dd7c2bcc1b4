// Package playback implements the narration state machine for one story.
// The controller owns the audio player exclusively and survives any failure
// by returning to a resting state; it can never get stuck generating.
package playback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/tts"
)

type State string

const (
	StateIdle          State = "idle"
	StateCheckingSaved State = "checking-saved"
	StateGenerating    State = "generating"
	StateReadyPaused   State = "ready-paused"
	StatePlaying       State = "playing"
)

// AudioAPI is the slice of the API client the controller needs.
type AudioAPI interface {
	SavedAudioURL(ctx context.Context, token, storyID, voice string) (string, error)
	UploadAudio(ctx context.Context, token, storyID, voice string, audio io.Reader, filename string) (*model.AudioFile, error)
}

// Notifier surfaces a dismissible message to the user. A nil notifier
// drops messages.
type Notifier func(message string)

type Controller struct {
	mu sync.Mutex

	state   State
	voice   string
	token   string
	storyID string
	story   string

	savedURL string
	player   Player
	loaded   bool

	api       AudioAPI
	synth     tts.Synthesizer
	newPlayer Factory
	notify    Notifier
}

func NewController(api AudioAPI, synth tts.Synthesizer, newPlayer Factory, notify Notifier, token, storyID, story, voice string) *Controller {
	return &Controller{
		state:     StateIdle,
		voice:     voice,
		token:     token,
		storyID:   storyID,
		story:     story,
		api:       api,
		synth:     synth,
		newPlayer: newPlayer,
		notify:    notify,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Voice() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voice
}

// CheckSaved probes the API for a persisted narration of the current voice.
// The probe honors ctx cancellation so teardown can abort it.
func (c *Controller) CheckSaved(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil
	}
	c.state = StateCheckingSaved
	voice := c.voice
	c.mu.Unlock()

	url, err := c.api.SavedAudioURL(ctx, c.token, c.storyID, voice)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateCheckingSaved || c.voice != voice {
		return nil
	}

	if err != nil {
		c.state = StateIdle
		if errors.Is(err, context.Canceled) {
			return nil
		}
		slog.Warn("saved audio check failed", "error", err, "story_id", c.storyID, "voice", voice)
		return nil
	}

	c.savedURL = url
	if url == "" {
		c.state = StateIdle
	} else {
		c.state = StateReadyPaused
	}

	return nil
}

// Play drives the machine toward StatePlaying. While a generation is in
// flight, further Play calls are no-ops.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()

	switch {
	case c.state == StatePlaying || c.state == StateGenerating || c.state == StateCheckingSaved:
		c.mu.Unlock()
		return nil

	case c.loaded:
		// Resume without regenerating
		err := c.player.Play()
		if err != nil {
			c.mu.Unlock()
			return c.playbackFailed(err)
		}
		c.state = StatePlaying
		c.mu.Unlock()
		return nil

	case c.savedURL != "":
		url := c.savedURL
		c.mu.Unlock()
		return c.playFromURL(url)
	}

	c.state = StateGenerating
	voice := c.voice
	story := c.story
	c.mu.Unlock()

	data, err := c.synthesize(ctx, story, voice)

	c.mu.Lock()
	if c.state != StateGenerating || c.voice != voice {
		// The machine moved on (voice change or teardown) while synthesis
		// ran; the result belongs to a flow that no longer exists.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		c.sendNotice("Could not generate narration. Please try again.")
		return fmt.Errorf("narration generation failed: %w", err)
	}

	player := c.acquirePlayerLocked()
	err = player.LoadData(data)
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return c.playbackFailed(err)
	}
	c.loaded = true

	err = player.Play()
	if err != nil {
		c.state = StateReadyPaused
		c.mu.Unlock()
		return c.playbackFailed(err)
	}
	c.state = StatePlaying
	c.mu.Unlock()

	// Persist best-effort; playback is already running.
	c.persistAudio(ctx, data, voice)

	return nil
}

func (c *Controller) playFromURL(url string) error {
	c.mu.Lock()

	player := c.acquirePlayerLocked()
	err := player.LoadURL(url)
	if err != nil {
		c.state = StateIdle
		c.mu.Unlock()
		return c.playbackFailed(err)
	}
	c.loaded = true

	err = player.Play()
	if err != nil {
		c.state = StateReadyPaused
		c.mu.Unlock()
		return c.playbackFailed(err)
	}

	c.state = StatePlaying
	c.mu.Unlock()

	return nil
}

func (c *Controller) synthesize(ctx context.Context, story, voice string) ([]byte, error) {
	return c.synth.Synthesize(ctx, tts.Request{
		Text:  tts.CleanForSpeech(story),
		Voice: voice,
	})
}

func (c *Controller) persistAudio(ctx context.Context, data []byte, voice string) {
	uploaded, err := c.api.UploadAudio(ctx, c.token, c.storyID, voice, bytes.NewReader(data), voice+".wav")
	if err != nil {
		slog.Warn("failed to persist narration", "error", err, "story_id", c.storyID, "voice", voice)
		return
	}

	c.mu.Lock()
	if c.voice == voice {
		c.savedURL = uploaded.URL
	}
	c.mu.Unlock()
}

// Pause keeps the position and rests.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePlaying {
		return nil
	}

	err := c.player.Pause()
	if err != nil && !errors.Is(err, ErrAborted) {
		return err
	}
	c.state = StateReadyPaused

	return nil
}

// Restart rewinds to the beginning and plays.
func (c *Controller) Restart() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.loaded {
		return nil
	}

	err := c.player.Seek(0)
	if err != nil {
		return err
	}

	err = c.player.Play()
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return nil
		}
		return err
	}
	c.state = StatePlaying

	return nil
}

// SetVoice switches the narration voice. While playing it is refused; while
// resting it releases the loaded audio and returns to idle so the next play
// re-checks saved audio for the new voice.
func (c *Controller) SetVoice(voice string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StatePlaying {
		return fmt.Errorf("cannot change voice while playing")
	}
	if voice == c.voice {
		return nil
	}

	c.voice = voice
	c.savedURL = ""
	c.releasePlayerLocked()
	c.state = StateIdle

	return nil
}

// Release tears the controller down. Safe to call more than once.
func (c *Controller) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.releasePlayerLocked()
	c.state = StateIdle
}

// acquirePlayerLocked releases any current player and creates a fresh one,
// keeping load/unload symmetric. Caller holds the lock.
func (c *Controller) acquirePlayerLocked() Player {
	c.releasePlayerLocked()
	c.player = c.newPlayer()
	return c.player
}

func (c *Controller) releasePlayerLocked() {
	if c.player != nil {
		c.player.Release()
		c.player = nil
	}
	c.loaded = false
}

// playbackFailed swallows abort errors and surfaces everything else as a
// transient notice.
func (c *Controller) playbackFailed(err error) error {
	if errors.Is(err, ErrAborted) {
		return nil
	}

	c.sendNotice("Playback failed. Please try again.")

	return fmt.Errorf("playback failed: %w", err)
}

func (c *Controller) sendNotice(message string) {
	if c.notify != nil {
		c.notify(message)
	}
}
