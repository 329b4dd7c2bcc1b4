package playback

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lunanest/storytime/internal/model"
	"github.com/lunanest/storytime/internal/tts"
)

type fakePlayer struct {
	loadedURL  string
	loadedData []byte
	playing    bool
	position   float64
	released   bool
	playErr    error
}

func (p *fakePlayer) LoadURL(url string) error      { p.loadedURL = url; return nil }
func (p *fakePlayer) LoadData(data []byte) error    { p.loadedData = data; return nil }
func (p *fakePlayer) Play() error                   { p.playing = p.playErr == nil; return p.playErr }
func (p *fakePlayer) Pause() error                  { p.playing = false; return nil }
func (p *fakePlayer) Seek(seconds float64) error    { p.position = seconds; return nil }
func (p *fakePlayer) Position() float64             { return p.position }
func (p *fakePlayer) Release()                      { p.released = true; p.playing = false }

type fakeSynth struct {
	calls  int
	err    error
	during func()
}

func (s *fakeSynth) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	s.calls++
	if s.during != nil {
		s.during()
	}
	if s.err != nil {
		return nil, s.err
	}
	return []byte("RIFF....WAVE"), nil
}

type fakeAPI struct {
	savedURL    string
	savedErr    error
	uploads     int
	uploadErr   error
	uploadVoice string
}

func (a *fakeAPI) SavedAudioURL(ctx context.Context, token, storyID, voice string) (string, error) {
	return a.savedURL, a.savedErr
}

func (a *fakeAPI) UploadAudio(ctx context.Context, token, storyID, voice string, audio io.Reader, filename string) (*model.AudioFile, error) {
	a.uploads++
	a.uploadVoice = voice
	if a.uploadErr != nil {
		return nil, a.uploadErr
	}
	return &model.AudioFile{StoryID: storyID, Voice: voice, URL: "/uploads/audio/" + voice + ".wav"}, nil
}

func newTestController(api *fakeAPI, synth *fakeSynth, notices *[]string) (*Controller, *[]*fakePlayer) {
	players := &[]*fakePlayer{}
	factory := func() Player {
		p := &fakePlayer{}
		*players = append(*players, p)
		return p
	}

	notify := Notifier(nil)
	if notices != nil {
		notify = func(msg string) { *notices = append(*notices, msg) }
	}

	c := NewController(api, synth, factory, notify, "token", "story-42", "Once upon a time.", "amelia")
	return c, players
}

func TestController_CheckSavedTransitions(t *testing.T) {
	c, _ := newTestController(&fakeAPI{savedURL: "/uploads/audio/amelia.wav"}, &fakeSynth{}, nil)

	require.NoError(t, c.CheckSaved(context.Background()))
	assert.Equal(t, StateReadyPaused, c.State())

	c2, _ := newTestController(&fakeAPI{}, &fakeSynth{}, nil)
	require.NoError(t, c2.CheckSaved(context.Background()))
	assert.Equal(t, StateIdle, c2.State())
}

func TestController_PlaySavedSkipsGeneration(t *testing.T) {
	synth := &fakeSynth{}
	c, players := newTestController(&fakeAPI{savedURL: "/uploads/audio/amelia.wav"}, synth, nil)

	require.NoError(t, c.CheckSaved(context.Background()))
	require.NoError(t, c.Play(context.Background()))

	assert.Equal(t, StatePlaying, c.State())
	assert.Zero(t, synth.calls, "a saved URL must not trigger synthesis")
	require.Len(t, *players, 1)
	assert.Equal(t, "/uploads/audio/amelia.wav", (*players)[0].loadedURL)
}

func TestController_PlayGeneratesAndPersists(t *testing.T) {
	api := &fakeAPI{}
	synth := &fakeSynth{}
	c, players := newTestController(api, synth, nil)

	require.NoError(t, c.Play(context.Background()))

	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 1, synth.calls)
	assert.Equal(t, 1, api.uploads)
	assert.Equal(t, "amelia", api.uploadVoice)
	require.Len(t, *players, 1)
	assert.Equal(t, []byte("RIFF....WAVE"), (*players)[0].loadedData)
}

func TestController_DoublePlayGeneratesOnce(t *testing.T) {
	api := &fakeAPI{}
	synth := &fakeSynth{}
	c, _ := newTestController(api, synth, nil)

	// The second trigger lands while the first is still generating
	synth.during = func() {
		require.NoError(t, c.Play(context.Background()))
	}

	require.NoError(t, c.Play(context.Background()))

	assert.Equal(t, 1, synth.calls, "second play during generation must be a no-op")
	assert.Equal(t, StatePlaying, c.State())
}

func TestController_VoiceChangeDuringGenerationDropsResult(t *testing.T) {
	api := &fakeAPI{}
	synth := &fakeSynth{}
	c, players := newTestController(api, synth, nil)

	// The voice switch lands while synthesis for the old voice is in flight
	synth.during = func() {
		require.NoError(t, c.SetVoice("george"))
	}

	require.NoError(t, c.Play(context.Background()))

	assert.Equal(t, StateIdle, c.State(), "stale narration must not start playing")
	assert.Equal(t, "george", c.Voice())
	assert.Zero(t, api.uploads, "stale narration must not be persisted")
	assert.Empty(t, *players, "stale narration must not reach a player")
}

func TestController_UploadFailureDoesNotBlockPlayback(t *testing.T) {
	api := &fakeAPI{uploadErr: errors.New("api down")}
	c, _ := newTestController(api, &fakeSynth{}, nil)

	require.NoError(t, c.Play(context.Background()))
	assert.Equal(t, StatePlaying, c.State())
}

func TestController_SynthesisFailureReturnsToIdle(t *testing.T) {
	var notices []string
	synth := &fakeSynth{err: errors.New("tts down")}
	c, _ := newTestController(&fakeAPI{}, synth, &notices)

	err := c.Play(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateIdle, c.State(), "controller must never stay generating")
	assert.Len(t, notices, 1)
}

func TestController_PauseAndResumeWithoutRegeneration(t *testing.T) {
	synth := &fakeSynth{}
	c, _ := newTestController(&fakeAPI{}, synth, nil)

	require.NoError(t, c.Play(context.Background()))
	require.NoError(t, c.Pause())
	assert.Equal(t, StateReadyPaused, c.State())

	require.NoError(t, c.Play(context.Background()))
	assert.Equal(t, StatePlaying, c.State())
	assert.Equal(t, 1, synth.calls, "resume must not synthesize again")
}

func TestController_RestartRewinds(t *testing.T) {
	c, players := newTestController(&fakeAPI{}, &fakeSynth{}, nil)

	require.NoError(t, c.Play(context.Background()))
	require.NoError(t, c.Pause())
	(*players)[0].position = 30

	require.NoError(t, c.Restart())
	assert.Equal(t, StatePlaying, c.State())
	assert.Zero(t, (*players)[0].position)
}

func TestController_VoiceChangeReleasesPlayer(t *testing.T) {
	synth := &fakeSynth{}
	c, players := newTestController(&fakeAPI{}, synth, nil)

	require.NoError(t, c.Play(context.Background()))
	require.NoError(t, c.Pause())

	require.NoError(t, c.SetVoice("george"))
	assert.Equal(t, StateIdle, c.State())
	require.Len(t, *players, 1)
	assert.True(t, (*players)[0].released, "old audio must be released on voice change")

	// Next play synthesizes fresh audio for the new voice
	require.NoError(t, c.Play(context.Background()))
	assert.Equal(t, 2, synth.calls)
}

func TestController_VoiceChangeWhilePlayingRefused(t *testing.T) {
	c, _ := newTestController(&fakeAPI{}, &fakeSynth{}, nil)

	require.NoError(t, c.Play(context.Background()))
	assert.Error(t, c.SetVoice("george"))
	assert.Equal(t, "amelia", c.Voice())
}

func TestController_AbortErrorsAreSwallowed(t *testing.T) {
	var notices []string
	c, players := newTestController(&fakeAPI{savedURL: "/uploads/audio/amelia.wav"}, &fakeSynth{}, &notices)

	require.NoError(t, c.CheckSaved(context.Background()))

	// Force the player to abort on play
	factoryPlayer := &fakePlayer{playErr: ErrAborted}
	c.newPlayer = func() Player {
		*players = append(*players, factoryPlayer)
		return factoryPlayer
	}

	assert.NoError(t, c.Play(context.Background()), "abort errors are swallowed")
	assert.Empty(t, notices)
}

func TestController_ReleaseIsIdempotent(t *testing.T) {
	c, players := newTestController(&fakeAPI{}, &fakeSynth{}, nil)

	require.NoError(t, c.Play(context.Background()))
	c.Release()
	c.Release()

	assert.Equal(t, StateIdle, c.State())
	require.Len(t, *players, 1)
	assert.True(t, (*players)[0].released)
}
