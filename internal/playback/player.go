package playback

import "errors"

// ErrAborted is returned by players when playback is interrupted by another
// load or release before it could start. Rapid user interaction produces
// these routinely, so the controller swallows them.
var ErrAborted = errors.New("playback aborted")

// Player is one owned audio resource. The controller holds at most one
// player at a time and releases it before acquiring another, so listeners
// and buffers never leak across voice switches.
type Player interface {
	// LoadURL prepares playback from a persisted audio URL.
	LoadURL(url string) error

	// LoadData prepares playback from freshly synthesized audio bytes.
	LoadData(data []byte) error

	// Play starts or resumes playback from the current position.
	Play() error

	// Pause stops playback, keeping the current position.
	Pause() error

	// Seek moves the position, in seconds from the start.
	Seek(seconds float64) error

	// Position reports the current position in seconds.
	Position() float64

	// Release frees the underlying resource. The player is unusable after.
	Release()
}

// Factory creates a fresh player for each load cycle.
type Factory func() Player
