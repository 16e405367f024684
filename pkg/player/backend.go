// Backend adapters for the two platform players. Each adapter wraps one
// native player resource behind the uniform Backend capability and carries a
// monotonically increasing generation counter used to invalidate completions
// of superseded operations: a play whose captured generation no longer
// matches the live counter tears down whatever it just started instead of
// reporting success.
package player

import (
	"context"
	"sync/atomic"
)

// Backend is the uniform transport surface over a platform player. Play
// starts playback of the referenced media (a video ID or a preview clip URL)
// and reports whether playback actually began. Resume continues the current
// media without reloading it.
type Backend interface {
	Play(ctx context.Context, ref string) (bool, error)
	Resume(ctx context.Context) (bool, error)
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	Seek(ctx context.Context, seconds float64) error
	Position(ctx context.Context) (float64, error)
	Duration(ctx context.Context) (float64, error)
}

// VideoPlayer is the contract of the embedded iframe-driven video player.
// Implementations bridge to the real player; the adapter below owns all
// sequencing concerns.
type VideoPlayer interface {
	LoadVideo(ctx context.Context, videoID string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	Stop(ctx context.Context) error
	CurrentTime(ctx context.Context) (float64, error)
	Duration(ctx context.Context) (float64, error)
	SeekTo(ctx context.Context, seconds float64) error
}

// ClipPlayer is the contract of the media element playing short preview
// clips.
type ClipPlayer interface {
	SetSource(ctx context.Context, url string) error
	Play(ctx context.Context) error
	Pause(ctx context.Context) error
	CurrentTime(ctx context.Context) (float64, error)
	SetCurrentTime(ctx context.Context, seconds float64) error
	Duration(ctx context.Context) (float64, error)
}

// VideoState is the integer state code stream emitted by the video player.
type VideoState int

const (
	VideoStateUnstarted VideoState = -1
	VideoStateEnded     VideoState = 0
	VideoStatePlaying   VideoState = 1
	VideoStatePaused    VideoState = 2
	VideoStateBuffering VideoState = 3
	VideoStateCued      VideoState = 5
)

// ClipEvent mirrors the standard media element events the clip player emits.
type ClipEvent int

const (
	ClipEventPlay ClipEvent = iota
	ClipEventPause
	ClipEventEnded
)

// VideoBackend adapts a VideoPlayer to the Backend capability.
type VideoBackend struct {
	player VideoPlayer
	gen    atomic.Uint64
	// playGen records the generation of the most recent Play. A stale
	// completion may only tear the player down when it is still the latest
	// Play, meaning a Stop superseded it; when a newer Play superseded it
	// the native player already carries the winner's media and must not be
	// touched.
	playGen atomic.Uint64
}

// NewVideoBackend wraps the given native video player.
func NewVideoBackend(p VideoPlayer) *VideoBackend { return &VideoBackend{player: p} }

// Play loads and starts the video. If another Play or Stop superseded this
// call while the load was in flight, false is returned and the completion is
// discarded: a superseding Stop additionally stops the just-loaded video,
// while a superseding Play leaves the player alone since it is already
// playing the newer video.
func (b *VideoBackend) Play(ctx context.Context, videoID string) (bool, error) {
	token := b.gen.Add(1)
	b.playGen.Store(token)
	if err := b.player.LoadVideo(ctx, videoID); err != nil {
		return false, err
	}
	if token != b.gen.Load() {
		if b.playGen.Load() == token {
			_ = b.player.Stop(ctx)
		}
		return false, nil
	}
	return true, nil
}

// Resume continues playback without reloading the current video.
func (b *VideoBackend) Resume(ctx context.Context) (bool, error) {
	if err := b.player.Play(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (b *VideoBackend) Pause(ctx context.Context) error { return b.player.Pause(ctx) }

// Stop halts the video and invalidates any in-flight Play.
func (b *VideoBackend) Stop(ctx context.Context) error {
	b.gen.Add(1)
	return b.player.Stop(ctx)
}

func (b *VideoBackend) Seek(ctx context.Context, seconds float64) error {
	return b.player.SeekTo(ctx, seconds)
}

func (b *VideoBackend) Position(ctx context.Context) (float64, error) {
	return b.player.CurrentTime(ctx)
}

func (b *VideoBackend) Duration(ctx context.Context) (float64, error) {
	return b.player.Duration(ctx)
}

// ClipBackend adapts a ClipPlayer to the Backend capability.
type ClipBackend struct {
	player ClipPlayer
	gen    atomic.Uint64
	// playGen mirrors VideoBackend.playGen: it distinguishes a superseding
	// Stop, which must pause the element, from a superseding Play, which
	// already owns it.
	playGen atomic.Uint64
}

// NewClipBackend wraps the given native clip player.
func NewClipBackend(p ClipPlayer) *ClipBackend { return &ClipBackend{player: p} }

// Play points the media element at the preview URL and starts it. A
// completion superseded by a Stop pauses the element again and reports
// false; one superseded by a newer Play reports false without touching the
// element, which is already playing the newer clip.
func (b *ClipBackend) Play(ctx context.Context, previewURL string) (bool, error) {
	if previewURL == "" {
		return false, nil
	}
	token := b.gen.Add(1)
	b.playGen.Store(token)
	if err := b.player.SetSource(ctx, previewURL); err != nil {
		return false, err
	}
	if err := b.player.Play(ctx); err != nil {
		return false, err
	}
	if token != b.gen.Load() {
		if b.playGen.Load() == token {
			_ = b.player.Pause(ctx)
		}
		return false, nil
	}
	return true, nil
}

// Resume continues the paused clip from its current position.
func (b *ClipBackend) Resume(ctx context.Context) (bool, error) {
	if err := b.player.Play(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (b *ClipBackend) Pause(ctx context.Context) error { return b.player.Pause(ctx) }

// Stop pauses the element, rewinds it and detaches the source so no clip
// resource stays active.
func (b *ClipBackend) Stop(ctx context.Context) error {
	b.gen.Add(1)
	if err := b.player.Pause(ctx); err != nil {
		return err
	}
	if err := b.player.SetCurrentTime(ctx, 0); err != nil {
		return err
	}
	return b.player.SetSource(ctx, "")
}

func (b *ClipBackend) Seek(ctx context.Context, seconds float64) error {
	return b.player.SetCurrentTime(ctx, seconds)
}

func (b *ClipBackend) Position(ctx context.Context) (float64, error) {
	return b.player.CurrentTime(ctx)
}

func (b *ClipBackend) Duration(ctx context.Context) (float64, error) {
	return b.player.Duration(ctx)
}
