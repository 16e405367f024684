// Package player implements the dual-source playback controller: a state
// machine that unifies the embedded video player and the preview-clip media
// element behind one source-agnostic transport API. The controller is the
// single authority over "what is playing"; it owns the current track, a
// linear play queue and the two backend adapters.
//
// Because both backends are asynchronous, overlapping logical operations
// (rapid next/next, a stop racing an in-flight play) are serialized through a
// monotonic operation token: every state transition captures the token at
// start and any completion whose token no longer matches is discarded rather
// than applied. See backend.go for the per-adapter counterpart.
package player

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"Reco-Go/pkg/music"
)

// ErrNotPlayable is returned by PlayTrack for tracks that cannot be started,
// such as Spotify tracks without a preview clip.
var ErrNotPlayable = fmt.Errorf("track is not playable")

// State enumerates the controller's transport states.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePlaying
	StatePaused
	StateBuffering
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateBuffering:
		return "buffering"
	}
	return "unknown"
}

// Session is an immutable snapshot of the playback state handed to the UI
// layer.
type Session struct {
	CurrentTrack *music.Track
	State        State
	IsPlaying    bool
	IsBuffering  bool
	// Progress is the playback position as a percentage in [0, 100].
	Progress float64
	// Duration is the total track length in seconds.
	Duration    float64
	QueueIndex  int
	QueueLength int
	HasNext     bool
	HasPrevious bool
}

// Controller mediates between the UI layer and the two backend adapters.
// Construct exactly one per application with New and share it by reference;
// all methods are safe for concurrent use.
type Controller struct {
	video Backend
	clip  Backend
	log   *logrus.Entry

	mu         sync.Mutex
	current    *music.Track
	state      State
	playing    bool
	buffering  bool
	progress   float64
	duration   float64
	queue      []music.Track
	queueIndex int

	// op is the controller-level generation token. It is advanced by every
	// superseding operation; async completions compare their captured value
	// against it and drop themselves on mismatch.
	op         uint64
	pollCancel context.CancelFunc

	onChange func(Session)
}

// New constructs a Controller over the two backend adapters. log may be nil.
func New(video, clip Backend, log *logrus.Entry) *Controller {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Controller{video: video, clip: clip, log: log, queueIndex: -1}
}

// SetOnChange registers a callback invoked after every state change. The
// callback runs with the controller lock held and must not call back into
// the Controller.
func (c *Controller) SetOnChange(fn func(Session)) {
	c.mu.Lock()
	c.onChange = fn
	c.mu.Unlock()
}

// Snapshot returns the current playback session view.
func (c *Controller) Snapshot() Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Session {
	s := Session{
		State:       c.state,
		IsPlaying:   c.playing,
		IsBuffering: c.buffering,
		Progress:    c.progress,
		Duration:    c.duration,
		QueueIndex:  c.queueIndex,
		QueueLength: len(c.queue),
		HasNext:     c.queueIndex < len(c.queue)-1,
		HasPrevious: c.queueIndex > 0,
	}
	if c.current != nil {
		t := *c.current
		s.CurrentTrack = &t
	}
	return s
}

func (c *Controller) notifyLocked() {
	if c.onChange != nil {
		c.onChange(c.snapshotLocked())
	}
}

// nextOpLocked advances the operation token, invalidating every in-flight
// completion and tearing down the progress poller.
func (c *Controller) nextOpLocked() uint64 {
	c.op++
	c.stopPollLocked()
	return c.op
}

// backendFor picks the adapter matching a track's source. This is the only
// place the controller branches on source identity.
func (c *Controller) backendFor(source music.Source) Backend {
	if source == music.SourceYouTube {
		return c.video
	}
	return c.clip
}

// playRef returns the reference handed to the adapter's Play: the video ID
// for YouTube tracks, the preview clip URL for Spotify tracks.
func playRef(t music.Track) string {
	if t.Source == music.SourceSpotify {
		return t.PreviewURL
	}
	return t.ID
}

// PlayTrack starts playback of the given track. Calling it with the track
// that is already current toggles play/pause instead of restarting. Any
// previously active backend is fully stopped before the new load begins;
// starting a new load before the old stop completes would leave zombie
// playback behind. On failure the current track is cleared so no ghost track
// shows as playing.
func (c *Controller) PlayTrack(ctx context.Context, track music.Track) error {
	c.mu.Lock()
	if c.current != nil && c.current.Same(track) {
		c.mu.Unlock()
		return c.TogglePlayPause(ctx)
	}
	if !track.Playable() {
		c.mu.Unlock()
		return ErrNotPlayable
	}
	token := c.nextOpLocked()
	var active Backend
	if c.current != nil {
		active = c.backendFor(c.current.Source)
	}
	c.mu.Unlock()

	// The old backend must finish stopping before the new load starts.
	if active != nil {
		if err := active.Stop(ctx); err != nil {
			c.log.WithError(err).Warn("stopping previous track failed")
		}
	}

	c.mu.Lock()
	if token != c.op {
		c.mu.Unlock()
		return nil
	}
	t := track
	c.current = &t
	c.state = StateLoading
	c.playing = false
	c.buffering = false
	c.progress = 0
	c.duration = 0
	c.notifyLocked()
	backend := c.backendFor(track.Source)
	c.mu.Unlock()

	ok, err := backend.Play(ctx, playRef(track))

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.op {
		// Superseded while loading; the winner owns the state now.
		return nil
	}
	if err != nil || !ok {
		c.current = nil
		c.playing = false
		c.state = StateIdle
		c.notifyLocked()
		if err != nil {
			return fmt.Errorf("start %s playback: %w", track.Source, err)
		}
		return nil
	}
	c.playing = true
	c.state = StatePlaying
	c.log.WithFields(logrus.Fields{"track": track.Name, "source": track.Source}).Info("track playing")
	c.startPollLocked(token, backend)
	c.notifyLocked()
	return nil
}

// TogglePlayPause pauses a playing track or resumes a paused one. It is a
// no-op when no track is current.
func (c *Controller) TogglePlayPause(ctx context.Context) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	backend := c.backendFor(c.current.Source)
	if c.playing {
		c.playing = false
		c.state = StatePaused
		c.stopPollLocked()
		c.notifyLocked()
		c.mu.Unlock()
		if err := backend.Pause(ctx); err != nil {
			return fmt.Errorf("pause playback: %w", err)
		}
		return nil
	}
	token := c.op
	// After a plain stop the backend may have released its media, so a
	// track that is not merely paused is replayed from its reference.
	resume := c.state == StatePaused
	ref := playRef(*c.current)
	c.mu.Unlock()

	var ok bool
	var err error
	if resume {
		ok, err = backend.Resume(ctx)
	} else {
		ok, err = backend.Play(ctx, ref)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.op {
		return nil
	}
	if err != nil || !ok {
		c.playing = false
		c.notifyLocked()
		if err != nil {
			return fmt.Errorf("resume playback: %w", err)
		}
		return nil
	}
	c.playing = true
	c.state = StatePlaying
	c.startPollLocked(token, backend)
	c.notifyLocked()
	return nil
}

// StopCurrent stops whichever backend matches the current track and resets
// the transport fields. The current track itself is kept. No-op without a
// current track.
func (c *Controller) StopCurrent(ctx context.Context) error {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	c.nextOpLocked()
	backend := c.backendFor(c.current.Source)
	c.playing = false
	c.buffering = false
	c.progress = 0
	c.duration = 0
	c.state = StateIdle
	c.notifyLocked()
	c.mu.Unlock()
	return backend.Stop(ctx)
}

// StopPlayback is the full teardown used on explicit close: both adapters
// are stopped unconditionally and all transport state is cleared.
func (c *Controller) StopPlayback(ctx context.Context) error {
	c.mu.Lock()
	c.nextOpLocked()
	c.current = nil
	c.playing = false
	c.buffering = false
	c.progress = 0
	c.duration = 0
	c.state = StateIdle
	c.notifyLocked()
	c.mu.Unlock()

	errVideo := c.video.Stop(ctx)
	errClip := c.clip.Stop(ctx)
	if errVideo != nil {
		return errVideo
	}
	return errClip
}

// SeekTo moves playback to the given percentage of the track's duration.
// No-op when no track is current or the duration is not yet known.
func (c *Controller) SeekTo(ctx context.Context, percentage float64) error {
	percentage = math.Max(0, math.Min(100, percentage))
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return nil
	}
	backend := c.backendFor(c.current.Source)
	c.mu.Unlock()

	dur, err := backend.Duration(ctx)
	if err != nil {
		return err
	}
	if math.IsNaN(dur) || dur <= 0 {
		return nil
	}
	if err := backend.Seek(ctx, percentage/100*dur); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	c.mu.Lock()
	c.progress = percentage
	c.notifyLocked()
	c.mu.Unlock()
	return nil
}

// PlayNext advances to the next queued track. No-op at the end of the queue.
func (c *Controller) PlayNext(ctx context.Context) error {
	c.mu.Lock()
	if c.queueIndex >= len(c.queue)-1 {
		c.mu.Unlock()
		return nil
	}
	c.queueIndex++
	track := c.queue[c.queueIndex]
	c.mu.Unlock()
	return c.PlayTrack(ctx, track)
}

// PlayPrevious retreats to the previous queued track. No-op at the start.
func (c *Controller) PlayPrevious(ctx context.Context) error {
	c.mu.Lock()
	if c.queueIndex <= 0 || len(c.queue) == 0 {
		c.mu.Unlock()
		return nil
	}
	c.queueIndex--
	track := c.queue[c.queueIndex]
	c.mu.Unlock()
	return c.PlayTrack(ctx, track)
}

// UpdateQueue replaces the play queue wholesale and positions the queue
// index at current's location in the new list, or -1 when absent.
func (c *Controller) UpdateQueue(tracks []music.Track, current *music.Track) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append([]music.Track(nil), tracks...)
	c.queueIndex = -1
	if current != nil {
		for i, t := range c.queue {
			if t.Same(*current) {
				c.queueIndex = i
				break
			}
		}
	}
	c.notifyLocked()
}

// HandleVideoState feeds the video player's state code stream into the
// controller. The ended code is the authoritative end-of-track signal.
func (c *Controller) HandleVideoState(ctx context.Context, state VideoState) {
	c.mu.Lock()
	if c.current == nil || c.current.Source != music.SourceYouTube {
		c.mu.Unlock()
		return
	}
	switch state {
	case VideoStateEnded:
		c.mu.Unlock()
		c.trackEnded(ctx)
		return
	case VideoStatePlaying:
		c.playing = true
		c.buffering = false
		c.state = StatePlaying
		c.startPollLocked(c.op, c.backendFor(music.SourceYouTube))
		c.notifyLocked()
	case VideoStatePaused:
		c.playing = false
		c.state = StatePaused
		c.stopPollLocked()
		c.notifyLocked()
	case VideoStateBuffering:
		c.buffering = true
		c.state = StateBuffering
		c.notifyLocked()
	}
	c.mu.Unlock()
}

// HandleClipEvent feeds the media element's event stream into the
// controller.
func (c *Controller) HandleClipEvent(ctx context.Context, event ClipEvent) {
	c.mu.Lock()
	if c.current == nil || c.current.Source != music.SourceSpotify {
		c.mu.Unlock()
		return
	}
	switch event {
	case ClipEventEnded:
		c.mu.Unlock()
		c.trackEnded(ctx)
		return
	case ClipEventPlay:
		c.playing = true
		c.state = StatePlaying
		c.startPollLocked(c.op, c.backendFor(music.SourceSpotify))
		c.notifyLocked()
	case ClipEventPause:
		if c.playing {
			c.playing = false
			c.state = StatePaused
			c.stopPollLocked()
			c.notifyLocked()
		}
	}
	c.mu.Unlock()
}

// trackEnded applies the single end-of-track policy: auto-advance when the
// queue has a next entry, otherwise clear the current track and reset the
// transport.
func (c *Controller) trackEnded(ctx context.Context) {
	c.mu.Lock()
	hasNext := c.queueIndex < len(c.queue)-1
	if hasNext {
		c.mu.Unlock()
		if err := c.PlayNext(ctx); err != nil {
			c.log.WithError(err).Warn("auto-advance failed")
		}
		return
	}
	c.log.Info("playback ended, queue exhausted")
	c.nextOpLocked()
	c.current = nil
	c.playing = false
	c.buffering = false
	c.progress = 0
	c.duration = 0
	c.state = StateIdle
	c.notifyLocked()
	c.mu.Unlock()
}

// startPollLocked (re)arms the 1 Hz progress poller bound to the given
// operation token. Any previous poller is cancelled first so a stale track
// reference never keeps polling.
func (c *Controller) startPollLocked(token uint64, backend Backend) {
	c.stopPollLocked()
	ctx, cancel := context.WithCancel(context.Background())
	c.pollCancel = cancel
	go c.poll(ctx, token, backend)
}

func (c *Controller) stopPollLocked() {
	if c.pollCancel != nil {
		c.pollCancel()
		c.pollCancel = nil
	}
}

// poll republishes progress and duration once per second while playback
// continues. It never mutates the current track.
func (c *Controller) poll(ctx context.Context, token uint64, backend Backend) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		pos, err := backend.Position(ctx)
		if err != nil {
			continue
		}
		dur, err := backend.Duration(ctx)
		if err != nil {
			continue
		}
		c.applyProgress(token, pos, dur)
	}
}

// applyProgress publishes a polled position/duration pair. Readings with an
// unknown or zero duration are dropped, as are readings from a superseded
// operation.
func (c *Controller) applyProgress(token uint64, pos, dur float64) {
	if math.IsNaN(dur) || dur <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if token != c.op || !c.playing {
		return
	}
	c.progress = 100 * pos / dur
	c.duration = dur
	c.notifyLocked()
}
