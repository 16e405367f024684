// Package recommend implements the cross-platform recommendation ranker.
// Given a search query it resolves one seed track per platform, fetches a
// pool of candidate tracks from each, scores and filters the YouTube playlist
// candidates, and interleaves the two result lists into a single ordered set.
//
// A failure on one platform never fails the whole search; that platform
// simply contributes nothing. Only "neither platform found a seed" is a hard
// error.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"Reco-Go/pkg/music"
	"Reco-Go/pkg/youtube"
)

// ErrNoMatch is returned when neither platform resolves a seed track for the
// query. The message doubles as the user-facing error string.
var ErrNoMatch = errors.New("No matching track found")

const (
	// maxPlaylists bounds the candidate playlist pool per search.
	maxPlaylists = 15
	// maxPlaylistItems bounds the per-playlist item fetch.
	maxPlaylistItems = 50
	// maxRecommendations caps each platform's accepted list.
	maxRecommendations = 35
)

// SpotifySource is the Spotify capability the ranker depends on.
type SpotifySource interface {
	SearchTrack(ctx context.Context, query string) (*music.Track, error)
	Recommendations(ctx context.Context, seedID string, max int) ([]music.Track, error)
}

// YouTubeSource is the YouTube capability the ranker depends on.
type YouTubeSource interface {
	SearchVideo(ctx context.Context, query string) (*music.Track, error)
	SearchPlaylists(ctx context.Context, query string, max int) ([]youtube.Playlist, error)
	PlaylistItems(ctx context.Context, playlistID string, max int) ([]youtube.PlaylistItem, error)
	VideoAvailable(ctx context.Context, videoID string) (bool, error)
}

// SearchedTracks holds the per-platform seed tracks resolved for a query.
// A nil entry means that platform found nothing.
type SearchedTracks struct {
	Spotify *music.Track `json:"spotify"`
	YouTube *music.Track `json:"youtube"`
}

// Recommendations holds the ranked per-platform lists plus the interleaved
// combined list.
type Recommendations struct {
	Spotify  []music.Track `json:"spotify"`
	YouTube  []music.Track `json:"youtube"`
	Combined []music.Track `json:"combined"`
}

// Result is the full response for one search.
type Result struct {
	Searched        SearchedTracks  `json:"searchedTrack"`
	Recommendations Recommendations `json:"recommendations"`
}

// Ranker coordinates the two platform sources.
type Ranker struct {
	Spotify SpotifySource
	YouTube YouTubeSource
	Log     *logrus.Entry

	// OnPlatformFailure, when set, is invoked with the platform name each
	// time a platform-side failure is absorbed into an empty result. main
	// points it at the failure counter.
	OnPlatformFailure func(platform string)
}

// New returns a Ranker using the given sources. log may be nil.
func New(sp SpotifySource, yt YouTubeSource, log *logrus.Entry) *Ranker {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Ranker{Spotify: sp, YouTube: yt, Log: log}
}

// Search resolves seeds and recommendations for both platforms concurrently
// and merges the results. ErrNoMatch is returned only when neither platform
// resolves a seed track.
func (r *Ranker) Search(ctx context.Context, query string) (*Result, error) {
	res := &Result{}
	res.Recommendations.Spotify = []music.Track{}
	res.Recommendations.YouTube = []music.Track{}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		seed, tracks := r.spotifySide(gctx, query)
		mu.Lock()
		res.Searched.Spotify = seed
		if tracks != nil {
			res.Recommendations.Spotify = tracks
		}
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		seed, tracks := r.youtubeSide(gctx, query)
		mu.Lock()
		res.Searched.YouTube = seed
		if tracks != nil {
			res.Recommendations.YouTube = tracks
		}
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if res.Searched.Spotify == nil && res.Searched.YouTube == nil {
		return nil, ErrNoMatch
	}
	res.Recommendations.Combined = Interleave(res.Recommendations.Spotify, res.Recommendations.YouTube)
	return res, nil
}

// spotifySide resolves the Spotify seed and its recommendation list. All
// failures are absorbed into nil results.
func (r *Ranker) spotifySide(ctx context.Context, query string) (*music.Track, []music.Track) {
	seed, err := r.Spotify.SearchTrack(ctx, query)
	if err != nil {
		r.Log.WithField("query", query).WithError(err).Warn("spotify seed resolution failed")
		r.platformFailure("spotify")
		return nil, nil
	}
	tracks, err := r.Spotify.Recommendations(ctx, seed.ID, maxRecommendations)
	if err != nil {
		r.Log.WithField("seed", seed.ID).WithError(err).Warn("spotify recommendations failed")
		r.platformFailure("spotify")
		return seed, nil
	}
	return seed, tracks
}

// youtubeSide resolves the YouTube seed video and mines the best-scoring
// candidate playlist for recommendations.
func (r *Ranker) youtubeSide(ctx context.Context, query string) (*music.Track, []music.Track) {
	seed, err := r.YouTube.SearchVideo(ctx, query)
	if err != nil {
		r.Log.WithField("query", query).WithError(err).Warn("youtube seed resolution failed")
		r.platformFailure("youtube")
		return nil, nil
	}
	tracks, err := r.youtubeRecommendations(ctx, *seed)
	if err != nil {
		r.Log.WithField("seed", seed.ID).WithError(err).Warn("youtube recommendations failed")
		r.platformFailure("youtube")
		return seed, nil
	}
	return seed, tracks
}

func (r *Ranker) platformFailure(platform string) {
	if r.OnPlatformFailure != nil {
		r.OnPlatformFailure(platform)
	}
}

// youtubeRecommendations searches candidate playlists for the seed, scores
// them concurrently, and extracts available items from the winner.
func (r *Ranker) youtubeRecommendations(ctx context.Context, seed music.Track) ([]music.Track, error) {
	query := fmt.Sprintf("%s %s similar songs playlist", seed.Artist, seed.Name)
	playlists, err := r.YouTube.SearchPlaylists(ctx, query, maxPlaylists)
	if err != nil {
		return nil, err
	}
	if len(playlists) == 0 {
		return nil, nil
	}

	// Per-playlist item fetches are independent network round-trips, so
	// fan them out and join before sorting.
	candidates := make([]candidate, len(playlists))
	g, gctx := errgroup.WithContext(ctx)
	for i, pl := range playlists {
		i, pl := i, pl
		g.Go(func() error {
			items, err := r.YouTube.PlaylistItems(gctx, pl.ID, maxPlaylistItems)
			if err != nil {
				r.Log.WithField("playlist", pl.ID).WithError(err).Warn("playlist items fetch failed")
				items = nil
			}
			candidates[i] = scorePlaylist(pl, items, seed)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	valid := candidates[:0:0]
	for _, c := range candidates {
		r.Log.WithFields(logrus.Fields{
			"playlist": c.playlist.Title,
			"score":    c.score,
			"items":    len(c.items),
			"valid":    c.valid,
		}).Debug("scored candidate playlist")
		if c.valid {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return nil, nil
	}
	sort.SliceStable(valid, func(i, j int) bool { return valid[i].score > valid[j].score })
	selected := valid[0]
	r.Log.WithFields(logrus.Fields{
		"playlist": selected.playlist.Title,
		"score":    selected.score,
		"items":    len(selected.items),
	}).Info("selected recommendation playlist")

	return r.collectAvailable(ctx, selected.items, seed)
}

// collectAvailable walks the selected playlist's items, skips entries too
// similar to the seed, verifies availability and stops at the cap.
func (r *Ranker) collectAvailable(ctx context.Context, items []youtube.PlaylistItem, seed music.Track) ([]music.Track, error) {
	seedTitle := normalizeTitle(seed.Name)
	tracks := make([]music.Track, 0, maxRecommendations)
	for _, item := range items {
		if len(tracks) >= maxRecommendations {
			break
		}
		if titleTooSimilar(normalizeTitle(item.Title), seedTitle) {
			continue
		}
		available, err := r.YouTube.VideoAvailable(ctx, item.VideoID)
		if err != nil {
			r.Log.WithField("video", item.VideoID).WithError(err).Debug("availability check failed")
			continue
		}
		if !available {
			continue
		}
		t := music.NewTrack(item.VideoID, music.SourceYouTube, item.Title, item.ChannelTitle)
		t.ExternalURL = youtube.WatchURL(item.VideoID)
		t.ImageURL = item.ThumbnailURL
		tracks = append(tracks, t)
	}
	return tracks, nil
}
