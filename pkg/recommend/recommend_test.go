package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Reco-Go/pkg/music"
	"Reco-Go/pkg/youtube"
)

type fakeSpotify struct {
	seed   *music.Track
	tracks []music.Track
	err    error
}

func (f *fakeSpotify) SearchTrack(context.Context, string) (*music.Track, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.seed, nil
}

func (f *fakeSpotify) Recommendations(context.Context, string, int) ([]music.Track, error) {
	return f.tracks, nil
}

type fakeYouTube struct {
	seed        *music.Track
	seedErr     error
	playlists   []youtube.Playlist
	items       map[string][]youtube.PlaylistItem
	unavailable map[string]bool
	itemCalls   []string
}

func (f *fakeYouTube) SearchVideo(context.Context, string) (*music.Track, error) {
	if f.seedErr != nil {
		return nil, f.seedErr
	}
	return f.seed, nil
}

func (f *fakeYouTube) SearchPlaylists(context.Context, string, int) ([]youtube.Playlist, error) {
	return f.playlists, nil
}

func (f *fakeYouTube) PlaylistItems(_ context.Context, id string, _ int) ([]youtube.PlaylistItem, error) {
	f.itemCalls = append(f.itemCalls, id)
	return f.items[id], nil
}

func (f *fakeYouTube) VideoAvailable(_ context.Context, id string) (bool, error) {
	return !f.unavailable[id], nil
}

func ytTrack(id string) music.Track   { return music.NewTrack(id, music.SourceYouTube, id, "artist") }
func spTrack(id string) music.Track   { return music.NewTrack(id, music.SourceSpotify, id, "artist") }
func seedTrack(name, artist string, source music.Source) *music.Track {
	t := music.NewTrack("seed", source, name, artist)
	return &t
}

func items(titles ...string) []youtube.PlaylistItem {
	out := make([]youtube.PlaylistItem, len(titles))
	for i, title := range titles {
		out[i] = youtube.PlaylistItem{VideoID: fmt.Sprintf("v%d", i), Title: title, ChannelTitle: "chan"}
	}
	return out
}

// TestInterleave covers both truncation scenarios: a raw merge already on a
// multiple of three and one that must be cut down.
func TestInterleave(t *testing.T) {
	c := []music.Track{spTrack("c1"), spTrack("c2"), spTrack("c3"), spTrack("c4")}
	v := []music.Track{ytTrack("v1"), ytTrack("v2")}

	got := Interleave(c, v)
	require.Len(t, got, 6)
	order := []string{"c1", "v1", "c2", "v2", "c3", "c4"}
	for i, id := range order {
		assert.Equal(t, id, got[i].ID)
	}

	got = Interleave(c[:3], v) // raw merge [c1 v1 c2 v2 c3], length 5
	require.Len(t, got, 3)
	assert.Equal(t, "c2", got[2].ID)
}

func TestInterleaveEmpty(t *testing.T) {
	assert.Empty(t, Interleave(nil, nil))
	assert.Empty(t, Interleave([]music.Track{spTrack("a")}, nil))
}

// TestArtistDumpRejected verifies a playlist whose items are dominated by the
// seed artist is excluded from ranking regardless of raw score.
func TestArtistDumpRejected(t *testing.T) {
	titles := make([]string, 25)
	for i := range titles {
		if i < 22 {
			titles[i] = fmt.Sprintf("Daft Punk - Song %d", i)
		} else {
			titles[i] = fmt.Sprintf("Other Track %d", i)
		}
	}
	c := scorePlaylist(
		youtube.Playlist{Title: "Daft Punk Essentials similar mix"},
		items(titles...),
		*seedTrack("Around the World", "Daft Punk", music.SourceYouTube),
	)
	assert.False(t, c.valid)
	assert.Zero(t, c.score)
}

// TestScoreBonuses exercises each evidence class individually. The seed
// deliberately avoids words from the genre vocabulary so each case isolates
// one bonus class.
func TestScoreBonuses(t *testing.T) {
	seed := *seedTrack("Billie Jean", "Michael Jackson", music.SourceYouTube)

	cases := []struct {
		name     string
		playlist youtube.Playlist
		items    []youtube.PlaylistItem
		want     int
	}{
		{
			name:     "seed track in playlist",
			playlist: youtube.Playlist{Title: "untitled"},
			items:    items("Michael Jackson - Billie Jean (Official)"),
			want:     bonusContainsSeed + sizeBonus(1),
		},
		{
			name:     "artist and song in title",
			playlist: youtube.Playlist{Title: "michael jackson billie jean playlist"},
			want:     bonusArtistTitle + bonusSongTitle,
		},
		{
			name:     "artist and song in description",
			playlist: youtube.Playlist{Title: "untitled", Description: "songs like michael jackson billie jean"},
			want:     bonusArtistDesc + bonusSongDesc,
		},
		{
			name:     "type indicator words",
			playlist: youtube.Playlist{Title: "similar radio mix"},
			want:     bonusWordSimilar + bonusWordRadio + bonusWordMix,
		},
		{
			name:     "genre in title and description",
			playlist: youtube.Playlist{Title: "best house tracks", Description: "pure techno"},
			want:     bonusGenreTitle + bonusGenreDesc,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := scorePlaylist(tc.playlist, tc.items, seed)
			require.True(t, c.valid)
			assert.Equal(t, tc.want, c.score)
		})
	}
}

// TestSizeBonus checks every bucket boundary.
func TestSizeBonus(t *testing.T) {
	for n, want := range map[int]int{0: 0, 1: 5, 14: 5, 15: 40, 29: 40, 30: 100, 60: 100, 61: 50, 80: 50, 81: 30, 100: 30, 101: 10} {
		assert.Equal(t, want, sizeBonus(n), "n=%d", n)
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "one more time radio edit", normalizeTitle("  One  More Time (Radio Edit!) "))
}

func TestTitleTooSimilar(t *testing.T) {
	seed := normalizeTitle("One More Time")
	assert.True(t, titleTooSimilar(normalizeTitle("Daft Punk - One More Time"), seed))
	assert.True(t, titleTooSimilar(normalizeTitle("one more"), "one more time reprise"))
	assert.False(t, titleTooSimilar(normalizeTitle("Harder Better Faster"), seed))
}

// TestSearchSelectsBestPlaylist runs the full YouTube path: the higher
// scoring playlist wins, seed-like and unavailable items are skipped.
func TestSearchSelectsBestPlaylist(t *testing.T) {
	yt := &fakeYouTube{
		seed: seedTrack("One More Time", "Daft Punk", music.SourceYouTube),
		playlists: []youtube.Playlist{
			{ID: "weak", Title: "random videos"},
			{ID: "strong", Title: "daft punk one more time similar mix"},
		},
		items: map[string][]youtube.PlaylistItem{
			"weak":   items("Something"),
			"strong": items("Daft Punk - One More Time", "Track A", "Track B", "Track C"),
		},
		unavailable: map[string]bool{"v2": true},
	}
	sp := &fakeSpotify{err: errors.New("down")}

	res, err := New(sp, yt, nil).Search(context.Background(), "one more time")
	require.NoError(t, err)
	require.NotNil(t, res.Searched.YouTube)
	assert.Nil(t, res.Searched.Spotify)
	assert.ElementsMatch(t, []string{"weak", "strong"}, yt.itemCalls)

	// "Daft Punk - One More Time" is the seed itself and v2 is
	// unavailable; only Track A and Track C survive.
	require.Len(t, res.Recommendations.YouTube, 2)
	assert.Equal(t, "Track A", res.Recommendations.YouTube[0].Name)
	assert.Equal(t, "Track C", res.Recommendations.YouTube[1].Name)
	assert.Empty(t, res.Recommendations.Spotify)
}

// TestSearchNoMatch requires both platforms to fail before surfacing the
// hard not-found error. Both absorbed failures are reported.
func TestSearchNoMatch(t *testing.T) {
	sp := &fakeSpotify{err: errors.New("down")}
	yt := &fakeYouTube{seedErr: errors.New("down")}

	r := New(sp, yt, nil)
	var mu sync.Mutex
	var failures []string
	r.OnPlatformFailure = func(platform string) {
		mu.Lock()
		failures = append(failures, platform)
		mu.Unlock()
	}

	_, err := r.Search(context.Background(), "q")
	assert.ErrorIs(t, err, ErrNoMatch)
	assert.ElementsMatch(t, []string{"spotify", "youtube"}, failures)
}

// TestSearchPartialFailure keeps the healthy platform's results and reports
// the failing platform.
func TestSearchPartialFailure(t *testing.T) {
	sp := &fakeSpotify{
		seed:   seedTrack("One More Time", "Daft Punk", music.SourceSpotify),
		tracks: []music.Track{spTrack("a"), spTrack("b"), spTrack("c")},
	}
	yt := &fakeYouTube{seedErr: errors.New("quota")}

	r := New(sp, yt, nil)
	var failures []string
	r.OnPlatformFailure = func(platform string) { failures = append(failures, platform) }

	res, err := r.Search(context.Background(), "q")
	require.NoError(t, err)
	assert.Nil(t, res.Searched.YouTube)
	assert.Len(t, res.Recommendations.Spotify, 3)
	assert.Empty(t, res.Recommendations.YouTube)
	assert.Len(t, res.Recommendations.Combined, 3)
	assert.Equal(t, []string{"youtube"}, failures)
}
