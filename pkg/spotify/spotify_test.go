package spotify

import (
	"context"
	"errors"
	"testing"

	libspotify "github.com/zmb3/spotify"

	"Reco-Go/pkg/music"
)

// fakeSearcher implements the searcher interface recording calls and
// returning canned responses.
type fakeSearcher struct {
	result    *libspotify.SearchResult
	recs      *libspotify.Recommendations
	full      []*libspotify.FullTrack
	err       error
	lastQuery string
	trackIDs  []libspotify.ID
}

func (f *fakeSearcher) SearchOpt(query string, t libspotify.SearchType, opt *libspotify.Options) (*libspotify.SearchResult, error) {
	f.lastQuery = query
	return f.result, f.err
}

func (f *fakeSearcher) GetRecommendations(seeds libspotify.Seeds, attrs *libspotify.TrackAttributes, opt *libspotify.Options) (*libspotify.Recommendations, error) {
	return f.recs, f.err
}

func (f *fakeSearcher) GetTracks(ids ...libspotify.ID) ([]*libspotify.FullTrack, error) {
	f.trackIDs = ids
	return f.full, f.err
}

func fullTrack(id, name, artist, preview string) libspotify.FullTrack {
	return libspotify.FullTrack{
		SimpleTrack: libspotify.SimpleTrack{
			ID:           libspotify.ID(id),
			Name:         name,
			Artists:      []libspotify.SimpleArtist{{Name: artist}},
			PreviewURL:   preview,
			ExternalURLs: map[string]string{"spotify": "https://open.spotify.com/track/" + id},
		},
		Album: libspotify.SimpleAlbum{Images: []libspotify.Image{{URL: "https://img/" + id}}},
	}
}

// TestSearchTrackFirstMatch verifies the first result is returned even when
// it has no preview clip.
func TestSearchTrackFirstMatch(t *testing.T) {
	fs := &fakeSearcher{result: &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{
		Tracks: []libspotify.FullTrack{fullTrack("t1", "Song", "Artist", ""), fullTrack("t2", "Other", "Artist", "p")},
	}}}
	c := &Client{client: fs}
	got, err := c.SearchTrack(context.Background(), "song artist")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "t1" || got.Source != music.SourceSpotify || got.Playable() {
		t.Fatalf("unexpected track: %+v", got)
	}
	if fs.lastQuery != "song artist" {
		t.Errorf("query not forwarded: %q", fs.lastQuery)
	}
}

// TestSearchTrackEmpty ensures ErrNoTracks is returned for empty result sets.
func TestSearchTrackEmpty(t *testing.T) {
	fs := &fakeSearcher{result: &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{}}}
	c := &Client{client: fs}
	if _, err := c.SearchTrack(context.Background(), "q"); !errors.Is(err, ErrNoTracks) {
		t.Fatalf("expected ErrNoTracks got %v", err)
	}
}

// TestRecommendationsPreviewFilter checks that tracks without preview URLs
// are dropped before hydration and the cap is applied.
func TestRecommendationsPreviewFilter(t *testing.T) {
	fs := &fakeSearcher{
		recs: &libspotify.Recommendations{Tracks: []libspotify.SimpleTrack{
			{ID: "a", PreviewURL: "p"},
			{ID: "b"},
			{ID: "c", PreviewURL: "p"},
			{ID: "d", PreviewURL: "p"},
		}},
		full: []*libspotify.FullTrack{
			ptr(fullTrack("a", "A", "X", "p")),
			ptr(fullTrack("c", "C", "X", "p")),
		},
	}
	c := &Client{client: fs}
	tracks, err := c.Recommendations(context.Background(), "seed", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fs.trackIDs) != 2 || fs.trackIDs[0] != "a" || fs.trackIDs[1] != "c" {
		t.Fatalf("expected capped preview-only hydration, got %v", fs.trackIDs)
	}
	if len(tracks) != 2 || tracks[0].ImageURL != "https://img/a" {
		t.Fatalf("unexpected tracks: %+v", tracks)
	}
}

// TestRecommendationsNoPlayable returns an empty list when nothing carries a
// preview; the ranker treats that as "no contribution", not an error.
func TestRecommendationsNoPlayable(t *testing.T) {
	fs := &fakeSearcher{recs: &libspotify.Recommendations{Tracks: []libspotify.SimpleTrack{{ID: "a"}}}}
	c := &Client{client: fs}
	tracks, err := c.Recommendations(context.Background(), "seed", 35)
	if err != nil || tracks != nil {
		t.Fatalf("expected empty result, got %v %v", tracks, err)
	}
}

// TestSuggest formats results as "name - artist".
func TestSuggest(t *testing.T) {
	fs := &fakeSearcher{result: &libspotify.SearchResult{Tracks: &libspotify.FullTrackPage{
		Tracks: []libspotify.FullTrack{fullTrack("t1", "Song", "Artist", "")},
	}}}
	c := &Client{client: fs}
	got, err := c.Suggest(context.Background(), "so")
	if err != nil || len(got) != 1 || got[0] != "Song - Artist" {
		t.Fatalf("unexpected suggestions: %v %v", got, err)
	}
}

func ptr(ft libspotify.FullTrack) *libspotify.FullTrack { return &ft }
