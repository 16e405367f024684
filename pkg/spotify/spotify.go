// Package spotify wraps the official Spotify client library providing the
// helpers used by the search and recommendation pipeline. Authentication uses
// the client credentials flow so no user login is required. Errors are
// returned directly from the underlying client so callers can inspect them.
//
// All exported methods accept a context parameter. The wrapped library does
// not provide context support so cancellation is checked explicitly before
// each call.
package spotify

import (
	"context"
	"fmt"

	libspotify "github.com/zmb3/spotify"
	"golang.org/x/oauth2/clientcredentials"

	"Reco-Go/pkg/music"
)

// ErrNoTracks indicates a search returned no results. Callers use it to
// distinguish "nothing matched" from a transport failure.
var ErrNoTracks = fmt.Errorf("no tracks found")

// searcher defines the subset of the spotify.Client used by this package.
// It allows the concrete client to be replaced in tests.
type searcher interface {
	SearchOpt(query string, t libspotify.SearchType, opt *libspotify.Options) (*libspotify.SearchResult, error)
	GetRecommendations(seeds libspotify.Seeds, attrs *libspotify.TrackAttributes, opt *libspotify.Options) (*libspotify.Recommendations, error)
	GetTracks(ids ...libspotify.ID) ([]*libspotify.FullTrack, error)
}

// Client wraps the official Spotify client with the higher level operations
// the ranker needs: seed resolution, preview-only recommendations and search
// suggestions.
type Client struct {
	client searcher
}

// New authenticates using the client credentials flow and returns a Client
// ready for API calls. clientID and clientSecret come from the Spotify
// developer dashboard.
func New(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     libspotify.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify token: %w", err)
	}
	c := libspotify.Authenticator{}.NewClient(token)
	return &Client{client: &c}, nil
}

// SearchTrack resolves the seed track for a query: the first catalog match,
// kept regardless of whether it carries a preview clip. ErrNoTracks is
// returned when nothing matched.
func (c *Client) SearchTrack(ctx context.Context, query string) (*music.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := 5
	results, err := c.client.SearchOpt(query, libspotify.SearchTypeTrack, &libspotify.Options{Limit: &limit})
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return nil, ErrNoTracks
	}
	t := fromFullTrack(results.Tracks.Tracks[0])
	return &t, nil
}

// Recommendations returns tracks related to the seed track ID using Spotify's
// native recommendation endpoint. Only tracks carrying a preview clip are
// kept, album art is hydrated through a batched track lookup, and the result
// is capped at max entries.
func (c *Client) Recommendations(ctx context.Context, seedID string, max int) ([]music.Track, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	seeds := libspotify.Seeds{Tracks: []libspotify.ID{libspotify.ID(seedID)}}
	limit := 50
	recs, err := c.client.GetRecommendations(seeds, nil, &libspotify.Options{Limit: &limit})
	if err != nil {
		return nil, err
	}

	var ids []libspotify.ID
	for _, t := range recs.Tracks {
		if t.PreviewURL != "" {
			ids = append(ids, t.ID)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if max > 0 && len(ids) > max {
		ids = ids[:max]
	}

	// The recommendation endpoint returns simplified tracks without album
	// art, so hydrate the kept IDs in one batch call.
	full, err := c.client.GetTracks(ids...)
	if err != nil {
		return nil, err
	}
	tracks := make([]music.Track, 0, len(full))
	for _, ft := range full {
		if ft == nil || ft.PreviewURL == "" {
			continue
		}
		tracks = append(tracks, fromFullTrack(*ft))
	}
	return tracks, nil
}

// Suggest returns up to five display strings for a partial query, used by the
// search-as-you-type endpoint.
func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := 5
	results, err := c.client.SearchOpt(query, libspotify.SearchTypeTrack, &libspotify.Options{Limit: &limit})
	if err != nil {
		return nil, err
	}
	if results.Tracks == nil {
		return nil, nil
	}
	suggestions := make([]string, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		artist := ""
		if len(t.Artists) > 0 {
			artist = t.Artists[0].Name
		}
		suggestions = append(suggestions, fmt.Sprintf("%s - %s", t.Name, artist))
	}
	return suggestions, nil
}

// fromFullTrack converts a Spotify track into the shared Track value.
func fromFullTrack(ft libspotify.FullTrack) music.Track {
	artist := ""
	if len(ft.Artists) > 0 {
		artist = ft.Artists[0].Name
	}
	t := music.NewTrack(string(ft.ID), music.SourceSpotify, ft.Name, artist)
	t.ExternalURL = ft.ExternalURLs["spotify"]
	t.PreviewURL = ft.PreviewURL
	if len(ft.Album.Images) > 0 {
		t.ImageURL = ft.Album.Images[0].URL
	}
	return t
}
