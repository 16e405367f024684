// Playlist search and item listing used by the recommendation ranker. The
// ranker scores candidate playlists itself; this file only performs the raw
// fetches and entity decoding.
package youtube

import (
	"context"
	"net/url"
	"strconv"
)

// Playlist describes a candidate playlist returned by a playlist search.
type Playlist struct {
	ID          string
	Title       string
	Description string
}

// PlaylistItem is a single video entry inside a playlist.
type PlaylistItem struct {
	VideoID      string
	Title        string
	ChannelTitle string
	ThumbnailURL string
}

// SearchPlaylists returns up to max playlists matching the query.
func (c *Client) SearchPlaylists(ctx context.Context, query string, max int) ([]Playlist, error) {
	var body struct {
		Items []struct {
			ID struct {
				PlaylistID string `json:"playlistId"`
			} `json:"id"`
			Snippet snippet `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"playlist"},
		"maxResults": {strconv.Itoa(max)},
		"q":          {query},
	}
	if err := c.getJSON(ctx, "search", params, &body); err != nil {
		return nil, err
	}
	playlists := make([]Playlist, 0, len(body.Items))
	for _, item := range body.Items {
		playlists = append(playlists, Playlist{
			ID:          item.ID.PlaylistID,
			Title:       DecodeEntities(item.Snippet.Title),
			Description: DecodeEntities(item.Snippet.Description),
		})
	}
	return playlists, nil
}

// PlaylistItems fetches up to max entries of a playlist. Only the first page
// is requested; the ranker's fetch size stays within one page.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, max int) ([]PlaylistItem, error) {
	var body struct {
		Items []struct {
			Snippet snippet `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"playlistId": {playlistID},
		"maxResults": {strconv.Itoa(max)},
	}
	if err := c.getJSON(ctx, "playlistItems", params, &body); err != nil {
		return nil, err
	}
	items := make([]PlaylistItem, 0, len(body.Items))
	for _, item := range body.Items {
		artist := item.Snippet.VideoOwnerChannelTitle
		if artist == "" {
			artist = item.Snippet.ChannelTitle
		}
		items = append(items, PlaylistItem{
			VideoID:      item.Snippet.ResourceID.VideoID,
			Title:        DecodeEntities(item.Snippet.Title),
			ChannelTitle: DecodeEntities(artist),
			ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
		})
	}
	return items, nil
}
