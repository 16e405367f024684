// Package youtube implements the YouTube Data API v3 calls needed by the
// search and recommendation pipeline. Only the endpoints required by the
// application are supported. An API key must be provided when constructing
// the client.
//
// Network calls are performed using the provided http.Client allowing
// callers to substitute a test client.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"Reco-Go/pkg/music"
)

const apiBase = "https://www.googleapis.com/youtube/v3"

// ErrNoTracks indicates a video search returned no usable results.
var ErrNoTracks = fmt.Errorf("no tracks found")

// Client provides access to the YouTube Data API.
type Client struct {
	Key    string
	Client *http.Client
}

// getJSON performs a GET request against the given API resource and decodes
// the response body into v. The API key is appended automatically.
func (c *Client) getJSON(ctx context.Context, resource string, params url.Values, v any) error {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}
	params.Set("key", c.Key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/"+resource+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("youtube %s error: %s", resource, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// snippet is the common metadata block shared by search results and playlist
// items.
type snippet struct {
	Title                  string `json:"title"`
	Description            string `json:"description"`
	ChannelTitle           string `json:"channelTitle"`
	VideoOwnerChannelTitle string `json:"videoOwnerChannelTitle"`
	Thumbnails             struct {
		Medium struct {
			URL string `json:"url"`
		} `json:"medium"`
	} `json:"thumbnails"`
	ResourceID struct {
		VideoID string `json:"videoId"`
	} `json:"resourceId"`
}

// SearchVideo resolves the seed video for a query: the first of up to five
// search results that passes the availability check. ErrNoTracks is returned
// when no result is available.
func (c *Client) SearchVideo(ctx context.Context, query string) (*music.Track, error) {
	var body struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
			Snippet snippet `json:"snippet"`
		} `json:"items"`
	}
	params := url.Values{
		"part":       {"snippet"},
		"type":       {"video"},
		"maxResults": {"5"},
		"q":          {query},
	}
	if err := c.getJSON(ctx, "search", params, &body); err != nil {
		return nil, err
	}
	for _, item := range body.Items {
		available, err := c.VideoAvailable(ctx, item.ID.VideoID)
		if err != nil || !available {
			continue
		}
		t := music.NewTrack(item.ID.VideoID, music.SourceYouTube,
			DecodeEntities(item.Snippet.Title), DecodeEntities(item.Snippet.ChannelTitle))
		t.ExternalURL = WatchURL(item.ID.VideoID)
		t.ImageURL = item.Snippet.Thumbnails.Medium.URL
		return &t, nil
	}
	return nil, ErrNoTracks
}

// VideoAvailable reports whether a video is fully processed, public and not
// rejected. Unlisted, deleted or region-blocked uploads fail the check so
// they never reach the recommendation list.
func (c *Client) VideoAvailable(ctx context.Context, videoID string) (bool, error) {
	var body struct {
		Items []struct {
			Status struct {
				UploadStatus    string `json:"uploadStatus"`
				PrivacyStatus   string `json:"privacyStatus"`
				RejectionReason string `json:"rejectionReason"`
			} `json:"status"`
			ContentDetails *struct {
				Duration string `json:"duration"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	params := url.Values{
		"part": {"status,contentDetails"},
		"id":   {videoID},
	}
	if err := c.getJSON(ctx, "videos", params, &body); err != nil {
		return false, err
	}
	if len(body.Items) == 0 {
		return false, nil
	}
	v := body.Items[0]
	return v.Status.UploadStatus == "processed" &&
		v.Status.PrivacyStatus == "public" &&
		v.Status.RejectionReason == "" &&
		v.ContentDetails != nil, nil
}

// WatchURL returns the canonical watch page URL for a video ID.
func WatchURL(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}

// htmlEntities maps the entities the Data API is known to emit in titles.
var htmlEntities = map[string]string{
	"&amp;":  "&",
	"&lt;":   "<",
	"&gt;":   ">",
	"&quot;": `"`,
	"&#39;":  "'",
	"&#x2F;": "/",
	"&#x60;": "`",
	"&#x3D;": "=",
}

// DecodeEntities replaces the HTML entities the API returns in video and
// channel titles. Unknown entities are left untouched.
func DecodeEntities(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	for entity, repl := range htmlEntities {
		s = strings.ReplaceAll(s, entity, repl)
	}
	return s
}
