// Package music defines the platform-agnostic track representation shared by
// the rest of the application. Both the Spotify and YouTube clients convert
// their native responses into Track values so the ranker, player and HTTP
// layer never depend on a platform SDK type directly.
package music

import (
	"strings"
	"unicode"
)

// Source identifies the platform a track originates from. The string values
// are part of the JSON API contract and must not change.
type Source string

const (
	// SourceSpotify marks tracks backed by a short preview clip.
	SourceSpotify Source = "Spotify"
	// SourceYouTube marks tracks backed by an embedded video player.
	SourceYouTube Source = "YouTube"
)

// Track is a value object describing one playable (or at least linkable)
// track on a single platform.
type Track struct {
	ID          string `json:"id"`
	Source      Source `json:"source"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ImageURL    string `json:"imageUrl"`
	ExternalURL string `json:"url"`
	// PreviewURL is only populated for Spotify tracks. A Spotify track
	// without one cannot be played, only linked.
	PreviewURL string `json:"previewUrl,omitempty"`
}

// NewTrack builds a Track and guarantees a non-empty ID. Platforms
// occasionally omit stable identifiers; in that case the ID falls back to a
// normalized source-name-artist slug so queue and favorite lookups still have
// a stable key.
func NewTrack(id string, source Source, name, artist string) Track {
	t := Track{ID: id, Source: source, Name: name, Artist: artist}
	if t.ID == "" {
		t.ID = Slug(string(source), name, artist)
	}
	return t
}

// Same reports whether two tracks identify the same track: identical ID on
// the same platform. Metadata differences are ignored.
func (t Track) Same(o Track) bool {
	return t.ID == o.ID && t.Source == o.Source
}

// Playable reports whether the track can actually be started. YouTube tracks
// are always playable through the embedded player; Spotify tracks require a
// preview clip URL.
func (t Track) Playable() bool {
	if t.Source == SourceSpotify {
		return t.PreviewURL != ""
	}
	return t.ID != ""
}

// Slug joins the given parts into a lowercase, hyphen-separated identifier.
// Runs of non-alphanumeric characters collapse into a single hyphen.
func Slug(parts ...string) string {
	var b strings.Builder
	lastHyphen := true
	for _, p := range parts {
		for _, r := range strings.ToLower(p) {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				lastHyphen = false
			} else if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
