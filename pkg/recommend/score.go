// Playlist relevance scoring. Candidate playlists are scored on how strongly
// their metadata and contents relate to the seed track; playlists that are
// effectively an artist dump are rejected outright.
package recommend

import (
	"regexp"
	"strings"

	"Reco-Go/pkg/music"
	"Reco-Go/pkg/youtube"
)

// Score bonuses per evidence class.
const (
	bonusContainsSeed = 150
	bonusArtistTitle  = 100
	bonusSongTitle    = 80
	bonusArtistDesc   = 30
	bonusSongDesc     = 20
	bonusWordSimilar  = 30
	bonusWordRadio    = 25
	bonusWordMix      = 20
	bonusGenreTitle   = 20
	bonusGenreDesc    = 10

	// A playlist where more than this many item titles mention the seed
	// artist is an "essentials" dump, not a varied mix.
	maxSeedArtistItems = 20
)

// musicGenres is the fixed vocabulary matched against playlist metadata.
var musicGenres = []string{
	"house", "techno", "disco", "pop", "rock", "hip hop", "rap", "jazz",
	"blues", "soul", "r&b", "funk", "electronic", "dance", "indie",
	"alternative", "metal", "classical", "reggae", "folk", "country",
	"ambient", "trance", "drum and bass", "dnb", "edm", "synthwave",
	"lofi", "lo-fi", "trap", "punk", "grunge",
}

var genrePatterns = func() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(musicGenres))
	for _, g := range musicGenres {
		m[g] = regexp.MustCompile(`\b` + regexp.QuoteMeta(g) + `\b`)
	}
	return m
}()

var nonWord = regexp.MustCompile(`[^\w\s]`)
var whitespace = regexp.MustCompile(`\s+`)

// candidate is a playlist with its computed relevance.
type candidate struct {
	playlist youtube.Playlist
	items    []youtube.PlaylistItem
	score    int
	valid    bool
}

// scorePlaylist computes the relevance score for one candidate playlist
// against the seed track. Items must already be fetched (nil when the fetch
// failed, which simply scores the playlist on metadata and an empty size).
func scorePlaylist(pl youtube.Playlist, items []youtube.PlaylistItem, seed music.Track) candidate {
	// Pad with spaces so whole-word matching can use plain substring
	// checks on " phrase " boundaries.
	title := " " + strings.ToLower(pl.Title) + " "
	description := " " + strings.ToLower(pl.Description) + " "
	artist := strings.ToLower(seed.Artist)
	song := strings.ToLower(seed.Name)

	containsSeed := false
	artistItems := 0
	for _, item := range items {
		itemTitle := strings.ToLower(item.Title)
		if strings.Contains(itemTitle, artist) {
			artistItems++
		}
		if strings.Contains(itemTitle, song) && strings.Contains(itemTitle, artist) {
			containsSeed = true
		}
	}

	c := candidate{playlist: pl, items: items, valid: artistItems <= maxSeedArtistItems}
	if !c.valid {
		return c
	}

	for _, pattern := range genrePatterns {
		if pattern.MatchString(title) {
			c.score += bonusGenreTitle
		}
		if pattern.MatchString(description) {
			c.score += bonusGenreDesc
		}
	}
	if containsSeed {
		c.score += bonusContainsSeed
	}
	if wholeWord(title, artist) {
		c.score += bonusArtistTitle
	}
	if wholeWord(title, song) {
		c.score += bonusSongTitle
	}
	if wholeWord(description, artist) {
		c.score += bonusArtistDesc
	}
	if wholeWord(description, song) {
		c.score += bonusSongDesc
	}
	if strings.Contains(title, " similar ") {
		c.score += bonusWordSimilar
	}
	if strings.Contains(title, " radio ") {
		c.score += bonusWordRadio
	}
	if strings.Contains(title, " mix ") {
		c.score += bonusWordMix
	}
	c.score += sizeBonus(len(items))
	return c
}

// sizeBonus rewards medium-sized curated mixes over giant dumps or
// near-empty lists.
func sizeBonus(n int) int {
	switch {
	case n >= 30 && n <= 60:
		return 100
	case n > 60 && n <= 80:
		return 50
	case n > 80 && n <= 100:
		return 30
	case n > 100:
		return 10
	case n >= 15:
		return 40
	case n > 0:
		return 5
	default:
		return 0
	}
}

// wholeWord reports whether phrase appears in text on word boundaries. text
// must already be lowercased and padded with a leading and trailing space.
func wholeWord(text, phrase string) bool {
	if phrase == "" {
		return false
	}
	return strings.Contains(text, " "+phrase+" ")
}

// normalizeTitle lowercases a title, strips punctuation and collapses
// whitespace so near-identical titles compare equal.
func normalizeTitle(title string) string {
	t := strings.ToLower(title)
	t = nonWord.ReplaceAllString(t, "")
	t = whitespace.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}

// titleTooSimilar reports whether a candidate item is effectively the seed
// track itself. Both arguments must be normalized.
func titleTooSimilar(item, seed string) bool {
	if item == "" || seed == "" {
		return item == seed
	}
	return item == seed || strings.Contains(item, seed) || strings.Contains(seed, item)
}
