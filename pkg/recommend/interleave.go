package recommend

import "Reco-Go/pkg/music"

// Interleave merges the two ranked lists by alternating one item from each
// source per round, Spotify first, until the longer list is exhausted. The
// result is then truncated down to the nearest multiple of three so the
// published grid stays evenly divisible by the UI's column count; that is a
// presentation constraint, not a correctness rule.
func Interleave(spotify, yt []music.Track) []music.Track {
	combined := make([]music.Track, 0, len(spotify)+len(yt))
	for i := 0; i < len(spotify) || i < len(yt); i++ {
		if i < len(spotify) {
			combined = append(combined, spotify[i])
		}
		if i < len(yt) {
			combined = append(combined, yt[i])
		}
	}
	return combined[:len(combined)-len(combined)%3]
}
