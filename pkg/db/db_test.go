package db

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"Reco-Go/pkg/music"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := New(filepath.Join(t.TempDir(), "reco.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

// TestFavoritesRoundTrip stores, lists and deletes a favorite.
func TestFavoritesRoundTrip(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	track := music.NewTrack("v1", music.SourceYouTube, "Song", "Artist")
	track.ExternalURL = "https://www.youtube.com/watch?v=v1"

	if err := d.AddFavorite(ctx, track); err != nil {
		t.Fatalf("add favorite: %v", err)
	}
	// Duplicate inserts are ignored.
	if err := d.AddFavorite(ctx, track); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	favs, err := d.ListFavorites(ctx)
	if err != nil || len(favs) != 1 {
		t.Fatalf("expected one favorite, got %d (%v)", len(favs), err)
	}
	if !favs[0].Same(track) || favs[0].ExternalURL != track.ExternalURL {
		t.Fatalf("unexpected favorite: %+v", favs[0])
	}

	if err := d.DeleteFavorite(ctx, "v1", music.SourceYouTube); err != nil {
		t.Fatalf("delete favorite: %v", err)
	}
	if err := d.DeleteFavorite(ctx, "v1", music.SourceYouTube); err != sql.ErrNoRows {
		t.Fatalf("expected sql.ErrNoRows got %v", err)
	}
}

// TestFavoriteSameIDDifferentSource keeps tracks distinct per platform.
func TestFavoriteSameIDDifferentSource(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	if err := d.AddFavorite(ctx, music.NewTrack("x", music.SourceYouTube, "A", "B")); err != nil {
		t.Fatal(err)
	}
	if err := d.AddFavorite(ctx, music.NewTrack("x", music.SourceSpotify, "A", "B")); err != nil {
		t.Fatal(err)
	}
	favs, err := d.ListFavorites(ctx)
	if err != nil || len(favs) != 2 {
		t.Fatalf("expected two favorites, got %d (%v)", len(favs), err)
	}
}

// TestSearchHistoryCapAndDedup verifies the cap, ordering and
// de-duplication rules.
func TestSearchHistoryCapAndDedup(t *testing.T) {
	d := testDB(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		if err := d.AddSearch(ctx, fmt.Sprintf("query %d", i)); err != nil {
			t.Fatalf("add search: %v", err)
		}
	}
	// Repeat an existing query; it should move to the front, not duplicate.
	if err := d.AddSearch(ctx, "query 5"); err != nil {
		t.Fatal(err)
	}

	got, err := d.ListSearches(ctx)
	if err != nil {
		t.Fatalf("list searches: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected history capped at 10, got %d", len(got))
	}
	if got[0] != "query 5" {
		t.Fatalf("expected most recent first, got %q", got[0])
	}
	seen := map[string]bool{}
	for _, q := range got {
		if seen[q] {
			t.Fatalf("duplicate query %q in history", q)
		}
		seen[q] = true
	}
}
