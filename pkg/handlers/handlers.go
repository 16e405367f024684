// Package handlers contains the HTTP handlers for the JSON API: search with
// cross-platform recommendations, search suggestions, favorites, search
// history and a health probe. Handlers depend on narrow interfaces so tests
// can substitute fakes for the ranker and suggestion source.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"Reco-Go/pkg/db"
	"Reco-Go/pkg/metrics"
	"Reco-Go/pkg/music"
	"Reco-Go/pkg/recommend"
)

// ranker produces the combined search result for a query.
type ranker interface {
	Search(ctx context.Context, query string) (*recommend.Result, error)
}

// suggester returns type-ahead suggestions for a partial query.
type suggester interface {
	Suggest(ctx context.Context, query string) ([]string, error)
}

// Application bundles the dependencies used by the HTTP handlers.
type Application struct {
	Ranker     ranker
	Suggester  suggester
	DB         *db.DB
	Log        *logrus.Entry
	Metrics    *metrics.Metrics
	Production bool
}

// Search handles GET /api/search. A missing query is a 400, an unmatched one
// a 404 and upstream failures a 500 with a generic message; failure detail
// is only included outside production.
func (app *Application) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		app.countSearch(http.StatusBadRequest)
		respondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	start := time.Now()
	result, err := app.Ranker.Search(r.Context(), query)
	if app.Metrics != nil {
		app.Metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, recommend.ErrNoMatch) {
			app.countSearch(http.StatusNotFound)
			respondError(w, http.StatusNotFound, recommend.ErrNoMatch.Error())
			return
		}
		app.Log.WithField("query", query).WithError(err).Error("search failed")
		app.countSearch(http.StatusInternalServerError)
		msg := "An error occurred during the search and recommendations"
		if !app.Production {
			msg = err.Error()
		}
		respondError(w, http.StatusInternalServerError, msg)
		return
	}

	if app.Metrics != nil {
		app.Metrics.Recommendations.WithLabelValues("spotify").Observe(float64(len(result.Recommendations.Spotify)))
		app.Metrics.Recommendations.WithLabelValues("youtube").Observe(float64(len(result.Recommendations.YouTube)))
	}
	// Recording history is best effort; a storage hiccup must not fail the
	// search response.
	if app.DB != nil {
		if err := app.DB.AddSearch(r.Context(), query); err != nil {
			app.Log.WithError(err).Warn("recording search history failed")
		}
	}
	app.countSearch(http.StatusOK)
	respondJSON(w, http.StatusOK, result)
}

// Suggestions handles GET /api/search/suggestions. Queries shorter than two
// characters and upstream failures both yield an empty list; suggestions are
// strictly best effort.
func (app *Application) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if len(query) < 2 {
		respondJSON(w, http.StatusOK, []string{})
		return
	}
	suggestions, err := app.Suggester.Suggest(r.Context(), query)
	if err != nil {
		app.Log.WithField("query", query).WithError(err).Warn("suggestions failed")
		respondJSON(w, http.StatusOK, []string{})
		return
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	respondJSON(w, http.StatusOK, suggestions)
}

// Health handles GET /health for deployment probes.
func (app *Application) Health(w http.ResponseWriter, r *http.Request) {
	env := "production"
	if !app.Production {
		env = "development"
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":      "ok",
		"environment": env,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (app *Application) countSearch(status int) {
	if app.Metrics != nil {
		app.Metrics.SearchRequests.WithLabelValues(strconv.Itoa(status)).Inc()
	}
}

// parseSource validates a source query parameter or JSON field.
func parseSource(s string) (music.Source, bool) {
	switch music.Source(s) {
	case music.SourceSpotify, music.SourceYouTube:
		return music.Source(s), true
	}
	return "", false
}
