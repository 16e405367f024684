// Favorites and search-history endpoints backed by the SQLite store.
package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"Reco-Go/pkg/music"
)

// Favorites dispatches /api/favorites by method: GET lists, POST saves and
// DELETE removes a favorite track.
func (app *Application) Favorites(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		app.listFavorites(w, r)
	case http.MethodPost:
		app.addFavorite(w, r)
	case http.MethodDelete:
		app.deleteFavorite(w, r)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (app *Application) listFavorites(w http.ResponseWriter, r *http.Request) {
	favs, err := app.DB.ListFavorites(r.Context())
	if err != nil {
		app.Log.WithError(err).Error("listing favorites failed")
		respondError(w, http.StatusInternalServerError, "could not load favorites")
		return
	}
	if favs == nil {
		favs = []music.Track{}
	}
	respondJSON(w, http.StatusOK, favs)
}

func (app *Application) addFavorite(w http.ResponseWriter, r *http.Request) {
	var track music.Track
	if err := decodeJSON(r, &track); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := parseSource(string(track.Source)); !ok {
		respondError(w, http.StatusBadRequest, "unknown track source")
		return
	}
	// Normalize through the constructor so an empty ID still gets a slug.
	saved := music.NewTrack(track.ID, track.Source, track.Name, track.Artist)
	saved.ImageURL = track.ImageURL
	saved.ExternalURL = track.ExternalURL
	saved.PreviewURL = track.PreviewURL
	if err := app.DB.AddFavorite(r.Context(), saved); err != nil {
		app.Log.WithError(err).Error("saving favorite failed")
		respondError(w, http.StatusInternalServerError, "could not save favorite")
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

func (app *Application) deleteFavorite(w http.ResponseWriter, r *http.Request) {
	trackID := r.URL.Query().Get("id")
	source, ok := parseSource(r.URL.Query().Get("source"))
	if trackID == "" || !ok {
		respondError(w, http.StatusBadRequest, "id and source parameters are required")
		return
	}
	err := app.DB.DeleteFavorite(r.Context(), trackID, source)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "favorite not found")
		return
	}
	if err != nil {
		app.Log.WithError(err).Error("deleting favorite failed")
		respondError(w, http.StatusInternalServerError, "could not delete favorite")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History dispatches /api/history: GET returns the recent searches, POST
// records one explicitly.
func (app *Application) History(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		queries, err := app.DB.ListSearches(r.Context())
		if err != nil {
			app.Log.WithError(err).Error("listing history failed")
			respondError(w, http.StatusInternalServerError, "could not load history")
			return
		}
		if queries == nil {
			queries = []string{}
		}
		respondJSON(w, http.StatusOK, queries)
	case http.MethodPost:
		var body struct {
			Query string `json:"query"`
		}
		if err := decodeJSON(r, &body); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		if body.Query == "" {
			respondError(w, http.StatusBadRequest, "query is required")
			return
		}
		if err := app.DB.AddSearch(r.Context(), body.Query); err != nil {
			app.Log.WithError(err).Error("recording history failed")
			respondError(w, http.StatusInternalServerError, "could not record search")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
