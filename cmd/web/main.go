// Command web starts the recommendation service. It wires the Spotify and
// YouTube clients into the cross-platform ranker, opens the SQLite store for
// favorites and search history and serves the JSON API plus Prometheus
// metrics.

package main

import (
	"context"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"Reco-Go/pkg/config"
	"Reco-Go/pkg/db"
	"Reco-Go/pkg/handlers"
	"Reco-Go/pkg/metrics"
	"Reco-Go/pkg/recommend"
	"Reco-Go/pkg/spotify"
	"Reco-Go/pkg/youtube"
)

func main() {
	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("configuration error")
	}
	if cfg.Production() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	log := logger.WithField("service", "reco")

	// The Spotify client uses the client-credentials flow; no user login is
	// involved anywhere in the service.
	sp, err := spotify.New(context.Background(), cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	if err != nil {
		log.WithError(err).Fatal("spotify client init")
	}
	yt := &youtube.Client{Key: cfg.YouTubeAPIKey}

	database, err := db.New(cfg.DatabasePath)
	if err != nil {
		log.WithError(err).Fatal("db init")
	}
	defer database.Close()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	ranker := recommend.New(sp, yt, log)
	ranker.OnPlatformFailure = func(platform string) {
		m.PlatformFailures.WithLabelValues(platform).Inc()
	}

	app := &handlers.Application{
		Ranker:     ranker,
		Suggester:  sp,
		DB:         database,
		Log:        log,
		Metrics:    m,
		Production: cfg.Production(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search", app.Search)
	mux.HandleFunc("/api/search/suggestions", app.Suggestions)
	mux.HandleFunc("/api/favorites", app.Favorites)
	mux.HandleFunc("/api/history", app.History)
	mux.HandleFunc("/health", app.Health)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	addr := ":" + cfg.Port
	log.WithField("addr", addr).Info("starting server")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.WithError(err).Error("http server error")
		os.Exit(1)
	}
}
