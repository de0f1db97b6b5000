// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/models"
)

// seedGenres and seedTitles drive the mock catalog. Titles are combined with
// descriptors so the seeded corpus exercises search, genre and popularity
// feeds without external data.
var seedGenres = []string{"Action", "Comedy", "Drama", "Horror", "Sci-Fi", "Romance", "Documentary", "Thriller"}

var seedTitles = []string{
	"Midnight", "Harbor", "Echo", "Northern", "Crimson", "Silent", "Golden",
	"Last", "Broken", "Hidden", "Distant", "Burning", "Frozen", "Wild",
}

var seedDescriptors = []string{
	"Run", "City", "Protocol", "Horizon", "Garden", "Station", "Letters",
	"Covenant", "Paradox", "Harvest", "Passage", "Reckoning",
}

var seedLanguages = []string{"English", "French", "Amharic", "Spanish", "Korean", "Japanese"}

var seedCountries = []string{"United States", "France", "Ethiopia", "Spain", "South Korea", "Japan"}

// SeedMockData fills the store with a deterministic mock catalog of n movies
// for demos and tests. Views decrease with the movie index so popularity
// ordering is predictable; every eighth movie is hidden so the suggestion
// path has something to filter.
func (s *Store) SeedMockData(ctx context.Context, n int) error {
	logging.Info().Int("movies", n).Msg("Seeding store with mock catalog")

	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%s %s", seedTitles[i%len(seedTitles)], seedDescriptors[i%len(seedDescriptors)])
		genre := seedGenres[i%len(seedGenres)]
		lang := seedLanguages[i%len(seedLanguages)]
		country := seedCountries[i%len(seedCountries)]

		visibility := models.VisibilityShow
		if i%8 == 7 {
			visibility = models.VisibilityHidden
		}

		movie := models.Movie{
			Name:  title,
			Genre: genre,
			Description: strings.TrimSpace(fmt.Sprintf(
				"%s is a %s feature following an ensemble cast through an unexpected turn of events; "+
					"this mock synopsis pads the document to a realistic catalog length for demos and tests.",
				title, strings.ToLower(genre))),
			DownloadURL:     fmt.Sprintf("https://media.example.com/movies/%03d/download", i),
			WatchURL:        fmt.Sprintf("https://media.example.com/movies/%03d/watch", i),
			ThumbnailImage:  fmt.Sprintf("https://media.example.com/movies/%03d/thumb.jpg", i),
			Views:           int64((n - i) * 10),
			DownloadCount:   int64((n - i) * 3),
			DisplayLanguage: lang,
			Country:         country,
			IsInterpreted:   i%3 == 0,
			Visibility:      visibility,
		}
		if movie.IsInterpreted {
			movie.Interpreter = "Studio " + seedTitles[(i+5)%len(seedTitles)]
		}

		if err := s.Put(ctx, &movie); err != nil {
			return fmt.Errorf("seed movie %d: %w", i, err)
		}
	}

	return nil
}
