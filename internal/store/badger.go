// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package store

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kinocat/kinocat/internal/logging"
	"github.com/kinocat/kinocat/internal/metrics"
	"github.com/kinocat/kinocat/internal/models"
)

// Store is a BadgerDB-backed movie document store.
//
// All methods are safe for concurrent use. Reads run inside Badger View
// transactions against a consistent snapshot; concurrent writes from the
// admin surface never tear a feed read.
type Store struct {
	db *badger.DB

	// rngMu guards rng; math/rand.Rand is not safe for concurrent use.
	rngMu sync.Mutex
	rng   *rand.Rand

	gcInterval time.Duration
}

// Open opens (or creates) the store described by opts.
func Open(opts Options) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	}
	// Badger's default logger writes unstructured lines to stderr; route it
	// through zerolog instead.
	badgerOpts = badgerOpts.WithLogger(badgerLogger{})

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gcInterval := opts.GCInterval
	if gcInterval <= 0 {
		gcInterval = 10 * time.Minute
	}

	return &Store{
		db:         db,
		rng:        rand.New(rand.NewSource(seed)),
		gcInterval: gcInterval,
	}, nil
}

// Close flushes and closes the underlying BadgerDB.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put inserts or updates a movie. A zero ID is assigned on insert;
// timestamps are maintained here so callers never set them.
func (s *Store) Put(ctx context.Context, m *models.Movie) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
		m.CreatedAt = now
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
	if m.Visibility == "" {
		m.Visibility = models.VisibilityShow
	}

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal movie: %w", err)
	}

	start := time.Now()
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(movieKey(m.ID), data)
	})
	metrics.ObserveStoreOp("put", time.Since(start))
	if err != nil {
		return fmt.Errorf("put movie: %w", err)
	}
	return nil
}

// GetByID retrieves a movie by id. Returns ErrMovieNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Movie, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var movie models.Movie
	start := time.Now()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(movieKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrMovieNotFound
		}
		if err != nil {
			return fmt.Errorf("get movie: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &movie)
		})
	})
	metrics.ObserveStoreOp("get", time.Since(start))
	if err != nil {
		return nil, err
	}
	return &movie, nil
}

// Delete removes a movie by id. Deleting an absent id is a no-op.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(movieKey(id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete movie: %w", err)
		}
		return nil
	})
	metrics.ObserveStoreOp("delete", time.Since(start))
	return err
}

// Count returns the number of movies matching pred.
func (s *Store) Count(ctx context.Context, pred Predicate) (int, error) {
	count := 0
	start := time.Now()
	err := s.scan(ctx, pred, func(_ *models.Movie) error {
		count++
		return nil
	})
	metrics.ObserveStoreOp("count", time.Since(start))
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Sample draws a uniform without-replacement sample of up to n movies
// matching pred, in randomized order. When fewer than n movies match, all
// of them are returned. The draw uses reservoir sampling over a single
// filtered scan, so the full matching set is never held in memory.
func (s *Store) Sample(ctx context.Context, pred Predicate, n int) ([]models.Movie, error) {
	if n <= 0 {
		return []models.Movie{}, nil
	}

	reservoir := make([]models.Movie, 0, n)
	seen := 0

	start := time.Now()
	err := s.scan(ctx, pred, func(m *models.Movie) error {
		seen++
		if len(reservoir) < n {
			reservoir = append(reservoir, *m)
			return nil
		}
		if j := s.randIntN(seen); j < n {
			reservoir[j] = *m
		}
		return nil
	})
	metrics.ObserveStoreOp("sample", time.Since(start))
	if err != nil {
		return nil, err
	}

	// The reservoir is uniform as a set but biased in order; shuffle so the
	// returned sequence carries no positional signal.
	s.shuffle(reservoir)
	return reservoir, nil
}

// SortedPage returns the first n movies matching pred, ordered by key.
// Ties break on id so two identical calls return identical order.
func (s *Store) SortedPage(ctx context.Context, pred Predicate, key SortKey, desc bool, n int) ([]models.Movie, error) {
	if key != SortKeyViews {
		return nil, fmt.Errorf("unsupported sort key %q", key)
	}
	if n <= 0 {
		return []models.Movie{}, nil
	}

	var matched []models.Movie
	start := time.Now()
	err := s.scan(ctx, pred, func(m *models.Movie) error {
		matched = append(matched, *m)
		return nil
	})
	metrics.ObserveStoreOp("sorted_page", time.Since(start))
	if err != nil {
		return nil, err
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Views != matched[j].Views {
			if desc {
				return matched[i].Views > matched[j].Views
			}
			return matched[i].Views < matched[j].Views
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	if len(matched) > n {
		matched = matched[:n]
	}
	if matched == nil {
		matched = []models.Movie{}
	}
	return matched, nil
}

// All returns every movie matching pred. Used by the suggestion service and
// catalog statistics; feed paths use Sample/SortedPage instead.
func (s *Store) All(ctx context.Context, pred Predicate) ([]models.Movie, error) {
	var movies []models.Movie
	start := time.Now()
	err := s.scan(ctx, pred, func(m *models.Movie) error {
		movies = append(movies, *m)
		return nil
	})
	metrics.ObserveStoreOp("all", time.Since(start))
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []models.Movie{}
	}
	return movies, nil
}

// GenreCounts aggregates movie totals per genre, keyed case-insensitively
// on the trimmed genre label. The first-seen casing is reported.
func (s *Store) GenreCounts(ctx context.Context) ([]GenreCount, error) {
	type bucket struct {
		label string
		total int
	}
	buckets := make(map[string]*bucket)

	start := time.Now()
	err := s.scan(ctx, nil, func(m *models.Movie) error {
		label := normalizeGenre(m.Genre)
		key := foldGenre(label)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: label}
			buckets[key] = b
		}
		b.total++
		return nil
	})
	metrics.ObserveStoreOp("genre_counts", time.Since(start))
	if err != nil {
		return nil, err
	}

	counts := make([]GenreCount, 0, len(buckets))
	for _, b := range buckets {
		counts = append(counts, GenreCount{Genre: b.label, Total: b.total})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Total != counts[j].Total {
			return counts[i].Total > counts[j].Total
		}
		return counts[i].Genre < counts[j].Genre
	})
	return counts, nil
}

// TotalCounters aggregates catalog-wide movie, view and download totals.
func (s *Store) TotalCounters(ctx context.Context) (Totals, error) {
	var totals Totals
	start := time.Now()
	err := s.scan(ctx, nil, func(m *models.Movie) error {
		totals.Movies++
		totals.Views += m.Views
		totals.Downloads += m.DownloadCount
		return nil
	})
	metrics.ObserveStoreOp("totals", time.Since(start))
	if err != nil {
		return Totals{}, err
	}
	return totals, nil
}

// RunGC runs Badger value-log garbage collection until ctx is canceled.
// Intended to run as a supervised service.
func (s *Store) RunGC(ctx context.Context) error {
	ticker := time.NewTicker(s.gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			// Rerun until a cycle reclaims nothing, per Badger docs.
			for {
				err := s.db.RunValueLogGC(0.5)
				if err != nil {
					if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrRejected) {
						logging.Warn().Err(err).Msg("Badger value log GC failed")
					}
					break
				}
			}
		}
	}
}

// scan iterates all movie documents, invoking fn for each movie matching
// pred. Cancellation is checked per iteration; the iteration runs inside a
// single View transaction so callers observe a consistent snapshot.
func (s *Store) scan(ctx context.Context, pred Predicate, fn func(*models.Movie) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrStoreClosed
	}

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(movieKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var movie models.Movie
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &movie)
			})
			if err != nil {
				// A single corrupt document must not poison every feed.
				logging.Warn().Err(err).Str("key", string(it.Item().Key())).Msg("Skipping undecodable movie document")
				continue
			}

			if pred != nil && !pred(&movie) {
				continue
			}
			if err := fn(&movie); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) randIntN(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

func (s *Store) shuffle(movies []models.Movie) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(movies), func(i, j int) {
		movies[i], movies[j] = movies[j], movies[i]
	})
}

func movieKey(id uuid.UUID) []byte {
	return []byte(movieKeyPrefix + id.String())
}

// badgerLogger adapts Badger's logger interface onto zerolog.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Error().Msgf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.Debug().Msgf("badger: "+format, args...)
}
