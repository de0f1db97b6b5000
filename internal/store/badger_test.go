// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/kinocat/kinocat/internal/models"
)

// newTestStore opens an in-memory store with a fixed sampling seed.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(Options{InMemory: true, Seed: 42})
	if err != nil {
		t.Fatalf("failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})
	return st
}

func putMovies(t *testing.T, st *Store, n int) []models.Movie {
	t.Helper()
	movies := make([]models.Movie, n)
	for i := 0; i < n; i++ {
		m := models.Movie{
			Name:  fmt.Sprintf("Movie %02d", i),
			Genre: "Drama",
			Views: int64((n - i) * 10),
		}
		if err := st.Put(context.Background(), &m); err != nil {
			t.Fatalf("put movie %d: %v", i, err)
		}
		movies[i] = m
	}
	return movies
}

func TestPutAssignsIdentityAndTimestamps(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	m := models.Movie{Name: "Solaris", Genre: "Sci-Fi"}
	if err := st.Put(context.Background(), &m); err != nil {
		t.Fatalf("put: %v", err)
	}

	if m.ID == uuid.Nil {
		t.Error("Put should assign an id")
	}
	if m.CreatedAt.IsZero() || m.UpdatedAt.IsZero() {
		t.Error("Put should set timestamps")
	}
	if m.Visibility != models.VisibilityShow {
		t.Errorf("default visibility = %q, want %q", m.Visibility, models.VisibilityShow)
	}
}

func TestPutUpdateKeepsCreatedAt(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	m := models.Movie{Name: "Stalker", Genre: "Sci-Fi"}
	if err := st.Put(context.Background(), &m); err != nil {
		t.Fatalf("put: %v", err)
	}
	created := m.CreatedAt

	m.Name = "Stalker (restored)"
	if err := st.Put(context.Background(), &m); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := st.GetByID(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Stalker (restored)" {
		t.Errorf("name = %q after update", got.Name)
	}
	if !got.CreatedAt.Equal(created) {
		t.Error("update must not change CreatedAt")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	_, err := st.GetByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("error = %v, want ErrMovieNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	movies := putMovies(t, st, 3)

	if err := st.Delete(context.Background(), movies[0].ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := st.GetByID(context.Background(), movies[0].ID); !errors.Is(err, ErrMovieNotFound) {
		t.Errorf("deleted movie still found, err = %v", err)
	}

	// Deleting an absent id is a no-op.
	if err := st.Delete(context.Background(), uuid.New()); err != nil {
		t.Errorf("delete of absent id returned %v", err)
	}

	count, err := st.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestCountWithPredicate(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 10)

	count, err := st.Count(context.Background(), func(m *models.Movie) bool {
		return m.Views >= 60
	})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 5 {
		t.Errorf("count = %d, want 5", count)
	}
}

func TestSampleSizeAndUniqueness(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 40)

	items, err := st.Sample(context.Background(), nil, 18)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(items) != 18 {
		t.Fatalf("sample size = %d, want 18", len(items))
	}

	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, m := range items {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("sample contains %s twice", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
}

func TestSampleFewerThanRequested(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 5)

	items, err := st.Sample(context.Background(), nil, 12)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(items) != 5 {
		t.Errorf("sample size = %d, want all 5", len(items))
	}
}

func TestSampleEmptyAndZero(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	items, err := st.Sample(context.Background(), nil, 12)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if items == nil || len(items) != 0 {
		t.Errorf("empty store sample = %v, want empty slice", items)
	}

	putMovies(t, st, 3)
	items, err = st.Sample(context.Background(), nil, 0)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("n=0 sample returned %d items", len(items))
	}
}

func TestSampleHonorsPredicate(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 10)

	horror := models.Movie{Name: "The Shining", Genre: "Horror"}
	if err := st.Put(context.Background(), &horror); err != nil {
		t.Fatalf("put: %v", err)
	}

	items, err := st.Sample(context.Background(), func(m *models.Movie) bool {
		return m.Genre == "Horror"
	}, 12)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(items) != 1 || items[0].ID != horror.ID {
		t.Errorf("predicate sample = %v, want just the horror movie", items)
	}
}

func TestSortedPageOrder(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 15)

	items, err := st.SortedPage(context.Background(), nil, SortKeyViews, true, 10)
	if err != nil {
		t.Fatalf("sorted page: %v", err)
	}
	if len(items) != 10 {
		t.Fatalf("page size = %d, want 10", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Views > items[i-1].Views {
			t.Errorf("page out of order at %d", i)
		}
	}
	if items[0].Views != 150 {
		t.Errorf("top views = %d, want 150", items[0].Views)
	}
}

// Equal view counts must order deterministically so repeated popularity
// requests return identical pages.
func TestSortedPageDeterministicTieBreak(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	for i := 0; i < 8; i++ {
		m := models.Movie{Name: fmt.Sprintf("Tie %d", i), Genre: "Drama", Views: 100}
		if err := st.Put(context.Background(), &m); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	first, err := st.SortedPage(context.Background(), nil, SortKeyViews, true, 8)
	if err != nil {
		t.Fatalf("sorted page: %v", err)
	}
	second, err := st.SortedPage(context.Background(), nil, SortKeyViews, true, 8)
	if err != nil {
		t.Fatalf("sorted page: %v", err)
	}

	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("tie-break not deterministic at position %d", i)
		}
	}
}

func TestSortedPageUnsupportedKey(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	if _, err := st.SortedPage(context.Background(), nil, SortKey("title"), true, 5); err == nil {
		t.Error("unsupported sort key should error")
	}
}

func TestGenreCounts(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	for _, g := range []string{"Horror", "horror", " HORROR ", "Comedy", "Comedy", "Drama"} {
		m := models.Movie{Name: "M", Genre: g}
		if err := st.Put(context.Background(), &m); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	counts, err := st.GenreCounts(context.Background())
	if err != nil {
		t.Fatalf("genre counts: %v", err)
	}
	if len(counts) != 3 {
		t.Fatalf("got %d genres, want 3: %v", len(counts), counts)
	}
	if counts[0].Genre != "Horror" || counts[0].Total != 3 {
		t.Errorf("top genre = %+v, want Horror with 3 (first-seen casing)", counts[0])
	}
	if counts[1].Genre != "Comedy" || counts[1].Total != 2 {
		t.Errorf("second genre = %+v, want Comedy with 2", counts[1])
	}
}

func TestTotalCounters(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 4)

	totals, err := st.TotalCounters(context.Background())
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if totals.Movies != 4 {
		t.Errorf("movies = %d, want 4", totals.Movies)
	}
	// Views are 40+30+20+10.
	if totals.Views != 100 {
		t.Errorf("views = %d, want 100", totals.Views)
	}
}

func TestScanContextCancellation(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	putMovies(t, st, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := st.All(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestSeedMockData(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)

	if err := st.SeedMockData(context.Background(), 24); err != nil {
		t.Fatalf("seed: %v", err)
	}

	count, err := st.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 24 {
		t.Errorf("seeded count = %d, want 24", count)
	}

	hidden, err := st.Count(context.Background(), func(m *models.Movie) bool {
		return !m.Visible()
	})
	if err != nil {
		t.Fatalf("count hidden: %v", err)
	}
	if hidden == 0 {
		t.Error("mock catalog should include some hidden movies")
	}

	genres, err := st.GenreCounts(context.Background())
	if err != nil {
		t.Fatalf("genre counts: %v", err)
	}
	if len(genres) < 2 {
		t.Errorf("mock catalog has %d genres, want several", len(genres))
	}
}
