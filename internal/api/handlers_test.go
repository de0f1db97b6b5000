// Kinocat - Movie Catalog Feed Service
// Copyright 2026 Kinocat Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kinocat/kinocat

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kinocat/kinocat/internal/config"
	"github.com/kinocat/kinocat/internal/models"
	"github.com/kinocat/kinocat/internal/store"
	"github.com/kinocat/kinocat/internal/suggest"
)

// feedEnvelope mirrors the feed response body.
type feedEnvelope struct {
	Success bool           `json:"success"`
	Items   []models.Movie `json:"items"`
	Count   int            `json:"count"`
}

// errorEnvelope mirrors the error response body.
type errorEnvelope struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func testConfig() config.APIConfig {
	return config.APIConfig{
		InitialBatchSize:  18,
		NextBatchSize:     12,
		SuggestLimit:      5,
		RateLimitReqs:     1000,
		RateLimitWindow:   time.Minute,
		RateLimitDisabled: true,
		CORSOrigins:       []string{"*"},
	}
}

// newTestServer builds a router over a fresh in-memory store.
func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()

	st, err := store.Open(store.Options{InMemory: true, Seed: 7})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := testConfig()
	handler := NewHandler(st, suggest.NewService(st, cfg.SuggestLimit), cfg)
	srv := httptest.NewServer(NewRouter(handler, cfg))
	t.Cleanup(srv.Close)

	return srv, st
}

func putMovie(t *testing.T, st *store.Store, m models.Movie) models.Movie {
	t.Helper()
	if err := st.Put(context.Background(), &m); err != nil {
		t.Fatalf("put %q: %v", m.Name, err)
	}
	return m
}

func putCatalog(t *testing.T, st *store.Store, n int) []models.Movie {
	t.Helper()
	movies := make([]models.Movie, n)
	for i := 0; i < n; i++ {
		movies[i] = putMovie(t, st, models.Movie{
			Name:  fmt.Sprintf("Catalog Movie %02d", i),
			Genre: "Drama",
			Views: int64((n - i) * 10),
		})
	}
	return movies
}

func getJSON(t *testing.T, url string, into interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode GET %s: %v", url, err)
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url string, body interface{}, into interface{}) int {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
		t.Fatalf("decode POST %s: %v", url, err)
	}
	return resp.StatusCode
}

func ids(movies []models.Movie) []string {
	out := make([]string, len(movies))
	for i, m := range movies {
		out[i] = m.ID.String()
	}
	return out
}

func TestInitialFeed(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 40)

	var env feedEnvelope
	status := getJSON(t, srv.URL+"/api/v1/feed", &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if !env.Success {
		t.Error("success should be true")
	}
	if len(env.Items) != 18 {
		t.Errorf("initial batch = %d items, want 18", len(env.Items))
	}
	if env.Count != len(env.Items) {
		t.Errorf("count = %d, items = %d", env.Count, len(env.Items))
	}

	seen := make(map[uuid.UUID]struct{})
	for _, m := range env.Items {
		if _, dup := seen[m.ID]; dup {
			t.Fatalf("batch contains %s twice", m.ID)
		}
		seen[m.ID] = struct{}{}
	}
}

func TestNextFeedExcludesSeen(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	movies := putCatalog(t, st, 30)

	seen := ids(movies[:20])
	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/next", map[string]interface{}{"excluded_ids": seen}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 10 {
		t.Errorf("batch = %d items, want the 10 unseen", len(env.Items))
	}
	excluded := make(map[string]struct{}, len(seen))
	for _, id := range seen {
		excluded[id] = struct{}{}
	}
	for _, m := range env.Items {
		if _, bad := excluded[m.ID.String()]; bad {
			t.Errorf("excluded movie %s came back", m.ID)
		}
	}
}

// An exhausted feed returns success with an empty items array, not null and
// not an error.
func TestNextFeedExhausted(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	movies := putCatalog(t, st, 5)

	payload, _ := json.Marshal(map[string]interface{}{"excluded_ids": ids(movies)})
	resp, err := http.Post(srv.URL+"/api/v1/feed/next", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	raw := buf.String()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", resp.StatusCode, raw)
	}
	if !strings.Contains(raw, `"items":[]`) {
		t.Errorf("exhausted feed body should carry an empty items array, got %s", raw)
	}

	var env feedEnvelope
	if err := json.Unmarshal(buf.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Success || env.Count != 0 {
		t.Errorf("exhausted feed envelope = %+v", env)
	}
}

// A non-array excluded_ids is a malformed request, not a tolerable token
// problem.
func TestNextFeedRejectsNonArrayExcludedIDs(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 5)

	var env errorEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/next", map[string]interface{}{"excluded_ids": "abc"}, &env)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	if env.Success {
		t.Error("success should be false")
	}
	if env.Code != ErrCodeInvalidArgument {
		t.Errorf("code = %q, want %q", env.Code, ErrCodeInvalidArgument)
	}
	if !strings.Contains(env.Error, "excluded_ids") {
		t.Errorf("error message should name the field, got %q", env.Error)
	}
}

// Malformed tokens inside the array are dropped, the batch still serves.
func TestNextFeedDropsMalformedTokens(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	movies := putCatalog(t, st, 10)

	body := map[string]interface{}{
		"excluded_ids": []string{movies[0].ID.String(), "not-a-uuid", ""},
	}
	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/next", body, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 9 {
		t.Errorf("batch = %d items, want 9 (one valid exclusion applied)", len(env.Items))
	}
	for _, m := range env.Items {
		if m.ID == movies[0].ID {
			t.Error("valid exclusion ignored")
		}
	}
}

func TestPopularFeedRankedAndPaged(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 30)

	var first feedEnvelope
	if status := getJSON(t, srv.URL+"/api/v1/feed/popular", &first); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(first.Items) != 18 {
		t.Fatalf("popular batch = %d, want 18", len(first.Items))
	}
	for i := 1; i < len(first.Items); i++ {
		if first.Items[i].Views > first.Items[i-1].Views {
			t.Errorf("popular feed out of order at %d", i)
		}
	}

	var second feedEnvelope
	body := map[string]interface{}{"excluded_ids": ids(first.Items)}
	if status := postJSON(t, srv.URL+"/api/v1/feed/popular/next", body, &second); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(second.Items) != 12 {
		t.Fatalf("second popular batch = %d, want 12", len(second.Items))
	}
	// The follow-up window ranks strictly below the excluded first window.
	if second.Items[0].Views > first.Items[len(first.Items)-1].Views {
		t.Error("popular follow-up window overlaps the first")
	}
}

func TestGenreFeed(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)

	a := putMovie(t, st, models.Movie{Name: "Alpha Strike", Genre: "Action", Views: 30})
	b := putMovie(t, st, models.Movie{Name: "Blast Radius", Genre: "action", Views: 20})
	putMovie(t, st, models.Movie{Name: "Chuckles", Genre: "Comedy", Views: 10})

	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/genre", map[string]interface{}{"genre": "Action"}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 2 {
		t.Fatalf("genre batch = %d items, want 2", len(env.Items))
	}

	// Second request excluding both action movies exhausts the feed.
	body := map[string]interface{}{
		"genre":        "Action",
		"excluded_ids": []string{a.ID.String(), b.ID.String()},
	}
	var exhausted feedEnvelope
	if status := postJSON(t, srv.URL+"/api/v1/feed/genre", body, &exhausted); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(exhausted.Items) != 0 || !exhausted.Success {
		t.Errorf("exhausted genre feed = %+v", exhausted)
	}
}

// The genre surface doubles as an entry point for the browse and popularity
// feeds through the "all" and "popular" sentinels.
func TestGenreFeedSentinels(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 25)

	var all feedEnvelope
	if status := postJSON(t, srv.URL+"/api/v1/feed/genre", map[string]interface{}{"genre": "all"}, &all); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(all.Items) != 18 {
		t.Errorf("all sentinel batch = %d, want 18", len(all.Items))
	}

	var popular feedEnvelope
	if status := postJSON(t, srv.URL+"/api/v1/feed/genre", map[string]interface{}{"genre": "popular"}, &popular); status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	for i := 1; i < len(popular.Items); i++ {
		if popular.Items[i].Views > popular.Items[i-1].Views {
			t.Errorf("popular sentinel feed out of order at %d", i)
		}
	}
}

func TestGenreFeedUnknownGenreIsEmpty(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 5)

	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/genre", map[string]interface{}{"genre": "Telenovela"}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 0 || !env.Success {
		t.Errorf("unknown genre should yield an empty success batch, got %+v", env)
	}
}

func TestSearchFeed(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)

	match := putMovie(t, st, models.Movie{Name: "The Commitments", Genre: "Drama"})
	putMovie(t, st, models.Movie{Name: "Heat", Genre: "Crime"})

	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/search", map[string]interface{}{"term": "com"}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 1 || env.Items[0].ID != match.ID {
		t.Errorf("search batch = %+v, want just %q", env.Items, match.Name)
	}
}

func TestSearchFeedEmptyTerm(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 3)

	for _, term := range []string{"", "   "} {
		var env errorEnvelope
		status := postJSON(t, srv.URL+"/api/v1/feed/search", map[string]interface{}{"term": term}, &env)
		if status != http.StatusBadRequest {
			t.Errorf("term %q: status = %d, want 400", term, status)
		}
		if env.Code != ErrCodeInvalidArgument {
			t.Errorf("term %q: code = %q, want %q", term, env.Code, ErrCodeInvalidArgument)
		}
	}
}

func TestSearchFeedMetacharsLiteral(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 10)

	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/search", map[string]interface{}{"term": ".*"}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 0 {
		t.Errorf("wildcard-looking term matched %d movies, want 0", len(env.Items))
	}
}

func TestRelatedFeed(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)

	anchor := putMovie(t, st, models.Movie{Name: "Alien", Genre: "Sci-Fi"})
	sibling := putMovie(t, st, models.Movie{Name: "Aliens", Genre: "Sci-Fi"})
	putMovie(t, st, models.Movie{Name: "Casablanca", Genre: "Romance"})

	var env feedEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/related", map[string]interface{}{"movie_id": anchor.ID.String()}, &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Items) != 1 || env.Items[0].ID != sibling.ID {
		t.Errorf("related batch = %+v, want just %q", env.Items, sibling.Name)
	}
}

func TestRelatedFeedMissingAnchor(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 3)

	var env errorEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/related", map[string]interface{}{"movie_id": uuid.NewString()}, &env)
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if env.Code != ErrCodeNotFound {
		t.Errorf("code = %q, want %q", env.Code, ErrCodeNotFound)
	}
}

func TestRelatedFeedInvalidAnchorID(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	putCatalog(t, st, 3)

	var env errorEnvelope
	status := postJSON(t, srv.URL+"/api/v1/feed/related", map[string]interface{}{"movie_id": "nope"}, &env)
	if status != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
}

func TestGetMovie(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)
	m := putMovie(t, st, models.Movie{Name: "Solaris", Genre: "Sci-Fi"})

	var env struct {
		Success bool         `json:"success"`
		Data    models.Movie `json:"data"`
	}
	status := getJSON(t, srv.URL+"/api/v1/movies/"+m.ID.String(), &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if env.Data.ID != m.ID || env.Data.Name != "Solaris" {
		t.Errorf("movie = %+v", env.Data)
	}

	var notFound errorEnvelope
	if status := getJSON(t, srv.URL+"/api/v1/movies/"+uuid.NewString(), &notFound); status != http.StatusNotFound {
		t.Errorf("missing movie status = %d, want 404", status)
	}

	var bad errorEnvelope
	if status := getJSON(t, srv.URL+"/api/v1/movies/abc", &bad); status != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", status)
	}
}

func TestSuggestHidesHiddenMovies(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)

	putMovie(t, st, models.Movie{Name: "Midnight Run", Genre: "Action"})
	putMovie(t, st, models.Movie{Name: "Midnight Express", Genre: "Drama", Visibility: models.VisibilityHidden})

	var env struct {
		Success bool `json:"success"`
		Data    []struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	status := getJSON(t, srv.URL+"/api/v1/movies/suggest?q=midnight", &env)
	if status != http.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	if len(env.Data) != 1 || env.Data[0].Name != "Midnight Run" {
		t.Errorf("suggestions = %+v, want only the visible movie", env.Data)
	}
}

func TestGenresAndStats(t *testing.T) {
	t.Parallel()
	srv, st := newTestServer(t)

	putMovie(t, st, models.Movie{Name: "A", Genre: "Horror", Views: 5, DownloadCount: 2})
	putMovie(t, st, models.Movie{Name: "B", Genre: "Horror", Views: 3, DownloadCount: 1})
	putMovie(t, st, models.Movie{Name: "C", Genre: "Comedy", Views: 1})

	var genres struct {
		Success bool               `json:"success"`
		Data    []store.GenreCount `json:"data"`
	}
	if status := getJSON(t, srv.URL+"/api/v1/genres", &genres); status != http.StatusOK {
		t.Fatalf("genres status = %d", status)
	}
	if len(genres.Data) != 2 || genres.Data[0].Genre != "Horror" || genres.Data[0].Total != 2 {
		t.Errorf("genres = %+v", genres.Data)
	}

	var stats struct {
		Success bool         `json:"success"`
		Data    CatalogStats `json:"data"`
	}
	if status := getJSON(t, srv.URL+"/api/v1/stats", &stats); status != http.StatusOK {
		t.Fatalf("stats status = %d", status)
	}
	if stats.Data.Movies != 3 || stats.Data.Genres != 2 || stats.Data.Views != 9 || stats.Data.Downloads != 3 {
		t.Errorf("stats = %+v", stats.Data)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv, _ := newTestServer(t)

	var env struct {
		Success bool `json:"success"`
	}
	if status := getJSON(t, srv.URL+"/healthz", &env); status != http.StatusOK || !env.Success {
		t.Errorf("healthz status = %d, success = %v", status, env.Success)
	}
}
