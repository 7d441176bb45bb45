// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinegraph/internal/config"
	"github.com/tomtom215/cinegraph/internal/logging"
	"github.com/tomtom215/cinegraph/internal/memstore"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/recommend"
	"github.com/tomtom215/cinegraph/internal/social"
)

//nolint:gochecknoinits // quiet test output
func init() {
	logging.Init(logging.Config{Level: "error", Format: "json", Output: io.Discard})
}

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *models.APIError
}

type testAPI struct {
	t      *testing.T
	server http.Handler
	engine *social.Engine
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := memstore.New()
	engine := social.NewEngine(store)
	ranker := recommend.NewRanker(store, nil)
	engine.Likes.OnChange(ranker.Invalidate)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverMemory},
		Ranking:  config.RankingConfig{DefaultCount: 10},
	}
	h, err := NewHandler(Deps{
		Engine:      engine,
		Recommender: recommend.NewRecommender(store),
		Ranker:      ranker,
		Config:      cfg,
	})
	if err != nil {
		t.Fatalf("NewHandler: %v", err)
	}
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	return &testAPI{t: t, server: NewRouter(h, mw).SetupChi(), engine: engine}
}

// do sends a request and decodes the envelope. into may be nil.
func (a *testAPI) do(method, path string, body interface{}, wantStatus int, into interface{}) *envelope {
	a.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			a.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)

	if rec.Code != wantStatus {
		a.t.Fatalf("%s %s = %d, want %d: %s", method, path, rec.Code, wantStatus, rec.Body.String())
	}
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		a.t.Fatalf("%s %s: decode envelope: %v: %s", method, path, err, rec.Body.String())
	}
	if into != nil {
		if err := json.Unmarshal(env.Data, into); err != nil {
			a.t.Fatalf("%s %s: decode data: %v: %s", method, path, err, env.Data)
		}
	}
	return &env
}

func (a *testAPI) createUser(login string) int64 {
	a.t.Helper()
	var u models.User
	a.do(http.MethodPost, "/users", map[string]interface{}{
		"email":    login + "@example.com",
		"login":    login,
		"birthday": "1990-04-01",
	}, http.StatusCreated, &u)
	return u.ID
}

func (a *testAPI) createFilm(name string, genreIDs ...int64) int64 {
	a.t.Helper()
	genres := make([]map[string]int64, 0, len(genreIDs))
	for _, id := range genreIDs {
		genres = append(genres, map[string]int64{"id": id})
	}
	var f models.Film
	a.do(http.MethodPost, "/films", map[string]interface{}{
		"name":        name,
		"description": name + " is a film",
		"releaseDate": "1995-12-15",
		"duration":    120,
		"mpa":         map[string]int64{"id": 1},
		"genres":      genres,
	}, http.StatusCreated, &f)
	return f.ID
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

func TestNewHandler_RequiresDeps(t *testing.T) {
	t.Parallel()
	if _, err := NewHandler(Deps{}); err == nil {
		t.Error("NewHandler accepted empty deps")
	}
}

func TestUsers_CRUD(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	uid := a.createUser("ann")

	var got models.User
	a.do(http.MethodGet, "/users/"+id(uid), nil, http.StatusOK, &got)
	if got.Login != "ann" || got.Name != "ann" {
		t.Errorf("user = %+v, want name defaulted to login", got)
	}

	a.do(http.MethodPut, "/users", map[string]interface{}{
		"id": uid, "email": "ann@example.org", "login": "ann", "name": "Ann",
	}, http.StatusOK, &got)
	if got.Name != "Ann" || got.Email != "ann@example.org" {
		t.Errorf("updated user = %+v", got)
	}

	var all []models.User
	a.do(http.MethodGet, "/users", nil, http.StatusOK, &all)
	if len(all) != 1 {
		t.Errorf("listed %d users, want 1", len(all))
	}

	a.do(http.MethodDelete, "/users/"+id(uid), nil, http.StatusOK, nil)
	env := a.do(http.MethodGet, "/users/"+id(uid), nil, http.StatusNotFound, nil)
	if env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestUsers_Validation(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"bad email", map[string]interface{}{"email": "nope", "login": "x"}},
		{"login with space", map[string]interface{}{"email": "a@b.c", "login": "a b"}},
		{"future birthday", map[string]interface{}{"email": "a@b.c", "login": "ab", "birthday": "2999-01-01"}},
	}
	for _, tt := range tests {
		env := a.do(http.MethodPost, "/users", tt.body, http.StatusBadRequest, nil)
		if env.Status != "error" || env.Error == nil || env.Error.Code != CodeValidation {
			t.Errorf("%s: envelope = %+v", tt.name, env)
		}
	}

	a.do(http.MethodPut, "/users", map[string]interface{}{"email": "a@b.c", "login": "ab"}, http.StatusBadRequest, nil)
}

func TestFilms_CRUDAndErrors(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	fid := a.createFilm("Heat", 4)
	var f models.Film
	a.do(http.MethodGet, "/films/"+id(fid), nil, http.StatusOK, &f)
	if f.Title != "Heat" || f.MPA == nil || f.MPA.Name != "G" || len(f.Genres) != 1 || f.Genres[0].ID != 4 {
		t.Errorf("film = %+v", f)
	}

	a.do(http.MethodPut, "/films", map[string]interface{}{
		"id": fid, "name": "Heat (1995)", "releaseDate": "1995-12-15", "duration": 170,
	}, http.StatusOK, &f)
	if f.Title != "Heat (1995)" || f.Duration != 170 {
		t.Errorf("updated film = %+v", f)
	}

	a.do(http.MethodGet, "/films/999", nil, http.StatusNotFound, nil)
	a.do(http.MethodGet, "/films/abc", nil, http.StatusBadRequest, nil)
	a.do(http.MethodPost, "/films", map[string]interface{}{
		"name": "Too early", "releaseDate": "1800-01-01", "duration": 10,
	}, http.StatusBadRequest, nil)
	a.do(http.MethodPost, "/films", map[string]interface{}{
		"name": "Bad genre", "releaseDate": "2000-01-01", "duration": 10, "genres": []map[string]int{{"id": 99}},
	}, http.StatusNotFound, nil)

	a.do(http.MethodDelete, "/films/"+id(fid), nil, http.StatusOK, nil)
	a.do(http.MethodDelete, "/films/"+id(fid), nil, http.StatusNotFound, nil)
}

func TestFilms_LikesAndPopular(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	u1, u2 := a.createUser("u1"), a.createUser("u2")
	f1, f2, f3 := a.createFilm("Alien", 4), a.createFilm("Brazil", 1), a.createFilm("Casablanca", 2)

	a.do(http.MethodPut, "/films/"+id(f2)+"/like/"+id(u1), nil, http.StatusOK, nil)
	a.do(http.MethodPut, "/films/"+id(f2)+"/like/"+id(u2), nil, http.StatusOK, nil)
	var likeBody struct {
		Likes int `json:"likes"`
	}
	// Liking twice is idempotent.
	a.do(http.MethodPut, "/films/"+id(f3)+"/like/"+id(u1), nil, http.StatusOK, nil)
	a.do(http.MethodPut, "/films/"+id(f3)+"/like/"+id(u1), nil, http.StatusOK, &likeBody)
	if likeBody.Likes != 1 {
		t.Errorf("likes after repeat = %d, want 1", likeBody.Likes)
	}

	var popular []models.Film
	a.do(http.MethodGet, "/films/popular", nil, http.StatusOK, &popular)
	if len(popular) != 3 || popular[0].ID != f2 || popular[1].ID != f3 || popular[2].ID != f1 {
		t.Errorf("popular order = %+v", popular)
	}
	a.do(http.MethodGet, "/films/popular?count=1&genreId=2", nil, http.StatusOK, &popular)
	if len(popular) != 1 || popular[0].ID != f3 {
		t.Errorf("popular drama = %+v", popular)
	}
	a.do(http.MethodGet, "/films/popular?count=0", nil, http.StatusBadRequest, nil)

	var common []models.Film
	a.do(http.MethodGet, "/films/common?userId="+id(u1)+"&friendId="+id(u2), nil, http.StatusOK, &common)
	if len(common) != 1 || common[0].ID != f2 {
		t.Errorf("common films = %+v, want only %d", common, f2)
	}

	a.do(http.MethodDelete, "/films/"+id(f1)+"/like/"+id(u1), nil, http.StatusConflict, nil)
	a.do(http.MethodDelete, "/films/"+id(f2)+"/like/"+id(u2), nil, http.StatusOK, &likeBody)
	if likeBody.Likes != 1 {
		t.Errorf("likes after unlike = %d, want 1", likeBody.Likes)
	}
	a.do(http.MethodPut, "/films/"+id(f1)+"/like/999", nil, http.StatusNotFound, nil)

	a.do(http.MethodGet, "/films/common?userId="+id(u1)+"&friendId="+id(u2), nil, http.StatusOK, &common)
	if len(common) != 0 {
		t.Errorf("common films = %+v, want none", common)
	}
	a.do(http.MethodGet, "/films/common?userId="+id(u1), nil, http.StatusBadRequest, nil)
}

func TestFilms_Search(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)
	a.createFilm("The Thing")
	a.createFilm("Something Wild")
	a.createFilm("Vertigo")

	var found []models.Film
	a.do(http.MethodGet, "/films/search?query=THING", nil, http.StatusOK, &found)
	if len(found) != 2 {
		t.Errorf("title search found %d films, want 2", len(found))
	}
	a.do(http.MethodGet, "/films/search?query=vertigo%20is&by=title,description", nil, http.StatusOK, &found)
	if len(found) != 1 || found[0].Title != "Vertigo" {
		t.Errorf("description search = %+v", found)
	}
	a.do(http.MethodGet, "/films/search?query=x&by=director", nil, http.StatusBadRequest, nil)
	a.do(http.MethodGet, "/films/search?query=%20", nil, http.StatusBadRequest, nil)
}

func TestFriends_FeedAndRecommendations(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	ann, bob, cat := a.createUser("ann"), a.createUser("bob"), a.createUser("cat")

	var res map[string]interface{}
	a.do(http.MethodPut, "/users/"+id(ann)+"/friends/"+id(bob), nil, http.StatusOK, &res)
	if res["changed"] != true || res["status"] != string(models.FriendshipUnconfirmed) {
		t.Errorf("friend request = %v", res)
	}
	a.do(http.MethodPut, "/users/"+id(bob)+"/friends/"+id(ann), nil, http.StatusOK, &res)
	if res["status"] != string(models.FriendshipConfirmed) {
		t.Errorf("reverse request = %v", res)
	}
	a.do(http.MethodPut, "/users/"+id(cat)+"/friends/"+id(bob), nil, http.StatusOK, nil)
	a.do(http.MethodPut, "/users/"+id(ann)+"/friends/"+id(ann), nil, http.StatusBadRequest, nil)

	var friends []models.User
	a.do(http.MethodGet, "/users/"+id(ann)+"/friends", nil, http.StatusOK, &friends)
	if len(friends) != 1 || friends[0].ID != bob {
		t.Errorf("ann's friends = %+v", friends)
	}
	a.do(http.MethodGet, "/users/"+id(ann)+"/friends/common/"+id(cat), nil, http.StatusOK, &friends)
	if len(friends) != 1 || friends[0].ID != bob {
		t.Errorf("common friends = %+v", friends)
	}

	a.do(http.MethodDelete, "/users/"+id(ann)+"/friends/"+id(bob), nil, http.StatusOK, &res)
	if res["changed"] != true {
		t.Errorf("unfriend = %v", res)
	}

	var feed []models.Event
	a.do(http.MethodGet, "/users/"+id(ann)+"/feed", nil, http.StatusOK, &feed)
	if len(feed) != 2 || feed[0].Operation != models.OperationAdd || feed[1].Operation != models.OperationRemove {
		t.Errorf("ann's feed = %+v", feed)
	}

	f1, f2 := a.createFilm("One"), a.createFilm("Two")
	a.do(http.MethodPut, "/films/"+id(f1)+"/like/"+id(ann), nil, http.StatusOK, nil)
	a.do(http.MethodPut, "/films/"+id(f1)+"/like/"+id(bob), nil, http.StatusOK, nil)
	a.do(http.MethodPut, "/films/"+id(f2)+"/like/"+id(bob), nil, http.StatusOK, nil)

	var recs []models.Film
	a.do(http.MethodGet, "/users/"+id(ann)+"/recommendations", nil, http.StatusOK, &recs)
	if len(recs) != 1 || recs[0].ID != f2 {
		t.Errorf("recommendations = %+v", recs)
	}
	a.do(http.MethodGet, "/users/999/recommendations", nil, http.StatusNotFound, nil)
}

func TestReviews_Lifecycle(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	author, reader := a.createUser("author"), a.createUser("reader")
	fid := a.createFilm("Stalker")

	var rv models.Review
	a.do(http.MethodPost, "/reviews", map[string]interface{}{
		"content": "Slow and great", "isPositive": true, "userId": author, "filmId": fid,
	}, http.StatusCreated, &rv)
	if rv.ID == 0 || rv.Useful != 0 {
		t.Fatalf("created review = %+v", rv)
	}
	a.do(http.MethodPost, "/reviews", map[string]interface{}{
		"content": "missing verdict", "userId": author, "filmId": fid,
	}, http.StatusBadRequest, nil)

	a.do(http.MethodPut, "/reviews/"+id(rv.ID)+"/like/"+id(reader), nil, http.StatusOK, &rv)
	if rv.Useful != 1 {
		t.Errorf("useful after like = %d", rv.Useful)
	}
	a.do(http.MethodPut, "/reviews/"+id(rv.ID)+"/dislike/"+id(reader), nil, http.StatusOK, &rv)
	if rv.Useful != -1 {
		t.Errorf("useful after switching to dislike = %d", rv.Useful)
	}
	a.do(http.MethodDelete, "/reviews/"+id(rv.ID)+"/like/"+id(reader), nil, http.StatusConflict, nil)
	a.do(http.MethodDelete, "/reviews/"+id(rv.ID)+"/dislike/"+id(reader), nil, http.StatusOK, &rv)
	if rv.Useful != 0 {
		t.Errorf("useful after removing dislike = %d", rv.Useful)
	}
	a.do(http.MethodPut, "/reviews/"+id(rv.ID)+"/meh/"+id(reader), nil, http.StatusBadRequest, nil)

	a.do(http.MethodPut, "/reviews", map[string]interface{}{
		"reviewId": rv.ID, "content": "Changed my mind", "isPositive": false, "userId": author, "filmId": fid,
	}, http.StatusOK, &rv)
	if rv.Content != "Changed my mind" || rv.IsPositive {
		t.Errorf("updated review = %+v", rv)
	}

	var list []models.Review
	a.do(http.MethodGet, "/reviews?filmId="+id(fid)+"&count=5", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Errorf("listed %d reviews", len(list))
	}
	a.do(http.MethodGet, "/reviews?filmId=999", nil, http.StatusNotFound, nil)

	a.do(http.MethodDelete, "/reviews/"+id(rv.ID), nil, http.StatusOK, nil)
	a.do(http.MethodGet, "/reviews/"+id(rv.ID), nil, http.StatusNotFound, nil)
}

func TestReference_GenresRatingsDirectors(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	var genres []models.Genre
	a.do(http.MethodGet, "/genres", nil, http.StatusOK, &genres)
	if len(genres) != len(models.SeedGenres) {
		t.Errorf("genres = %d, want %d", len(genres), len(models.SeedGenres))
	}
	var rating models.MPA
	a.do(http.MethodGet, "/mpa/1", nil, http.StatusOK, &rating)
	if rating.Name != "G" {
		t.Errorf("mpa 1 = %+v", rating)
	}
	a.do(http.MethodGet, "/mpa/99", nil, http.StatusNotFound, nil)

	var d models.Director
	a.do(http.MethodPost, "/directors", map[string]string{"name": "Tarkovsky"}, http.StatusCreated, &d)
	a.do(http.MethodPut, "/directors", map[string]interface{}{"id": d.ID, "name": "A. Tarkovsky"}, http.StatusOK, &d)
	if d.Name != "A. Tarkovsky" {
		t.Errorf("director = %+v", d)
	}
	a.do(http.MethodPost, "/directors", map[string]string{"name": "  "}, http.StatusBadRequest, nil)
	a.do(http.MethodDelete, "/directors/"+id(d.ID), nil, http.StatusOK, nil)
	a.do(http.MethodGet, "/directors/"+id(d.ID), nil, http.StatusNotFound, nil)
}

func TestHealthAndRouting(t *testing.T) {
	t.Parallel()
	a := newTestAPI(t)

	var status HealthStatus
	a.do(http.MethodGet, "/health", nil, http.StatusOK, &status)
	if status.Status != "healthy" || status.Storage != config.DriverMemory {
		t.Errorf("health = %+v", status)
	}
	a.do(http.MethodGet, "/health/ready", nil, http.StatusOK, nil)
	a.do(http.MethodGet, "/health/live", nil, http.StatusOK, nil)

	env := a.do(http.MethodGet, "/nowhere", nil, http.StatusNotFound, nil)
	if env.Error == nil || env.Error.Code != CodeNotFound {
		t.Errorf("unknown route envelope = %+v", env)
	}

	// Live feed is not offered without a hub.
	a.do(http.MethodGet, "/users/1/feed/ws", nil, http.StatusServiceUnavailable, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	a.server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("response lacks X-Request-ID")
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()
	mw := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute})
	h := mw.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("status codes = %v", codes)
	}
}
