// Cinegraph - Social Film Catalogue and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinegraph

package social_test

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/cinegraph/internal/memstore"
	"github.com/tomtom215/cinegraph/internal/models"
	"github.com/tomtom215/cinegraph/internal/social"
)

type recordingSink struct {
	mu     sync.Mutex
	events []models.Event
	err    error
}

func (r *recordingSink) Publish(_ context.Context, e models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.err
}

type fixture struct {
	store   *memstore.Store
	events  *social.EventLog
	likes   *social.LikeIndex
	friends *social.FriendshipGraph
	reviews *social.Reviews
	catalog *social.Catalog
	sink    *recordingSink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	sink := &recordingSink{}
	var clock atomic.Int64
	clock.Store(1_700_000_000_000)
	events := social.NewEventLog(store, store, sink).WithClock(func() time.Time {
		return time.UnixMilli(clock.Add(1))
	})
	return &fixture{
		store:   store,
		events:  events,
		likes:   social.NewLikeIndex(store, store, events),
		friends: social.NewFriendshipGraph(store, store, events),
		reviews: social.NewReviews(store, store, events),
		catalog: social.NewCatalog(store, store),
		sink:    sink,
	}
}

func (f *fixture) users(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		u, err := f.catalog.CreateUser(context.Background(), models.User{
			Email: fmt.Sprintf("user%d@example.com", i),
			Login: fmt.Sprintf("user%d", i),
		})
		if err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
		ids = append(ids, u.ID)
	}
	return ids
}

func (f *fixture) films(t *testing.T, n int) []int64 {
	t.Helper()
	ids := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		film, err := f.catalog.CreateFilm(context.Background(), models.FilmInput{
			Title:       fmt.Sprintf("Film %d", i),
			ReleaseDate: time.Date(2000+i, 1, 1, 0, 0, 0, 0, time.UTC),
			Duration:    90,
			MPAID:       1,
		})
		if err != nil {
			t.Fatalf("CreateFilm: %v", err)
		}
		ids = append(ids, film.ID)
	}
	return ids
}

func (f *fixture) like(t *testing.T, filmID, userID int64) {
	t.Helper()
	if err := f.likes.Like(context.Background(), filmID, userID); err != nil {
		t.Fatalf("Like(%d, %d): %v", filmID, userID, err)
	}
}

func (f *fixture) unlike(t *testing.T, filmID, userID int64) {
	t.Helper()
	if err := f.likes.Unlike(context.Background(), filmID, userID); err != nil {
		t.Fatalf("Unlike(%d, %d): %v", filmID, userID, err)
	}
}

func (f *fixture) friend(t *testing.T, senderID, receiverID int64) {
	t.Helper()
	if _, err := f.friends.Friend(context.Background(), senderID, receiverID); err != nil {
		t.Fatalf("Friend(%d, %d): %v", senderID, receiverID, err)
	}
}

func (f *fixture) review(t *testing.T, content string, userID, filmID int64) *models.Review {
	t.Helper()
	r, err := f.reviews.Create(context.Background(), models.Review{Content: content, UserID: userID, FilmID: filmID})
	if err != nil {
		t.Fatalf("Create review: %v", err)
	}
	return r
}

func (f *fixture) feed(t *testing.T, userID int64) []models.Event {
	t.Helper()
	events, err := f.events.EventsOf(context.Background(), userID)
	if err != nil {
		t.Fatalf("EventsOf(%d): %v", userID, err)
	}
	return events
}

func (f *fixture) friendsOf(t *testing.T, userID int64) []int64 {
	t.Helper()
	ids, err := f.friends.FriendsOf(context.Background(), userID)
	if err != nil {
		t.Fatalf("FriendsOf(%d): %v", userID, err)
	}
	return ids
}

func (f *fixture) status(t *testing.T, a, b int64) (models.FriendshipStatus, bool) {
	t.Helper()
	st, exists, err := f.friends.Status(context.Background(), a, b)
	if err != nil {
		t.Fatalf("Status(%d, %d): %v", a, b, err)
	}
	return st, exists
}

func TestLikeIndex_Idempotent(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	for i := 0; i < 2; i++ {
		if err := f.likes.Like(ctx, film, u); err != nil {
			t.Fatalf("Like #%d: %v", i+1, err)
		}
	}
	got, err := f.likes.LikesByFilm(ctx, film)
	if err != nil {
		t.Fatalf("LikesByFilm: %v", err)
	}
	if !reflect.DeepEqual(got, []int64{u}) {
		t.Errorf("LikesByFilm = %v, want [%d]", got, u)
	}

	feed := f.feed(t, u)
	if len(feed) != 2 {
		t.Errorf("expected one event per like call, got %d", len(feed))
	}
}

func TestLikeIndex_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"unknown film", func() error { return f.likes.Like(ctx, 999, u) }, social.ErrNotFound},
		{"unknown user", func() error { return f.likes.Like(ctx, film, 999) }, social.ErrNotFound},
		{"unlike without like", func() error { return f.likes.Unlike(ctx, film, u) }, social.ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	var conflict *social.ConflictError
	if err := f.likes.Unlike(ctx, film, u); !errors.As(err, &conflict) || conflict.Reason != social.ReasonNotLiked {
		t.Errorf("expected NotLiked conflict, got %v", err)
	}
}

func TestLikeIndex_OnChange(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	calls := 0
	f.likes.OnChange(func() { calls++ })
	f.like(t, film, u)
	f.unlike(t, film, u)
	if err := f.likes.Unlike(ctx, film, u); !errors.Is(err, social.ErrConflict) {
		t.Fatalf("second Unlike = %v, want conflict", err)
	}

	if calls != 2 {
		t.Errorf("listener called %d times, want 2", calls)
	}
}

func TestEventLog_Ordering(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	f.like(t, film, u)
	f.unlike(t, film, u)
	f.like(t, film, u)

	feed, err := f.events.EventsOf(ctx, u)
	if err != nil {
		t.Fatalf("EventsOf: %v", err)
	}
	want := []models.Operation{models.OperationAdd, models.OperationRemove, models.OperationAdd}
	if len(feed) != len(want) {
		t.Fatalf("got %d events, want %d", len(feed), len(want))
	}
	for i, e := range feed {
		if e.EventType != models.EventLike || e.Operation != want[i] || e.EntityID != film {
			t.Errorf("event %d = %+v, want LIKE/%s on film %d", i, e, want[i], film)
		}
		if i > 0 && !feed[i-1].Before(e) {
			t.Errorf("events %d and %d out of order", i-1, i)
		}
	}
	if len(f.sink.events) != 3 {
		t.Errorf("sink received %d events, want 3", len(f.sink.events))
	}
}

func TestEventLog_SinkFailureDoesNotFailOperation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.sink.err = errors.New("bus down")
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	if err := f.likes.Like(ctx, film, u); err != nil {
		t.Fatalf("Like with failing sink: %v", err)
	}
	if feed := f.feed(t, u); len(feed) != 1 {
		t.Errorf("event not stored, feed = %+v", feed)
	}
}

func TestEventLog_UnknownUser(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	if _, err := f.events.EventsOf(context.Background(), 42); !errors.Is(err, social.ErrNotFound) {
		t.Errorf("EventsOf(unknown) = %v, want not found", err)
	}
}

func TestFriendshipGraph_Symmetry(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 2)
	a, b := ids[0], ids[1]

	ok, err := f.friends.Friend(ctx, a, b)
	if err != nil || !ok {
		t.Fatalf("Friend(a,b) = %v, %v", ok, err)
	}
	if st, _ := f.status(t, a, b); st != models.FriendshipUnconfirmed {
		t.Errorf("after one-way request status = %q, want UNCONFIRMED", st)
	}
	if got := f.friendsOf(t, a); !reflect.DeepEqual(got, []int64{b}) {
		t.Errorf("FriendsOf(a) = %v, want [%d]", got, b)
	}
	if got := f.friendsOf(t, b); len(got) != 0 {
		t.Errorf("FriendsOf(b) = %v, want empty", got)
	}

	if ok, err := f.friends.Friend(ctx, b, a); err != nil || !ok {
		t.Fatalf("Friend(b,a) = %v, %v", ok, err)
	}
	for _, pair := range [][2]int64{{a, b}, {b, a}} {
		st, exists := f.status(t, pair[0], pair[1])
		if !exists || st != models.FriendshipConfirmed {
			t.Errorf("edge %d->%d = %q (exists=%v), want CONFIRMED", pair[0], pair[1], st, exists)
		}
	}
	if got := f.friendsOf(t, b); !reflect.DeepEqual(got, []int64{a}) {
		t.Errorf("FriendsOf(b) = %v, want [%d]", got, a)
	}
}

func TestFriendshipGraph_DuplicateRequest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 2)

	f.friend(t, ids[0], ids[1])
	ok, err := f.friends.Friend(ctx, ids[0], ids[1])
	if err != nil || ok {
		t.Errorf("repeat request = %v, %v; want false, nil", ok, err)
	}
	feed := f.feed(t, ids[0])
	if len(feed) != 1 {
		t.Errorf("repeat request emitted an event, feed = %+v", feed)
	}
}

func TestFriendshipGraph_UnfriendDemotesReverse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 2)
	a, b := ids[0], ids[1]

	f.friend(t, a, b)
	f.friend(t, b, a)

	removed, err := f.friends.Unfriend(ctx, a, b)
	if err != nil || !removed {
		t.Fatalf("Unfriend = %v, %v", removed, err)
	}
	if _, exists := f.status(t, a, b); exists {
		t.Error("edge a->b still exists")
	}
	if st, _ := f.status(t, b, a); st != models.FriendshipUnconfirmed {
		t.Errorf("reverse edge = %q, want UNCONFIRMED", st)
	}

	feed := f.feed(t, a)
	last := feed[len(feed)-1]
	if last.EventType != models.EventFriend || last.Operation != models.OperationRemove || last.EntityID != b {
		t.Errorf("last event = %+v, want FRIEND/REMOVE on %d", last, b)
	}
}

func TestFriendshipGraph_Errors(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]

	if _, err := f.friends.Friend(ctx, u, u); !errors.Is(err, social.ErrValidation) {
		t.Errorf("self friend = %v, want validation error", err)
	}
	if _, err := f.friends.Friend(ctx, u, 404); !errors.Is(err, social.ErrNotFound) {
		t.Errorf("unknown receiver = %v, want not found", err)
	}
	if _, err := f.friends.FriendsOf(ctx, 404); !errors.Is(err, social.ErrNotFound) {
		t.Errorf("FriendsOf(unknown) = %v, want not found", err)
	}
}

func TestFriendshipGraph_CommonFriends(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 5)
	a, b, x, y, z := ids[0], ids[1], ids[2], ids[3], ids[4]

	for _, e := range [][2]int64{{a, x}, {a, y}, {b, y}, {b, z}} {
		if _, err := f.friends.Friend(ctx, e[0], e[1]); err != nil {
			t.Fatalf("Friend(%d,%d): %v", e[0], e[1], err)
		}
	}
	got, err := f.friends.CommonFriends(ctx, a, b)
	if err != nil {
		t.Fatalf("CommonFriends: %v", err)
	}
	if !reflect.DeepEqual(got, []int64{y}) {
		t.Errorf("CommonFriends = %v, want [%d]", got, y)
	}
}

func TestFriendshipGraph_ConcurrentCrossRequests(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 2)

	var wg sync.WaitGroup
	for _, pair := range [][2]int64{{ids[0], ids[1]}, {ids[1], ids[0]}} {
		wg.Add(1)
		go func(s, r int64) {
			defer wg.Done()
			if _, err := f.friends.Friend(ctx, s, r); err != nil {
				t.Errorf("Friend(%d, %d): %v", s, r, err)
			}
		}(pair[0], pair[1])
	}
	wg.Wait()

	for _, pair := range [][2]int64{{ids[0], ids[1]}, {ids[1], ids[0]}} {
		if st, _ := f.status(t, pair[0], pair[1]); st != models.FriendshipConfirmed {
			t.Errorf("edge %v = %q, want CONFIRMED", pair, st)
		}
	}
}

func TestReviews_GradeLifecycle(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 3)
	author, g1, g2 := ids[0], ids[1], ids[2]
	film := f.films(t, 1)[0]

	r, err := f.reviews.Create(ctx, models.Review{Content: "Tense and long", UserID: author, FilmID: film, Useful: 50})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.Useful != 0 {
		t.Errorf("new review useful = %d, want 0", r.Useful)
	}

	steps := []struct {
		name   string
		call   func() error
		useful int64
	}{
		{"g1 likes", func() error { return f.reviews.AddGrade(ctx, r.ID, g1, models.GradeLike) }, 1},
		{"g1 likes again", func() error { return f.reviews.AddGrade(ctx, r.ID, g1, models.GradeLike) }, 1},
		{"g2 dislikes", func() error { return f.reviews.AddGrade(ctx, r.ID, g2, models.GradeDislike) }, 0},
		{"g1 switches to dislike", func() error { return f.reviews.AddGrade(ctx, r.ID, g1, models.GradeDislike) }, -2},
		{"g2 removes dislike", func() error { return f.reviews.RemoveGrade(ctx, r.ID, g2, models.GradeDislike) }, -1},
	}
	for _, st := range steps {
		if err := st.call(); err != nil {
			t.Fatalf("%s: %v", st.name, err)
		}
		got, err := f.reviews.Get(ctx, r.ID)
		if err != nil {
			t.Fatalf("%s: Get: %v", st.name, err)
		}
		if got.Useful != st.useful {
			t.Errorf("%s: useful = %d, want %d", st.name, got.Useful, st.useful)
		}
	}

	err = f.reviews.RemoveGrade(ctx, r.ID, g1, models.GradeLike)
	if !errors.Is(err, social.ErrConflict) {
		t.Errorf("removing absent like = %v, want conflict", err)
	}

	feed := f.feed(t, g1)
	var kinds []string
	for _, e := range feed {
		kinds = append(kinds, string(e.EventType)+"/"+string(e.Operation))
	}
	want := []string{"LIKE/ADD", "LIKE/REMOVE", "DISLIKE/ADD"}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("g1 feed = %v, want %v", kinds, want)
	}
}

func TestReviews_ListOrdering(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	ids := f.users(t, 2)
	films := f.films(t, 2)

	r1 := f.review(t, "one", ids[0], films[0])
	r2 := f.review(t, "two", ids[0], films[0])
	r3 := f.review(t, "three", ids[0], films[1])
	if err := f.reviews.AddGrade(ctx, r2.ID, ids[1], models.GradeLike); err != nil {
		t.Fatalf("AddGrade: %v", err)
	}

	all, err := f.reviews.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var got []int64
	for _, r := range all {
		got = append(got, r.ID)
	}
	if want := []int64{r2.ID, r1.ID, r3.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("List(all) ids = %v, want %v", got, want)
	}

	byFilm, err := f.reviews.List(ctx, films[1], 10)
	if err != nil {
		t.Fatalf("List(film): %v", err)
	}
	if len(byFilm) != 1 || byFilm[0].ID != r3.ID {
		t.Errorf("List(film) = %+v, want only review %d", byFilm, r3.ID)
	}
}

func TestReviews_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]
	film := f.films(t, 1)[0]

	r := f.review(t, "meh", u, film)
	updated, err := f.reviews.Update(ctx, models.Review{ID: r.ID, Content: "actually great", IsPositive: true, UserID: 999})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.UserID != u || !updated.IsPositive || updated.Content != "actually great" {
		t.Errorf("Update result = %+v", updated)
	}

	if err := f.reviews.Delete(ctx, r.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.reviews.Get(ctx, r.ID); !errors.Is(err, social.ErrNotFound) {
		t.Errorf("Get after delete = %v, want not found", err)
	}

	feed := f.feed(t, u)
	var ops []models.Operation
	for _, e := range feed {
		ops = append(ops, e.Operation)
	}
	want := []models.Operation{models.OperationAdd, models.OperationUpdate, models.OperationRemove}
	if !reflect.DeepEqual(ops, want) {
		t.Errorf("review events = %v, want %v", ops, want)
	}
}

func TestCatalog_Validation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	valid := models.FilmInput{
		Title:       "Heat",
		ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
		Duration:    170,
		MPAID:       4,
	}

	tests := []struct {
		name   string
		mutate func(in *models.FilmInput)
		want   error
	}{
		{"valid", func(*models.FilmInput) {}, nil},
		{"before first screening", func(in *models.FilmInput) { in.ReleaseDate = time.Date(1895, 12, 27, 0, 0, 0, 0, time.UTC) }, social.ErrValidation},
		{"first screening day", func(in *models.FilmInput) { in.ReleaseDate = social.EarliestReleaseDate }, nil},
		{"zero duration", func(in *models.FilmInput) { in.Duration = 0 }, social.ErrValidation},
		{"long description", func(in *models.FilmInput) { in.Description = string(make([]rune, 201)) }, social.ErrValidation},
		{"blank title", func(in *models.FilmInput) { in.Title = "  " }, social.ErrValidation},
		{"unknown mpa", func(in *models.FilmInput) { in.MPAID = 9 }, social.ErrNotFound},
		{"unknown genre", func(in *models.FilmInput) { in.GenreIDs = []int64{1, 77} }, social.ErrNotFound},
		{"unknown director", func(in *models.FilmInput) { in.DirectorIDs = []int64{5} }, social.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			_, err := f.catalog.CreateFilm(ctx, in)
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCatalog_FilmEnrichment(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()
	u := f.users(t, 1)[0]

	d, err := f.catalog.CreateDirector(ctx, "Michael Mann")
	if err != nil {
		t.Fatalf("CreateDirector: %v", err)
	}
	film, err := f.catalog.CreateFilm(ctx, models.FilmInput{
		Title:       "Heat",
		ReleaseDate: time.Date(1995, 12, 15, 0, 0, 0, 0, time.UTC),
		Duration:    170,
		MPAID:       4,
		GenreIDs:    []int64{4, 2, 4},
		DirectorIDs: []int64{d.ID},
	})
	if err != nil {
		t.Fatalf("CreateFilm: %v", err)
	}
	if film.MPA == nil || film.MPA.Name != "R" {
		t.Errorf("MPA = %+v, want R", film.MPA)
	}
	if len(film.Genres) != 2 || film.Genres[0].Name != "Drama" || film.Genres[1].Name != "Thriller" {
		t.Errorf("Genres = %+v, want [Drama Thriller]", film.Genres)
	}
	if len(film.Directors) != 1 || film.Directors[0].Name != "Michael Mann" {
		t.Errorf("Directors = %+v", film.Directors)
	}

	f.like(t, film.ID, u)
	got, err := f.catalog.GetFilm(ctx, film.ID)
	if err != nil {
		t.Fatalf("GetFilm: %v", err)
	}
	if got.Likes != 1 {
		t.Errorf("Likes = %d, want 1", got.Likes)
	}
}

func TestCatalog_UserDefaults(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.catalog.CreateUser(ctx, models.User{Email: "neo@matrix.io", Login: "neo"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Name != "neo" {
		t.Errorf("Name = %q, want login", u.Name)
	}

	_, err = f.catalog.CreateUser(ctx, models.User{Email: "other@matrix.io", Login: "neo"})
	if !errors.Is(err, social.ErrConflict) {
		t.Errorf("duplicate login = %v, want conflict", err)
	}
	_, err = f.catalog.CreateUser(ctx, models.User{Email: "x@y.z", Login: "has space"})
	if !errors.Is(err, social.ErrValidation) {
		t.Errorf("login with space = %v, want validation error", err)
	}
}

func TestNewEngine_SharesEventLog(t *testing.T) {
	t.Parallel()
	store := memstore.New()
	sink := &recordingSink{}
	eng := social.NewEngine(store, sink)
	ctx := context.Background()

	u, err := eng.Catalog.CreateUser(ctx, models.User{Email: "e@x", Login: "eng"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	v, err := eng.Catalog.CreateUser(ctx, models.User{Email: "f@x", Login: "eng2"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := eng.Friends.Friend(ctx, u.ID, v.ID); err != nil {
		t.Fatalf("Friend: %v", err)
	}

	feed, err := eng.Events.EventsOf(ctx, u.ID)
	if err != nil || len(feed) != 1 || feed[0].EventType != models.EventFriend {
		t.Fatalf("feed = %+v, %v", feed, err)
	}
	if len(sink.events) != 1 {
		t.Errorf("sink saw %d events, want 1", len(sink.events))
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	err := social.Validate(&models.User{Email: "abc", Login: "neo"})
	var ve *social.ValidationError
	if !errors.Is(err, social.ErrValidation) || !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("Validate = %v, want email ValidationError", err)
	}

	err = social.Validate(&models.User{Email: "abc", Login: "a b"})
	if !errors.As(err, &ve) || !strings.Contains(ve.Message, "login") {
		t.Errorf("multi-field message = %v, want both fields", err)
	}

	if err := social.Validate(&models.User{Email: "a@b", Login: "neo"}); err != nil {
		t.Errorf("Validate(valid) = %v", err)
	}
}

func TestCatalog_UserRules(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.catalog.CreateUser(ctx, models.User{Email: "  ann@example.com ", Login: "ann"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.Name != "ann" || u.Email != "ann@example.com" {
		t.Errorf("created user = %+v, want name defaulted and email trimmed", u)
	}

	tests := []struct {
		name  string
		user  models.User
		field string
	}{
		{"bad email", models.User{Email: "nope", Login: "bob"}, "email"},
		{"login with space", models.User{Email: "bob@example.com", Login: "b ob"}, "login"},
		{"future birthday", models.User{Email: "bob@example.com", Login: "bob", Birthday: time.Now().AddDate(0, 1, 0)}, "birthday"},
	}
	for _, tt := range tests {
		_, err := f.catalog.CreateUser(ctx, tt.user)
		var ve *social.ValidationError
		if !errors.As(err, &ve) || ve.Field != tt.field {
			t.Errorf("%s: err = %v, want %s ValidationError", tt.name, err, tt.field)
		}
	}

	if _, err := f.catalog.CreateDirector(ctx, "   "); !errors.Is(err, social.ErrValidation) {
		t.Errorf("blank director: err = %v", err)
	}
}
