// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package catalog_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/catalog"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/pkg/pointer"
)

// fakeGateway is an in-memory record store that evaluates queries the same
// way the real store does: genre membership, case-insensitive substring
// search over title and author, and stable single-key sorting.
type fakeGateway struct {
	mu    sync.Mutex
	books []catalog.Book

	pingErr   error
	queryErr  error
	insertErr error
	updateErr error
	deleteErr error

	queryCalls  int
	insertCalls int

	// blockNextQuery, when set, makes the next QueryBooks call signal
	// queryStarted and then wait for the channel to close.
	blockNextQuery chan struct{}
	queryStarted   chan struct{}
}

func (g *fakeGateway) Ping(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pingErr
}

func (g *fakeGateway) QueryBooks(ctx context.Context, query catalog.Query) ([]catalog.Book, error) {
	g.mu.Lock()
	g.queryCalls++
	gate := g.blockNextQuery
	g.blockNextQuery = nil
	started := g.queryStarted
	g.mu.Unlock()

	if gate != nil {
		if started != nil {
			close(started)
		}
		<-gate
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.queryErr != nil {
		return nil, g.queryErr
	}

	var result []catalog.Book
	for _, book := range g.books {
		if query.Genre != "" && !slices.Contains(book.Genres, query.Genre) {
			continue
		}
		if query.Search != "" {
			needle := strings.ToLower(query.Search)
			if !strings.Contains(strings.ToLower(book.Title), needle) &&
				!strings.Contains(strings.ToLower(book.Author), needle) {
				continue
			}
		}
		result = append(result, book)
	}

	switch query.SortBy {
	case catalog.SortByTitle:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Title < result[j].Title })
	case catalog.SortByDate:
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].PublicationDate.Before(result[j].PublicationDate)
		})
	case catalog.SortByRating:
		sort.SliceStable(result, func(i, j int) bool { return result[i].Rating < result[j].Rating })
	}
	if query.Descending {
		slices.Reverse(result)
	}

	return result, nil
}

func (g *fakeGateway) InsertBook(ctx context.Context, book catalog.Book) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.insertCalls++
	if g.insertErr != nil {
		return g.insertErr
	}
	g.books = append(g.books, book)
	return nil
}

func (g *fakeGateway) UpdateBook(ctx context.Context, id string, patch catalog.Patch) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.updateErr != nil {
		return g.updateErr
	}
	for i := range g.books {
		if g.books[i].ID != id {
			continue
		}
		if patch.Title != nil {
			g.books[i].Title = *patch.Title
		}
		if patch.Rating != nil {
			g.books[i].Rating = *patch.Rating
		}
		return nil
	}
	return apperr.NotFound("book")
}

func (g *fakeGateway) DeleteBook(ctx context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.books = slices.DeleteFunc(g.books, func(b catalog.Book) bool { return b.ID == id })
	return nil
}

// stubIdentity satisfies catalog.IdentitySource with a fixed user id.
type stubIdentity struct {
	id string
}

func (s stubIdentity) CurrentUserID() string { return s.id }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func seedBooks() []catalog.Book {
	return []catalog.Book{
		// The description mentions Tolkien so a title/author search for him
		// must not pull this book in.
		{ID: "b1", Title: "Dune", Author: "Frank Herbert", Description: "Often shelved next to Tolkien, but pure desert science fiction.", Genres: []string{"Science Fiction"}, Rating: 4.5, PublicationDate: date("1965-08-01"), UserID: "u1"},
		{ID: "b2", Title: "The Hobbit", Author: "J.R.R. Tolkien", Description: "There and back again.", Genres: []string{"Fantasy"}, Rating: 4.8, PublicationDate: date("1937-09-21"), UserID: "u1"},
		{ID: "b3", Title: "Gone Girl", Author: "Gillian Flynn", Description: "A marriage gone very wrong.", Genres: []string{"Thriller", "Mystery"}, Rating: 4.0, PublicationDate: date("2012-06-05"), UserID: "u2"},
	}
}

// shelfBooks is the larger fixture for combined filter scenarios: five books,
// two of them Mystery.
func shelfBooks() []catalog.Book {
	return append(seedBooks(),
		catalog.Book{ID: "b4", Title: "And Then There Were None", Author: "Agatha Christie", Description: "Ten strangers on an island.", Genres: []string{"Mystery"}, Rating: 4.3, PublicationDate: date("1939-11-06"), UserID: "u2"},
		catalog.Book{ID: "b5", Title: "Pride and Prejudice", Author: "Jane Austen", Description: "A truth universally acknowledged.", Genres: []string{"Romance"}, Rating: 4.2, PublicationDate: date("1813-01-28"), UserID: "u1"},
	)
}

func newTestController(gateway *fakeGateway, userID string) *catalog.Controller {
	return catalog.NewController(gateway, stubIdentity{id: userID}, testLogger())
}

/*
TestController_Fetch_ReplacesList verifies that a successful fetch replaces
the in-memory list wholesale and clears loading and error state.
*/
func TestController_Fetch_ReplacesList(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	require.NoError(t, controller.Fetch(context.Background()))

	snapshot := controller.Snapshot()
	assert.Len(t, snapshot.Books, 3)
	assert.False(t, snapshot.IsLoading)
	assert.Empty(t, snapshot.Error)
	assert.True(t, snapshot.Connected)
}

/*
TestController_Fetch_FailureKeepsPreviousList verifies that a failed fetch
sets the fixed message but leaves the previously loaded list intact.
*/
func TestController_Fetch_FailureKeepsPreviousList(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	// 1. Load a good list first
	require.NoError(t, controller.Fetch(context.Background()))

	// 2. Subsequent fetch fails
	gateway.mu.Lock()
	gateway.queryErr = errors.New("boom")
	gateway.mu.Unlock()

	err := controller.Fetch(context.Background())
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "OPERATION_FAILED", appErr.Code)
	assert.Equal(t, catalog.MsgFetchFailed, appErr.Message)

	snapshot := controller.Snapshot()
	assert.Equal(t, catalog.MsgFetchFailed, snapshot.Error)
	assert.Len(t, snapshot.Books, 3, "stale list must survive a failed refresh")
}

/*
TestController_SetFilters_QueriesRemotely verifies that filtering happens in
the translated query rather than locally: genre membership and
case-insensitive search over title and author.
*/
func TestController_SetFilters_QueriesRemotely(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	// 1. Genre filter
	require.NoError(t, controller.SetFilters(context.Background(), catalog.FilterPatch{
		Genre: pointer.To("Mystery"),
	}))
	snapshot := controller.Snapshot()
	require.Len(t, snapshot.Books, 1)
	assert.Equal(t, "Gone Girl", snapshot.Books[0].Title)

	// 2. Search matches author case-insensitively, genre cleared. Dune's
	//    description also mentions Tolkien; descriptions are not searched,
	//    so only the author match comes back.
	require.NoError(t, controller.SetFilters(context.Background(), catalog.FilterPatch{
		Genre:  pointer.To(""),
		Search: pointer.To("tolkien"),
	}))
	snapshot = controller.Snapshot()
	require.Len(t, snapshot.Books, 1)
	assert.Equal(t, "The Hobbit", snapshot.Books[0].Title)

	// 3. Every filter change issued a remote query
	gateway.mu.Lock()
	calls := gateway.queryCalls
	gateway.mu.Unlock()
	assert.Equal(t, 2, calls)
}

/*
TestController_SetFilters_Sorting verifies single-key ordering with an
explicit direction.
*/
func TestController_SetFilters_Sorting(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	require.NoError(t, controller.SetFilters(context.Background(), catalog.FilterPatch{
		SortBy:    pointer.To(string(catalog.SortByRating)),
		SortOrder: pointer.To(string(catalog.OrderDescending)),
	}))

	snapshot := controller.Snapshot()
	require.Len(t, snapshot.Books, 3)
	assert.Equal(t, "The Hobbit", snapshot.Books[0].Title)
	assert.Equal(t, "Gone Girl", snapshot.Books[2].Title)
}

/*
TestController_SetFilters_GenreAndSortCombined verifies that a genre filter
and a title sort apply together: out of five books only the two Mystery
titles come back, alphabetically.
*/
func TestController_SetFilters_GenreAndSortCombined(t *testing.T) {
	gateway := &fakeGateway{books: shelfBooks()}
	controller := newTestController(gateway, "u1")

	require.NoError(t, controller.SetFilters(context.Background(), catalog.FilterPatch{
		Genre:     pointer.To("Mystery"),
		SortBy:    pointer.To(string(catalog.SortByTitle)),
		SortOrder: pointer.To(string(catalog.OrderAscending)),
	}))

	snapshot := controller.Snapshot()
	require.Len(t, snapshot.Books, 2)
	assert.Equal(t, "And Then There Were None", snapshot.Books[0].Title)
	assert.Equal(t, "Gone Girl", snapshot.Books[1].Title)
}

/*
TestController_Fetch_StaleResponseDiscarded verifies that when two fetches
overlap, the response belonging to the older request never overwrites the
newer one's result.
*/
func TestController_Fetch_StaleResponseDiscarded(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	// 1. First fetch blocks inside the gateway
	gate := make(chan struct{})
	started := make(chan struct{})
	gateway.mu.Lock()
	gateway.blockNextQuery = gate
	gateway.queryStarted = started
	gateway.mu.Unlock()

	firstDone := make(chan error, 1)
	go func() {
		firstDone <- controller.Fetch(context.Background())
	}()
	<-started

	// 2. A newer fetch completes while the first is still in flight, and
	//    observes one fewer book.
	gateway.mu.Lock()
	gateway.books = gateway.books[:2]
	gateway.mu.Unlock()
	require.NoError(t, controller.Fetch(context.Background()))
	require.Len(t, controller.Snapshot().Books, 2)

	// 3. Releasing the stale fetch must not resurrect the old list
	close(gate)
	require.NoError(t, <-firstDone)

	snapshot := controller.Snapshot()
	assert.Len(t, snapshot.Books, 2)
	assert.False(t, snapshot.IsLoading)
}

/*
TestController_Create_RequiresIdentity verifies that creation is refused
without an active identity and the gateway is never reached.
*/
func TestController_Create_RequiresIdentity(t *testing.T) {
	gateway := &fakeGateway{}
	controller := newTestController(gateway, "")

	err := controller.Create(context.Background(), catalog.Draft{
		Title:  "Dune",
		Author: "Frank Herbert",
	})
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "UNAUTHORIZED", appErr.Code)
	assert.Equal(t, catalog.MsgLoginRequired, appErr.Message)

	assert.Equal(t, 0, gateway.insertCalls)
	assert.Equal(t, catalog.MsgLoginRequired, controller.Snapshot().Error)
}

/*
TestController_Create_Validation verifies required fields and the inclusive
rating bounds.
*/
func TestController_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		draft catalog.Draft
	}{
		{name: "missing title", draft: catalog.Draft{Author: "A", Rating: 3}},
		{name: "missing author", draft: catalog.Draft{Title: "T", Rating: 3}},
		{name: "rating above bounds", draft: catalog.Draft{Title: "T", Author: "A", Rating: 5.1}},
		{name: "rating below bounds", draft: catalog.Draft{Title: "T", Author: "A", Rating: -0.1}},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			gateway := &fakeGateway{}
			controller := newTestController(gateway, "u1")

			err := controller.Create(context.Background(), testCase.draft)
			require.Error(t, err)

			var appErr *apperr.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Equal(t, 0, gateway.insertCalls)
		})
	}
}

/*
TestController_Create_StampsAndRefetches verifies that a created book is
stamped with the current identity plus a fresh id, and that the list is
refetched rather than locally appended.
*/
func TestController_Create_StampsAndRefetches(t *testing.T) {
	gateway := &fakeGateway{}
	controller := newTestController(gateway, "u42")

	err := controller.Create(context.Background(), catalog.Draft{
		Title:           "Dune",
		Author:          "Frank Herbert",
		Genres:          []string{"Science Fiction"},
		PublicationDate: date("1965-08-01"),
		Rating:          5, // bound is inclusive
	})
	require.NoError(t, err)

	gateway.mu.Lock()
	require.Len(t, gateway.books, 1)
	stored := gateway.books[0]
	queryCalls := gateway.queryCalls
	gateway.mu.Unlock()

	assert.NotEmpty(t, stored.ID)
	assert.Equal(t, "u42", stored.UserID)
	assert.False(t, stored.CreatedAt.IsZero())

	assert.Equal(t, 1, queryCalls, "creation must trigger a full refetch")

	snapshot := controller.Snapshot()
	require.Len(t, snapshot.Books, 1)
	assert.Equal(t, "Dune", snapshot.Books[0].Title)
}

/*
TestController_Update_Failure verifies the fixed update failure message.
*/
func TestController_Update_Failure(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks(), updateErr: errors.New("boom")}
	controller := newTestController(gateway, "u1")

	err := controller.Update(context.Background(), "b1", catalog.Patch{
		Rating: pointer.To(3.5),
	})
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, catalog.MsgUpdateFailed, appErr.Message)
	assert.Equal(t, catalog.MsgUpdateFailed, controller.Snapshot().Error)
}

/*
TestController_Delete_Refetches verifies that deletion refetches and the
removed book disappears from the snapshot.
*/
func TestController_Delete_Refetches(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks()}
	controller := newTestController(gateway, "u1")

	require.NoError(t, controller.Delete(context.Background(), "b2"))

	snapshot := controller.Snapshot()
	require.Len(t, snapshot.Books, 2)
	for _, book := range snapshot.Books {
		assert.NotEqual(t, "b2", book.ID)
	}
}

/*
TestController_ConnectivityGate verifies that data operations fail fast with
the fixed connectivity message while the gateway is unreachable, re-probe
before failing, and recover once the gateway is back.
*/
func TestController_ConnectivityGate(t *testing.T) {
	gateway := &fakeGateway{books: seedBooks(), pingErr: errors.New("refused")}
	controller := newTestController(gateway, "u1")

	// 1. Unreachable: fetch fails before issuing any query
	err := controller.Fetch(context.Background())
	require.Error(t, err)

	var appErr *apperr.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "GATEWAY_UNREACHABLE", appErr.Code)
	assert.Equal(t, catalog.MsgConnectionFailed, appErr.Message)

	snapshot := controller.Snapshot()
	assert.False(t, snapshot.Connected)
	assert.Equal(t, catalog.MsgConnectionFailed, snapshot.Error)
	assert.Equal(t, 0, gateway.queryCalls)

	// 2. Gateway recovers: the gate re-probes and the fetch goes through
	gateway.mu.Lock()
	gateway.pingErr = nil
	gateway.mu.Unlock()

	require.NoError(t, controller.Fetch(context.Background()))
	assert.True(t, controller.Snapshot().Connected)
	assert.Len(t, controller.Snapshot().Books, 3)
}
