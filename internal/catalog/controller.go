// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/validate"
	"github.com/bookhaven/bookhaven/pkg/uuid"
)

// # User-Facing Messages
//
// Controllers never surface raw gateway error text; every failure maps to
// one of these short, stable strings while the cause is logged server-side.
const (
	MsgConnectionFailed = "Unable to connect to the database. Please check your connection and try again."
	MsgFetchFailed      = "Failed to fetch books. Please try again later."
	MsgCreateFailed     = "Failed to create book. Please try again."
	MsgUpdateFailed     = "Failed to update book. Please try again."
	MsgDeleteFailed     = "Failed to delete book. Please try again."
	MsgLoginRequired    = "You must be logged in to create a book"
)

// # Contracts

// Gateway is the consumer-side contract of the remote record store.
//
// The gateway is opaque beyond these operations: the controller never sees
// connection details, query language, or row policies.
type Gateway interface {
	// Ping is the cheap reachability probe that drives the connectivity flag.
	Ping(ctx context.Context) error

	// QueryBooks executes one translated read query and returns the full
	// matching record set.
	QueryBooks(ctx context.Context, query Query) ([]Book, error)

	// InsertBook persists a fully-stamped new record.
	InsertBook(ctx context.Context, book Book) error

	// UpdateBook applies a partial field replacement keyed by id.
	UpdateBook(ctx context.Context, id string, patch Patch) error

	// DeleteBook removes a record by id. Irreversible from this side.
	DeleteBook(ctx context.Context, id string) error
}

// IdentitySource exposes the currently authenticated identity to the catalog.
//
// An empty id means "no active identity".
type IdentitySource interface {
	CurrentUserID() string
}

// # Controller

// Controller owns the authoritative in-memory result list and translates UI
// intents into remote queries.
//
// # Concurrency
//
// State is guarded by a mutex; gateway calls always happen outside the lock.
// Concurrent fetches are not serialized or cancelled. Instead each fetch is
// tagged with a monotonic generation, and only the response matching the
// latest issued generation is applied. Superseded responses are discarded.
type Controller struct {
	gateway  Gateway
	identity IdentitySource
	logger   *slog.Logger

	mu        sync.Mutex
	books     []Book
	filters   Filters
	loading   bool
	errMsg    string
	connected bool
	fetchGen  uint64
}

// NewController constructs a catalog [Controller] with injected dependencies.
//
// Controllers are explicitly constructed and owned by the application's root
// composition; there is no package-level singleton.
func NewController(gateway Gateway, identity IdentitySource, logger *slog.Logger) *Controller {
	return &Controller{
		gateway:  gateway,
		identity: identity,
		logger:   logger,
	}
}

// Snapshot is a read-only view of controller state for the presentation layer.
type Snapshot struct {
	Books     []Book  `json:"books"`
	Filters   Filters `json:"filters"`
	IsLoading bool    `json:"is_loading"`
	Error     string  `json:"error,omitempty"`
	Connected bool    `json:"is_connected"`
}

// Snapshot returns a copy of the current state. Presentation components read
// this; they never mutate controller state directly.
func (controller *Controller) Snapshot() Snapshot {
	controller.mu.Lock()
	defer controller.mu.Unlock()

	books := make([]Book, len(controller.books))
	copy(books, controller.books)

	return Snapshot{
		Books:     books,
		Filters:   controller.filters,
		IsLoading: controller.loading,
		Error:     controller.errMsg,
		Connected: controller.connected,
	}
}

// # Connectivity Gating

/*
CheckConnection probes gateway reachability and updates the connectivity flag.

Description: A failed probe sets the fixed connectivity message; all data
operations gate on the flag and re-probe before failing.

Returns:
  - error: GATEWAY_UNREACHABLE when the probe fails
*/
func (controller *Controller) CheckConnection(ctx context.Context) error {
	err := controller.gateway.Ping(ctx)

	controller.mu.Lock()
	defer controller.mu.Unlock()

	controller.connected = err == nil
	if err != nil {
		controller.logger.Error("catalog_connection_check_failed", slog.Any("error", err))
		controller.errMsg = MsgConnectionFailed
		return apperr.Unreachable(MsgConnectionFailed)
	}

	return nil
}

// ensureConnected fails fast when the gateway is unreachable, attempting one
// fresh probe before giving up.
func (controller *Controller) ensureConnected(ctx context.Context) error {
	controller.mu.Lock()
	connected := controller.connected
	controller.mu.Unlock()

	if connected {
		return nil
	}

	return controller.CheckConnection(ctx)
}

// # Read Path

/*
Fetch (re)runs the current filter state's translated query.

Description: On success the entire in-memory result list is replaced
atomically (no incremental merge) and any error clears. On failure a fixed
message is set and the previous list is preserved. A stale list beats
an empty screen.

Returns:
  - error: Connectivity or OPERATION_FAILED errors
*/
func (controller *Controller) Fetch(ctx context.Context) error {
	if err := controller.ensureConnected(ctx); err != nil {
		return err
	}

	// Tag this request with a fresh generation. Only the response matching
	// the latest issued generation may touch the list.
	controller.mu.Lock()
	controller.fetchGen++
	generation := controller.fetchGen
	controller.loading = true
	controller.errMsg = ""
	query := controller.filters.Query()
	controller.mu.Unlock()

	books, err := controller.gateway.QueryBooks(ctx, query)

	controller.mu.Lock()
	defer controller.mu.Unlock()

	if generation != controller.fetchGen {
		// A newer fetch has been issued meanwhile; this response is stale.
		return nil
	}

	controller.loading = false

	if err != nil {
		controller.logger.Error("catalog_fetch_failed", slog.Any("error", err))
		controller.errMsg = MsgFetchFailed
		return apperr.OperationFailed(MsgFetchFailed, err)
	}

	controller.books = books
	return nil
}

/*
SetFilters merges the given patch into the filter state and triggers a fetch.

Description: This is the single mutation path for filter state; no direct
external mutation is permitted. Merge semantics live in [Filters.Merge].

Returns:
  - error: Propagated fetch failure
*/
func (controller *Controller) SetFilters(ctx context.Context, patch FilterPatch) error {
	controller.mu.Lock()
	controller.filters = controller.filters.Merge(patch)
	controller.mu.Unlock()

	return controller.Fetch(ctx)
}

// Filters returns the current filter state value.
func (controller *Controller) Filters() Filters {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	return controller.filters
}

// # Write Path

/*
Create validates and persists a new book, then refetches the full list.

Description: Requires an active identity; the new record is stamped with the
current identity as owner, a fresh time-sortable id, and a creation
timestamp. There is no optimistic local insert.

Returns:
  - error: UNAUTHORIZED, VALIDATION_ERROR, connectivity, or operation failures
*/
func (controller *Controller) Create(ctx context.Context, draft Draft) error {
	if err := controller.ensureConnected(ctx); err != nil {
		return err
	}

	userID := controller.identity.CurrentUserID()
	if userID == "" {
		controller.setError(MsgLoginRequired)
		return apperr.Unauthorized(MsgLoginRequired)
	}

	validator := &validate.Validator{}
	validator.Required("title", draft.Title).
		Required("author", draft.Author).
		FloatRange("rating", draft.Rating, 0, 5)
	if err := validator.Err(); err != nil {
		return err
	}

	book := Book{
		ID:              uuid.New(),
		Title:           draft.Title,
		Author:          draft.Author,
		Description:     draft.Description,
		CoverURL:        draft.CoverURL,
		Genres:          draft.Genres,
		PublicationDate: draft.PublicationDate,
		Rating:          draft.Rating,
		ISBN:            draft.ISBN,
		CreatedAt:       time.Now(),
		UserID:          userID,
	}

	if err := controller.gateway.InsertBook(ctx, book); err != nil {
		controller.logger.Error("catalog_create_failed", slog.Any("error", err))
		controller.setError(MsgCreateFailed)
		return apperr.OperationFailed(MsgCreateFailed, err)
	}

	return controller.Fetch(ctx)
}

/*
Update applies a partial or full field replacement keyed by id, then
refetches the full list.

Returns:
  - error: VALIDATION_ERROR, connectivity, or operation failures
*/
func (controller *Controller) Update(ctx context.Context, id string, patch Patch) error {
	if err := controller.ensureConnected(ctx); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.Required("id", id)
	if patch.Rating != nil {
		validator.FloatRange("rating", *patch.Rating, 0, 5)
	}
	if patch.Title != nil {
		validator.Required("title", *patch.Title)
	}
	if patch.Author != nil {
		validator.Required("author", *patch.Author)
	}
	if err := validator.Err(); err != nil {
		return err
	}

	if err := controller.gateway.UpdateBook(ctx, id, patch); err != nil {
		controller.logger.Error("catalog_update_failed",
			slog.String("book_id", id),
			slog.Any("error", err),
		)
		controller.setError(MsgUpdateFailed)
		return apperr.OperationFailed(MsgUpdateFailed, err)
	}

	return controller.Fetch(ctx)
}

/*
Delete removes a book by id, then refetches the full list.

Description: Irreversible from the client's perspective. No client-side
ownership check; the gateway's row policies decide what actually goes away.

Returns:
  - error: Connectivity or operation failures
*/
func (controller *Controller) Delete(ctx context.Context, id string) error {
	if err := controller.ensureConnected(ctx); err != nil {
		return err
	}

	if err := controller.gateway.DeleteBook(ctx, id); err != nil {
		controller.logger.Error("catalog_delete_failed",
			slog.String("book_id", id),
			slog.Any("error", err),
		)
		controller.setError(MsgDeleteFailed)
		return apperr.OperationFailed(MsgDeleteFailed, err)
	}

	return controller.Fetch(ctx)
}

// setError records a user-facing error message under the lock.
func (controller *Controller) setError(msg string) {
	controller.mu.Lock()
	controller.errMsg = msg
	controller.mu.Unlock()
}
