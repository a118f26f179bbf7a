// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bookhaven/bookhaven/internal/catalog"
	"github.com/bookhaven/bookhaven/internal/identity"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/respond"
	"github.com/bookhaven/bookhaven/internal/platform/sec"
)

// AdminStore exposes raw table contents for operator inspection.
type AdminStore interface {
	DumpBooks(ctx context.Context) ([]catalog.Book, error)
	DumpProfiles(ctx context.Context) ([]identity.Profile, error)
}

// AdminHandler serves the operator-only inspection endpoints. Access is
// gated on the signed-in identity holding the admin role.
type AdminHandler struct {
	store    AdminStore
	identity *identity.Controller
}

func NewAdminHandler(store AdminStore, identityController *identity.Controller) *AdminHandler {
	return &AdminHandler{store: store, identity: identityController}
}

func (handler *AdminHandler) RegisterRoutes(router chi.Router) {
	router.Get("/tables", handler.listTables)
}

func (handler *AdminHandler) listTables(writer http.ResponseWriter, request *http.Request) {
	user := handler.identity.Current()
	if user == nil || !user.Role.AtLeast(sec.RoleAdmin) {
		respond.Error(writer, request, apperr.Forbidden("Admin access required"))
		return
	}

	books, err := handler.store.DumpBooks(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	profiles, err := handler.store.DumpProfiles(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		"books":    books,
		"profiles": profiles,
	})
}
