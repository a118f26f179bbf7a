// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

/*
Package catalog implements the book collection and its synchronization with
the remote record gateway.

It defines the core domain entities (Book, Filters) and the Controller that
owns the authoritative in-memory result list.

# Architecture

  - Controller: Orchestrates fetch/create/update/delete against the gateway.
  - Gateway: Consumer-side interface for the remote record store.
  - Filters: Immutable-update value object capturing the user's query intent.

The controller never reconciles mutations locally: every successful write is
followed by a full refetch, trading latency for zero local/remote drift.
*/
package catalog

import "time"

// # Domain Entities

// Book represents a single entry of the tracked collection.
type Book struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	CoverURL    string `json:"cover_url"`

	// Genres is an ordered, non-unique set of tags. Display order is preserved.
	Genres []string `json:"genre"`

	PublicationDate time.Time `json:"publication_date"`

	// Rating is constrained to [0,5] at create/update boundaries by the
	// controller; the gateway does not enforce it.
	Rating float64 `json:"rating"`

	ISBN      string    `json:"isbn,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// UserID is the owning identity. Stamped by the controller at creation;
	// no client-side ownership check is applied to update/delete; the
	// gateway's row policies are the security boundary.
	UserID string `json:"user_id"`
}

// Draft holds the caller-supplied fields of a book about to be created.
// Identifier, owner, and creation timestamp are stamped by the controller.
type Draft struct {
	Title           string
	Author          string
	Description     string
	CoverURL        string
	Genres          []string
	PublicationDate time.Time
	Rating          float64
	ISBN            string
}

// Patch describes a partial field replacement for an existing book.
// Nil fields are left untouched by the gateway.
type Patch struct {
	Title           *string
	Author          *string
	Description     *string
	CoverURL        *string
	Genres          *[]string
	PublicationDate *time.Time
	Rating          *float64
	ISBN            *string
}

// IsEmpty reports whether the patch carries no field changes at all.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Author == nil && p.Description == nil &&
		p.CoverURL == nil && p.Genres == nil && p.PublicationDate == nil &&
		p.Rating == nil && p.ISBN == nil
}
