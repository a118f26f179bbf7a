// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package catalog

// # Sorting

// SortKey names a sortable book field.
type SortKey string

const (
	SortByTitle  SortKey = "title"
	SortByDate   SortKey = "date"
	SortByRating SortKey = "rating"

	// SortNone is the sentinel a client sends to explicitly reset sorting.
	// It clears both the sort key and the sort order, it is never stored.
	SortNone SortKey = "none"
)

// SortOrder is the direction paired with a SortKey.
type SortOrder string

const (
	OrderAscending  SortOrder = "asc"
	OrderDescending SortOrder = "desc"
)

// # Filter State

// Filters captures the user's current query intent.
//
// The zero value of every field means "no constraint", never an
// empty-string constraint. A SortOrder without a SortBy is a no-op.
//
// Filters is a value object: it is replaced wholesale or merged
// field-by-field via [Filters.Merge]; it is never mutated in place.
type Filters struct {
	// Genre constrains results to books whose genre set contains this exact
	// tag (case-sensitive membership test).
	Genre string `json:"genre,omitempty"`

	// Search constrains results to books whose title OR author contains this
	// term case-insensitively. Description and genres are never searched.
	Search string `json:"search,omitempty"`

	SortBy    SortKey   `json:"sort_by,omitempty"`
	SortOrder SortOrder `json:"sort_order,omitempty"`
}

// FilterPatch is a partial update of Filters.
//
// Nil fields are retained; a present field replaces the current value, with
// the empty string clearing it ("explicitly cleared", not "retained").
type FilterPatch struct {
	Genre     *string `json:"genre,omitempty"`
	Search    *string `json:"search,omitempty"`
	SortBy    *string `json:"sort_by,omitempty"`
	SortOrder *string `json:"sort_order,omitempty"`
}

// Merge returns a new Filters with the patch applied field-by-field.
//
// Clearing the sort key (empty string or the [SortNone] sentinel) also clears
// the sort order: a direction without a key is meaningless and keeping it
// around would silently re-activate on the next sort selection.
func (f Filters) Merge(patch FilterPatch) Filters {
	next := f

	if patch.Genre != nil {
		next.Genre = *patch.Genre
	}

	if patch.Search != nil {
		next.Search = *patch.Search
	}

	if patch.SortBy != nil {
		key := SortKey(*patch.SortBy)
		if key == "" || key == SortNone {
			next.SortBy = ""
			next.SortOrder = ""
		} else {
			next.SortBy = key
		}
	}

	if patch.SortOrder != nil {
		next.SortOrder = SortOrder(*patch.SortOrder)
	}

	// Normalize: a lone sort order must not leak into the query translation.
	if next.SortBy == "" {
		next.SortOrder = ""
	}

	return next
}

// # Query Translation

// Query is the single remote read query a Filters value translates into.
//
// All supplied constraints hold conjunctively (AND semantics). An empty
// SortBy leaves the result order to the gateway default (newest first).
type Query struct {
	Genre      string
	Search     string
	SortBy     SortKey
	Descending bool
}

// Query translates the filter state into exactly one gateway read query.
//
// Sort direction defaults to ascending when a sort key is present without an
// explicit order.
func (f Filters) Query() Query {
	q := Query{
		Genre:  f.Genre,
		Search: f.Search,
	}

	if f.SortBy != "" {
		q.SortBy = f.SortBy
		q.Descending = f.SortOrder == OrderDescending
	}

	return q
}
