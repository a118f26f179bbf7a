// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookhaven/bookhaven/internal/catalog"
)

/*
TestBuildBooksQuery verifies SQL construction: placeholder numbering, array
membership for genres, the shared search placeholder, and ordering.
*/
func TestBuildBooksQuery(t *testing.T) {
	tests := []struct {
		name         string
		query        catalog.Query
		wantContains []string
		wantArgs     []any
	}{
		{
			name:  "no filters defaults to newest first",
			query: catalog.Query{},
			wantContains: []string{
				"FROM catalog.book b",
				"ORDER BY b.createdat DESC, b.id ASC",
			},
			wantArgs: nil,
		},
		{
			name:  "genre uses array membership",
			query: catalog.Query{Genre: "Fantasy"},
			wantContains: []string{
				"$1 = ANY(b.genres)",
			},
			wantArgs: []any{"Fantasy"},
		},
		{
			name:  "search shares one placeholder across title and author",
			query: catalog.Query{Search: "dune"},
			wantContains: []string{
				"(b.title ILIKE $1 OR b.author ILIKE $1)",
			},
			wantArgs: []any{"%dune%"},
		},
		{
			name:  "genre and search number placeholders sequentially",
			query: catalog.Query{Genre: "Fantasy", Search: "dune"},
			wantContains: []string{
				"$1 = ANY(b.genres)",
				"(b.title ILIKE $2 OR b.author ILIKE $2)",
			},
			wantArgs: []any{"Fantasy", "%dune%"},
		},
		{
			name:  "explicit sort ascends by default with id tiebreak",
			query: catalog.Query{SortBy: catalog.SortByTitle},
			wantContains: []string{
				"ORDER BY b.title ASC, b.id ASC",
			},
			wantArgs: nil,
		},
		{
			name:  "descending rating sort",
			query: catalog.Query{SortBy: catalog.SortByRating, Descending: true},
			wantContains: []string{
				"ORDER BY b.rating DESC, b.id ASC",
			},
			wantArgs: nil,
		},
		{
			name:  "date sort maps to the publication column",
			query: catalog.Query{SortBy: catalog.SortByDate},
			wantContains: []string{
				"ORDER BY b.publicationdate ASC, b.id ASC",
			},
			wantArgs: nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			sql, args := buildBooksQuery(testCase.query)

			for _, fragment := range testCase.wantContains {
				assert.Contains(t, sql, fragment)
			}
			assert.Equal(t, testCase.wantArgs, args)
		})
	}
}
