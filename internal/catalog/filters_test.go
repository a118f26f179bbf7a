// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookhaven/bookhaven/internal/catalog"
	"github.com/bookhaven/bookhaven/pkg/pointer"
)

/*
TestFilters_Merge verifies partial filter updates: absent fields are
retained, present-but-empty fields clear, and clearing the sort key also
clears the direction.
*/
func TestFilters_Merge(t *testing.T) {
	base := catalog.Filters{
		Genre:     "Fantasy",
		Search:    "dragon",
		SortBy:    catalog.SortByTitle,
		SortOrder: catalog.OrderDescending,
	}

	tests := []struct {
		name  string
		patch catalog.FilterPatch
		want  catalog.Filters
	}{
		{
			name:  "empty patch retains everything",
			patch: catalog.FilterPatch{},
			want:  base,
		},
		{
			name:  "genre updates independently",
			patch: catalog.FilterPatch{Genre: pointer.To("Mystery")},
			want: catalog.Filters{
				Genre:     "Mystery",
				Search:    "dragon",
				SortBy:    catalog.SortByTitle,
				SortOrder: catalog.OrderDescending,
			},
		},
		{
			name:  "empty string clears search",
			patch: catalog.FilterPatch{Search: pointer.To("")},
			want: catalog.Filters{
				Genre:     "Fantasy",
				SortBy:    catalog.SortByTitle,
				SortOrder: catalog.OrderDescending,
			},
		},
		{
			name:  "clearing sort key clears direction too",
			patch: catalog.FilterPatch{SortBy: pointer.To("")},
			want: catalog.Filters{
				Genre:  "Fantasy",
				Search: "dragon",
			},
		},
		{
			name:  "none sentinel clears the sort key",
			patch: catalog.FilterPatch{SortBy: pointer.To(string(catalog.SortNone))},
			want: catalog.Filters{
				Genre:  "Fantasy",
				Search: "dragon",
			},
		},
		{
			name: "sort key and direction update together",
			patch: catalog.FilterPatch{
				SortBy:    pointer.To(string(catalog.SortByRating)),
				SortOrder: pointer.To(string(catalog.OrderAscending)),
			},
			want: catalog.Filters{
				Genre:     "Fantasy",
				Search:    "dragon",
				SortBy:    catalog.SortByRating,
				SortOrder: catalog.OrderAscending,
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got := base.Merge(testCase.patch)
			assert.Equal(t, testCase.want, got)
		})
	}
}

/*
TestFilters_Merge_NoLoneDirection verifies that a direction can never exist
without a sort key.
*/
func TestFilters_Merge_NoLoneDirection(t *testing.T) {
	var base catalog.Filters

	got := base.Merge(catalog.FilterPatch{SortOrder: pointer.To(string(catalog.OrderDescending))})
	assert.Empty(t, got.SortBy)
	assert.Empty(t, got.SortOrder)
}

/*
TestFilters_Query verifies the translation from UI filter state into a
gateway query.
*/
func TestFilters_Query(t *testing.T) {
	tests := []struct {
		name    string
		filters catalog.Filters
		want    catalog.Query
	}{
		{
			name:    "zero state translates to unfiltered query",
			filters: catalog.Filters{},
			want:    catalog.Query{},
		},
		{
			name: "direction defaults to ascending",
			filters: catalog.Filters{
				SortBy: catalog.SortByDate,
			},
			want: catalog.Query{SortBy: catalog.SortByDate},
		},
		{
			name: "descending carries through",
			filters: catalog.Filters{
				Genre:     "Thriller",
				Search:    "night",
				SortBy:    catalog.SortByRating,
				SortOrder: catalog.OrderDescending,
			},
			want: catalog.Query{
				Genre:      "Thriller",
				Search:     "night",
				SortBy:     catalog.SortByRating,
				Descending: true,
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, testCase.filters.Query())
		})
	}
}
