// Copyright (c) 2026 Bookhaven. All rights reserved.
// Author: dev@bookhaven.app

package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookhaven/bookhaven/internal/catalog"
	"github.com/bookhaven/bookhaven/internal/platform/apperr"
	"github.com/bookhaven/bookhaven/internal/platform/database/schema"
)

// # Book Records

/*
buildBooksQuery translates a catalog query into parameterized SQL.

Description: Genre filtering is array membership over the genres column.
Search is a case-insensitive substring over title and author, sharing one
placeholder. Ordering always ends with an id tiebreak so that equal keys
produce a stable result; ids are time-sortable, so the tiebreak follows
insertion order. Without an explicit sort key the newest books come first.

Returns:
  - string: The SQL text
  - []any: Positional arguments
*/
func buildBooksQuery(query catalog.Query) (string, []any) {
	var queryBuilder strings.Builder
	var args []any
	argID := 1

	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s
		FROM %s b
		WHERE 1=1
	`,
		schema.CatalogBook.ID,
		schema.CatalogBook.Title,
		schema.CatalogBook.Author,
		schema.CatalogBook.Description,
		schema.CatalogBook.CoverURL,
		schema.CatalogBook.Genres,
		schema.CatalogBook.PublicationDate,
		schema.CatalogBook.Rating,
		schema.CatalogBook.ISBN,
		schema.CatalogBook.CreatedAt,
		schema.CatalogBook.UserID,
		schema.CatalogBook.Table,
	))

	// Genre membership filtering
	if query.Genre != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND $%d = ANY(b.%s)", argID, schema.CatalogBook.Genres))
		args = append(args, query.Genre)
		argID++
	}

	// Case-insensitive substring search over title and author
	if query.Search != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND (b.%s ILIKE $%d OR b.%s ILIKE $%d)",
			schema.CatalogBook.Title, argID,
			schema.CatalogBook.Author, argID,
		))
		args = append(args, "%"+query.Search+"%")
		argID++
	}

	// Apply Sorting
	column := schema.CatalogBook.CreatedAt
	direction := "DESC"
	switch query.SortBy {
	case catalog.SortByTitle:
		column = schema.CatalogBook.Title
	case catalog.SortByDate:
		column = schema.CatalogBook.PublicationDate
	case catalog.SortByRating:
		column = schema.CatalogBook.Rating
	}
	if query.SortBy != "" && query.SortBy != catalog.SortNone {
		direction = "ASC"
		if query.Descending {
			direction = "DESC"
		}
	}
	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY b.%s %s, b.%s ASC", column, direction, schema.CatalogBook.ID))

	return queryBuilder.String(), args
}

/*
QueryBooks executes a translated catalog query and returns the full
matching record set.

Returns:
  - []catalog.Book: All matching records, in query order
  - error: Database execution failures
*/
func (service *Service) QueryBooks(ctx context.Context, query catalog.Query) ([]catalog.Book, error) {
	sql, args := buildBooksQuery(query)

	rows, err := service.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query books: %w", err)
	}
	defer rows.Close()

	books := []catalog.Book{}
	for rows.Next() {
		var book catalog.Book
		err := rows.Scan(
			&book.ID,
			&book.Title,
			&book.Author,
			&book.Description,
			&book.CoverURL,
			&book.Genres,
			&book.PublicationDate,
			&book.Rating,
			&book.ISBN,
			&book.CreatedAt,
			&book.UserID,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: book rows iteration failed: %w", err)
	}
	return books, nil
}

/*
InsertBook persists a fully-stamped book record.

Returns:
  - error: Constraint or storage failures
*/
func (service *Service) InsertBook(ctx context.Context, book catalog.Book) error {
	sql := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		schema.CatalogBook.Table,
		schema.CatalogBook.ID,
		schema.CatalogBook.Title,
		schema.CatalogBook.Author,
		schema.CatalogBook.Description,
		schema.CatalogBook.CoverURL,
		schema.CatalogBook.Genres,
		schema.CatalogBook.PublicationDate,
		schema.CatalogBook.Rating,
		schema.CatalogBook.ISBN,
		schema.CatalogBook.CreatedAt,
		schema.CatalogBook.UserID,
	)

	_, err := service.pool.Exec(ctx, sql,
		book.ID,
		book.Title,
		book.Author,
		book.Description,
		book.CoverURL,
		book.Genres,
		book.PublicationDate,
		book.Rating,
		book.ISBN,
		book.CreatedAt,
		book.UserID,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to insert book: %w", err)
	}
	return nil
}

/*
UpdateBook applies a partial field replacement keyed by id.

Description: The SET clause is built dynamically from the non-nil patch
fields. An empty patch is a no-op.

Returns:
  - error: NOT_FOUND when no row matches, or storage failures
*/
func (service *Service) UpdateBook(ctx context.Context, id string, patch catalog.Patch) error {
	var sets []string
	var args []any
	argID := 1

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Title != nil {
		addSet(schema.CatalogBook.Title, *patch.Title)
	}
	if patch.Author != nil {
		addSet(schema.CatalogBook.Author, *patch.Author)
	}
	if patch.Description != nil {
		addSet(schema.CatalogBook.Description, *patch.Description)
	}
	if patch.CoverURL != nil {
		addSet(schema.CatalogBook.CoverURL, *patch.CoverURL)
	}
	if patch.Genres != nil {
		addSet(schema.CatalogBook.Genres, *patch.Genres)
	}
	if patch.PublicationDate != nil {
		addSet(schema.CatalogBook.PublicationDate, *patch.PublicationDate)
	}
	if patch.Rating != nil {
		addSet(schema.CatalogBook.Rating, *patch.Rating)
	}
	if patch.ISBN != nil {
		addSet(schema.CatalogBook.ISBN, *patch.ISBN)
	}

	if len(sets) == 0 {
		return nil
	}

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		schema.CatalogBook.Table,
		strings.Join(sets, ", "),
		schema.CatalogBook.ID,
		argID,
	)
	args = append(args, id)

	tag, err := service.pool.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("postgres: failed to update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("book")
	}
	return nil
}

/*
DeleteBook removes a book record by id.

Returns:
  - error: NOT_FOUND when no row matches, or storage failures
*/
func (service *Service) DeleteBook(ctx context.Context, id string) error {
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s = $1",
		schema.CatalogBook.Table,
		schema.CatalogBook.ID,
	)

	tag, err := service.pool.Exec(ctx, sql, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("book")
	}
	return nil
}

/*
DumpBooks returns every book record, newest first. Admin inspection only.

Returns:
  - []catalog.Book: The complete table contents
  - error: Database execution failures
*/
func (service *Service) DumpBooks(ctx context.Context) ([]catalog.Book, error) {
	return service.QueryBooks(ctx, catalog.Query{})
}
