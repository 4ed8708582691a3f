package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/samber/lo"

	authormodel "library-catalog/internal/domains/author/model"
	"library-catalog/internal/domains/book/model"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/shared/types"
)

const (
	booksTable      = "books"
	bookGenresTable = "book_genres"
)

type sqlRepository struct {
	store *database.Store
}

// NewSQLRepository creates a book repository on top of store.
func NewSQLRepository(store *database.Store) RepositoryInterface {
	return &sqlRepository{store: store}
}

// selectBooks joins the optional author so a book and its author come back
// in one row.
func (r *sqlRepository) selectBooks() sq.SelectBuilder {
	return r.store.Builder().
		Select(
			"b.id", "b.title", "b.summary", "b.published_date", "b.page_count", "b.cover_image",
			"a.id", "a.first_name", "a.last_name", "a.date_of_birth", "a.date_of_death",
		).
		From(booksTable + " b").
		LeftJoin("authors a ON a.id = b.author_id")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		b         model.Book
		authorID  uuid.NullUUID
		firstName sql.NullString
		lastName  sql.NullString
		born      *types.Date
		died      *types.Date
	)

	err := row.Scan(
		&b.ID, &b.Title, &b.Summary, &b.PublishedDate, &b.PageCount, &b.CoverImage,
		&authorID, &firstName, &lastName, &born, &died,
	)
	if err != nil {
		return nil, err
	}

	if authorID.Valid {
		b.SetAuthor(&authormodel.Author{
			ID:          authorID.UUID,
			FirstName:   firstName.String,
			LastName:    lastName.String,
			DateOfBirth: born,
			DateOfDeath: died,
		})
	}
	b.Genres = []genremodel.Genre{}
	return &b, nil
}

func (r *sqlRepository) Create(ctx context.Context, b *model.Book) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}

	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.store.Exec(ctx, r.store.Builder().
			Insert(booksTable).
			Columns("id", "title", "summary", "published_date", "page_count", "cover_image", "author_id").
			Values(b.ID, b.Title, b.Summary, b.PublishedDate, b.PageCount, b.CoverImage, nullableID(b.AuthorID)))
		if err != nil {
			return fmt.Errorf("insert book: %w", err)
		}

		return r.insertGenreLinks(ctx, b.ID, b.GenreIDs())
	})
}

func (r *sqlRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	row, err := r.store.QueryRow(ctx, r.selectBooks().Where(sq.Eq{"b.id": id.String()}))
	if err != nil {
		return nil, err
	}

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	books := []*model.Book{b}
	if err := r.loadGenres(ctx, books); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *sqlRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, error) {
	q := r.selectBooks().OrderBy("b.published_date IS NULL", "b.published_date", "b.title")
	if filter.AuthorID != nil {
		q = q.Where(sq.Eq{"b.author_id": filter.AuthorID.String()})
	}
	if filter.GenreID != nil {
		q = q.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM book_genres bg WHERE bg.book_id = b.id AND bg.genre_id = ?)",
			filter.GenreID.String(),
		))
	}

	rows, err := r.store.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	var books []*model.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	// Close before the genre query: SQLite runs on a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	if err := r.loadGenres(ctx, books); err != nil {
		return nil, err
	}

	return lo.Map(books, func(b *model.Book, _ int) model.Book { return *b }), nil
}

// loadGenres fills Genres for every book with a single IN query.
func (r *sqlRepository) loadGenres(ctx context.Context, books []*model.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := lo.Map(books, func(b *model.Book, _ int) string { return b.ID.String() })
	rows, err := r.store.Query(ctx, r.store.Builder().
		Select("bg.book_id", "g.id", "g.name").
		From(bookGenresTable + " bg").
		Join("genres g ON g.id = bg.genre_id").
		Where(sq.Eq{"bg.book_id": ids}).
		OrderBy("g.name"))
	if err != nil {
		return fmt.Errorf("load book genres: %w", err)
	}
	defer rows.Close()

	byBook := lo.SliceToMap(books, func(b *model.Book) (uuid.UUID, *model.Book) {
		return b.ID, b
	})
	for rows.Next() {
		var (
			bookID uuid.UUID
			g      genremodel.Genre
		)
		if err := rows.Scan(&bookID, &g.ID, &g.Name); err != nil {
			return fmt.Errorf("scan book genre: %w", err)
		}
		if b, ok := byBook[bookID]; ok {
			b.Genres = append(b.Genres, g)
		}
	}
	return rows.Err()
}

func (r *sqlRepository) Update(ctx context.Context, b *model.Book) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Update(booksTable).
		Set("title", b.Title).
		Set("summary", b.Summary).
		Set("published_date", b.PublishedDate).
		Set("page_count", b.PageCount).
		Set("cover_image", b.CoverImage).
		Set("author_id", nullableID(b.AuthorID)).
		Where(sq.Eq{"id": b.ID.String()}))
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return requireAffected(res)
}

func (r *sqlRepository) ReplaceGenres(ctx context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error {
	return r.store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := r.store.Exec(ctx, r.store.Builder().
			Delete(bookGenresTable).
			Where(sq.Eq{"book_id": bookID.String()}))
		if err != nil {
			return fmt.Errorf("clear book genres: %w", err)
		}
		return r.insertGenreLinks(ctx, bookID, genreIDs)
	})
}

func (r *sqlRepository) insertGenreLinks(ctx context.Context, bookID uuid.UUID, genreIDs []uuid.UUID) error {
	genreIDs = lo.Uniq(genreIDs)
	if len(genreIDs) == 0 {
		return nil
	}

	insert := r.store.Builder().Insert(bookGenresTable).Columns("book_id", "genre_id")
	for _, genreID := range genreIDs {
		insert = insert.Values(bookID, genreID)
	}
	if _, err := r.store.Exec(ctx, insert); err != nil {
		return fmt.Errorf("link book genres: %w", err)
	}
	return nil
}

func (r *sqlRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.store.Exec(ctx, r.store.Builder().
		Delete(booksTable).
		Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	return requireAffected(res)
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return model.ErrBookNotFound
	}
	return nil
}
