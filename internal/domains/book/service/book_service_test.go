package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "library-catalog/internal/domains/author/model"
	authorrepo "library-catalog/internal/domains/author/repository"
	authorservice "library-catalog/internal/domains/author/service"
	"library-catalog/internal/domains/book/model"
	"library-catalog/internal/domains/book/repository"
	"library-catalog/internal/domains/book/service"
	genremodel "library-catalog/internal/domains/genre/model"
	genrerepo "library-catalog/internal/domains/genre/repository"
	genreservice "library-catalog/internal/domains/genre/service"
	"library-catalog/internal/shared/types"
	"library-catalog/internal/testutil"
)

type fixture struct {
	books   service.ServiceInterface
	authors authorservice.ServiceInterface
	genres  genreservice.ServiceInterface
}

func newFixture(t *testing.T) *fixture {
	store := testutil.NewStore(t)
	authors := authorservice.NewAuthorService(authorrepo.NewSQLRepository(store))
	genres := genreservice.NewGenreService(genrerepo.NewSQLRepository(store))

	return &fixture{
		books:   service.NewBookService(repository.NewSQLRepository(store), authors, genres, store),
		authors: authors,
		genres:  genres,
	}
}

func (f *fixture) author(t *testing.T, first, last string) *authormodel.Author {
	a, err := f.authors.Create(context.Background(), authormodel.CreateAuthorRequest{FirstName: first, LastName: last})
	require.NoError(t, err)
	return a
}

func (f *fixture) genre(t *testing.T, name string) *genremodel.Genre {
	g, err := f.genres.Create(context.Background(), genremodel.CreateGenreRequest{Name: name})
	require.NoError(t, err)
	return g
}

func genreNames(b *model.Book) []string {
	return lo.Map(b.Genres, func(g genremodel.Genre, _ int) string { return g.Name })
}

func fieldErrors(t *testing.T, err error) validation.Errors {
	t.Helper()
	var fields validation.Errors
	require.ErrorAs(t, err, &fields)
	return fields
}

func TestCreate_WithReferencesByID(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.author(t, "Frank", "Herbert")
	scifi := f.genre(t, "Science Fiction")
	classic := f.genre(t, "Classic")

	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:         "Dune",
		Summary:       "Spice.",
		PublishedDate: lo.ToPtr(types.NewDate(1965, time.August, 1)),
		PageCount:     lo.ToPtr(412),
		References: model.References{
			AuthorID: &a.ID,
			GenreIDs: []uuid.UUID{scifi.ID, classic.ID},
		},
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, "Dune", b.Title)
	require.NotNil(t, b.Author)
	assert.Equal(t, a.ID, b.Author.ID)
	assert.Equal(t, "1965-08-01", b.PublishedDate.String())
	assert.Equal(t, 412, *b.PageCount)
	assert.Equal(t, []string{"Classic", "Science Fiction"}, genreNames(b))
}

func TestCreate_UnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Ghost",
		Summary:    "Nobody wrote it.",
		References: model.References{AuthorID: &missing},
	})
	var missingAuthor *authormodel.MissingAuthorError
	require.ErrorAs(t, err, &missingAuthor)
	assert.Equal(t, missing, missingAuthor.ID)

	_, err = f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Ghost",
		Summary:    "No such genre.",
		References: model.References{GenreIDs: []uuid.UUID{missing}},
	})
	var missingGenre *genremodel.MissingGenreError
	require.ErrorAs(t, err, &missingGenre)

	books, err := f.books.List(ctx, model.BookFilter{})
	require.NoError(t, err)
	assert.Empty(t, books, "failed creates must not leave rows behind")
}

func TestCreate_NestedReferencesGetOrCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	existing := f.genre(t, "Fantasy")

	req := model.CreateBookRequest{
		Title:   "A Wizard of Earthsea",
		Summary: "Ged.",
		References: model.References{
			Author: &authormodel.CreateAuthorRequest{FirstName: "Ursula", LastName: "Le Guin"},
			Genres: []genremodel.CreateGenreRequest{{Name: "Fantasy"}, {Name: "Young Adult"}, {Name: "Fantasy"}},
		},
	}

	first, err := f.books.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, []string{"Fantasy", "Young Adult"}, genreNames(first))
	assert.Contains(t, first.GenreIDs(), existing.ID)

	req.Title = "The Tombs of Atuan"
	second, err := f.books.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.Author.ID, second.Author.ID)

	authors, err := f.authors.List(ctx)
	require.NoError(t, err)
	assert.Len(t, authors, 1)

	genres, err := f.genres.List(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 2)
}

func TestCreate_BothReferenceFormsRejected(t *testing.T) {
	f := newFixture(t)
	a := f.author(t, "Octavia", "Butler")

	_, err := f.books.Create(context.Background(), model.CreateBookRequest{
		Title:   "Kindred",
		Summary: "Time travel.",
		References: model.References{
			AuthorID: &a.ID,
			Author:   &authormodel.CreateAuthorRequest{FirstName: "Octavia", LastName: "Butler"},
			GenreIDs: []uuid.UUID{},
			Genres:   []genremodel.CreateGenreRequest{},
		},
	})

	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "author")
	assert.Contains(t, fields, "genres")
}

func TestCreate_SummaryLength(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Long", Summary: strings.Repeat("s", 1025)})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "summary")

	b, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Long", Summary: strings.Repeat("s", 1024)})
	require.NoError(t, err)
	assert.Len(t, b.Summary, 1024)
}

func TestCreate_PageCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, n := range []int{0, -5} {
		_, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Pages", Summary: "s", PageCount: lo.ToPtr(n)})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "page_count")
	}

	b, err := f.books.Create(ctx, model.CreateBookRequest{Title: "Pages", Summary: "s"})
	require.NoError(t, err)
	assert.Nil(t, b.PageCount)

	b, err = f.books.Create(ctx, model.CreateBookRequest{Title: "Pages", Summary: "s", PageCount: lo.ToPtr(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, *b.PageCount)
}

func TestCreate_RequiredFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.books.Create(context.Background(), model.CreateBookRequest{})
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "summary")
}

func TestDeleteAuthor_LeavesBookWithoutAuthor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.author(t, "Mary", "Shelley")
	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Frankenstein",
		Summary:    "A creature.",
		References: model.References{AuthorID: &a.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, b.Author)

	require.NoError(t, f.authors.Delete(ctx, a.ID))

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Author)
	assert.Nil(t, got.AuthorID)
	assert.Equal(t, "Frankenstein", got.Title)
}

func TestUpdate_ReplacesGenreSet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	ga, gb, gc := f.genre(t, "A"), f.genre(t, "B"), f.genre(t, "C")

	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Sets",
		Summary:    "Genres replace.",
		References: model.References{GenreIDs: []uuid.UUID{ga.ID, gb.ID}},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"A", "B"}, genreNames(b))

	updated, err := f.books.Update(ctx, b.ID, model.UpdateBookRequest{
		References: model.References{GenreIDs: []uuid.UUID{gc.ID}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, genreNames(updated))

	reloaded, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"C"}, genreNames(reloaded))
}

func TestUpdate_PartialKeepsOtherFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.author(t, "Jules", "Verne")
	g := f.genre(t, "Adventure")

	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Twenty Thousand Leagues",
		Summary:    "Nautilus.",
		PageCount:  lo.ToPtr(300),
		References: model.References{AuthorID: &a.ID, GenreIDs: []uuid.UUID{g.ID}},
	})
	require.NoError(t, err)

	updated, err := f.books.Update(ctx, b.ID, model.UpdateBookRequest{Title: lo.ToPtr("Twenty Thousand Leagues Under the Seas")})
	require.NoError(t, err)
	assert.Equal(t, "Twenty Thousand Leagues Under the Seas", updated.Title)
	assert.Equal(t, "Nautilus.", updated.Summary)
	assert.Equal(t, 300, *updated.PageCount)
	require.NotNil(t, updated.Author)
	assert.Equal(t, a.ID, updated.Author.ID)
	assert.Equal(t, []string{"Adventure"}, genreNames(updated))
}

func TestUpdate_UnknownGenreRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	g := f.genre(t, "Kept")
	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Atomic",
		Summary:    "All or nothing.",
		References: model.References{GenreIDs: []uuid.UUID{g.ID}},
	})
	require.NoError(t, err)

	_, err = f.books.Update(ctx, b.ID, model.UpdateBookRequest{
		Title:      lo.ToPtr("Changed"),
		References: model.References{GenreIDs: []uuid.UUID{uuid.New()}},
	})
	var missingGenre *genremodel.MissingGenreError
	require.ErrorAs(t, err, &missingGenre)

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Atomic", got.Title)
	assert.Equal(t, []string{"Kept"}, genreNames(got))
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := uuid.New()

	_, err := f.books.GetByID(ctx, missing)
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = f.books.Update(ctx, missing, model.UpdateBookRequest{Title: lo.ToPtr("x")})
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	assert.ErrorIs(t, f.books.Delete(ctx, missing), model.ErrBookNotFound)
}

func TestDeleteGenre_RemovesLinkOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	keep, drop := f.genre(t, "Keep"), f.genre(t, "Drop")
	b, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Links",
		Summary:    "Cascade.",
		References: model.References{GenreIDs: []uuid.UUID{keep.ID, drop.ID}},
	})
	require.NoError(t, err)

	require.NoError(t, f.genres.Delete(ctx, drop.ID))

	got, err := f.books.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keep"}, genreNames(got))
}

func TestList_OrderAndFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.author(t, "Agatha", "Christie")
	crime := f.genre(t, "Crime")

	create := func(title string, published *types.Date, refs model.References) {
		_, err := f.books.Create(ctx, model.CreateBookRequest{Title: title, Summary: "s", PublishedDate: published, References: refs})
		require.NoError(t, err)
	}
	create("Undated", nil, model.References{})
	create("Later", lo.ToPtr(types.NewDate(1934, time.January, 1)), model.References{AuthorID: &a.ID, GenreIDs: []uuid.UUID{crime.ID}})
	create("Earlier", lo.ToPtr(types.NewDate(1920, time.January, 1)), model.References{AuthorID: &a.ID})

	books, err := f.books.List(ctx, model.BookFilter{})
	require.NoError(t, err)
	titles := lo.Map(books, func(b model.Book, _ int) string { return b.Title })
	assert.Equal(t, []string{"Earlier", "Later", "Undated"}, titles)

	byAuthor, err := f.books.List(ctx, model.BookFilter{AuthorID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)

	byGenre, err := f.books.List(ctx, model.BookFilter{GenreID: &crime.ID})
	require.NoError(t, err)
	require.Len(t, byGenre, 1)
	assert.Equal(t, "Later", byGenre[0].Title)
}

func TestExportToExcel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := f.author(t, "Italo", "Calvino")
	g := f.genre(t, "Fable")
	_, err := f.books.Create(ctx, model.CreateBookRequest{
		Title:      "Invisible Cities",
		Summary:    "Marco Polo.",
		PageCount:  lo.ToPtr(165),
		References: model.References{AuthorID: &a.ID, GenreIDs: []uuid.UUID{g.ID}},
	})
	require.NoError(t, err)

	file, err := f.books.ExportToExcel(ctx)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Books")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, "Invisible Cities", rows[1][1])
	assert.Equal(t, "Italo Calvino", rows[1][2])
	assert.Equal(t, "Fable", rows[1][3])
	assert.Equal(t, "165", rows[1][5])
}
