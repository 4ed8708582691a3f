package gql

import (
	"errors"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
	"github.com/samber/lo"

	authormodel "library-catalog/internal/domains/author/model"
	bookmodel "library-catalog/internal/domains/book/model"
	genremodel "library-catalog/internal/domains/genre/model"
)

func (r *Resolver) queryType(t *objectTypes) *graphql.Object {
	idArgs := graphql.FieldConfigArgument{
		"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
	}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"authors": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.author))),
				Resolve: r.resolveAuthors,
			},
			"author": &graphql.Field{
				Type:    t.author,
				Args:    idArgs,
				Resolve: r.resolveAuthor,
			},
			"genres": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.genre))),
				Resolve: r.resolveGenres,
			},
			"genre": &graphql.Field{
				Type:    t.genre,
				Args:    idArgs,
				Resolve: r.resolveGenre,
			},
			"books": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.book))),
				Args: graphql.FieldConfigArgument{
					"authorId": &graphql.ArgumentConfig{Type: graphql.ID},
					"genreId":  &graphql.ArgumentConfig{Type: graphql.ID},
				},
				Resolve: r.resolveBooks,
			},
			"book": &graphql.Field{
				Type:    t.book,
				Args:    idArgs,
				Resolve: r.resolveBook,
			},
		},
	})
}

func (r *Resolver) resolveAuthors(p graphql.ResolveParams) (interface{}, error) {
	authors, err := r.Authors.List(p.Context)
	if err != nil {
		return nil, protocolError(err)
	}
	return lo.ToSlicePtr(authors), nil
}

func (r *Resolver) resolveAuthor(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(notFoundMessage("Author", raw))
	}

	a, err := r.Authors.GetByID(p.Context, id)
	if errors.Is(err, authormodel.ErrAuthorNotFound) {
		return nil, errors.New(notFoundMessage("Author", raw))
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return a, nil
}

func (r *Resolver) resolveGenres(p graphql.ResolveParams) (interface{}, error) {
	genres, err := r.Genres.List(p.Context)
	if err != nil {
		return nil, protocolError(err)
	}
	return lo.ToSlicePtr(genres), nil
}

func (r *Resolver) resolveGenre(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(notFoundMessage("Genre", raw))
	}

	g, err := r.Genres.GetByID(p.Context, id)
	if errors.Is(err, genremodel.ErrGenreNotFound) {
		return nil, errors.New(notFoundMessage("Genre", raw))
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return g, nil
}

// resolveBooks lists the catalog, optionally narrowed to one author or genre.
// A filter id that is not a UUID matches nothing.
func (r *Resolver) resolveBooks(p graphql.ResolveParams) (interface{}, error) {
	var filter bookmodel.BookFilter

	if raw, ok := p.Args["authorId"].(string); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return []*bookmodel.Book{}, nil
		}
		filter.AuthorID = &id
	}
	if raw, ok := p.Args["genreId"].(string); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return []*bookmodel.Book{}, nil
		}
		filter.GenreID = &id
	}

	books, err := r.Books.List(p.Context, filter)
	if err != nil {
		return nil, protocolError(err)
	}
	return lo.ToSlicePtr(books), nil
}

func (r *Resolver) resolveBook(p graphql.ResolveParams) (interface{}, error) {
	raw, _ := p.Args["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, errors.New(notFoundMessage("Book", raw))
	}

	b, err := r.Books.GetByID(p.Context, id)
	if errors.Is(err, bookmodel.ErrBookNotFound) {
		return nil, errors.New(notFoundMessage("Book", raw))
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return b, nil
}
