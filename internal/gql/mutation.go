package gql

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/graphql-go/graphql"

	authormodel "library-catalog/internal/domains/author/model"
	bookmodel "library-catalog/internal/domains/book/model"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/shared/types"
)

// Mutations on a missing id answer with a payload whose message reports the
// failure and whose entity is null. Validation and permission failures are
// GraphQL errors.
func (r *Resolver) mutationType(t *objectTypes) *graphql.Object {
	idArg := &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}

	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			// Author
			"createAuthor": &graphql.Field{
				Type: t.authorPayload,
				Args: graphql.FieldConfigArgument{
					"firstName":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"lastName":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"dateOfBirth": &graphql.ArgumentConfig{Type: dateScalar},
					"dateOfDeath": &graphql.ArgumentConfig{Type: dateScalar},
				},
				Resolve: r.authorized(r.createAuthor),
			},
			"updateAuthor": &graphql.Field{
				Type: t.authorPayload,
				Args: graphql.FieldConfigArgument{
					"id":          idArg,
					"firstName":   &graphql.ArgumentConfig{Type: graphql.String},
					"lastName":    &graphql.ArgumentConfig{Type: graphql.String},
					"dateOfBirth": &graphql.ArgumentConfig{Type: dateScalar},
					"dateOfDeath": &graphql.ArgumentConfig{Type: dateScalar},
				},
				Resolve: r.authorized(r.updateAuthor),
			},
			"deleteAuthor": &graphql.Field{
				Type:    t.deletePayload,
				Args:    graphql.FieldConfigArgument{"id": idArg},
				Resolve: r.authorized(r.deleteAuthor),
			},

			// Genre
			"createGenre": &graphql.Field{
				Type: t.genrePayload,
				Args: graphql.FieldConfigArgument{
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.authorized(r.createGenre),
			},
			"updateGenre": &graphql.Field{
				Type: t.genrePayload,
				Args: graphql.FieldConfigArgument{
					"id":   idArg,
					"name": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: r.authorized(r.updateGenre),
			},
			"deleteGenre": &graphql.Field{
				Type:    t.deletePayload,
				Args:    graphql.FieldConfigArgument{"id": idArg},
				Resolve: r.authorized(r.deleteGenre),
			},

			// Book
			"createBook": &graphql.Field{
				Type: t.bookPayload,
				Args: graphql.FieldConfigArgument{
					"title":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"summary":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"authorId":      &graphql.ArgumentConfig{Type: graphql.ID},
					"genresId":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
					"publishedDate": &graphql.ArgumentConfig{Type: dateScalar},
					"pageCount":     &graphql.ArgumentConfig{Type: graphql.Int},
					"coverImage":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.authorized(r.createBook),
			},
			"updateBook": &graphql.Field{
				Type: t.bookPayload,
				Args: graphql.FieldConfigArgument{
					"id":            idArg,
					"title":         &graphql.ArgumentConfig{Type: graphql.String},
					"summary":       &graphql.ArgumentConfig{Type: graphql.String},
					"authorId":      &graphql.ArgumentConfig{Type: graphql.ID},
					"genresId":      &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
					"publishedDate": &graphql.ArgumentConfig{Type: dateScalar},
					"pageCount":     &graphql.ArgumentConfig{Type: graphql.Int},
					"coverImage":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.authorized(r.updateBook),
			},
			"deleteBook": &graphql.Field{
				Type:    t.deletePayload,
				Args:    graphql.FieldConfigArgument{"id": idArg},
				Resolve: r.authorized(r.deleteBook),
			},
		},
	})
}

// authorized applies the mutation policy to the caller before next runs.
func (r *Resolver) authorized(next graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		if err := r.Policy.AuthorizeContext(p.Context); err != nil {
			return nil, err
		}
		return next(p)
	}
}

// ════════════════════════════════════════════════════════════════
// AUTHOR
// ════════════════════════════════════════════════════════════════

func (r *Resolver) createAuthor(p graphql.ResolveParams) (interface{}, error) {
	req := authormodel.CreateAuthorRequest{
		FirstName:   stringArg(p, "firstName"),
		LastName:    stringArg(p, "lastName"),
		DateOfBirth: dateArg(p, "dateOfBirth"),
		DateOfDeath: dateArg(p, "dateOfDeath"),
	}

	a, err := r.Authors.Create(p.Context, req)
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("author", a, "Author successfully created."), nil
}

func (r *Resolver) updateAuthor(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return payload("author", nil, softFailure("Author", raw)), nil
	}

	req := authormodel.UpdateAuthorRequest{
		FirstName:   optStringArg(p, "firstName"),
		LastName:    optStringArg(p, "lastName"),
		DateOfBirth: dateArg(p, "dateOfBirth"),
		DateOfDeath: dateArg(p, "dateOfDeath"),
	}

	a, err := r.Authors.Update(p.Context, id, req)
	if errors.Is(err, authormodel.ErrAuthorNotFound) {
		return payload("author", nil, softFailure("Author", raw)), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("author", a, updatedMessage("author", raw)), nil
}

func (r *Resolver) deleteAuthor(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return deleteResult(softFailure("Author", raw)), nil
	}

	err := r.Authors.Delete(p.Context, id)
	if errors.Is(err, authormodel.ErrAuthorNotFound) {
		return deleteResult(softFailure("Author", raw)), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return deleteResult(deletedMessage("author", raw)), nil
}

// ════════════════════════════════════════════════════════════════
// GENRE
// ════════════════════════════════════════════════════════════════

func (r *Resolver) createGenre(p graphql.ResolveParams) (interface{}, error) {
	g, err := r.Genres.Create(p.Context, genremodel.CreateGenreRequest{Name: stringArg(p, "name")})
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("genre", g, "Genre successfully created."), nil
}

func (r *Resolver) updateGenre(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return payload("genre", nil, softFailure("Genre", raw)), nil
	}

	g, err := r.Genres.Update(p.Context, id, genremodel.UpdateGenreRequest{Name: optStringArg(p, "name")})
	if errors.Is(err, genremodel.ErrGenreNotFound) {
		return payload("genre", nil, softFailure("Genre", raw)), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("genre", g, updatedMessage("genre", raw)), nil
}

func (r *Resolver) deleteGenre(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return deleteResult(softFailure("Genre", raw)), nil
	}

	err := r.Genres.Delete(p.Context, id)
	if errors.Is(err, genremodel.ErrGenreNotFound) {
		return deleteResult(softFailure("Genre", raw)), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return deleteResult(deletedMessage("genre", raw)), nil
}

// ════════════════════════════════════════════════════════════════
// BOOK
// ════════════════════════════════════════════════════════════════

func (r *Resolver) createBook(p graphql.ResolveParams) (interface{}, error) {
	refs, failure := referenceArgs(p)
	if failure != "" {
		return payload("book", nil, failure), nil
	}

	req := bookmodel.CreateBookRequest{
		Title:         stringArg(p, "title"),
		Summary:       stringArg(p, "summary"),
		PublishedDate: dateArg(p, "publishedDate"),
		PageCount:     intArg(p, "pageCount"),
		CoverImage:    optStringArg(p, "coverImage"),
		References:    refs,
	}

	b, err := r.Books.Create(p.Context, req)
	if msg, soft := missingReference(err); soft {
		return payload("book", nil, msg), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("book", b, "Book successfully created."), nil
}

func (r *Resolver) updateBook(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return payload("book", nil, softFailure("Book", raw)), nil
	}

	refs, failure := referenceArgs(p)
	if failure != "" {
		return payload("book", nil, failure), nil
	}

	req := bookmodel.UpdateBookRequest{
		Title:         optStringArg(p, "title"),
		Summary:       optStringArg(p, "summary"),
		PublishedDate: dateArg(p, "publishedDate"),
		PageCount:     intArg(p, "pageCount"),
		CoverImage:    optStringArg(p, "coverImage"),
		References:    refs,
	}

	b, err := r.Books.Update(p.Context, id, req)
	if errors.Is(err, bookmodel.ErrBookNotFound) {
		return payload("book", nil, softFailure("Book", raw)), nil
	}
	if msg, soft := missingReference(err); soft {
		return payload("book", nil, msg), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return payload("book", b, updatedMessage("book", raw)), nil
}

func (r *Resolver) deleteBook(p graphql.ResolveParams) (interface{}, error) {
	raw, id, ok := idArg(p)
	if !ok {
		return deleteResult(softFailure("Book", raw)), nil
	}

	err := r.Books.Delete(p.Context, id)
	if errors.Is(err, bookmodel.ErrBookNotFound) {
		return deleteResult(softFailure("Book", raw)), nil
	}
	if err != nil {
		return nil, protocolError(err)
	}
	return deleteResult(deletedMessage("book", raw)), nil
}

// ════════════════════════════════════════════════════════════════
// HELPERS
// ════════════════════════════════════════════════════════════════

// payload builds a mutation result. A nil entity is left out of the map so
// the field resolves to null.
func payload(field string, entity interface{}, message string) map[string]interface{} {
	out := map[string]interface{}{"message": message}
	switch e := entity.(type) {
	case *authormodel.Author:
		if e != nil {
			out[field] = e
		}
	case *genremodel.Genre:
		if e != nil {
			out[field] = e
		}
	case *bookmodel.Book:
		if e != nil {
			out[field] = e
		}
	}
	return out
}

func deleteResult(message string) map[string]interface{} {
	return map[string]interface{}{"message": message}
}

func updatedMessage(entity, id string) string {
	return fmt.Sprintf("Successfully updated %s with ID: %s.", entity, id)
}

func deletedMessage(entity, id string) string {
	return fmt.Sprintf("Successfully deleted %s with ID: %s.", entity, id)
}

// referenceArgs reads authorId and genresId. An id that is not a UUID cannot
// name a row, so it is reported as a missing reference.
func referenceArgs(p graphql.ResolveParams) (bookmodel.References, string) {
	var refs bookmodel.References

	if raw, ok := p.Args["authorId"].(string); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return refs, softFailure("Author", raw)
		}
		refs.AuthorID = &id
	}

	if list, ok := p.Args["genresId"].([]interface{}); ok {
		refs.GenreIDs = make([]uuid.UUID, 0, len(list))
		for _, v := range list {
			raw, _ := v.(string)
			id, err := uuid.Parse(raw)
			if err != nil {
				return refs, softFailure("Genre", raw)
			}
			refs.GenreIDs = append(refs.GenreIDs, id)
		}
	}

	return refs, ""
}

// missingReference turns an unknown author or genre id into a soft failure
// message.
func missingReference(err error) (string, bool) {
	var missingAuthor *authormodel.MissingAuthorError
	var missingGenre *genremodel.MissingGenreError

	switch {
	case errors.As(err, &missingAuthor):
		return softFailure("Author", missingAuthor.ID.String()), true
	case errors.As(err, &missingGenre):
		return softFailure("Genre", missingGenre.ID.String()), true
	default:
		return "", false
	}
}

func idArg(p graphql.ResolveParams) (string, uuid.UUID, bool) {
	raw, _ := p.Args["id"].(string)
	id, err := uuid.Parse(raw)
	return raw, id, err == nil
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func optStringArg(p graphql.ResolveParams, name string) *string {
	if s, ok := p.Args[name].(string); ok {
		return &s
	}
	return nil
}

func intArg(p graphql.ResolveParams, name string) *int {
	if n, ok := p.Args[name].(int); ok {
		return &n
	}
	return nil
}

func dateArg(p graphql.ResolveParams, name string) *types.Date {
	if d, ok := p.Args[name].(types.Date); ok {
		return &d
	}
	return nil
}
