package gql

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/samber/lo"

	authormodel "library-catalog/internal/domains/author/model"
	bookmodel "library-catalog/internal/domains/book/model"
	genremodel "library-catalog/internal/domains/genre/model"
	"library-catalog/internal/shared/types"
)

type objectTypes struct {
	author        *graphql.Object
	genre         *graphql.Object
	book          *graphql.Object
	authorPayload *graphql.Object
	genrePayload  *graphql.Object
	bookPayload   *graphql.Object
	deletePayload *graphql.Object
}

// newObjectTypes builds Author, Genre and Book. Their fields reference each
// other, so they are declared with thunks.
func newObjectTypes(r *Resolver) *objectTypes {
	t := &objectTypes{}

	t.author = graphql.NewObject(graphql.ObjectConfig{
		Name: "Author",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*authormodel.Author).ID.String(), nil
					},
				},
				"firstName": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*authormodel.Author).FirstName, nil
					},
				},
				"lastName": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*authormodel.Author).LastName, nil
					},
				},
				"dateOfBirth": &graphql.Field{
					Type: dateScalar,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return dateOrNil(p.Source.(*authormodel.Author).DateOfBirth), nil
					},
				},
				"dateOfDeath": &graphql.Field{
					Type: dateScalar,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return dateOrNil(p.Source.(*authormodel.Author).DateOfDeath), nil
					},
				},
				"age": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if age := p.Source.(*authormodel.Author).Age(time.Now()); age != nil {
							return *age, nil
						}
						return nil, nil
					},
				},
				"bookSet": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.book))),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id := p.Source.(*authormodel.Author).ID
						books, err := r.Books.List(p.Context, bookmodel.BookFilter{AuthorID: &id})
						if err != nil {
							return nil, protocolError(err)
						}
						return lo.ToSlicePtr(books), nil
					},
				},
			}
		}),
	})

	t.genre = graphql.NewObject(graphql.ObjectConfig{
		Name: "Genre",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*genremodel.Genre).ID.String(), nil
					},
				},
				"name": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*genremodel.Genre).Name, nil
					},
				},
				"bookSet": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.book))),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						id := p.Source.(*genremodel.Genre).ID
						books, err := r.Books.List(p.Context, bookmodel.BookFilter{GenreID: &id})
						if err != nil {
							return nil, protocolError(err)
						}
						return lo.ToSlicePtr(books), nil
					},
				},
			}
		}),
	})

	t.book = graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.NewNonNull(graphql.ID),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).ID.String(), nil
					},
				},
				"title": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).Title, nil
					},
				},
				"summary": &graphql.Field{
					Type: graphql.NewNonNull(graphql.String),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return p.Source.(*bookmodel.Book).Summary, nil
					},
				},
				"publishedDate": &graphql.Field{
					Type: dateScalar,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return dateOrNil(p.Source.(*bookmodel.Book).PublishedDate), nil
					},
				},
				"pageCount": &graphql.Field{
					Type: graphql.Int,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if n := p.Source.(*bookmodel.Book).PageCount; n != nil {
							return *n, nil
						}
						return nil, nil
					},
				},
				"coverImage": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if s := p.Source.(*bookmodel.Book).CoverImage; s != nil {
							return *s, nil
						}
						return nil, nil
					},
				},
				"author": &graphql.Field{
					Type: t.author,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						if a := p.Source.(*bookmodel.Book).Author; a != nil {
							return a, nil
						}
						return nil, nil
					},
				},
				"genre": &graphql.Field{
					Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(t.genre))),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return lo.ToSlicePtr(p.Source.(*bookmodel.Book).Genres), nil
					},
				},
			}
		}),
	})

	t.authorPayload = payloadType("AuthorPayload", "author", t.author)
	t.genrePayload = payloadType("GenrePayload", "genre", t.genre)
	t.bookPayload = payloadType("BookPayload", "book", t.book)
	t.deletePayload = graphql.NewObject(graphql.ObjectConfig{
		Name: "DeletePayload",
		Fields: graphql.Fields{
			"message": &graphql.Field{Type: graphql.String},
		},
	})

	return t
}

// payloadType is the result of a create or update mutation: the affected
// entity, null on a soft failure, plus a status message. Resolvers return
// it as a map so the default resolver can read it.
func payloadType(name, field string, entity *graphql.Object) *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: name,
		Fields: graphql.Fields{
			field:     &graphql.Field{Type: entity},
			"message": &graphql.Field{Type: graphql.String},
		},
	})
}

func dateOrNil(d *types.Date) interface{} {
	if d == nil {
		return nil
	}
	return *d
}
