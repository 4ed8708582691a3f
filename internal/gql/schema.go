// Package gql serves the catalog over GraphQL on top of the same services
// as the REST handlers.
package gql

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/graphql-go/graphql/language/ast"
	"github.com/graphql-go/graphql/language/parser"
	"github.com/graphql-go/handler"

	authorservice "library-catalog/internal/domains/author/service"
	bookservice "library-catalog/internal/domains/book/service"
	genreservice "library-catalog/internal/domains/genre/service"
	"library-catalog/internal/shared/auth"
)

// Resolver holds what the schema's resolve functions call into.
type Resolver struct {
	Authors authorservice.ServiceInterface
	Genres  genreservice.ServiceInterface
	Books   bookservice.ServiceInterface
	Policy  auth.Policy
}

// NewSchema builds the query and mutation roots.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	t := newObjectTypes(r)

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(t),
		Mutation: r.mutationType(t),
	})
}

// NewHandler serves GET and POST requests and the GraphiQL explorer. The
// caller's principal is read from the request context. Mutations are only
// accepted over POST.
func NewHandler(schema *graphql.Schema) http.Handler {
	h := handler.New(&handler.Config{
		Schema:   schema,
		Pretty:   true,
		GraphiQL: true,
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			q := r.URL.Query()
			if isMutation(q.Get("query"), q.Get("operationName")) {
				rejectMutation(w)
				return
			}
		}
		h.ServeHTTP(w, r)
	})
}

// isMutation reports whether the operation that would run is a mutation.
// Unparsable documents are left to the executor to report.
func isMutation(query, operationName string) bool {
	if query == "" {
		return false
	}

	doc, err := parser.Parse(parser.ParseParams{Source: query})
	if err != nil {
		return false
	}

	for _, def := range doc.Definitions {
		op, ok := def.(*ast.OperationDefinition)
		if !ok {
			continue
		}
		if operationName != "" && (op.Name == nil || op.Name.Value != operationName) {
			continue
		}
		if op.Operation == ast.OperationTypeMutation {
			return true
		}
	}
	return false
}

func rejectMutation(w http.ResponseWriter) {
	w.Header().Set("Allow", http.MethodPost)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusMethodNotAllowed)

	_ = json.NewEncoder(w).Encode(&graphql.Result{
		Errors: []gqlerrors.FormattedError{
			gqlerrors.NewFormattedError("mutations must be sent with POST"),
		},
	})
}
