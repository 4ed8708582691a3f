package gql

import (
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"library-catalog/internal/shared/types"
)

// dateScalar carries calendar dates as YYYY-MM-DD strings.
var dateScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "Date",
	Description: "Calendar date formatted as YYYY-MM-DD.",
	Serialize:   serializeDate,
	ParseValue:  parseDateValue,
	ParseLiteral: func(valueAST ast.Value) interface{} {
		if v, ok := valueAST.(*ast.StringValue); ok {
			return parseDateValue(v.Value)
		}
		return nil
	},
})

func serializeDate(value interface{}) interface{} {
	switch v := value.(type) {
	case types.Date:
		return v.String()
	case *types.Date:
		if v == nil {
			return nil
		}
		return v.String()
	default:
		return nil
	}
}

// parseDateValue returns nil for anything that is not a valid date, which
// graphql-go reports as an argument error.
func parseDateValue(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return nil
	}
	d, err := types.ParseDate(s)
	if err != nil {
		return nil
	}
	return d
}
