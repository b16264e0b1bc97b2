package env

import (
	"strings"
	"sync"

	"github.com/sqlcore-dev/sqlcore/token"
	"github.com/sqlcore-dev/sqlcore/types"
)

// OperatorCatalog maps a prefix/infix/postfix operator token.Kind to its
// type scheme. Schemes are instantiated fresh per use-site by the caller
// (package check), via Scheme.Instantiate.
type OperatorCatalog struct {
	Prefix  map[token.Kind]types.Scheme
	Infix   map[token.Kind]types.Scheme
	Postfix map[token.Kind]types.Scheme
}

var operatorCatalog = sync.OnceValue(buildOperatorCatalog)

// Operators returns the shared, immutable operator catalog, building it
// once on first use.
func Operators() OperatorCatalog { return operatorCatalog() }

func nominal(name string) types.Type { return types.Nominal{Name: name} }

// integer is the result type of every boolean-valued expression: sqlcore's
// closed type vocabulary has no BOOLEAN, so comparisons, logical operators,
// and predicates all resolve to Nominal(INTEGER), matching SQLite's own
// 0/1 integer truth values.
var integer = nominal("INTEGER")

func buildOperatorCatalog() OperatorCatalog {
	numericBinary := func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.Integer}
		return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}, types.Var{V: a}}, Ret: types.Var{V: a}}, a)
	}
	comparison := func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.General}
		return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}, types.Var{V: a}}, Ret: integer}, a)
	}
	logicalBinary := types.NewScheme(types.Fn{Params: []types.Type{integer, integer}, Ret: integer})
	logicalUnary := types.NewScheme(types.Fn{Params: []types.Type{integer}, Ret: integer})
	concat := types.NewScheme(types.Fn{Params: []types.Type{nominal("TEXT"), nominal("TEXT")}, Ret: nominal("TEXT")})
	bitBinary := func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.Integer}
		return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}, types.Var{V: a}}, Ret: types.Var{V: a}}, a)
	}
	numericUnary := func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.Integer}
		return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}}, Ret: types.Var{V: a}}, a)
	}
	isNullUnary := func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.General}
		return types.NewScheme(types.Fn{Params: []types.Type{types.Optional{Inner: types.Var{V: a}}}, Ret: integer}, a)
	}

	return OperatorCatalog{
		Prefix: map[token.Kind]types.Scheme{
			token.Minus: numericUnary(),
			token.Plus:  numericUnary(),
			token.Tilde: numericUnary(),
			token.NOT:   logicalUnary,
		},
		Infix: map[token.Kind]types.Scheme{
			token.Plus:       numericBinary(),
			token.Minus:      numericBinary(),
			token.Star:       numericBinary(),
			token.Slash:      numericBinary(),
			token.Percent:    numericBinary(),
			token.Amp:        bitBinary(),
			token.Pipe:       bitBinary(),
			token.ShiftLeft:  bitBinary(),
			token.ShiftRight: bitBinary(),
			token.Concat:     concat,
			token.Eq:         comparison(),
			token.EqEq:       comparison(),
			token.NotEq:      comparison(),
			token.LtGt:       comparison(),
			token.Lt:         comparison(),
			token.LtEq:       comparison(),
			token.Gt:         comparison(),
			token.GtEq:       comparison(),
			token.AND:        logicalBinary,
			token.OR:         logicalBinary,
			token.LIKE:       comparison(),
			token.GLOB:       comparison(),
			token.REGEXP:     comparison(),
			token.MATCH:      comparison(),
			token.IS:         comparison(),
		},
		Postfix: map[token.Kind]types.Scheme{
			token.ISNULL:  isNullUnary(),
			token.NOTNULL: isNullUnary(),
		},
	}
}

// FunctionCatalog maps a lowercased function name to its type scheme: the
// builtin function table (arithmetic helpers, aggregates, and the variadic
// builtins coalesce/max/min/char). Lookup is case-insensitive.
type FunctionCatalog struct {
	schemes map[string]types.Scheme
}

var functionCatalog = sync.OnceValue(buildFunctionCatalog)

// Functions returns the shared, immutable builtin function catalog,
// building it once on first use.
func Functions() FunctionCatalog { return functionCatalog() }

// Lookup finds the scheme for a function name, case-insensitively.
func (c FunctionCatalog) Lookup(name string) (types.Scheme, bool) {
	s, ok := c.schemes[strings.ToLower(name)]
	return s, ok
}

func buildFunctionCatalog() FunctionCatalog {
	text := nominal("TEXT")
	integer := nominal("INTEGER")
	real := nominal("REAL")
	blob := nominal("BLOB")
	any_ := nominal("ANY")

	schemes := map[string]types.Scheme{
		"length":   types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: integer}),
		"lower":    types.NewScheme(types.Fn{Params: []types.Type{text}, Ret: text}),
		"upper":    types.NewScheme(types.Fn{Params: []types.Type{text}, Ret: text}),
		"trim":     types.NewVariadicScheme(types.Fn{Params: []types.Type{text, text}, Ret: text}),
		"ltrim":    types.NewVariadicScheme(types.Fn{Params: []types.Type{text, text}, Ret: text}),
		"rtrim":    types.NewVariadicScheme(types.Fn{Params: []types.Type{text, text}, Ret: text}),
		"substr":   types.NewVariadicScheme(types.Fn{Params: []types.Type{text, integer, integer}, Ret: text}),
		"replace":  types.NewScheme(types.Fn{Params: []types.Type{text, text, text}, Ret: text}),
		"abs":      numericIdentityScheme(),
		"round":    types.NewVariadicScheme(types.Fn{Params: []types.Type{real, integer}, Ret: real}),
		"random":   types.NewScheme(types.Fn{Params: nil, Ret: integer}),
		"typeof":   types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: text}),
		"hex":      types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: text}),
		"quote":    types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: text}),
		"zeroblob": types.NewScheme(types.Fn{Params: []types.Type{integer}, Ret: blob}),
		"unixepoch":    types.NewVariadicScheme(types.Fn{Params: []types.Type{text}, Ret: integer}),
		"strftime":     types.NewVariadicScheme(types.Fn{Params: []types.Type{text, text}, Ret: text}),
		"date":         types.NewVariadicScheme(types.Fn{Params: []types.Type{text}, Ret: text}),
		"datetime":     types.NewVariadicScheme(types.Fn{Params: []types.Type{text}, Ret: text}),
		"julianday":    types.NewVariadicScheme(types.Fn{Params: []types.Type{text}, Ret: real}),
		"count":        types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: integer}),
		"sum":          numericAggregateScheme(),
		"total":        types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: real}),
		"avg":          types.NewScheme(types.Fn{Params: []types.Type{any_}, Ret: real}),
		"group_concat": types.NewVariadicScheme(types.Fn{Params: []types.Type{text, text}, Ret: text}),
		"char":         types.NewVariadicScheme(types.Fn{Params: []types.Type{integer}, Ret: text}),
	}
	schemes["coalesce"] = variadicSameType()
	schemes["ifnull"] = types.Scheme{Quantified: []types.TypeVariable{{ID: 1, Kind: types.General}}, Body: types.Fn{
		Params: []types.Type{types.Optional{Inner: types.Var{V: types.TypeVariable{ID: 1}}}, types.Var{V: types.TypeVariable{ID: 1}}},
		Ret:    types.Var{V: types.TypeVariable{ID: 1}},
	}}
	schemes["nullif"] = func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.General}
		return types.NewScheme(types.Fn{
			Params: []types.Type{types.Var{V: a}, types.Var{V: a}},
			Ret:    types.Optional{Inner: types.Var{V: a}},
		}, a)
	}()
	schemes["max"] = variadicSameTypeAggregate()
	schemes["min"] = variadicSameTypeAggregate()
	schemes["iif"] = func() types.Scheme {
		a := types.TypeVariable{ID: 1, Kind: types.General}
		return types.NewScheme(types.Fn{
			Params: []types.Type{integer, types.Var{V: a}, types.Var{V: a}},
			Ret:    types.Var{V: a},
		}, a)
	}()

	return FunctionCatalog{schemes: schemes}
}

func numericIdentityScheme() types.Scheme {
	a := types.TypeVariable{ID: 1, Kind: types.Integer}
	return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}}, Ret: types.Var{V: a}}, a)
}

func numericAggregateScheme() types.Scheme {
	a := types.TypeVariable{ID: 1, Kind: types.Integer}
	return types.NewScheme(types.Fn{Params: []types.Type{types.Var{V: a}}, Ret: types.Var{V: a}}, a)
}

// variadicSameType models coalesce(a, a, ...) -> a: every argument and the
// result share one type variable, widened to the declared arity and then
// repeated by Scheme.Instantiate to match the call's actual argument
// count.
func variadicSameType() types.Scheme {
	a := types.TypeVariable{ID: 1, Kind: types.General}
	return types.NewVariadicScheme(types.Fn{
		Params: []types.Type{types.Optional{Inner: types.Var{V: a}}, types.Optional{Inner: types.Var{V: a}}},
		Ret:    types.Var{V: a},
	}, a)
}

func variadicSameTypeAggregate() types.Scheme {
	a := types.TypeVariable{ID: 1, Kind: types.General}
	return types.NewVariadicScheme(types.Fn{
		Params: []types.Type{types.Var{V: a}, types.Var{V: a}},
		Ret:    types.Var{V: a},
	}, a)
}
