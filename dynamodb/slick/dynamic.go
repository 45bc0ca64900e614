package slick

import "fmt"

// FromAny converts a decoded YAML or JSON document into an Input.
//
//	"attribute_exists("        -> Literal
//	{name: pk}                 -> NameRef
//	{value: 42}                -> ValueRef
//	{joined: [..tokens..]}     -> Expression
//	[..tokens..]               -> Tokens
//	[[..tokens..], ...]        -> Clauses
//	[{joined: [...]}, ...]     -> Expressions
//
// A nil document yields a nil Input. Lists mixing shapes are rejected.
func FromAny(doc any) (Input, error) {
	switch v := doc.(type) {
	case nil:
		return nil, nil
	case Input:
		return v, nil
	case []any:
		return listFromAny(v)
	default:
		if m, ok := asMap(doc); ok {
			if parts, ok := m["joined"]; ok && len(m) == 1 {
				return joinedFromAny(parts)
			}
		}
		return tokenFromAny(doc)
	}
}

func tokenFromAny(doc any) (Token, error) {
	switch v := doc.(type) {
	case string:
		return Literal(v), nil
	case Token:
		return v, nil
	}
	m, ok := asMap(doc)
	if !ok || len(m) != 1 {
		return nil, invalidf("cannot read %T as a token", doc)
	}
	if name, ok := m["name"]; ok {
		s, ok := name.(string)
		if !ok {
			return nil, invalidf("name must be a string, got %T", name)
		}
		return NameRef{Name: s}, nil
	}
	if value, ok := m["value"]; ok {
		return ValueRef{Value: value}, nil
	}
	return nil, invalidf("token map must have a name or value key")
}

func joinedFromAny(doc any) (Expression, error) {
	list, ok := doc.([]any)
	if !ok || len(list) == 0 {
		return Expression{}, invalidf("joined must be a non-empty list")
	}
	tokens, err := tokensFromAny(list)
	if err != nil {
		return Expression{}, err
	}
	parts := make([]any, len(tokens))
	for i, t := range tokens {
		parts[i] = t
	}
	return Expression{Parts: parts}, nil
}

func tokensFromAny(list []any) ([]Token, error) {
	out := make([]Token, len(list))
	for i, el := range list {
		t, err := tokenFromAny(el)
		if err != nil {
			return nil, atField(err, fmt.Sprintf("[%d]", i))
		}
		out[i] = t
	}
	return out, nil
}

type listShape int

const (
	shapeUnknown listShape = iota
	shapeTokens
	shapeClauses
	shapeExpressions
)

func shapeOf(el any) listShape {
	if _, ok := el.([]any); ok {
		return shapeClauses
	}
	if m, ok := asMap(el); ok {
		if _, ok := m["joined"]; ok {
			return shapeExpressions
		}
	}
	return shapeTokens
}

func listFromAny(list []any) (Input, error) {
	if len(list) == 0 {
		return nil, invalidf("empty list")
	}
	shape := shapeUnknown
	for i, el := range list {
		s := shapeOf(el)
		if shape != shapeUnknown && s != shape {
			return nil, invalidf("element %d mixes list shapes", i)
		}
		shape = s
	}
	switch shape {
	case shapeClauses:
		out := make(Clauses, len(list))
		for i, el := range list {
			inner := el.([]any)
			if len(inner) == 0 {
				return nil, invalidf("clause %d is empty", i)
			}
			tokens, err := tokensFromAny(inner)
			if err != nil {
				return nil, atField(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = tokens
		}
		return out, nil
	case shapeExpressions:
		out := make(Expressions, len(list))
		for i, el := range list {
			m, _ := asMap(el)
			if len(m) != 1 {
				return nil, invalidf("expression %d must only have a joined key", i)
			}
			e, err := joinedFromAny(m["joined"])
			if err != nil {
				return nil, atField(err, fmt.Sprintf("[%d]", i))
			}
			out[i] = e
		}
		return out, nil
	default:
		tokens, err := tokensFromAny(list)
		if err != nil {
			return nil, err
		}
		return Tokens(tokens), nil
	}
}

// asMap accepts the map types produced by encoding/json and yaml.v3.
func asMap(doc any) (map[string]any, bool) {
	switch m := doc.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			s, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[s] = v
		}
		return out, true
	}
	return nil, false
}
