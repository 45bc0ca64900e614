package slick

import "fmt"

// Token is the smallest unit of an expression. It is one of Literal, NameRef
// or ValueRef; no other implementations exist.
type Token interface {
	Input
	isToken()
}

// Literal is expression text inserted verbatim.
type Literal string

// NameRef references an attribute name. The name is opaque to this package:
// paths such as "a.b[0]" are sent as one placeholder.
type NameRef struct {
	Name string
}

// ValueRef references an attribute value. Value is marshalled with the
// attributevalue package unless it already is a types.AttributeValue.
type ValueRef struct {
	Value any
}

func (Literal) isToken()  {}
func (NameRef) isToken()  {}
func (ValueRef) isToken() {}

// Name returns an inline attribute name token.
func Name(name string) NameRef {
	return NameRef{Name: name}
}

// Value returns an inline attribute value token.
func Value(value any) ValueRef {
	return ValueRef{Value: value}
}

// Expression groups tokens that form one contiguous piece of expression
// syntax. Parts may be Tokens or plain strings, which are read as literals.
type Expression struct {
	Parts []any
}

// Joined returns an Expression of the given parts. Strings become literals.
// Parts of any other type are rejected when the expression is assembled.
//
//	slick.Joined("attribute_exists(", slick.Name("pk"), ")")
func Joined(parts ...any) Expression {
	return Expression{Parts: parts}
}

// tokens resolves the parts of e into tokens.
func (e Expression) tokens() ([]Token, error) {
	tokens := make([]Token, 0, len(e.Parts))
	for i, p := range e.Parts {
		switch t := p.(type) {
		case string:
			tokens = append(tokens, Literal(t))
		case Token:
			tokens = append(tokens, t)
		default:
			return nil, fmt.Errorf("part %d has unsupported type %T", i, p)
		}
	}
	return tokens, nil
}
