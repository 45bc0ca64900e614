package slick

import "fmt"

// Input is any value accepted by an expression field of a request: a single
// Token, an Expression, or one of the list shapes Tokens, Expressions and
// Clauses. A nil Input means the field is absent.
type Input interface {
	isInput()
}

// Tokens is a flat list of tokens. Whether it is one expression or one
// expression per token depends on the field it is used in, see ArrayPolicy.
type Tokens []Token

// Expressions is a list of expressions, one per element.
type Expressions []Expression

// Clauses is a list of token sequences, one expression per element.
type Clauses [][]Token

func (Literal) isInput()     {}
func (NameRef) isInput()     {}
func (ValueRef) isInput()    {}
func (Expression) isInput()  {}
func (Tokens) isInput()      {}
func (Expressions) isInput() {}
func (Clauses) isInput()     {}

// ArrayPolicy decides how a flat Tokens list is read.
type ArrayPolicy int

const (
	// EachElementIsToken reads the whole list as one expression.
	EachElementIsToken ArrayPolicy = iota
	// EachElementIsExpression reads every token as its own expression.
	EachElementIsExpression
)

func (p ArrayPolicy) String() string {
	switch p {
	case EachElementIsToken:
		return "EachElementIsToken"
	case EachElementIsExpression:
		return "EachElementIsExpression"
	default:
		return "ArrayPolicy(?)"
	}
}

// NormalizeAsOne normalizes in, reading a flat Tokens list as one expression.
func NormalizeAsOne(in Input) ([][]Token, error) {
	return Normalize(in, EachElementIsToken)
}

// NormalizeAsList normalizes in, reading a flat Tokens list as one
// expression per token.
func NormalizeAsList(in Input) ([][]Token, error) {
	return Normalize(in, EachElementIsExpression)
}

// Normalize converts in to an ordered list of token sequences, one per
// expression. Empty lists are rejected since their shape is ambiguous.
func Normalize(in Input, policy ArrayPolicy) ([][]Token, error) {
	switch v := in.(type) {
	case nil:
		return nil, invalidf("no input")
	case Token:
		return [][]Token{{v}}, nil
	case Expression:
		tokens, err := v.tokens()
		if err != nil {
			return nil, &InvalidInputError{Reason: "malformed expression", Err: err}
		}
		return [][]Token{tokens}, nil
	case Tokens:
		if len(v) == 0 {
			return nil, invalidf("empty token list")
		}
		for i, t := range v {
			if t == nil {
				return nil, invalidf("token %d is nil", i)
			}
		}
		if policy == EachElementIsExpression {
			out := make([][]Token, len(v))
			for i, t := range v {
				out[i] = []Token{t}
			}
			return out, nil
		}
		return [][]Token{append([]Token(nil), v...)}, nil
	case Expressions:
		if len(v) == 0 {
			return nil, invalidf("empty expression list")
		}
		out := make([][]Token, len(v))
		for i, e := range v {
			tokens, err := e.tokens()
			if err != nil {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("malformed expression %d", i), Err: err}
			}
			out[i] = tokens
		}
		return out, nil
	case Clauses:
		if len(v) == 0 {
			return nil, invalidf("empty clause list")
		}
		out := make([][]Token, len(v))
		for i, c := range v {
			for j, t := range c {
				if t == nil {
					return nil, invalidf("clause %d: token %d is nil", i, j)
				}
			}
			out[i] = append([]Token(nil), c...)
		}
		return out, nil
	default:
		return nil, invalidf("unsupported input %T", in)
	}
}
