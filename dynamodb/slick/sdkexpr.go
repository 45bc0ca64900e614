package slick

import (
	"regexp"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var placeholderPattern = regexp.MustCompile(`[#:][A-Za-z0-9_]+`)

// Adopt turns an expression string that already uses placeholders, together
// with its placeholder maps, back into tokens. The result can be mixed with
// inline tokens and is re-keyed like any other input. Placeholders missing
// from both maps are kept as literal text. Adopt returns nil if text is nil.
func Adopt(text *string, names map[string]string, values map[string]types.AttributeValue) Input {
	if text == nil {
		return nil
	}
	s := *text
	var parts []any
	last := 0
	for _, loc := range placeholderPattern.FindAllStringIndex(s, -1) {
		ph := s[loc[0]:loc[1]]
		var tok Token
		if name, ok := names[ph]; ok && ph[0] == '#' {
			tok = NameRef{Name: name}
		} else if av, ok := values[ph]; ok && ph[0] == ':' {
			tok = ValueRef{Value: av}
		} else {
			continue
		}
		if loc[0] > last {
			parts = append(parts, s[last:loc[0]])
		}
		parts = append(parts, tok)
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return Expression{Parts: parts}
}

// AdoptCondition adopts the condition of an expression built with the
// feature/dynamodb/expression package.
func AdoptCondition(e expression.Expression) Input {
	return Adopt(e.Condition(), e.Names(), e.Values())
}

// AdoptFilter adopts the filter of e.
func AdoptFilter(e expression.Expression) Input {
	return Adopt(e.Filter(), e.Names(), e.Values())
}

// AdoptKeyCondition adopts the key condition of e.
func AdoptKeyCondition(e expression.Expression) Input {
	return Adopt(e.KeyCondition(), e.Names(), e.Values())
}

// AdoptProjection adopts the projection of e.
func AdoptProjection(e expression.Expression) Input {
	return Adopt(e.Projection(), e.Names(), e.Values())
}

// AdoptUpdate adopts the update of e.
func AdoptUpdate(e expression.Expression) Input {
	return Adopt(e.Update(), e.Names(), e.Values())
}
