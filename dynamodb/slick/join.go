package slick

import "strings"

// Role is the grammatical role of an expression field. It decides how the
// field's expressions are joined and how a flat Tokens list is read.
type Role int

const (
	// ConditionRole covers condition, filter and key-condition expressions.
	ConditionRole Role = iota
	// UpdateRole covers update expressions.
	UpdateRole
	// ProjectionRole covers projection expressions. Only names and literals
	// are allowed.
	ProjectionRole
)

func (r Role) String() string {
	switch r {
	case ConditionRole:
		return "condition"
	case UpdateRole:
		return "update"
	case ProjectionRole:
		return "projection"
	default:
		return "role(?)"
	}
}

// policy is the canonical ArrayPolicy of the role.
func (r Role) policy() ArrayPolicy {
	if r == ProjectionRole {
		return EachElementIsExpression
	}
	return EachElementIsToken
}

// Join combines the substituted expressions of one field.
func (r Role) Join(parts []string) string {
	switch r {
	case UpdateRole:
		return JoinSpaced(parts)
	case ProjectionRole:
		return JoinCSV(parts)
	default:
		return JoinAnd(parts)
	}
}

// JoinCSV joins projection expressions with ", ".
func JoinCSV(parts []string) string {
	return strings.Join(parts, ", ")
}

// JoinSpaced joins update clauses with a single space.
func JoinSpaced(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	return strings.Join(parts, " ")
}

// JoinAnd parenthesizes boolean expressions and joins them with " AND ".
// A single expression is returned as is.
func JoinAnd(parts []string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteByte('(')
		b.WriteString(p)
		b.WriteByte(')')
	}
	return b.String()
}
