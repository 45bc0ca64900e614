package slick

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const generatedKeyPrefix = "k"

// Keys accumulates the placeholders of one request. Every expression field of
// the request is keyed through the same Keys so indices keep increasing across
// fields. A Keys must not be shared between requests or goroutines.
type Keys struct {
	names  map[string]string
	values map[string]any
	enc    *attributevalue.Encoder
}

// NewKeys returns an empty accumulator. Only the encoder options are read
// from opts.
func NewKeys(opts ...Option) *Keys {
	o := newOptions(opts)
	return &Keys{
		names:  make(map[string]string),
		values: make(map[string]any),
		enc:    attributevalue.NewEncoder(o.encoderOpts...),
	}
}

// Name mints the next name placeholder for name.
func (k *Keys) Name(name string) string {
	key := "#" + generatedKeyPrefix + strconv.Itoa(len(k.names))
	k.names[key] = name
	return key
}

// Value mints the next value placeholder for value.
func (k *Keys) Value(value any) string {
	key := ":" + generatedKeyPrefix + strconv.Itoa(len(k.values))
	k.values[key] = value
	return key
}

// Substitute replaces the names and values of every sequence with fresh
// placeholders and concatenates the result, one string per sequence.
// Placeholders are minted in visiting order.
func (k *Keys) Substitute(seqs [][]Token) []string {
	out := make([]string, len(seqs))
	for i, seq := range seqs {
		var b strings.Builder
		for _, t := range seq {
			switch t := t.(type) {
			case Literal:
				b.WriteString(string(t))
			case NameRef:
				b.WriteString(k.Name(t.Name))
			case ValueRef:
				b.WriteString(k.Value(t.Value))
			}
		}
		out[i] = b.String()
	}
	return out
}

// Expression normalizes, keys and joins in according to role. It returns nil
// when in is nil. field only labels errors.
func (k *Keys) Expression(field string, in Input, role Role) (*string, error) {
	if in == nil {
		return nil, nil
	}
	seqs, err := Normalize(in, role.policy())
	if err != nil {
		return nil, atField(err, field)
	}
	if role == ProjectionRole {
		if err := namesOnly(seqs); err != nil {
			return nil, atField(err, field)
		}
	}
	s := role.Join(k.Substitute(seqs))
	return &s, nil
}

func namesOnly(seqs [][]Token) error {
	for i, seq := range seqs {
		for _, t := range seq {
			if _, ok := t.(ValueRef); ok {
				return invalidf("projection expression %d references a value; projections accept names only", i)
			}
		}
	}
	return nil
}

// Names returns the minted name placeholders, or nil if there are none.
func (k *Keys) Names() map[string]string {
	if len(k.names) == 0 {
		return nil
	}
	return k.names
}

// Values returns the minted value placeholders with their original values,
// or nil if there are none.
func (k *Keys) Values() map[string]any {
	if len(k.values) == 0 {
		return nil
	}
	return k.values
}

// AttributeValues marshals the minted values for the wire. Values that
// already are a types.AttributeValue are used unchanged. It returns nil if no
// values were minted.
func (k *Keys) AttributeValues() (map[string]types.AttributeValue, error) {
	if len(k.values) == 0 {
		return nil, nil
	}
	out := make(map[string]types.AttributeValue, len(k.values))
	for key, v := range k.values {
		if av, ok := v.(types.AttributeValue); ok {
			out[key] = av
			continue
		}
		av, err := k.enc.Encode(v)
		if err != nil {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("cannot marshal value %s of type %T", key, v), Err: err}
		}
		out[key] = av
	}
	return out, nil
}

// ComparePlaceholders orders placeholders by kind and then by index, so that
// "#k2" sorts before "#k10". Strings that are not generated placeholders are
// compared lexically.
func ComparePlaceholders(a, b string) int {
	ai, aok := placeholderIndex(a)
	bi, bok := placeholderIndex(b)
	if !aok || !bok || a[0] != b[0] {
		return strings.Compare(a, b)
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

func placeholderIndex(s string) (int, bool) {
	if len(s) < 3 || (s[0] != '#' && s[0] != ':') || s[1:2] != generatedKeyPrefix {
		return 0, false
	}
	n, err := strconv.Atoi(s[2:])
	if err != nil {
		return 0, false
	}
	return n, true
}
