package slick

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slices"
)

func TestKeys_Expression(t *testing.T) {
	t.Run("single joined expression", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("ConditionExpression", Joined("attribute_exists(", Name("mock"), ")"), ConditionRole)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "attribute_exists(#k0)", *got)
		assert.Equal(t, map[string]string{"#k0": "mock"}, k.Names())
		assert.Nil(t, k.Values())
	})

	t.Run("conditions are AND-ed", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("FilterExpression", Expressions{
			Joined(Name("a"), " < ", Value(3)),
			Joined(Name("b"), " = ", Value("x")),
		}, ConditionRole)
		require.NoError(t, err)
		assert.Equal(t, "(#k0 < :k0) AND (#k1 = :k1)", *got)
		assert.Equal(t, map[string]string{"#k0": "a", "#k1": "b"}, k.Names())
		assert.Equal(t, map[string]any{":k0": 3, ":k1": "x"}, k.Values())

		avs, err := k.AttributeValues()
		require.NoError(t, err)
		assert.Equal(t, map[string]types.AttributeValue{
			":k0": &types.AttributeValueMemberN{Value: "3"},
			":k1": &types.AttributeValueMemberS{Value: "x"},
		}, avs)
	})

	t.Run("projection is comma separated", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("ProjectionExpression", Tokens{Name("a"), Name("b"), Name("c")}, ProjectionRole)
		require.NoError(t, err)
		assert.Equal(t, "#k0, #k1, #k2", *got)
		assert.Len(t, k.Names(), 3)
	})

	t.Run("flat tokens are one condition", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("ConditionExpression", Tokens{Name("a"), Literal(" = "), Value(1)}, ConditionRole)
		require.NoError(t, err)
		assert.Equal(t, "#k0 = :k0", *got)
	})

	t.Run("fields continue numbering", func(t *testing.T) {
		k := NewKeys()
		first, err := k.Expression("UpdateExpression", Joined("SET ", Name("n"), " = ", Value(1)), UpdateRole)
		require.NoError(t, err)
		second, err := k.Expression("ConditionExpression", Joined(Name("c"), " = ", Value("y")), ConditionRole)
		require.NoError(t, err)
		assert.Equal(t, "SET #k0 = :k0", *first)
		assert.Equal(t, "#k1 = :k1", *second)
	})

	t.Run("repeated names are not deduplicated", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("UpdateExpression", Joined("SET ", Name("a"), " = ", Name("a"), " + ", Value(1)), UpdateRole)
		require.NoError(t, err)
		assert.Equal(t, "SET #k0 = #k1 + :k0", *got)
		assert.Equal(t, map[string]string{"#k0": "a", "#k1": "a"}, k.Names())
	})

	t.Run("nil input is absent", func(t *testing.T) {
		k := NewKeys()
		got, err := k.Expression("FilterExpression", nil, ConditionRole)
		require.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, k.Names())
	})

	t.Run("value in projection", func(t *testing.T) {
		k := NewKeys()
		_, err := k.Expression("ProjectionExpression", Tokens{Name("a"), Value(1)}, ProjectionRole)
		require.ErrorIs(t, err, ErrInvalidInput)
		var inv *InvalidInputError
		require.ErrorAs(t, err, &inv)
		assert.Equal(t, "ProjectionExpression", inv.Field)
		assert.Nil(t, k.Names(), "nothing is minted for a rejected field")
	})

	t.Run("empty list", func(t *testing.T) {
		k := NewKeys()
		_, err := k.Expression("ConditionExpression", Tokens{}, ConditionRole)
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestKeys_Deterministic(t *testing.T) {
	build := func() (string, map[string]string, map[string]any) {
		k := NewKeys()
		s, err := k.Expression("FilterExpression", Clauses{
			{Name("a"), Literal(" > "), Value(1)},
			{Literal("begins_with("), Name("b"), Literal(", "), Value("x"), Literal(")")},
		}, ConditionRole)
		require.NoError(t, err)
		return *s, k.Names(), k.Values()
	}
	s1, n1, v1 := build()
	s2, n2, v2 := build()
	assert.Equal(t, s1, s2)
	assert.Equal(t, n1, n2)
	assert.Equal(t, v1, v2)
}

func TestKeys_AttributeValues_RoundTrip(t *testing.T) {
	values := []any{
		true,
		42.5,
		"text",
		map[string]any{"nested": []any{1.0, "two", false}},
	}
	k := NewKeys()
	for _, v := range values {
		k.Value(v)
	}
	avs, err := k.AttributeValues()
	require.NoError(t, err)

	for key, original := range k.Values() {
		var got any
		require.NoError(t, attributevalue.Unmarshal(avs[key], &got))
		assert.Equal(t, original, got, key)
	}
}

func TestKeys_AttributeValues_PassThrough(t *testing.T) {
	av := &types.AttributeValueMemberSS{Value: []string{"a", "b"}}
	k := NewKeys()
	key := k.Value(av)

	avs, err := k.AttributeValues()
	require.NoError(t, err)
	assert.Same(t, av, avs[key])
}

func TestKeys_AttributeValues_EncoderOptions(t *testing.T) {
	type player struct {
		Handle string `json:"handle"`
	}
	k := NewKeys(WithEncoderOptions(func(o *attributevalue.EncoderOptions) {
		o.TagKey = "json"
	}))
	key := k.Value(player{Handle: "ada"})

	avs, err := k.AttributeValues()
	require.NoError(t, err)
	m, ok := avs[key].(*types.AttributeValueMemberM)
	require.True(t, ok)
	assert.Contains(t, m.Value, "handle")
}

func TestKeys_AttributeValues_Unsupported(t *testing.T) {
	k := NewKeys()
	k.Value(make(chan int))

	_, err := k.AttributeValues()
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestComparePlaceholders(t *testing.T) {
	keys := []string{"#k10", ":k1", "#k2", "#k0", ":k0", "#other"}
	slices.SortFunc(keys, ComparePlaceholders)
	assert.Equal(t, []string{"#k0", "#k2", "#k10", "#other", ":k0", ":k1"}, keys)
}
