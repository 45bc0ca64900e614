package journal

import (
	"encoding/binary"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Keys of entries: [entryPrefix][separator][big-endian sequence number].
// Entries iterate in sequence order.

const (
	entryPrefix  = "entry"
	keySeparator = 0x00
	sequenceKey  = "seq"
)

func entryKey(seq uint64) []byte {
	key := make([]byte, len(entryPrefix)+1+8)
	copy(key, entryPrefix)
	key[len(entryPrefix)] = keySeparator
	binary.BigEndian.PutUint64(key[len(entryPrefix)+1:], seq)
	return key
}

func entryKeyPrefix() []byte {
	return append([]byte(entryPrefix), keySeparator)
}

func seqFromKey(key []byte) (uint64, error) {
	prefix := entryKeyPrefix()
	if len(key) != len(prefix)+8 {
		return 0, fmt.Errorf("invalid entry key length: %d", len(key))
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), nil
}

// attributeValue is the DynamoDB JSON form of an attribute value. Binary
// members are base64 encoded by encoding/json. Members are pointers so that
// empty binaries, maps and lists survive omitempty.
type attributeValue struct {
	S    *string                    `json:"S,omitempty"`
	N    *string                    `json:"N,omitempty"`
	B    *[]byte                    `json:"B,omitempty"`
	BOOL *bool                      `json:"BOOL,omitempty"`
	NULL *bool                      `json:"NULL,omitempty"`
	SS   *[]string                  `json:"SS,omitempty"`
	NS   *[]string                  `json:"NS,omitempty"`
	BS   *[][]byte                  `json:"BS,omitempty"`
	M    *map[string]attributeValue `json:"M,omitempty"`
	L    *[]attributeValue          `json:"L,omitempty"`
}

func toJSON(av types.AttributeValue) (attributeValue, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return attributeValue{S: &v.Value}, nil
	case *types.AttributeValueMemberN:
		return attributeValue{N: &v.Value}, nil
	case *types.AttributeValueMemberB:
		return attributeValue{B: &v.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return attributeValue{BOOL: &v.Value}, nil
	case *types.AttributeValueMemberNULL:
		return attributeValue{NULL: &v.Value}, nil
	case *types.AttributeValueMemberSS:
		return attributeValue{SS: &v.Value}, nil
	case *types.AttributeValueMemberNS:
		return attributeValue{NS: &v.Value}, nil
	case *types.AttributeValueMemberBS:
		return attributeValue{BS: &v.Value}, nil
	case *types.AttributeValueMemberM:
		m := make(map[string]attributeValue, len(v.Value))
		for k, val := range v.Value {
			j, err := toJSON(val)
			if err != nil {
				return attributeValue{}, err
			}
			m[k] = j
		}
		return attributeValue{M: &m}, nil
	case *types.AttributeValueMemberL:
		l := make([]attributeValue, len(v.Value))
		for i, val := range v.Value {
			j, err := toJSON(val)
			if err != nil {
				return attributeValue{}, err
			}
			l[i] = j
		}
		return attributeValue{L: &l}, nil
	default:
		return attributeValue{}, fmt.Errorf("unsupported attribute value type: %T", av)
	}
}

func fromJSON(j attributeValue) (types.AttributeValue, error) {
	switch {
	case j.S != nil:
		return &types.AttributeValueMemberS{Value: *j.S}, nil
	case j.N != nil:
		return &types.AttributeValueMemberN{Value: *j.N}, nil
	case j.B != nil:
		return &types.AttributeValueMemberB{Value: *j.B}, nil
	case j.BOOL != nil:
		return &types.AttributeValueMemberBOOL{Value: *j.BOOL}, nil
	case j.NULL != nil:
		return &types.AttributeValueMemberNULL{Value: *j.NULL}, nil
	case j.SS != nil:
		return &types.AttributeValueMemberSS{Value: *j.SS}, nil
	case j.NS != nil:
		return &types.AttributeValueMemberNS{Value: *j.NS}, nil
	case j.BS != nil:
		return &types.AttributeValueMemberBS{Value: *j.BS}, nil
	case j.M != nil:
		m := make(map[string]types.AttributeValue, len(*j.M))
		for k, v := range *j.M {
			av, err := fromJSON(v)
			if err != nil {
				return nil, err
			}
			m[k] = av
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	case j.L != nil:
		l := make([]types.AttributeValue, len(*j.L))
		for i, v := range *j.L {
			av, err := fromJSON(v)
			if err != nil {
				return nil, err
			}
			l[i] = av
		}
		return &types.AttributeValueMemberL{Value: l}, nil
	default:
		return nil, fmt.Errorf("empty attribute value")
	}
}

func valuesToJSON(values map[string]types.AttributeValue) (map[string]attributeValue, error) {
	if values == nil {
		return nil, nil
	}
	out := make(map[string]attributeValue, len(values))
	for k, v := range values {
		j, err := toJSON(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", k, err)
		}
		out[k] = j
	}
	return out, nil
}

func valuesFromJSON(values map[string]attributeValue) (map[string]types.AttributeValue, error) {
	if values == nil {
		return nil, nil
	}
	out := make(map[string]types.AttributeValue, len(values))
	for k, v := range values {
		av, err := fromJSON(v)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}
