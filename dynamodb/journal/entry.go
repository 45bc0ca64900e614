package journal

import (
	"encoding/json"
	"time"

	"github.com/acksell/slickddb/dynamodb/slick"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Entry is one recorded request.
type Entry struct {
	Seq       uint64    `json:"seq"`
	Time      time.Time `json:"time"`
	Operation string    `json:"operation"`
	DryRun    bool      `json:"dryRun,omitempty"`
	Parts     []Part    `json:"parts,omitempty"`
}

// Part is the expression payload of one request, batch entry or transact
// item.
type Part struct {
	// Path locates the part in the request, e.g. "TransactItems[1].Update".
	// Empty for single item requests.
	Path        string                          `json:"path,omitempty"`
	Table       string                          `json:"table,omitempty"`
	Expressions map[string]string               `json:"expressions,omitempty"`
	Names       map[string]string               `json:"names,omitempty"`
	Values      map[string]types.AttributeValue `json:"-"`
}

type partJSON struct {
	Path        string                    `json:"path,omitempty"`
	Table       string                    `json:"table,omitempty"`
	Expressions map[string]string         `json:"expressions,omitempty"`
	Names       map[string]string         `json:"names,omitempty"`
	Values      map[string]attributeValue `json:"values,omitempty"`
}

func (p Part) MarshalJSON() ([]byte, error) {
	values, err := valuesToJSON(p.Values)
	if err != nil {
		return nil, err
	}
	return json.Marshal(partJSON{
		Path:        p.Path,
		Table:       p.Table,
		Expressions: p.Expressions,
		Names:       p.Names,
		Values:      values,
	})
}

func (p *Part) UnmarshalJSON(data []byte) error {
	var j partJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	values, err := valuesFromJSON(j.Values)
	if err != nil {
		return err
	}
	*p = Part{
		Path:        j.Path,
		Table:       j.Table,
		Expressions: j.Expressions,
		Names:       j.Names,
		Values:      values,
	}
	return nil
}

// NameKeys returns the name placeholders in numeric order.
func (p Part) NameKeys() []string {
	keys := maps.Keys(p.Names)
	slices.SortFunc(keys, slick.ComparePlaceholders)
	return keys
}

// ValueKeys returns the value placeholders in numeric order.
func (p Part) ValueKeys() []string {
	keys := maps.Keys(p.Values)
	slices.SortFunc(keys, slick.ComparePlaceholders)
	return keys
}

// ExpressionFields returns the expression field names in sorted order.
func (p Part) ExpressionFields() []string {
	keys := maps.Keys(p.Expressions)
	slices.Sort(keys)
	return keys
}
