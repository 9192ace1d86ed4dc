package filter

import (
	"github.com/goccy/go-json"
)

// Mode tells whether a Result describes a "where" or an "order" clause.
type Mode int

const (
	ModeFilter Mode = iota
	ModeOrder
)

func (m Mode) String() string {
	if m == ModeOrder {
		return "order"
	}
	return "filter"
}

// Operator is an abstract predicate tag. Adapters map it to the native token
// of a persistence layer.
type Operator string

const (
	Equal Operator = "eq"
	In    Operator = "in"
	Like  Operator = "like"
	Or    Operator = "or"
)

// FieldFilter is an equality filter on one field. Exactly one of Value and
// Values is set: Values holds the segments of an array or comma separated
// query value.
type FieldFilter struct {
	Field  string
	Value  string
	Values []string
}

// IsList reports whether the filter matches any of several values.
func (f FieldFilter) IsList() bool { return f.Values != nil }

// Operator returns Equal for scalar filters and In for list filters.
func (f FieldFilter) Operator() Operator {
	if f.IsList() {
		return In
	}
	return Equal
}

// SearchClause matches Column against any of Patterns (each `%term%`).
type SearchClause struct {
	Column   string
	Operator Operator
	Patterns []string
}

// Order is one entry of a sort list. Direction is passed through as given in
// the query string; adapters validate it.
type Order struct {
	Field     string
	Direction string
}

// Result is the output of a translation. A nil *Result means no recognized
// key produced a usable value.
type Result struct {
	Mode    Mode
	Filters []FieldFilter
	// Or is the search group; its clauses are combined with Or.
	Or     []SearchClause
	Orders []Order
}

// Filter returns the filter on field, if any.
func (r *Result) Filter(field string) (FieldFilter, bool) {
	if r == nil {
		return FieldFilter{}, false
	}
	for _, f := range r.Filters {
		if f.Field == field {
			return f, true
		}
	}
	return FieldFilter{}, false
}

func (r *Result) isEmpty() bool {
	return len(r.Filters) == 0 && len(r.Or) == 0 && len(r.Orders) == 0
}

// MarshalJSON encodes a filter result as an object keyed by field, with the
// search group under "$or":
//
//	{"status":"active","tags":["x","y"],"$or":[{"name":{"$or":[{"$like":"%foo%"}]}}]}
//
// An order result is encoded as a list of pairs: [["created_at","desc"]].
func (r *Result) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	if r.Mode == ModeOrder {
		pairs := make([][2]string, 0, len(r.Orders))
		for _, o := range r.Orders {
			pairs = append(pairs, [2]string{o.Field, o.Direction})
		}
		return json.Marshal(pairs)
	}

	buf := []byte{'{'}
	for i, f := range r.Filters {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(f.Field)
		if err != nil {
			return nil, err
		}
		var value []byte
		if f.IsList() {
			value, err = json.Marshal(f.Values)
		} else {
			value, err = json.Marshal(f.Value)
		}
		if err != nil {
			return nil, err
		}
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, value...)
	}

	if len(r.Or) > 0 {
		group := make([]map[string]map[string][]map[string]string, 0, len(r.Or))
		for _, c := range r.Or {
			likes := make([]map[string]string, 0, len(c.Patterns))
			for _, p := range c.Patterns {
				likes = append(likes, map[string]string{"$" + string(c.Operator): p})
			}
			group = append(group, map[string]map[string][]map[string]string{
				c.Column: {"$" + string(Or): likes},
			})
		}
		value, err := json.Marshal(group)
		if err != nil {
			return nil, err
		}
		if len(r.Filters) > 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, `"$or":`...)
		buf = append(buf, value...)
	}

	return append(buf, '}'), nil
}
