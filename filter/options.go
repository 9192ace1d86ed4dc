package filter

import (
	"net/url"

	"github.com/rs/zerolog"
)

type family int

const (
	familyNone family = iota
	familyFilter
	familyOrder
)

type Option struct {
	name   string
	f      func(*Translator)
	family family
	empty  bool
}

// WithFilter sets default filter values. They are merged into every query
// string before it is parsed, and their keys are implicitly allowed.
func WithFilter(values url.Values) Option {
	return Option{
		name: "filter",
		f: func(t *Translator) {
			t.defaults = mergeValues(t.defaults, values)
		},
		family: familyFilter,
		empty:  len(values) == 0,
	}
}

// WithFilterBy is the option to allow the given fields as equality filters.
func WithFilterBy(fields ...string) Option {
	return Option{
		name: "filterBy",
		f: func(t *Translator) {
			t.allowed = append(t.allowed, fields...)
		},
		family: familyFilter,
		empty:  len(fields) == 0,
	}
}

// WithFilterByAlias renames query parameters before filtering. The map key is
// the field name used in the result, the value is the query parameter it is
// read from:
//
//	filter.WithFilterByAlias(map[string]string{"username": "name"})
//
// turns `name=bob` into a `username` filter. Alias keys are implicitly allowed.
func WithFilterByAlias(alias map[string]string) Option {
	return Option{
		name: "filterByAlias",
		f: func(t *Translator) {
			t.alias = mergeAlias(t.alias, alias)
		},
		family: familyFilter,
		empty:  len(alias) == 0,
	}
}

// WithOrder sets default sort values, e.g. `url.Values{"created_at": {"desc"}}`.
func WithOrder(values url.Values) Option {
	return Option{
		name: "order",
		f: func(t *Translator) {
			t.defaults = mergeValues(t.defaults, values)
		},
		family: familyOrder,
		empty:  len(values) == 0,
	}
}

// WithOrderBy is the option to allow the given fields in the sort list.
func WithOrderBy(fields ...string) Option {
	return Option{
		name: "orderBy",
		f: func(t *Translator) {
			t.allowed = append(t.allowed, fields...)
		},
		family: familyOrder,
		empty:  len(fields) == 0,
	}
}

// WithOrderByAlias is the sort counterpart of WithFilterByAlias.
func WithOrderByAlias(alias map[string]string) Option {
	return Option{
		name: "orderByAlias",
		f: func(t *Translator) {
			t.alias = mergeAlias(t.alias, alias)
		},
		family: familyOrder,
		empty:  len(alias) == 0,
	}
}

// WithSearch sets the search term used when the query string doesn't carry one.
func WithSearch(term string) Option {
	return Option{
		name: "search",
		f: func(t *Translator) {
			t.search = term
		},
		family: familyFilter,
		empty:  term == "",
	}
}

// WithSearchBy sets the columns that are OR-ed together for a substring search.
// Without it the `search` parameter is ignored.
func WithSearchBy(columns ...string) Option {
	return Option{
		name: "searchBy",
		f: func(t *Translator) {
			t.searchBy = append(t.searchBy, columns...)
		},
		family: familyFilter,
		empty:  len(columns) == 0,
	}
}

// WithLogger sets the logger used for debug events. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return Option{
		name: "logger",
		f: func(t *Translator) {
			t.logger = logger
		},
	}
}

func mergeValues(dst, src url.Values) url.Values {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = url.Values{}
	}
	for k, vs := range src {
		dst[k] = append(dst[k], vs...)
	}
	return dst
}

func mergeAlias(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
