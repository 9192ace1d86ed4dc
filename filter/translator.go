package filter

import (
	"net/url"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// SearchKey is the reserved query parameter holding the search term.
const SearchKey = "search"

type Translator struct {
	mode     Mode
	defaults url.Values
	allowed  []string
	alias    map[string]string
	search   string
	searchBy []string
	logger   zerolog.Logger
}

// NewTranslator creates a Translator from the given options. Filter options
// (WithFilter, WithFilterBy, WithFilterByAlias, WithSearch, WithSearchBy) and
// order options (WithOrder, WithOrderBy, WithOrderByAlias) can't be combined;
// doing so returns a ConflictingConfigurationError.
func NewTranslator(options ...Option) (*Translator, error) {
	var filterOptions, orderOptions []string
	for _, option := range options {
		if option.empty {
			continue
		}
		switch option.family {
		case familyFilter:
			filterOptions = append(filterOptions, option.name)
		case familyOrder:
			orderOptions = append(orderOptions, option.name)
		}
	}
	if len(filterOptions) > 0 && len(orderOptions) > 0 {
		return nil, ConflictingConfigurationError{Filter: filterOptions, Order: orderOptions}
	}

	t := &Translator{logger: zerolog.Nop()}
	if len(orderOptions) > 0 {
		t.mode = ModeOrder
	}
	for _, option := range options {
		if option.f != nil {
			option.f(t)
		}
	}

	// Keys of the defaults and of the alias table are always allowed.
	for key := range t.defaults {
		t.allowed = append(t.allowed, key)
	}
	for key := range t.alias {
		t.allowed = append(t.allowed, key)
	}
	sort.Strings(t.allowed)

	return t, nil
}

// Translate is a shortcut for NewTranslator followed by Translator.Translate.
func Translate(rawQuery string, options ...Option) (*Result, error) {
	t, err := NewTranslator(options...)
	if err != nil {
		return nil, err
	}
	return t.Translate(rawQuery), nil
}

// Mode returns whether the translator produces filters or a sort list.
func (t *Translator) Mode() Mode { return t.mode }

// Translate converts a raw query string into a Result. Unknown keys, empty
// values and malformed escapes are ignored. It returns nil when nothing in the
// query qualified.
func (t *Translator) Translate(rawQuery string) *Result {
	q := parseQuery(t.merge(rawQuery))
	t.resolveAlias(q)

	result := &Result{Mode: t.mode}
	if t.mode == ModeOrder {
		t.orderBy(q, result)
	} else {
		t.filterBy(q, result)
		t.searchFor(q, result)
	}

	if result.isEmpty() {
		return nil
	}
	return result
}

func (t *Translator) merge(rawQuery string) string {
	parts := []string{rawQuery}
	if len(t.defaults) > 0 {
		parts = append(parts, t.defaults.Encode())
	}
	if t.search != "" && !hasValue(parseQuery(rawQuery).values[SearchKey]) {
		parts = append(parts, url.Values{SearchKey: {t.search}}.Encode())
	}
	return strings.Join(parts, "&")
}

func (t *Translator) resolveAlias(q *query) {
	keys := make([]string, 0, len(t.alias))
	for key := range t.alias {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		param := t.alias[key]
		if param == key {
			continue
		}
		q.del(key)
		if values, ok := q.get(param); ok {
			q.set(key, values)
			q.del(param)
			t.logger.Debug().Str("param", param).Str("field", key).Msg("renamed query parameter")
		}
	}
}

func (t *Translator) isAllowed(key string) bool {
	i := sort.SearchStrings(t.allowed, key)
	return i < len(t.allowed) && t.allowed[i] == key
}

func (t *Translator) filterBy(q *query, result *Result) {
	for _, key := range q.keys {
		if key == SearchKey {
			continue
		}
		if !t.isAllowed(key) {
			t.logger.Debug().Str("field", key).Msg("ignoring field not allowed for filtering")
			continue
		}
		values := q.values[key]
		if !hasValue(values) {
			continue
		}

		value := normalize(values)
		if len(values) == 1 && !strings.Contains(value, ",") {
			result.Filters = append(result.Filters, FieldFilter{Field: key, Value: value})
			continue
		}
		if segments := split(value); len(segments) > 0 {
			result.Filters = append(result.Filters, FieldFilter{Field: key, Values: segments})
		}
	}
}

func (t *Translator) searchFor(q *query, result *Result) {
	values := q.values[SearchKey]
	if !hasValue(values) {
		return
	}
	if len(t.searchBy) == 0 {
		t.logger.Debug().Msg("ignoring search without searchable columns")
		return
	}

	terms := split(normalize(values))
	if len(terms) == 0 {
		return
	}
	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, "%"+term+"%")
	}

	for _, column := range t.searchBy {
		result.Or = append(result.Or, SearchClause{
			Column:   column,
			Operator: Like,
			Patterns: patterns,
		})
	}
}

func (t *Translator) orderBy(q *query, result *Result) {
	for _, key := range q.keys {
		if !t.isAllowed(key) {
			t.logger.Debug().Str("field", key).Msg("ignoring field not allowed for ordering")
			continue
		}
		values := q.values[key]
		if !hasValue(values) {
			continue
		}
		direction := strings.SplitN(normalize(values), ",", 2)[0]
		if direction == "" {
			continue
		}
		result.Orders = append(result.Orders, Order{Field: key, Direction: direction})
	}
}
