package filter

import (
	"net/url"
	"strings"
)

// query is a form-decoded query string that remembers the order in which keys
// were first seen. A repeated key collects all of its values.
type query struct {
	keys   []string
	values map[string][]string
}

func parseQuery(raw string) *query {
	q := &query{values: map[string][]string{}}
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		q.add(key, unescape(value))
	}
	return q
}

// unescape decodes a form component the way a browser encodes it. Invalid
// escapes keep the raw text.
func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return strings.ReplaceAll(s, "+", " ")
	}
	return u
}

func (q *query) add(key, value string) {
	if _, ok := q.values[key]; !ok {
		q.keys = append(q.keys, key)
	}
	q.values[key] = append(q.values[key], value)
}

func (q *query) get(key string) ([]string, bool) {
	v, ok := q.values[key]
	return v, ok
}

// set replaces the value of key, moving it to the end of the key order.
func (q *query) set(key string, values []string) {
	q.del(key)
	q.keys = append(q.keys, key)
	q.values[key] = values
}

func (q *query) del(key string) {
	if _, ok := q.values[key]; !ok {
		return
	}
	delete(q.values, key)
	for i, k := range q.keys {
		if k == key {
			q.keys = append(q.keys[:i], q.keys[i+1:]...)
			break
		}
	}
}
