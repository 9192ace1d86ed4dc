package filter

import (
	"fmt"
	"net/url"
	"sort"
)

// TranslateDynamic is the untyped counterpart of Translate, for options that
// were decoded from JSON or YAML. A nil rawQuery is treated as "" and nil
// options as no options.
//
//	filter.TranslateDynamic("name=bob", map[string]any{
//		"filterBy":      []any{"username"},
//		"filterByAlias": map[string]any{"username": "name"},
//	})
func TranslateDynamic(rawQuery any, options any) (*Result, error) {
	if rawQuery == nil {
		rawQuery = ""
	}
	raw, ok := rawQuery.(string)
	if !ok {
		return nil, InvalidArgumentError{Message: "querystring must be a string"}
	}
	opts, err := DecodeOptions(options)
	if err != nil {
		return nil, err
	}
	return Translate(raw, opts...)
}

// DecodeOptions converts an untyped options object into Options. Recognized
// keys are filter, filterBy, filterByAlias, order, orderBy, orderByAlias,
// search and searchBy.
func DecodeOptions(options any) ([]Option, error) {
	if options == nil {
		return nil, nil
	}
	m, ok := options.(map[string]any)
	if !ok {
		return nil, InvalidArgumentError{Message: "options must be an object"}
	}

	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []Option
	for _, key := range keys {
		value := m[key]
		if value == nil {
			continue
		}
		var (
			option Option
			err    error
		)
		switch key {
		case "filter", "order":
			var values url.Values
			values, err = decodeValues(key, value)
			if key == "filter" {
				option = WithFilter(values)
			} else {
				option = WithOrder(values)
			}
		case "filterBy", "orderBy", "searchBy":
			var list []string
			list, err = decodeList(key, value)
			switch key {
			case "filterBy":
				option = WithFilterBy(list...)
			case "orderBy":
				option = WithOrderBy(list...)
			default:
				option = WithSearchBy(list...)
			}
		case "filterByAlias", "orderByAlias":
			var alias map[string]string
			alias, err = decodeAlias(key, value)
			if key == "filterByAlias" {
				option = WithFilterByAlias(alias)
			} else {
				option = WithOrderByAlias(alias)
			}
		case "search":
			var term string
			term, err = decodeScalar(key, value)
			option = WithSearch(term)
		default:
			return nil, InvalidArgumentError{Message: fmt.Sprintf("unknown option %q", key)}
		}
		if err != nil {
			return nil, err
		}
		result = append(result, option)
	}
	return result, nil
}

func decodeScalar(key string, v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case bool, float64, float32, int, int64, int32, uint, uint64, uint32:
		return fmt.Sprint(v), nil
	default:
		return "", InvalidArgumentError{Message: fmt.Sprintf("%s must be a string, got %T", key, v)}
	}
}

func decodeList(key string, v any) ([]string, error) {
	switch v := v.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		list := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, InvalidArgumentError{Message: fmt.Sprintf("%s must be a list of strings, found %T", key, e)}
			}
			list = append(list, s)
		}
		return list, nil
	default:
		return nil, InvalidArgumentError{Message: fmt.Sprintf("%s must be a list of strings, got %T", key, v)}
	}
}

func decodeAlias(key string, v any) (map[string]string, error) {
	switch v := v.(type) {
	case map[string]string:
		return v, nil
	case map[string]any:
		alias := make(map[string]string, len(v))
		for k, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, InvalidArgumentError{Message: fmt.Sprintf("%s.%s must be a string, got %T", key, k, e)}
			}
			alias[k] = s
		}
		return alias, nil
	default:
		return nil, InvalidArgumentError{Message: fmt.Sprintf("%s must be an object, got %T", key, v)}
	}
}

func decodeValues(key string, v any) (url.Values, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, InvalidArgumentError{Message: fmt.Sprintf("%s must be an object, got %T", key, v)}
	}
	values := make(url.Values, len(m))
	for k, e := range m {
		if e == nil {
			continue
		}
		if list, ok := e.([]any); ok {
			for _, item := range list {
				s, err := decodeScalar(key+"."+k, item)
				if err != nil {
					return nil, err
				}
				values.Add(k, s)
			}
			continue
		}
		s, err := decodeScalar(key+"."+k, e)
		if err != nil {
			return nil, err
		}
		values.Add(k, s)
	}
	return values, nil
}
