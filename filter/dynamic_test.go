package filter_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poki/querystring-filter/filter"
)

func TestTranslateDynamic(t *testing.T) {
	t.Run("alias", func(t *testing.T) {
		got, err := filter.TranslateDynamic("name=bob", map[string]any{
			"filterBy":      []any{"username"},
			"filterByAlias": map[string]any{"username": "name"},
		})
		require.NoError(t, err)
		assert.Equal(t, &filter.Result{Filters: []filter.FieldFilter{{Field: "username", Value: "bob"}}}, got)
	})

	t.Run("defaults", func(t *testing.T) {
		got, err := filter.TranslateDynamic(nil, map[string]any{
			"filter":   map[string]any{"status": "active", "level": float64(3), "tags": []any{"a", "b"}},
			"search":   "jo",
			"searchBy": "name",
		})
		require.NoError(t, err)
		require.NotNil(t, got)

		status, ok := got.Filter("status")
		require.True(t, ok)
		assert.Equal(t, "active", status.Value)

		level, ok := got.Filter("level")
		require.True(t, ok)
		assert.Equal(t, "3", level.Value)

		tags, ok := got.Filter("tags")
		require.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, tags.Values)

		require.Len(t, got.Or, 1)
		assert.Equal(t, filter.SearchClause{Column: "name", Operator: filter.Like, Patterns: []string{"%jo%"}}, got.Or[0])
	})

	t.Run("order", func(t *testing.T) {
		got, err := filter.TranslateDynamic("b=desc&a=asc", map[string]any{
			"orderBy": []string{"a", "b"},
		})
		require.NoError(t, err)
		assert.Equal(t, &filter.Result{
			Mode:   filter.ModeOrder,
			Orders: []filter.Order{{Field: "b", Direction: "desc"}, {Field: "a", Direction: "asc"}},
		}, got)
	})

	t.Run("nil everything", func(t *testing.T) {
		got, err := filter.TranslateDynamic(nil, nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("nil option values are skipped", func(t *testing.T) {
		got, err := filter.TranslateDynamic("a=1", map[string]any{
			"filterBy": []any{"a"},
			"orderBy":  nil,
		})
		require.NoError(t, err)
		assert.Equal(t, &filter.Result{Filters: []filter.FieldFilter{{Field: "a", Value: "1"}}}, got)
	})

	t.Run("conflict", func(t *testing.T) {
		_, err := filter.TranslateDynamic("", map[string]any{
			"filterBy": []any{"a"},
			"orderBy":  []any{"b"},
		})
		assert.ErrorIs(t, err, filter.ErrConflictingConfiguration)
	})
}

func TestTranslateDynamic_InvalidArguments(t *testing.T) {
	tests := []struct {
		name    string
		query   any
		options any
		message string
	}{
		{"query is not a string", 42, nil, "querystring must be a string"},
		{"query is bytes", []byte("a=1"), nil, "querystring must be a string"},
		{"options is a list", "", []any{"a"}, "options must be an object"},
		{"options is a string", "", "filterBy", "options must be an object"},
		{"filterBy is an object", "", map[string]any{"filterBy": map[string]any{}}, "filterBy must be a list of strings, got map[string]interface {}"},
		{"filterBy holds numbers", "", map[string]any{"filterBy": []any{"a", 1}}, "filterBy must be a list of strings, found int"},
		{"filter is a list", "", map[string]any{"filter": []any{"a"}}, "filter must be an object, got []interface {}"},
		{"filter holds objects", "", map[string]any{"filter": map[string]any{"a": map[string]any{}}}, "filter.a must be a string, got map[string]interface {}"},
		{"alias holds numbers", "", map[string]any{"orderByAlias": map[string]any{"a": 1}}, "orderByAlias.a must be a string, got int"},
		{"alias is a string", "", map[string]any{"filterByAlias": "a"}, "filterByAlias must be an object, got string"},
		{"search is a list", "", map[string]any{"search": []any{"a"}}, "search must be a string, got []interface {}"},
		{"unknown option", "", map[string]any{"limit": 10}, `unknown option "limit"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filter.TranslateDynamic(tt.query, tt.options)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, filter.ErrInvalidArgument))

			var invalid filter.InvalidArgumentError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.message, invalid.Message)
		})
	}
}

func TestDecodeOptions(t *testing.T) {
	options, err := filter.DecodeOptions(map[string]any{
		"orderBy":      "created_at",
		"orderByAlias": map[string]string{"name": "sort_name"},
	})
	require.NoError(t, err)

	tr, err := filter.NewTranslator(options...)
	require.NoError(t, err)
	assert.Equal(t, filter.ModeOrder, tr.Mode())
	assert.Equal(t, &filter.Result{
		Mode:   filter.ModeOrder,
		Orders: []filter.Order{{Field: "created_at", Direction: "asc"}, {Field: "name", Direction: "desc"}},
	}, tr.Translate("created_at=asc&sort_name=desc"))
}
