package postgres

import (
	"database/sql"
	"database/sql/driver"

	"github.com/rs/zerolog"
)

type Option struct {
	f              func(*Converter)
	isAccessOption bool
}

// WithAllowAllColumns is the option to allow all columns in the result.
func WithAllowAllColumns() Option {
	return Option{
		f: func(c *Converter) {
			c.allowAllColumns = true
		},
		isAccessOption: true,
	}
}

// WithAllowColumns is an option to allow only the specified columns in the result.
func WithAllowColumns(columns ...string) Option {
	return Option{
		f: func(c *Converter) {
			c.allowedColumns = append(c.allowedColumns, columns...)
		},
		isAccessOption: true,
	}
}

// WithDisallowColumns is an option to disallow the specified columns in the result.
func WithDisallowColumns(columns ...string) Option {
	return Option{
		f: func(c *Converter) {
			c.disallowedColumns = append(c.disallowedColumns, columns...)
		},
		isAccessOption: true,
	}
}

// WithNestedJSONB is an option to specify the column name that contains the nested
// JSONB object. (e.g. you have a column named `metadata` that contains a nested
// JSONB object)
//
// When this option is set, all fields will be directed to the nested column,
// you can exempt some fields by providing them as the second argument.
//
// Example:
//
//	c, err := postgres.NewConverter(postgres.WithNestedJSONB("metadata", "created_at", "updated_at"))
func WithNestedJSONB(column string, exemption ...string) Option {
	return Option{
		f: func(c *Converter) {
			c.nestedColumn = column
			c.nestedExemptions = exemption
		},
		isAccessOption: true,
	}
}

// WithArrayDriver is an option to specify a custom driver to convert list values
// to Postgres driver compatible types.
// An example for github.com/lib/pq is:
//
//	c, err := postgres.NewConverter(postgres.WithAllowAllColumns(), postgres.WithArrayDriver(pq.Array))
//
// For github.com/jackc/pgx this option is not needed.
func WithArrayDriver(f func(a any) interface {
	driver.Valuer
	sql.Scanner
}) Option {
	return Option{
		f: func(c *Converter) {
			c.arrayDriver = f
		},
	}
}

// WithEmptyCondition is an option to specify the condition to be used when the
// result is nil or has no filters.
//
// The default value is `TRUE`: a query string without filters doesn't restrict
// anything.
func WithEmptyCondition(condition string) Option {
	return Option{
		f: func(c *Converter) {
			c.emptyCondition = condition
		},
	}
}

// WithCaseInsensitiveSearch makes search clauses use ILIKE instead of LIKE.
func WithCaseInsensitiveSearch() Option {
	return Option{
		f: func(c *Converter) {
			c.likeOperator = "ILIKE"
		},
	}
}

// WithLogger sets the logger used for rejected columns.
func WithLogger(logger zerolog.Logger) Option {
	return Option{
		f: func(c *Converter) {
			c.logger = logger
		},
	}
}
