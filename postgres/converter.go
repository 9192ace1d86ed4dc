package postgres

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/poki/querystring-filter/filter"
)

var basicColumnNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ErrOrderResult is returned by Convert for a result that describes a sort list.
var ErrOrderResult = fmt.Errorf("result describes an order clause, use ConvertOrder")

// Converter renders filter results as PostgreSQL conditions.
type Converter struct {
	allowAllColumns   bool
	allowedColumns    []string
	disallowedColumns []string
	nestedColumn      string
	nestedExemptions  []string
	arrayDriver       func(a any) interface {
		driver.Valuer
		sql.Scanner
	}
	emptyCondition string
	likeOperator   string
	logger         zerolog.Logger
}

// NewConverter creates a new Converter. At least one access option is required.
func NewConverter(options ...Option) (*Converter, error) {
	converter := &Converter{
		emptyCondition: "TRUE",
		likeOperator:   "LIKE",
		logger:         zerolog.Nop(),
	}
	seenAccessOption := false
	for _, option := range options {
		if option.f != nil {
			option.f(converter)
			if option.isAccessOption {
				seenAccessOption = true
			}
		}
	}
	if !seenAccessOption {
		return nil, ErrNoAccessOption
	}
	return converter, nil
}

// Convert converts the filters and the search group of a result into SQL
// conditions and values. Placeholders start at $startAtParameterIndex so the
// conditions can be appended to a query that already has parameters.
//
// A nil result, or one without filters, yields the empty condition.
func (c *Converter) Convert(result *filter.Result, startAtParameterIndex int) (conditions string, values []any, err error) {
	if startAtParameterIndex < 1 {
		return "", nil, fmt.Errorf("startAtParameterIndex must be greater than 0")
	}
	if result == nil {
		return c.emptyCondition, nil, nil
	}
	if result.Mode == filter.ModeOrder {
		return "", nil, ErrOrderResult
	}

	var parts []string
	next := func(value any) string {
		values = append(values, value)
		return fmt.Sprintf("$%d", startAtParameterIndex+len(values)-1)
	}

	for _, f := range result.Filters {
		column, err := c.columnName(f.Field)
		if err != nil {
			return "", nil, err
		}
		switch f.Operator() {
		case filter.In:
			parts = append(parts, fmt.Sprintf("(%s = ANY(%s))", column, next(c.array(f.Values))))
		default:
			parts = append(parts, fmt.Sprintf("(%s = %s)", column, next(f.Value)))
		}
	}

	if len(result.Or) > 0 {
		var group []string
		for _, clause := range result.Or {
			column, err := c.columnName(clause.Column)
			if err != nil {
				return "", nil, err
			}
			var inner []string
			for _, pattern := range clause.Patterns {
				inner = append(inner, fmt.Sprintf("(%s %s %s)", column, c.likeOperator, next(pattern)))
			}
			group = append(group, join(inner, " OR "))
		}
		parts = append(parts, join(group, " OR "))
	}

	if len(parts) == 0 {
		return c.emptyCondition, nil, nil
	}
	return join(parts, " AND "), values, nil
}

// ConvertOrder converts the sort list of a result into the body of an
// ORDER BY clause, e.g. `"created_at" DESC, "name" ASC`. It returns "" when
// there is nothing to sort by.
func (c *Converter) ConvertOrder(result *filter.Result) (string, error) {
	if result == nil || len(result.Orders) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(result.Orders))
	for _, o := range result.Orders {
		column, err := c.columnName(o.Field)
		if err != nil {
			return "", err
		}
		var direction string
		switch strings.ToLower(o.Direction) {
		case "asc":
			direction = "ASC"
		case "desc":
			direction = "DESC"
		default:
			return "", InvalidOrderDirectionError{Field: o.Field, Value: o.Direction}
		}
		parts = append(parts, column+" "+direction)
	}
	return strings.Join(parts, ", "), nil
}

func (c *Converter) array(values []string) any {
	if c.arrayDriver != nil {
		return c.arrayDriver(values)
	}
	return values
}

func (c *Converter) columnName(column string) (string, error) {
	if !basicColumnNameRegex.MatchString(column) {
		return "", InvalidColumnNameError{Column: column}
	}
	if !c.isColumnAllowed(column) {
		c.logger.Debug().Str("column", column).Msg("rejected column")
		return "", ColumnNotAllowedError{Column: column}
	}
	if c.nestedColumn == "" {
		return fmt.Sprintf("%q", column), nil
	}
	for _, exemption := range c.nestedExemptions {
		if exemption == column {
			return fmt.Sprintf("%q", column), nil
		}
	}
	return fmt.Sprintf(`%q->>'%s'`, c.nestedColumn, column), nil
}

func (c *Converter) isColumnAllowed(column string) bool {
	for _, disallowed := range c.disallowedColumns {
		if disallowed == column {
			return false
		}
	}
	// Only WithDisallowColumns was given.
	if c.allowAllColumns || c.nestedColumn != "" || len(c.allowedColumns) == 0 {
		return true
	}
	for _, allowed := range c.allowedColumns {
		if allowed == column {
			return true
		}
	}
	return false
}

func join(parts []string, sep string) string {
	result := strings.Join(parts, sep)
	if len(parts) > 1 {
		result = "(" + result + ")"
	}
	return result
}
