// This package renders filter.Result values as PostgreSQL WHERE conditions
// and ORDER BY lists.
//
// Field names are quoted and checked against the configured columns before
// they reach the query text; all values are passed as parameters.
package postgres
