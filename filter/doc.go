// This package translates HTTP query strings into filter and sort descriptors
// for a "where" or "order" clause builder.
//
// Only fields that were explicitly allowed end up in the result; everything
// else in the query string is ignored. Values are never type converted.
//
// See the postgres package for turning a Result into SQL.
package filter
