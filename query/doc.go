// Package query holds the predicate vocabulary used by repositories: field
// conditions, ordered where-clauses, query options, Criteria composition and
// the parser that derives filters from query method names.
package query
