// Package filter builds the search and pagination parts of list queries.
package filter

import (
	"strings"

	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains adds a case-insensitive substring match on column. Empty terms are ignored.
// LIKE wildcards inside term are matched literally.
func Contains(q *bun.SelectQuery, column, term string) *bun.SelectQuery {
	if term == "" {
		return q
	}
	pattern := "%" + likeEscaper.Replace(term) + "%"
	return q.Where(`LOWER(?) LIKE LOWER(?) ESCAPE '\'`, bun.Ident(column), pattern)
}

// Equals adds an exact match on column. Empty values are ignored.
func Equals(q *bun.SelectQuery, column, value string) *bun.SelectQuery {
	if value == "" {
		return q
	}
	return q.Where("? = ?", bun.Ident(column), value)
}
