package utils

import (
	"math"
	"strings"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so user input matches literally.
// Pair it with ESCAPE '\' in the query.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern wraps s for a substring LIKE/ILIKE match
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}

// Offset turns a zero-based page into a row offset.
// ok is false for a negative page or one whose offset would overflow int.
func Offset(page, size int) (offset int, ok bool) {
	if page < 0 || size <= 0 || page > math.MaxInt/size {
		return 0, false
	}
	return page * size, true
}
