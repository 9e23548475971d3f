package grant

import (
	"regexp"
	"strings"
)

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_$]*$`)

// reservedWords are identifiers that must be quoted even when they look
// plain. The list covers the reserved words that actually show up in object
// names in practice, not the full SQL standard.
var reservedWords = map[string]bool{
	"ALL": true, "ALTER": true, "AND": true, "ANY": true, "AS": true,
	"BETWEEN": true, "BY": true, "CASE": true, "CAST": true, "CHECK": true,
	"COLUMN": true, "CONNECT": true, "CREATE": true, "CURRENT": true,
	"DATABASE": true, "DELETE": true, "DISTINCT": true, "DROP": true,
	"ELSE": true, "EXISTS": true, "FOLLOWING": true, "FOR": true, "FROM": true,
	"FULL": true, "GRANT": true, "GROUP": true, "HAVING": true, "IN": true,
	"INSERT": true, "INTERSECT": true, "INTO": true, "IS": true, "JOIN": true,
	"LATERAL": true, "LEFT": true, "LIKE": true, "MINUS": true, "NATURAL": true,
	"NOT": true, "NULL": true, "ON": true, "OR": true, "ORDER": true,
	"REVOKE": true, "RIGHT": true, "ROW": true, "ROWS": true, "SCHEMA": true,
	"SELECT": true, "SET": true, "SOME": true, "START": true, "TABLE": true,
	"THEN": true, "TO": true, "UNION": true, "UNIQUE": true, "UPDATE": true,
	"USING": true, "VALUES": true, "VIEW": true, "WHEN": true, "WHENEVER": true,
	"WHERE": true, "WITH": true,
}

// QuoteIdent renders a single identifier part, double-quoting it when it
// contains characters outside [A-Za-z0-9_$], starts with a digit, or
// collides with a reserved word. Plain identifiers keep their original
// casing and go out unquoted.
func QuoteIdent(s string) string {
	if plainIdent.MatchString(s) && !reservedWords[strings.ToUpper(s)] {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// qualifyParts quotes each dot-separated part of a qualified name. A part
// carrying a procedure argument signature keeps the signature verbatim and
// applies quoting only to the name in front of it.
func qualifyParts(fq string) string {
	parts := strings.Split(fq, ".")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = quotePart(p)
	}
	return strings.Join(out, ".")
}

func quotePart(p string) string {
	if open := strings.Index(p, "("); open > 0 {
		return QuoteIdent(p[:open]) + p[open:]
	}
	return QuoteIdent(p)
}
