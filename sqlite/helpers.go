package sqlite

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ncruces/go-sqlite3"
)

var fieldSegmentRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// fieldExpr returns the SQL expression extracting a document field.
// Nested fields are separated by dots. Every segment is validated and quoted,
// so the same field always yields the same expression and index lookups
// match the expressions used in queries.
func fieldExpr(field string) (string, error) {
	segments := strings.Split(field, ".")
	var path strings.Builder
	path.WriteString("$")
	for _, s := range segments {
		if !fieldSegmentRe.MatchString(s) {
			return "", fmt.Errorf("invalid field name %q", field)
		}
		path.WriteString(`."`)
		path.WriteString(s)
		path.WriteString(`"`)
	}
	return fmt.Sprintf("json_extract(doc, '%s')", path.String()), nil
}

// isUniqueViolation reports whether err is a unique or primary key
// constraint failure.
func isUniqueViolation(err error) bool {
	var serr *sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.ExtendedCode() {
	case sqlite3.CONSTRAINT_UNIQUE, sqlite3.CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}
