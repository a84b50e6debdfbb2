package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("record not found")

// TitlePrefixLen is how many leading characters of a candidate title are
// used for the possible-duplicate check.
const TitlePrefixLen = 20

// TitlePrefix returns the first TitlePrefixLen characters of title, or the
// whole title when it is shorter. Characters are runes, so CJK titles are
// cut on character boundaries.
func TitlePrefix(title string) string {
	runes := []rune(title)
	if len(runes) <= TitlePrefixLen {
		return title
	}
	return string(runes[:TitlePrefixLen])
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s as a literal substring.
// Use with ESCAPE '\'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// substringClause returns a case-sensitive "column contains ?" condition.
// LIKE folds ASCII case on sqlite but not on postgres, so the dedup check
// uses the native position functions instead and needs no escaping.
func substringClause(db *gorm.DB, column string) string {
	if db.Dialector.Name() == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
