package storage

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var exportName = regexp.MustCompile(`^([0-9]+)-[^/\\]*\.md$`)

// FileName returns the export file name for a recipe.
func FileName(id int64, recipeName string) string {
	return fmt.Sprintf("%d-%s.md", id, slug(recipeName))
}

// ExportedID reports the recipe id encoded in an export file name.
func ExportedID(name string) (int64, bool) {
	m := exportName.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// slug lowercases name and joins its letter and digit runs with dashes.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	if b.Len() == 0 {
		return "recipe"
	}
	return b.String()
}
