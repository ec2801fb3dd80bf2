package manifest

import (
	"regexp"
	"strings"
)

// tableHeaderPattern matches a [table] or [[array-of-tables]] header line,
// tolerating a trailing comment.
var tableHeaderPattern = regexp.MustCompile(`^\s*\[\[?\s*([^\]]+?)\s*\]\]?\s*(?:#.*)?$`)

// tomlTableName extracts the table name from a header line.
func tomlTableName(line string) (string, bool) {
	m := tableHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// replaceTOMLValue rewrites the quoted value of key inside the given table
// using targeted line replacement instead of unmarshal/remarshal, so
// comments, ordering, and formatting are untouched. Only the value between
// the quotes changes; indentation, spacing around '=', the quote style, and
// any trailing comment on the line all survive.
func replaceTOMLValue(content []byte, table, key, newValue string) ([]byte, bool) {
	keyPattern := regexp.MustCompile(`^(\s*` + regexp.QuoteMeta(key) + `\s*=\s*["'])([^"']*)(["'].*)$`)

	lines := strings.Split(string(content), "\n")
	current := ""
	for i, line := range lines {
		if name, ok := tomlTableName(line); ok {
			current = name
			continue
		}
		if current != table {
			continue
		}
		if m := keyPattern.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + newValue + m[3]
			return []byte(strings.Join(lines, "\n")), true
		}
	}
	return content, false
}
