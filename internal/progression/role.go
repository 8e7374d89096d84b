package progression

import "strings"

// NormalizeRole turns a free-form role into a counter key: trimmed,
// lower-cased, with whitespace runs collapsed to a single underscore.
// "Frontend Developer" and " frontend   developer " both yield
// "frontend_developer".
func NormalizeRole(role string) string {
	return strings.ToLower(strings.Join(strings.Fields(role), "_"))
}
