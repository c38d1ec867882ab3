package store

import (
	"errors"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
)

// DefaultSearchLimit is how many passages a book lookup returns when the
// caller does not ask for a specific number.
const DefaultSearchLimit = 4

// NormalizeBookName maps an uploaded file name to its index key:
// a trailing ".pdf" is dropped and spaces become underscores.
func NormalizeBookName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasSuffix(strings.ToLower(name), ".pdf") {
		name = name[:len(name)-len(".pdf")]
	}
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}
