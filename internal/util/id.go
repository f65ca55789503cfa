package util

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random UUID without dashes, optionally prefixed as
// "<prefix>_<hex>".
func NewID(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// ValidID reports whether value could have come from NewID with prefix.
func ValidID(prefix, value string) bool {
	if prefix != "" {
		var ok bool
		value, ok = strings.CutPrefix(value, prefix+"_")
		if !ok {
			return false
		}
	}
	_, err := uuid.Parse(value)
	return err == nil && len(value) == 32
}
