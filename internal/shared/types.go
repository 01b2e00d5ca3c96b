package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns a prefixed identifier, e.g. NewID("evt_") for event
// correlation IDs.
func NewID(prefix string) string {
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")
}
