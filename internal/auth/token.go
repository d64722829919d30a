package auth

import (
	"strings"

	"github.com/google/uuid"
)

// NewToken issues an opaque random identifier. It carries no claims and is
// not verified anywhere; it exists so clients have a session handle.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
