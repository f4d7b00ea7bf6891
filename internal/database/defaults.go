package database

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultInstance names the picker state used when none is configured.
const DefaultInstance = "default"

// InstanceID derives the stable row key for a named picker instance. The same
// name always maps to the same key, so saved state survives restarts.
func InstanceID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultInstance
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("picker:"+name)).String()
}
