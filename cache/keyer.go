package cache

import (
	"encoding/json"
	"strings"
)

// BuildKey returns the cache key for a resource family and its arguments.
// Format: <resource>:<JSON array of args>, e.g. plans:["st1"].
//
// The same resource and arguments always produce the same key; a different
// resource or any different argument produces a different key. Optional
// arguments are passed as "".
func BuildKey(resource string, args ...string) string {
	if args == nil {
		args = []string{}
	}
	// Marshalling a []string cannot fail.
	encoded, _ := json.Marshal(args)

	var b strings.Builder
	b.Grow(len(resource) + 1 + len(encoded))
	b.WriteString(resource)
	b.WriteByte(':')
	b.Write(encoded)
	return b.String()
}

// KeyPrefix returns the prefix shared by every key of resource whose leading
// arguments equal args. KeyPrefix("schedules") matches all schedules keys;
// KeyPrefix("schedules", "st1", "p1") matches BuildKey("schedules", "st1", "p1")
// and nothing for plan "p10".
func KeyPrefix(resource string, args ...string) string {
	return strings.TrimSuffix(BuildKey(resource, args...), "]")
}

// ValidResource reports whether name can be used as a resource family.
func ValidResource(name string) bool {
	return strings.TrimSpace(name) != "" && !strings.ContainsAny(name, ":\n\r")
}
