package util

import (
	"strconv"
)

// MustParseUint converts a string id to uint, returning 0 when unparsable.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
