package util

import "strconv"

// ParseID converts a path/query id, returning 0 on parse failure. 0 never
// matches a stored row, so a garbled id falls through as not found.
func ParseID(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}
