package utils

import "strconv"

// Int64ToStr converts an int64 to its string representation.
func Int64ToStr(num int64) string {
	return strconv.FormatInt(num, 10)
}

// StrToInt64 converts a string to an int64.
func StrToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// ParseID parses a positive path identifier. ok is false for anything else.
func ParseID(s string) (id int64, ok bool) {
	id, err := StrToInt64(s)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
