package common

import (
	"strconv"
	"strings"
)

// ParseUint64orHex converts the given uint64 string into a number.
// Strings with an 0x prefix are parsed as hexadecimal.
func ParseUint64orHex(val *string) (uint64, error) {
	if val == nil {
		return 0, nil
	}

	str := *val
	base := 10

	if strings.HasPrefix(str, "0x") {
		str = str[2:]
		base = 16
	}

	return strconv.ParseUint(str, base, 64)
}

func ToLowerWithTrim(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
