package config

import (
	"fmt"
	"strings"
)

// listSeparator joins list elements inside a single option value. Archive
// paths may legitimately contain commas, so a semicolon is used and rejected
// inside elements instead.
const listSeparator = ";"

// EncodeStringList joins values into a single option value. An element
// containing the separator cannot round-trip and is rejected.
func EncodeStringList(values []string) (string, error) {
	for _, v := range values {
		if strings.Contains(v, listSeparator) {
			return "", fmt.Errorf("list element %q must not contain %q", v, listSeparator)
		}
	}
	return strings.Join(values, listSeparator), nil
}

// DecodeStringList splits an encoded option value back into its elements.
// The empty string decodes to nil, not to a one-element list.
func DecodeStringList(encoded string) []string {
	if encoded == "" {
		return nil
	}
	return strings.Split(encoded, listSeparator)
}
