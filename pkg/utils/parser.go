// Package utils provides small parsing and formatting helpers shared by the
// configuration layer, the ingestion limits and CLI output.
package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sizeRegex matches a number followed optionally by a unit, with optional
// spacing in between.
var sizeRegex = regexp.MustCompile(`^(\d+)\s*([a-zA-Z]*)$`)

// unitMultipliers uses binary prefixes: 1 KB = 1024 bytes.
var unitMultipliers = map[string]int64{
	"":   1,
	"B":  1,
	"KB": 1 << 10,
	"MB": 1 << 20,
	"GB": 1 << 30,
	"TB": 1 << 40,
}

// ParseSize parses a human-readable size such as "25MB", "64 mb" or "512".
func ParseSize(sizeStr string) (int64, error) {
	rawStr := strings.TrimSpace(strings.ToUpper(sizeStr))
	if rawStr == "" {
		return 0, fmt.Errorf("empty size")
	}

	matches := sizeRegex.FindStringSubmatch(rawStr)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid size format '%s'", sizeStr)
	}

	value, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid numeric value in '%s'", sizeStr)
	}

	multiplier, exists := unitMultipliers[matches[2]]
	if !exists {
		return 0, fmt.Errorf("unsupported unit '%s' in '%s'", matches[2], sizeStr)
	}
	return value * multiplier, nil
}

// SizeToBytes is ParseSize with a fallback for invalid input.
func SizeToBytes(sizeStr string, defaultValue int64) int64 {
	n, err := ParseSize(sizeStr)
	if err != nil {
		return defaultValue
	}
	return n
}
