// Package stacksmith is a client for the Bitnami Stacksmith catalog/build
// API. It discovers versioned entities (components and operating systems),
// resolves dependency and flavor metadata, submits stack-creation requests,
// and fetches the Dockerfile generated for a stack.
package stacksmith

import (
	"strconv"
	"strings"
)

// CompareVersions orders two version strings by their dot-separated
// segments. Segments that parse as non-negative integers compare by value;
// anything else compares as a plain string. A numeric segment always sorts
// before a non-numeric one, and when all shared segments are equal the
// string with more segments is the larger.
//
// This is deliberately not a semver order; the Stacksmith API hands out
// free-form version strings and this structural order is what it expects.
// Examples: 1.1 < 1.1.2 < 1.2.1 < 1.5 < 1.12 < 1.1-beta < 1.1beta.
func CompareVersions(a, b string) int {
	first := strings.Split(a, ".")
	second := strings.Split(b, ".")

	for i := 0; i < len(first) && i < len(second); i++ {
		if c := compareSegments(first[i], second[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(first) > len(second):
		return 1
	case len(first) < len(second):
		return -1
	}
	return 0
}

func compareSegments(a, b string) int {
	an, aNumeric := parseSegment(a)
	bn, bNumeric := parseSegment(b)

	switch {
	case aNumeric && bNumeric:
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	case aNumeric:
		// Numeric segments always sort before non-numeric ones.
		return -1
	case bNumeric:
		return 1
	}
	return strings.Compare(a, b)
}

// parseSegment reports whether a segment is numeric. Leading zeros are
// fine; signs, overflow, and the empty string fall back to string order.
func parseSegment(s string) (uint64, bool) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
