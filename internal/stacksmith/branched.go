package stacksmith

import "strings"

// BranchedVersion is a version string with a release-channel annotation,
// e.g. version "5.6.1" on branch "stable". Either part may be empty.
type BranchedVersion struct {
	Version string
	Branch  string
}

// Compare orders on the version string first (CompareVersions order), then
// on the branch as a plain string. The empty branch sorts before any
// non-empty one.
func (v BranchedVersion) Compare(other BranchedVersion) int {
	if c := CompareVersions(v.Version, other.Version); c != 0 {
		return c
	}
	return strings.Compare(v.Branch, other.Branch)
}

// ShortString renders the pair for display: "5.6.1 (stable)". Empty parts
// are omitted, so a branch-less version is just "5.6.1" and a fully empty
// value renders as "".
func (v BranchedVersion) ShortString() string {
	switch {
	case v.Version == "" && v.Branch == "":
		return ""
	case v.Branch == "":
		return v.Version
	case v.Version == "":
		return "(" + v.Branch + ")"
	}
	return v.Version + " (" + v.Branch + ")"
}

func (v BranchedVersion) String() string {
	return "{version=" + v.Version + ", branch=" + v.Branch + "}"
}
