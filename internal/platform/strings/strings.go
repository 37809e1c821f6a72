// Package strings provides string and string slice helpers
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise returns in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustString returns s if it has non whitespace content otherwise panics
// name is used in the panic message so you can tell what was missing
func MustString(s string, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes and asserts a root path like /roster or /pipeline
// ensures a single leading slash and no trailing slash except for the root itself
// panics if the input is empty after trimming
func MustPrefix(s string) string {
	s = std.TrimSpace(s)
	s = "/" + std.Trim(s, " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// FirstName returns the first whitespace-separated token of a full name,
// or the whole (trimmed) name when it has a single token
func FirstName(name string) string {
	name = std.TrimSpace(name)
	if i := std.IndexByte(name, ' '); i > 0 {
		return name[:i]
	}
	return name
}

// EqualFoldContains reports whether either string contains the other,
// compared case-insensitively. Empty strings never match
func EqualFoldContains(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	la, lb := std.ToLower(a), std.ToLower(b)
	return std.Contains(la, lb) || std.Contains(lb, la)
}

// ContainsFold reports whether s contains sub, case-insensitively
func ContainsFold(s, sub string) bool {
	if s == "" || sub == "" {
		return false
	}
	return std.Contains(std.ToLower(s), std.ToLower(sub))
}

// Ptr returns a pointer to s, or nil if s is empty
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns "" if ps is nil, else *ps.
func Deref(ps *string) string {
	if ps == nil {
		return ""
	}
	return *ps
}

// SQLNull returns nil if s is blank/whitespace, else the original string.
// Useful for query args where NULL is desired for blanks
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
