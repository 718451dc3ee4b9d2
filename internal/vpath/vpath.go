// Package vpath canonicalizes virtual paths. A virtual path is rooted at "~",
// the top of the application's asset directory: "~" is the root itself and
// "~/scripts/app" names something beneath it.
package vpath

import "strings"

// Root is the virtual root marker.
const Root = "~"

// Normalize converts a user supplied base path into its canonical virtual form.
//
//   - "~..."   is trusted as-is, minus trailing separators.
//   - "/..."   collapses to Root. The remainder of the path is discarded.
//   - anything else is treated as relative to Root.
func Normalize(raw string) string {
	switch {
	case strings.HasPrefix(raw, Root):
		return trimSeparators(raw)
	case strings.HasPrefix(raw, "/"):
		return Root
	}
	rel := trimSeparators(strings.ReplaceAll(raw, `\`, "/"))
	if rel == "" {
		return Root
	}
	return Root + "/" + rel
}

// IsRoot reports whether p denotes the virtual root itself.
func IsRoot(p string) bool {
	return p == Root
}

// Relative strips the "~/" prefix, yielding a path relative to the root
// directory. Root itself yields "".
func Relative(p string) string {
	if IsRoot(p) {
		return ""
	}
	return strings.TrimPrefix(strings.TrimPrefix(p, Root), "/")
}

// Combine joins path elements with forward slashes. Backslashes are converted,
// empty elements are skipped and repeated separators collapse to one.
// E.g. Combine("~/scripts", "lib\\app") → "~/scripts/lib/app"
func Combine(parts ...string) string {
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.ReplaceAll(p, `\`, "/"), "/")
		if p == "" {
			continue
		}
		segs = append(segs, p)
	}
	joined := strings.Join(segs, "/")
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}

// StripExtension removes the final "."-delimited segment of p.
// A path without "." is returned unchanged.
func StripExtension(p string) string {
	if i := strings.LastIndex(p, "."); i >= 0 {
		return p[:i]
	}
	return p
}

func trimSeparators(p string) string {
	return strings.TrimRight(p, `/\`)
}
