// Package sanitizer cleans user-supplied strings before they reach toasts,
// logs and search.
//
// Transforms are plain func(string) string values combined with Apply or
// Compose:
//
//	clean := sanitizer.Apply(input, sanitizer.Trim, sanitizer.Limit(64))
//
// Message and Query are ready-made pipelines. Sanitizing does not replace
// HTML escaping at render time.
package sanitizer
