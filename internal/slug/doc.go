// Package slug derives identifier-safe strings from free text.
//
// Track and mission identifiers are built from Normalize and persisted, so the
// mapping must never change between runs: every maximal run of characters
// outside [A-Za-z0-9] collapses to a single underscore, case is preserved, and
// leading or trailing runs are kept as one underscore rather than trimmed.
package slug
