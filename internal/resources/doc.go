// Package resources implements the content-addressed resource store used when
// rendering descriptions.
//
// Local files referenced from Markdown links and images are hashed with
// SHA-256 and copied to <root>/<hex>[.<ext>], so identical bytes always land
// in the same file no matter how many descriptions reference them. The store
// hands the renderer a RewriteFunc that swaps each local reference for its
// public URL and reports unresolvable references to a diagnostics collector.
package resources
