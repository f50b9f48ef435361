// Package main hosts the curriculum CLI entrypoint and command graph.
//
// The Cobra-based command tree runs imports of a content tree into the
// SQLite catalog, lists what the catalog holds, exports it as a YAML
// manifest, and scaffolds the importer configuration. It centralizes
// configuration resolution and logger setup so subcommands can focus on
// output.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
