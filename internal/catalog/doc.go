// Package catalog persists imported tracks, missions, and import runs in
// SQLite.
//
// The Store opens the database configured under paths.database, applies
// WAL/foreign-key/busy-timeout pragmas, and runs the embedded migrations in
// order. Saves are upserts keyed by ID, so importing the same content twice
// leaves one row per track and mission. Records are validated before they are
// written; list-valued fields are stored as JSON columns.
//
// Store satisfies curriculum.Repository and is what the import command wires
// into the importer when not running dry.
package catalog
