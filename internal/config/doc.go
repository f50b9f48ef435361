// Package config loads, normalizes, and validates curriculum importer
// configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the CURRICULUM_CONTENT_DIR
// environment override. The Config type centralizes where content is read
// from, where resources and the catalog are written, and which reward and
// language defaults apply when a track leaves them out.
//
// Always obtain settings through this package so downstream code receives
// absolute paths, canonical log formats, and clear validation errors.
package config
