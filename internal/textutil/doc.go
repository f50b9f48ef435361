// Package textutil provides small text helpers shared by the importer: display
// titles derived from directory names and ordered-set handling for language
// lists.
package textutil
