// Package curriculum defines the imported data model (tracks, missions,
// stars, test cases) and the Repository contract the importer persists
// through.
package curriculum
