// Package inifile reads the flat key/value files that accompany tracks
// (track.ini) and missions (config.ini).
//
// Files are parsed with gopkg.in/ini.v1 and only the default section is
// consulted. A missing file behaves like an empty one so callers can apply
// their defaults uniformly.
package inifile
