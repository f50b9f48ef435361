package inifile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Recognized keys.
const (
	KeyName      = "name"
	KeyTitle     = "title"
	KeyLanguages = "languages"
	KeyReward    = "reward"
	KeyRequires  = "req"
	KeyTimeGoal  = "star.time.goal"
	KeySizeGoal  = "star.size_goal"
)

// aliases lists alternate spellings accepted for a canonical key.
var aliases = map[string][]string{
	KeyTimeGoal: {"star.time_goal"},
	KeySizeGoal: {"star.size.goal"},
}

// ErrInvalidInt reports a value that is present but not a decimal integer.
var ErrInvalidInt = errors.New("invalid integer")

// Values holds the key/value pairs of one file.
type Values struct {
	path    string
	section *ini.Section
}

// Load parses path. A missing file yields empty values and no error.
func Load(path string) (*Values, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Empty(path), nil
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	// Titles may contain '#' or ';', so only full-line comments are honored.
	file, err := ini.LoadSources(ini.LoadOptions{
		Loose:               true,
		InsensitiveKeys:     true,
		IgnoreInlineComment: true,
	}, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Values{path: path, section: file.Section(ini.DefaultSection)}, nil
}

// Empty returns values with no keys, attributed to path.
func Empty(path string) *Values {
	return &Values{path: path, section: ini.Empty().Section(ini.DefaultSection)}
}

// Path returns the file the values were read from.
func (v *Values) Path() string {
	return v.path
}

// String returns the trimmed value for key, or "" when absent.
func (v *Values) String(key string) string {
	value, _ := v.lookup(key)
	return value
}

// Int returns the decimal integer stored under key. ok is false when the key
// is absent or blank. A present value that does not parse returns an error
// wrapping ErrInvalidInt.
func (v *Values) Int(key string) (int, bool, error) {
	raw, ok := v.lookup(key)
	if !ok || raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w %q", key, ErrInvalidInt, raw)
	}
	return n, true, nil
}

// List splits a comma-separated value, trimming entries and dropping empty
// ones. Order and duplicates are kept.
func (v *Values) List(key string) []string {
	raw, ok := v.lookup(key)
	if !ok {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Title returns the title key, then the name key. ok is false when neither
// holds a non-blank value.
func (v *Values) Title() (string, bool) {
	for _, key := range []string{KeyTitle, KeyName} {
		if value := v.String(key); value != "" {
			return value, true
		}
	}
	return "", false
}

func (v *Values) lookup(key string) (string, bool) {
	if v == nil || v.section == nil {
		return "", false
	}
	for _, name := range append([]string{key}, aliases[key]...) {
		if v.section.HasKey(name) {
			return strings.TrimSpace(v.section.Key(name).String()), true
		}
	}
	return "", false
}
