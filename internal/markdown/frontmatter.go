package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FrontMatter holds the description metadata that may override .ini values.
// Zero values mean "not set"; Reward is a pointer so an explicit 0 survives.
type FrontMatter struct {
	Title     string   `yaml:"title" toml:"title"`
	Languages []string `yaml:"languages" toml:"languages"`
	Reward    *int     `yaml:"reward" toml:"reward"`
}

// Empty reports whether no field was set.
func (fm FrontMatter) Empty() bool {
	return fm.Title == "" && len(fm.Languages) == 0 && fm.Reward == nil
}

// frontMatterKeys are the keys that mark a leading block as metadata.
var frontMatterKeys = []string{"title", "languages", "reward"}

// errNotFrontMatter marks a delimited block that carries none of
// frontMatterKeys and therefore belongs to the Markdown body.
var errNotFrontMatter = errors.New("not front matter")

var formats = []*frontmatter.Format{
	frontmatter.NewFormat("---", "---", decodeYAML),
	frontmatter.NewFormat("+++", "+++", decodeTOML),
}

// SplitFrontMatter separates an optional leading front matter block from the
// Markdown body. Sources without a block, with an unterminated one, or whose
// block names no front matter key are returned unchanged. A block that names
// a front matter key but also holds unknown keys is an error.
func SplitFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta FrontMatter
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta, formats...)
	if errors.Is(err, errNotFrontMatter) {
		return FrontMatter{}, source, nil
	}
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return meta, body, nil
}

func decodeYAML(data []byte, v any) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !hasFrontMatterKey(raw) {
		return errNotFrontMatter
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func decodeTOML(data []byte, v any) error {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !hasFrontMatterKey(raw) {
		return errNotFrontMatter
	}
	return toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(v)
}

func hasFrontMatterKey(raw any) bool {
	var keys []string
	switch m := raw.(type) {
	case map[string]any:
		for key := range m {
			keys = append(keys, key)
		}
	case map[any]any:
		for key := range m {
			if s, ok := key.(string); ok {
				keys = append(keys, s)
			}
		}
	}
	for _, key := range keys {
		for _, known := range frontMatterKeys {
			if key == known {
				return true
			}
		}
	}
	return false
}
