// Package markdown renders track and mission descriptions to HTML.
//
// Rendering runs goldmark with GitHub-flavoured extensions and walks the
// parsed document before output so every link and image destination can be
// handed to a caller-supplied RewriteFunc. Descriptions may open with a YAML
// (---) or TOML (+++) front matter block whose title, languages, and reward
// override the values from the accompanying .ini file.
package markdown
