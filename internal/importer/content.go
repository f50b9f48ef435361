package importer

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"curriculum/internal/inifile"
	"curriculum/internal/logging"
	"curriculum/internal/markdown"
	"curriculum/internal/textutil"
)

// document is a description file together with its key/value config.
type document struct {
	dir     string
	subject string
	values  *inifile.Values
	front   markdown.FrontMatter
	body    []byte
}

// loadDocument reads dir/descName and dir/configName. ok is false when the
// description file does not exist or cannot be read; a missing file is
// skipped silently.
func (r *run) loadDocument(ctx context.Context, dir, descName, configName string) (*document, bool) {
	doc := &document{dir: dir, subject: r.subject(dir)}

	source, err := os.ReadFile(filepath.Join(dir, descName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.diags.Errorf(ctx, doc.subject, "read %s: %v", descName, err)
		}
		return nil, false
	}

	values, err := inifile.Load(filepath.Join(dir, configName))
	if err != nil {
		r.diags.Errorf(ctx, doc.subject, "read %s: %v", configName, err)
		values = inifile.Empty(filepath.Join(dir, configName))
	}
	doc.values = values

	front, body, err := markdown.SplitFrontMatter(source)
	if err != nil {
		r.diags.Warnf(ctx, doc.subject, "ignoring front matter in %s: %v", descName, err)
		front, body = markdown.FrontMatter{}, source
	}
	if !front.Empty() {
		logging.WithContext(ctx, r.importer.logger).Debug("front matter applied", logging.String("file", descName))
	}
	doc.front = front
	doc.body = body
	return doc, true
}

// subject names dir relative to the import root for diagnostics.
func (r *run) subject(dir string) string {
	if rel, err := filepath.Rel(r.result.Root, dir); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return dir
}

// title resolves front matter, then title/name keys, then the directory name.
func (r *run) title(ctx context.Context, doc *document) string {
	if title := strings.TrimSpace(doc.front.Title); title != "" {
		return title
	}
	if title, ok := doc.values.Title(); ok {
		return title
	}
	fallback := textutil.TitleFromName(doc.dir)
	r.diags.Warnf(ctx, doc.subject, "missing title, using %q", fallback)
	return fallback
}

// describe renders the document body with local references moved into the
// resource store.
func (r *run) describe(ctx context.Context, doc *document) string {
	if len(bytes.TrimSpace(doc.body)) == 0 {
		r.diags.Warnf(ctx, doc.subject, "empty description")
		return ""
	}
	rewrite := r.importer.store.Rewriter(ctx, r.result.Root, doc.dir, doc.subject, r.diags)
	html, err := r.importer.renderer.Render(doc.body, rewrite)
	if err != nil {
		r.diags.Errorf(ctx, doc.subject, "render description: %v", err)
		return ""
	}
	return string(html)
}

// languages returns the document's language set. ok is false when neither
// front matter nor config names any language.
func (r *run) languages(doc *document) ([]string, bool) {
	if set := textutil.OrderedSet(doc.front.Languages); len(set) > 0 {
		return set, true
	}
	if set := textutil.OrderedSet(doc.values.List(inifile.KeyLanguages)); len(set) > 0 {
		return set, true
	}
	return nil, false
}

// reward returns the front matter or configured reward, or fallback when
// neither is set or the value is invalid.
func (r *run) reward(ctx context.Context, doc *document, fallback int) int {
	if doc.front.Reward != nil {
		if *doc.front.Reward < 0 {
			r.diags.Warnf(ctx, doc.subject, "negative reward %d, using %d", *doc.front.Reward, fallback)
			return fallback
		}
		return *doc.front.Reward
	}
	value, ok := r.intValue(ctx, doc, inifile.KeyReward, fallback)
	if !ok {
		return fallback
	}
	return value
}

// intValue reads key as a non-negative integer. Absent keys return ok=false;
// invalid or negative values also warn that fallback is used.
func (r *run) intValue(ctx context.Context, doc *document, key string, fallback int) (int, bool) {
	value, ok, err := doc.values.Int(key)
	if err != nil {
		r.diags.Warnf(ctx, doc.subject, "invalid integer for %s in %s: %q, using %d",
			key, filepath.Base(doc.values.Path()), doc.values.String(key), fallback)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	if value < 0 {
		r.diags.Warnf(ctx, doc.subject, "negative %s %d, using %d", key, value, fallback)
		return 0, false
	}
	return value, true
}
