package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// RewriteFunc maps a link or image destination to its replacement. ok is
// false when the destination must be left untouched.
type RewriteFunc func(ref string) (replacement string, ok bool)

// Renderer converts Markdown to HTML. It is stateless after construction and
// safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// NewRenderer builds a renderer with GFM, linkify, and task list extensions,
// automatic heading ids, and raw HTML passed through.
func NewRenderer() *Renderer {
	return &Renderer{
		engine: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Linkify,
				extension.TaskList,
			),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts source to HTML, passing each link and image destination
// through rewrite first. A nil rewrite leaves destinations unchanged.
func (r *Renderer) Render(source []byte, rewrite RewriteFunc) ([]byte, error) {
	doc := r.engine.Parser().Parse(text.NewReader(source))

	if rewrite != nil {
		err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
			if !entering {
				return ast.WalkContinue, nil
			}
			switch n := node.(type) {
			case *ast.Link:
				if replacement, ok := rewrite(string(n.Destination)); ok {
					n.Destination = []byte(replacement)
				}
			case *ast.Image:
				if replacement, ok := rewrite(string(n.Destination)); ok {
					n.Destination = []byte(replacement)
				}
			}
			return ast.WalkContinue, nil
		})
		if err != nil {
			return nil, fmt.Errorf("markdown rewrite: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := r.engine.Renderer().Render(&buf, source, doc); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
