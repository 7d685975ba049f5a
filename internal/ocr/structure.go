package ocr

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const unclearMarker = "[unclear]"

// StructureGuard rejects corrections that rewrote the Markdown skeleton of a page.
// Paragraph boundaries are ignored; joining hyphenated lines is a legitimate fix.
type StructureGuard struct {
	parser goldmark.Markdown
}

// NewStructureGuard creates a guard that understands GFM tables.
func NewStructureGuard() *StructureGuard {
	return &StructureGuard{
		parser: goldmark.New(
			goldmark.WithExtensions(extension.Table),
		),
	}
}

// Check returns ErrStructureChanged when corrected differs from original in block outline
// or carries fewer [unclear] markers.
func (g *StructureGuard) Check(original, corrected string) error {
	before := g.outline(original)
	after := g.outline(corrected)
	if !slices.Equal(before, after) {
		return fmt.Errorf("%w: outline %v became %v", ErrStructureChanged, before, after)
	}
	if lost := strings.Count(original, unclearMarker) - strings.Count(corrected, unclearMarker); lost > 0 {
		return fmt.Errorf("%w: %d %s markers removed", ErrStructureChanged, lost, unclearMarker)
	}
	return nil
}

// outline lists the top-level non-paragraph blocks of a Markdown document.
func (g *StructureGuard) outline(md string) []string {
	src := []byte(md)
	doc := g.parser.Parser().Parse(text.NewReader(src))

	var blocks []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, fmt.Sprintf("h%d", node.Level))
		case *ast.List:
			blocks = append(blocks, fmt.Sprintf("list(%d)", node.ChildCount()))
		case *east.Table:
			blocks = append(blocks, fmt.Sprintf("table(%d)", node.ChildCount()))
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			blocks = append(blocks, "code")
		case *ast.Blockquote:
			blocks = append(blocks, "quote")
		case *ast.ThematicBreak:
			blocks = append(blocks, "hr")
		}
	}
	return blocks
}
