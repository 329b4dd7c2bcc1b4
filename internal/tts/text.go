package tts

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// pauseMarker makes the narration breathe between paragraphs. Most TTS
// engines render an ellipsis as a short pause.
const pauseMarker = "..."

var markdown = goldmark.New()

// CleanForSpeech strips markdown formatting from story text and inserts
// pause markers between blocks so narration does not run paragraphs
// together. Emphasis markers, headings and list bullets all disappear;
// only the spoken words remain.
func CleanForSpeech(story string) string {
	source := []byte(story)
	doc := markdown.Parser().Parse(gmtext.NewReader(source))

	var blocks []string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		text := strings.TrimSpace(blockText(node, source))
		if text == "" {
			continue
		}
		blocks = append(blocks, text)
	}

	return strings.Join(blocks, " "+pauseMarker+" ")
}

// blockText collects the plain text inside one block node.
func blockText(node ast.Node, source []byte) string {
	var b strings.Builder

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.ListItem:
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
		}

		return ast.WalkContinue, nil
	})

	return b.String()
}
