package output

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const errorRenderHTMLFormat = "rendering markdown as HTML: %w"

// RenderHTML converts a rendered checklist into an HTML fragment. GitHub task
// lists become checkbox inputs and raw <details> blocks pass through.
func RenderHTML(markdown string) (string, error) {
	converter := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	var buffer bytes.Buffer
	if convertError := converter.Convert([]byte(markdown), &buffer); convertError != nil {
		return "", fmt.Errorf(errorRenderHTMLFormat, convertError)
	}
	return buffer.String(), nil
}
