package processor

import (
	"fmt"
	"strings"

	"github.com/MrUltraEnder/pagelang"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TranslatedAttr marks a document whose text is currently in the target language.
const TranslatedAttr = "data-translated"

// HTMLProcessor extracts text segments from HTML and writes translations back.
type HTMLProcessor struct {
	ignoredTags map[string]bool
}

// NewHTMLProcessor creates a new HTML processor with default ignored tags.
func NewHTMLProcessor() *HTMLProcessor {
	return &HTMLProcessor{
		ignoredTags: pagelang.IgnoredTags,
	}
}

// NewHTMLProcessorWithIgnoredTags creates a new HTML processor with custom ignored tags.
func NewHTMLProcessorWithIgnoredTags(tags []string) *HTMLProcessor {
	ignored := make(map[string]bool)
	for _, tag := range tags {
		ignored[strings.ToLower(tag)] = true
	}
	return &HTMLProcessor{
		ignoredTags: ignored,
	}
}

// Parse parses content into a Document.
func (p *HTMLProcessor) Parse(content string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, &pagelang.ProcessorError{
			Message:     "failed to parse HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return &Document{proc: p, doc: doc}, nil
}

// Extract walks root and returns its visible text segments in document order.
//
// The walk is read-only and keeps no state between calls, so running it
// twice over an unchanged tree yields the same list.
func (p *HTMLProcessor) Extract(root *html.Node) []pagelang.Segment {
	var segments []pagelang.Segment

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && p.skipElement(n) {
			return
		}

		if n.Type == html.TextNode {
			trimmed := strings.TrimSpace(n.Data)
			if trimmed != "" {
				seg := pagelang.Segment{
					ID:       fmt.Sprintf("seg-%d", len(segments)),
					Node:     n,
					Original: n.Data,
					Text:     trimmed,
					Hash:     pagelang.HashText(trimmed),
					Context:  buildContext(n),
					Metadata: map[string]string{},
				}
				if n.Parent != nil {
					seg.Metadata["parent_tag"] = n.Parent.Data
				}
				segments = append(segments, seg)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if root != nil {
		walk(root)
	}
	return segments
}

// Apply writes translations onto the segments' nodes and returns how many
// nodes were written. Segments without a translation are left untouched.
func (p *HTMLProcessor) Apply(segments []pagelang.Segment, translations pagelang.TranslationMap) int {
	written := 0
	for _, seg := range segments {
		translated, ok := translations[seg.Text]
		if !ok || seg.Node == nil {
			continue
		}
		seg.Node.Data = preserveWhitespace(seg.Original, translated)
		written++
	}
	return written
}

// skipElement reports whether an element's subtree is not rendered as prose.
func (p *HTMLProcessor) skipElement(n *html.Node) bool {
	if p.ignoredTags[strings.ToLower(n.Data)] {
		return true
	}
	for _, attr := range n.Attr {
		switch attr.Key {
		case "data-no-translate", "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(attr.Val), " ", "")
			if strings.Contains(style, "display:none") {
				return true
			}
		}
	}
	return false
}

// buildContext creates a disambiguation context string for a text node.
func buildContext(n *html.Node) string {
	var parts []string

	if n.Parent != nil {
		parent := n.Parent
		tag := parent.Data

		// Get class or id if available
		var classAttr, idAttr string
		for _, attr := range parent.Attr {
			if attr.Key == "class" {
				classAttr = attr.Val
			} else if attr.Key == "id" {
				idAttr = attr.Val
			}
		}

		if classAttr != "" {
			parts = append(parts, fmt.Sprintf("in <%s class=\"%s\">", tag, classAttr))
		} else if idAttr != "" {
			parts = append(parts, fmt.Sprintf("in <%s id=\"%s\">", tag, idAttr))
		} else {
			parts = append(parts, fmt.Sprintf("in <%s>", tag))
		}

		// Ancestor path, up to 3 levels
		var ancestors []string
		ancestor := parent.Parent
		for i := 0; i < 3 && ancestor != nil; i++ {
			if ancestor.Type == html.ElementNode {
				name := ancestor.Data
				if name != "html" && name != "body" {
					ancestors = append(ancestors, name)
				}
			}
			ancestor = ancestor.Parent
		}
		if len(ancestors) > 0 {
			// Outer to inner
			for i, j := 0, len(ancestors)-1; i < j; i, j = i+1, j-1 {
				ancestors[i], ancestors[j] = ancestors[j], ancestors[i]
			}
			parts = append(parts, fmt.Sprintf("inside: %s", strings.Join(ancestors, " > ")))
		}
	}

	return strings.Join(parts, " | ")
}

// preserveWhitespace preserves the original leading/trailing whitespace.
func preserveWhitespace(original, translated string) string {
	leadingLen := len(original) - len(strings.TrimLeft(original, " \t\n\r"))
	leading := original[:leadingLen]

	trailingLen := len(original) - len(strings.TrimRight(original, " \t\n\r"))
	trailing := ""
	if trailingLen > 0 && trailingLen < len(original) {
		trailing = original[len(original)-trailingLen:]
	}

	return leading + strings.TrimSpace(translated) + trailing
}
