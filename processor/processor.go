// Package processor parses HTML pages and moves text between the page and
// translation maps.
package processor

import (
	"strings"

	"github.com/MrUltraEnder/pagelang"
	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed page. It is the live tree a Page mutates.
type Document struct {
	proc *HTMLProcessor
	doc  *goquery.Document
}

// Segments extracts the visible text of <body>, or of the whole document
// when it has no body.
func (d *Document) Segments() []pagelang.Segment {
	body := d.doc.Find("body").First()
	if body.Length() > 0 {
		return d.proc.Extract(body.Get(0))
	}
	return d.proc.Extract(d.doc.Get(0))
}

// Apply writes translations onto previously extracted segments.
func (d *Document) Apply(segments []pagelang.Segment, translations pagelang.TranslationMap) int {
	return d.proc.Apply(segments, translations)
}

// MarkTranslated sets lang and dir on <html> and sets or clears the
// translated marker attribute.
func (d *Document) MarkTranslated(lang string, on bool) {
	root := d.doc.Find("html").First()
	if root.Length() == 0 {
		return
	}
	if lang != "" {
		root.SetAttr("lang", pagelang.ToHTMLLang(lang))
		root.SetAttr("dir", pagelang.GetDirection(lang))
	}
	if on {
		root.SetAttr(TranslatedAttr, "true")
	} else {
		root.RemoveAttr(TranslatedAttr)
	}
}

// IsMarkedTranslated reports whether <html> carries data-translated="true".
func (d *Document) IsMarkedTranslated() bool {
	val, ok := d.doc.Find("html").First().Attr(TranslatedAttr)
	return ok && strings.EqualFold(val, "true")
}

// Lang returns the lang attribute of <html>, or "".
func (d *Document) Lang() string {
	val, _ := d.doc.Find("html").First().Attr("lang")
	return val
}

// Render serializes the document.
func (d *Document) Render() (string, error) {
	out, err := d.doc.Html()
	if err != nil {
		return "", &pagelang.ProcessorError{
			Message:     "failed to serialize HTML",
			Cause:       err,
			ContentType: "html",
		}
	}
	return out, nil
}

// Verify Document satisfies the page contract
var _ pagelang.Document = (*Document)(nil)
