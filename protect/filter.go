// Package protect decides which page text must never reach a translation
// service and shields protected terms inside the text that does.
package protect

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultTerms are the brand names, people and technologies of the
// portfolio that stay verbatim in every language.
var DefaultTerms = []string{
	"C#", "JavaScript", "TypeScript", "React", "Next.js", "Unity", "WebGL",
	"HTML", "CSS", "API", "REST", "JSON", "Git", "GitHub", "VS Code",
	"Node.js", "npm", "pnpm", "MongoDB", "SQL", "NoSQL", "AWS", "Docker",
	"Kubernetes", "DevOps", "CI/CD", "OAuth", "JWT", "HTTPS", "HTTP",
	"Eric Zaleta", "Portfolio", "VR", "AR", "XR", "iOS", "Android",
	"Windows", "macOS", "Linux", "Steam", "Itch.io", "PlayStation", "Xbox", "C",
}

var (
	numericOrSymbol = regexp.MustCompile(`^[\d\s+\-.%$€£¥()\[\]{}|\\/<>@#&*,:;=~^_!?'"]+$`)
	emailPattern    = regexp.MustCompile(`^[\w\-.+]+@[\w\-.]+\.\w+$`)
	urlPattern      = regexp.MustCompile(`^(?i)https?://`)
	acronymPattern  = regexp.MustCompile(`^[A-Z]{1,3}$`)
	placeholderRe   = regexp.MustCompile(`(?i)__\s*PT\s*(\d+)\s*__`)
)

// Filter holds a static, ordered protected-term table.
type Filter struct {
	terms    []string
	patterns []*regexp.Regexp
	lookup   map[string]bool
}

// New builds a filter for the given terms. Blank terms are ignored.
func New(terms []string) *Filter {
	f := &Filter{lookup: make(map[string]bool)}
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		f.terms = append(f.terms, term)
		f.patterns = append(f.patterns, regexp.MustCompile(`(?i)`+regexp.QuoteMeta(term)))
		f.lookup[strings.ToLower(term)] = true
	}
	return f
}

// Default returns a filter over DefaultTerms.
func Default() *Filter {
	return New(DefaultTerms)
}

// Terms returns a copy of the protected terms in table order.
func (f *Filter) Terms() []string {
	out := make([]string, len(f.terms))
	copy(out, f.terms)
	return out
}

// Skip reports whether text must be left out of translation entirely.
//
// Numeric/symbol-only strings, single characters, emails, URLs, 1-3 letter
// uppercase codes and exact protected terms are skipped. A text that is
// merely part of a protected term is not.
func (f *Filter) Skip(text string) bool {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return true
	case utf8.RuneCountInString(text) == 1:
		return true
	case numericOrSymbol.MatchString(text):
		return true
	case emailPattern.MatchString(text):
		return true
	case urlPattern.MatchString(text):
		return true
	case acronymPattern.MatchString(text):
		return true
	}
	return f.lookup[strings.ToLower(text)]
}

// ContainsTerm reports whether text contains a protected term as a whole word.
func (f *Filter) ContainsTerm(text string) bool {
	return len(f.matches(text)) > 0
}

// Masked is a text whose protected terms were swapped for placeholders.
type Masked struct {
	Text      string
	originals []string
}

// Protected returns the original occurrences in placeholder order.
func (m Masked) Protected() []string {
	return m.originals
}

// Restore replaces the placeholders in translated with the original occurrences.
func (m Masked) Restore(translated string) string {
	if len(m.originals) == 0 {
		return translated
	}
	return placeholderRe.ReplaceAllStringFunc(translated, func(ph string) string {
		sub := placeholderRe.FindStringSubmatch(ph)
		n, err := strconv.Atoi(sub[1])
		if err != nil || n < 0 || n >= len(m.originals) {
			return ph
		}
		return m.originals[n]
	})
}

// Mask replaces every whole-word, case-insensitive occurrence of a
// protected term with an opaque placeholder.
func (f *Filter) Mask(text string) Masked {
	found := f.matches(text)
	if len(found) == 0 {
		return Masked{Text: text}
	}

	var b strings.Builder
	originals := make([]string, 0, len(found))
	last := 0
	for i, m := range found {
		b.WriteString(text[last:m.start])
		b.WriteString(placeholder(i))
		originals = append(originals, text[m.start:m.end])
		last = m.end
	}
	b.WriteString(text[last:])

	return Masked{Text: b.String(), originals: originals}
}

type span struct {
	start, end int
}

// matches returns non-overlapping whole-word term occurrences in text
// order. Longer occurrences win over the shorter ones they overlap.
func (f *Filter) matches(text string) []span {
	var candidates []span
	for _, re := range f.patterns {
		for _, loc := range re.FindAllStringIndex(text, -1) {
			if isBoundary(text, loc[0], loc[1]) {
				candidates = append(candidates, span{loc[0], loc[1]})
			}
		}
	}
	if len(candidates) == 0 {
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		li := candidates[i].end - candidates[i].start
		lj := candidates[j].end - candidates[j].start
		if li != lj {
			return li > lj
		}
		return candidates[i].start < candidates[j].start
	})

	var chosen []span
	for _, c := range candidates {
		overlaps := false
		for _, s := range chosen {
			if c.start < s.end && s.start < c.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			chosen = append(chosen, c)
		}
	}

	sort.Slice(chosen, func(i, j int) bool { return chosen[i].start < chosen[j].start })
	return chosen
}

// isBoundary checks that text[start:end] is not glued to a word character.
func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func placeholder(n int) string {
	return "__PT" + strconv.Itoa(n) + "__"
}
