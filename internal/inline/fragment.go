// Package inline is the character-level formatting layer. Rendered block
// text is modeled as a Fragment: an ordered run of spans, each either plain
// or wrapped in one semantic tag. Offsets are rune offsets into the
// fragment's plain text, so operations stay valid for non-ASCII content.
package inline

import "strings"

// Tag is the semantic element wrapping a span.
type Tag string

const (
	TagNone   Tag = ""
	TagStrong Tag = "strong"
	TagEm     Tag = "em"
	TagU      Tag = "u"
	TagS      Tag = "s"
	TagCode   Tag = "code"
	TagMark   Tag = "mark"
	TagAnchor Tag = "a"
)

// Format is a user-facing formatting kind.
type Format string

const (
	FormatBold          Format = "bold"
	FormatItalic        Format = "italic"
	FormatUnderline     Format = "underline"
	FormatStrikethrough Format = "strikethrough"
	FormatCode          Format = "code"
	FormatHighlight     Format = "highlight"
	FormatLink          Format = "link"
)

// TagFor maps a formatting kind onto its semantic tag.
func TagFor(f Format) (Tag, bool) {
	switch f {
	case FormatBold:
		return TagStrong, true
	case FormatItalic:
		return TagEm, true
	case FormatUnderline:
		return TagU, true
	case FormatStrikethrough:
		return TagS, true
	case FormatCode:
		return TagCode, true
	case FormatHighlight:
		return TagMark, true
	case FormatLink:
		return TagAnchor, true
	}
	return TagNone, false
}

// Span is a run of text under a single tag. Href is set only for TagAnchor.
type Span struct {
	Tag  Tag    `json:"tag"`
	Text string `json:"text"`
	Href string `json:"href,omitempty"`
}

// Fragment is the transient rich-text form of a block's content.
type Fragment struct {
	Spans []Span `json:"spans"`
}

// NewFragment wraps plain text in a single untagged span.
func NewFragment(text string) *Fragment {
	if text == "" {
		return &Fragment{}
	}
	return &Fragment{Spans: []Span{{Text: text}}}
}

// PlainText concatenates all span text.
func (f *Fragment) PlainText() string {
	var sb strings.Builder
	for _, s := range f.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Len is the fragment's plain text length in runes.
func (f *Fragment) Len() int {
	n := 0
	for _, s := range f.Spans {
		n += len([]rune(s.Text))
	}
	return n
}

// spanAt returns the index of the span containing rune offset pos, plus the
// rune offset of that span's start. A position on a boundary belongs to the
// following span. Returns -1 when pos is out of range.
func (f *Fragment) spanAt(pos int) (idx, spanStart int) {
	off := 0
	for i, s := range f.Spans {
		n := len([]rune(s.Text))
		if pos < off+n {
			return i, off
		}
		off += n
	}
	return -1, 0
}

// Replace substitutes the rune range [start, end) with the given span,
// splitting boundary spans as needed. Out-of-range input is a no-op.
func (f *Fragment) Replace(start, end int, span Span) {
	if start < 0 || end > f.Len() || start > end {
		return
	}

	var out []Span
	off := 0
	inserted := false
	for _, s := range f.Spans {
		runes := []rune(s.Text)
		spanEnd := off + len(runes)

		// Entirely before or after the replaced range.
		if spanEnd <= start || off >= end {
			out = append(out, s)
			off = spanEnd
			continue
		}

		if off < start { // leading remainder
			out = append(out, Span{Tag: s.Tag, Text: string(runes[:start-off]), Href: s.Href})
		}
		if !inserted {
			out = append(out, span)
			inserted = true
		}
		if spanEnd > end { // trailing remainder
			out = append(out, Span{Tag: s.Tag, Text: string(runes[end-off:]), Href: s.Href})
		}
		off = spanEnd
	}
	if !inserted { // collapsed range at the very end
		out = append(out, span)
	}
	f.Spans = compact(out)
}

// compact drops empty spans and merges adjacent spans with identical
// tag and href.
func compact(spans []Span) []Span {
	var out []Span
	for _, s := range spans {
		if s.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Tag == s.Tag && out[n-1].Href == s.Href {
			out[n-1].Text += s.Text
			continue
		}
		out = append(out, s)
	}
	return out
}

// textBetween returns the plain text of the rune range [start, end).
func (f *Fragment) textBetween(start, end int) string {
	runes := []rune(f.PlainText())
	if start < 0 || end > len(runes) || start >= end {
		return ""
	}
	return string(runes[start:end])
}
