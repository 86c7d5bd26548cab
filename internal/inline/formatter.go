package inline

import (
	"blockpad/internal/domain"
	"blockpad/internal/sanitize"
)

// ApplyFormat applies (or toggles off) a styling format over the selected
// range. It reports whether the fragment changed. A collapsed or
// out-of-range selection is a no-op. Use ApplyLink for FormatLink, which
// needs a target URL.
func ApplyFormat(f *Fragment, sel domain.SelectionRange, kind Format) bool {
	if kind == FormatLink {
		return false
	}
	tag, ok := TagFor(kind)
	if !ok {
		return false
	}
	if sel.Collapsed() || sel.Start < 0 || sel.End > f.Len() {
		return false
	}

	// Toggle off only when the whole selection sits inside one span that
	// already carries the tag: a containment check, matching the wrapping
	// element semantics, not a range-overlap check.
	if idx, spanStart := f.spanAt(sel.Start); idx >= 0 {
		s := f.Spans[idx]
		spanEnd := spanStart + len([]rune(s.Text))
		if s.Tag == tag && sel.End <= spanEnd {
			f.Replace(spanStart, spanEnd, Span{Text: s.Text})
			return true
		}
	}

	text := f.textBetween(sel.Start, sel.End)
	f.Replace(sel.Start, sel.End, Span{Tag: tag, Text: text})
	return true
}

// ApplyLink wraps the selection in an anchor pointing at rawURL. The URL
// goes through the sanitizer first; a rejected URL aborts with no mutation.
func ApplyLink(f *Fragment, sel domain.SelectionRange, rawURL string) bool {
	if sel.Collapsed() || sel.Start < 0 || sel.End > f.Len() {
		return false
	}
	href := sanitize.URL(rawURL)
	if href == "" {
		return false
	}
	text := f.textBetween(sel.Start, sel.End)
	f.Replace(sel.Start, sel.End, Span{Tag: TagAnchor, Text: text, Href: href})
	return true
}

// IsFormatActive reports whether the span at the selection anchor carries
// the tag for kind. Used to reflect toggle state in the floating toolbar.
func IsFormatActive(f *Fragment, sel domain.SelectionRange, kind Format) bool {
	tag, ok := TagFor(kind)
	if !ok {
		return false
	}
	if sel.Start < 0 || sel.Start > f.Len() {
		return false
	}
	anchor := sel.Start
	if anchor == f.Len() && anchor > 0 {
		anchor-- // caret at the very end belongs to the last span
	}
	idx, _ := f.spanAt(anchor)
	if idx < 0 {
		return false
	}
	return f.Spans[idx].Tag == tag
}
