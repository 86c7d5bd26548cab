package inline

import (
	"regexp"
	"unicode/utf8"

	"blockpad/internal/sanitize"
)

// inlinePattern is one row of the autoformat table. Patterns are anchored
// at the cursor and evaluated in listed order; the first match wins.
type inlinePattern struct {
	re     *regexp.Regexp
	format Format
}

var inlinePatterns = []inlinePattern{
	{regexp.MustCompile(`\*\*([^*]+)\*\*$`), FormatBold},
	{regexp.MustCompile(`__([^_]+)__$`), FormatBold},
	{regexp.MustCompile(`\*([^*]+)\*$`), FormatItalic},
	{regexp.MustCompile(`_([^_]+)_$`), FormatItalic},
	{regexp.MustCompile(`~~([^~]+)~~$`), FormatStrikethrough},
	{regexp.MustCompile("`([^`]+)`$"), FormatCode},
	{regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)$`), FormatLink},
}

// Replacement is a pending autoformat transformation: delete the rune range
// [Start, End) of the block's text and insert Span in its place, landing
// the cursor at CursorAfter. The triggering space is consumed, never
// reinserted.
type Replacement struct {
	Start       int
	End         int
	Span        Span
	CursorAfter int
}

// CheckInlineMarkdown inspects the text immediately before the cursor for a
// trailing markdown pattern. Called on every space keypress inside editable
// content. Returns false when nothing matches or, for links, when the URL
// fails sanitization, leaving the typed markdown intact.
func CheckInlineMarkdown(text string, cursor int) (Replacement, bool) {
	runes := []rune(text)
	if cursor < 0 || cursor > len(runes) {
		return Replacement{}, false
	}
	prefix := string(runes[:cursor])

	for _, p := range inlinePatterns {
		loc := p.re.FindStringSubmatchIndex(prefix)
		if loc == nil {
			continue
		}
		start := utf8.RuneCountInString(prefix[:loc[0]])
		captured := prefix[loc[2]:loc[3]]

		span := Span{Text: captured}
		switch p.format {
		case FormatLink:
			href := sanitize.URL(prefix[loc[4]:loc[5]])
			if href == "" {
				return Replacement{}, false
			}
			span.Tag = TagAnchor
			span.Href = href
		default:
			tag, _ := TagFor(p.format)
			span.Tag = tag
		}

		return Replacement{
			Start:       start,
			End:         cursor,
			Span:        span,
			CursorAfter: start + utf8.RuneCountInString(captured),
		}, true
	}
	return Replacement{}, false
}

// Apply executes a replacement against the fragment.
func (r Replacement) Apply(f *Fragment) {
	f.Replace(r.Start, r.End, r.Span)
}
