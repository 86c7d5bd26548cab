package domain

// SelectionRange is a half-open rune range [Start, End) over a block's
// rendered plain text. Start == End is a collapsed selection (a caret).
type SelectionRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Collapsed reports whether the range selects no text.
func (r SelectionRange) Collapsed() bool {
	return r.Start >= r.End
}

// EditingContext carries the UI state that editing operations need.
// It is passed explicitly into formatter and menu operations instead of
// being read from ambient selection state.
type EditingContext struct {
	PageID        string         `json:"pageId"`
	ActiveBlockID string         `json:"activeBlockId"`
	Selection     SelectionRange `json:"selection"`
}
