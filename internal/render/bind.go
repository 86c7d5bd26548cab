package render

import (
	"encoding/base64"
	"path/filepath"
	"strings"

	"blockpad/internal/domain"
	"blockpad/internal/editor"
	"blockpad/internal/sanitize"
)

// Binder wires per-block-type interaction events onto document operations.
type Binder struct {
	sess *editor.Session
}

func NewBinder(sess *editor.Session) *Binder {
	return &Binder{sess: sess}
}

// OnContentChange records an edit; persistence is debounced inside the
// session so typing does not hit storage per keystroke.
func (b *Binder) OnContentChange(blockID, text string) {
	b.sess.SetContent(blockID, text)
}

// ToggleTodo flips and persists a todo block's checked property.
func (b *Binder) ToggleTodo(blockID string) {
	blk, ok := b.sess.Document().Get(blockID)
	if !ok || blk.Type != domain.BlockTypeTodo {
		return
	}
	checked, _ := blk.Properties["checked"].(bool)
	b.sess.Document().Update(blockID, editor.Patch{Properties: domain.Properties{"checked": !checked}})
}

// ToggleCollapse shows or hides a toggle block's nested content.
func (b *Binder) ToggleCollapse(blockID string) {
	blk, ok := b.sess.Document().Get(blockID)
	if !ok || blk.Type != domain.BlockTypeToggle {
		return
	}
	collapsed, _ := blk.Properties["collapsed"].(bool)
	b.sess.Document().Update(blockID, editor.Patch{Properties: domain.Properties{"collapsed": !collapsed}})
}

// SetCodeLanguage persists the code block's language selector choice.
func (b *Binder) SetCodeLanguage(blockID, language string) {
	blk, ok := b.sess.Document().Get(blockID)
	if !ok || blk.Type != domain.BlockTypeCode {
		return
	}
	b.sess.Document().Update(blockID, editor.Patch{Properties: domain.Properties{"language": language}})
}

// SetImageSource points an image block at a URL, through the sanitizer.
// Reports whether the URL was accepted.
func (b *Binder) SetImageSource(blockID, rawURL string) bool {
	safe := sanitize.ImageURL(rawURL)
	if safe == "" {
		return false
	}
	blk, ok := b.sess.Document().Get(blockID)
	if !ok || blk.Type != domain.BlockTypeImage {
		return false
	}
	b.sess.Document().Update(blockID, editor.Patch{Properties: domain.Properties{"src": safe}})
	return true
}

// UploadImage embeds a local file into an image block as a data URI. The
// URI passes through the same sanitization gate as any other source.
func (b *Binder) UploadImage(blockID, filename string, data []byte) bool {
	return b.SetImageSource(blockID, FileDataURI(filename, data))
}

// HandleDrop recomputes block order from the presentation order after a
// drag-and-drop and applies it. The id list must cover the whole page.
func (b *Binder) HandleDrop(orderedIDs []string) error {
	return b.sess.Document().Reorder(orderedIDs)
}

// FileDataURI encodes a local file's bytes as an image data URI. Unknown
// extensions fall back to PNG, matching what the upload dialog accepts.
func FileDataURI(filename string, data []byte) string {
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".webp":
		mime = "image/webp"
	case ".gif":
		mime = "image/gif"
	case ".svg":
		// SVG can carry script; refuse rather than embed.
		return ""
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
