package domain

import "time"

type BlockType string

const (
	BlockTypeParagraph    BlockType = "paragraph"
	BlockTypeHeading1     BlockType = "heading1"
	BlockTypeHeading2     BlockType = "heading2"
	BlockTypeHeading3     BlockType = "heading3"
	BlockTypeBulletedList BlockType = "bulleted_list"
	BlockTypeNumberedList BlockType = "numbered_list"
	BlockTypeTodo         BlockType = "todo"
	BlockTypeToggle       BlockType = "toggle"
	BlockTypeQuote        BlockType = "quote"
	BlockTypeCallout      BlockType = "callout"
	BlockTypeDivider      BlockType = "divider"
	BlockTypeCode         BlockType = "code"
	BlockTypeImage        BlockType = "image"
	BlockTypeBookmark     BlockType = "bookmark"
	BlockTypeTable        BlockType = "table"
	BlockTypeDatabase     BlockType = "database"
)

// Properties holds type-specific block attributes: "checked" for todo,
// "language" for code, "src"/"caption" for image, "url"/"title"/
// "description"/"image" for bookmark, "emoji" for callout and
// "collapsed" for toggle.
type Properties map[string]any

// Block is the atomic unit of a page. Content is plain text; inline
// formatting is applied transiently at render time and never stored here.
type Block struct {
	ID         string     `json:"id"`
	PageID     string     `json:"pageId"`
	ParentID   string     `json:"parentId"` // "" means top-level
	Type       BlockType  `json:"type"`
	Content    string     `json:"content"`
	Properties Properties `json:"properties"`
	Order      int        `json:"order"` // position among siblings of the same parent
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// BlockStore is the persistence contract for blocks.
type BlockStore interface {
	Get(id string) (*Block, error)
	GetAllByPageID(pageID string) ([]Block, error)
	GetAllByParentID(parentID string) ([]Block, error)
	Put(b *Block) error
	Delete(id string) error
}
