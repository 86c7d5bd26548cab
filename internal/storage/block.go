package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"blockpad/internal/domain"
)

// BlockStore implements domain.BlockStore using SQLite. Put is an upsert,
// so the editor can treat every write the same way.
type BlockStore struct {
	db *DB
}

func NewBlockStore(db *DB) *BlockStore {
	return &BlockStore{db: db}
}

func (s *BlockStore) Get(id string) (*domain.Block, error) {
	row := s.db.Conn().QueryRow(
		`SELECT id, page_id, parent_id, type, content, properties_json, sort_order, created_at, updated_at
		 FROM blocks WHERE id = ?`, id,
	)
	b, err := scanBlock(row)
	if err != nil {
		return nil, fmt.Errorf("get block: %w", err)
	}
	return b, nil
}

func (s *BlockStore) GetAllByPageID(pageID string) ([]domain.Block, error) {
	return s.queryBlocks(
		`SELECT id, page_id, parent_id, type, content, properties_json, sort_order, created_at, updated_at
		 FROM blocks WHERE page_id = ? ORDER BY parent_id, sort_order ASC`, pageID,
	)
}

func (s *BlockStore) GetAllByParentID(parentID string) ([]domain.Block, error) {
	return s.queryBlocks(
		`SELECT id, page_id, parent_id, type, content, properties_json, sort_order, created_at, updated_at
		 FROM blocks WHERE parent_id = ? ORDER BY sort_order ASC`, parentID,
	)
}

func (s *BlockStore) Put(b *domain.Block) error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	b.UpdatedAt = time.Now()
	props, err := json.Marshal(orEmpty(b.Properties))
	if err != nil {
		return fmt.Errorf("marshal properties: %w", err)
	}
	_, err = s.db.Conn().Exec(
		`INSERT INTO blocks (id, page_id, parent_id, type, content, properties_json, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			page_id = excluded.page_id,
			parent_id = excluded.parent_id,
			type = excluded.type,
			content = excluded.content,
			properties_json = excluded.properties_json,
			sort_order = excluded.sort_order,
			updated_at = excluded.updated_at`,
		b.ID, b.PageID, b.ParentID, b.Type, b.Content, string(props), b.Order, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("put block: %w", err)
	}
	return nil
}

func (s *BlockStore) Delete(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM blocks WHERE id = ?`, id)
	return err
}

// DeleteByPageID removes every block of a page. Used by page deletion.
func (s *BlockStore) DeleteByPageID(pageID string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM blocks WHERE page_id = ?`, pageID)
	return err
}

// ── helpers ────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlock(row rowScanner) (*domain.Block, error) {
	b := &domain.Block{}
	var props string
	err := row.Scan(&b.ID, &b.PageID, &b.ParentID, &b.Type, &b.Content, &props, &b.Order, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(props), &b.Properties); err != nil {
		return nil, fmt.Errorf("unmarshal properties: %w", err)
	}
	return b, nil
}

func (s *BlockStore) queryBlocks(query string, args ...any) ([]domain.Block, error) {
	rows, err := s.db.Conn().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []domain.Block
	for rows.Next() {
		b, err := scanBlock(rows)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, *b)
	}
	return blocks, rows.Err()
}

func orEmpty(p domain.Properties) domain.Properties {
	if p == nil {
		return domain.Properties{}
	}
	return p
}
