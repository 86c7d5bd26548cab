package storage

import (
	"fmt"
	"time"

	"blockpad/internal/domain"
)

// PageStore implements domain.PageStore using SQLite.
type PageStore struct {
	db     *DB
	blocks *BlockStore
}

func NewPageStore(db *DB, blocks *BlockStore) *PageStore {
	return &PageStore{db: db, blocks: blocks}
}

func (s *PageStore) CreatePage(p *domain.Page) error {
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.db.Conn().Exec(
		`INSERT INTO pages (id, title, icon, cover, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Icon, p.Cover, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (s *PageStore) GetPage(id string) (*domain.Page, error) {
	p := &domain.Page{}
	err := s.db.Conn().QueryRow(
		`SELECT id, title, icon, cover, created_at, updated_at FROM pages WHERE id = ?`, id,
	).Scan(&p.ID, &p.Title, &p.Icon, &p.Cover, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	return p, nil
}

func (s *PageStore) ListPages() ([]domain.Page, error) {
	rows, err := s.db.Conn().Query(
		`SELECT id, title, icon, cover, created_at, updated_at FROM pages ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.ID, &p.Title, &p.Icon, &p.Cover, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (s *PageStore) UpdatePage(p *domain.Page) error {
	p.UpdatedAt = time.Now()
	_, err := s.db.Conn().Exec(
		`UPDATE pages SET title = ?, icon = ?, cover = ?, updated_at = ? WHERE id = ?`,
		p.Title, p.Icon, p.Cover, p.UpdatedAt, p.ID,
	)
	return err
}

// DeletePage removes a page and all of its blocks.
func (s *PageStore) DeletePage(id string) error {
	if err := s.blocks.DeleteByPageID(id); err != nil {
		return fmt.Errorf("delete page blocks: %w", err)
	}
	_, err := s.db.Conn().Exec(`DELETE FROM pages WHERE id = ?`, id)
	return err
}
