package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Capture is a screenshot written by the backend.
type Capture struct {
	ID         string
	Path       string
	Ratio      string
	Resolution string
	SizeBytes  int64
	CreatedAt  time.Time
}

// CaptureRepository provides CRUD operations for captures.
type CaptureRepository struct {
	db *sql.DB
}

// Captures returns the capture repository for this store.
func (s *Store) Captures() *CaptureRepository {
	return &CaptureRepository{db: s.db}
}

// Create inserts a capture. An empty ID is filled with a new UUID and a zero
// CreatedAt with the current time.
func (r *CaptureRepository) Create(c *Capture) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	// UTC keeps the stored text ordered for created_at comparisons.
	c.CreatedAt = c.CreatedAt.UTC()

	_, err := r.db.Exec(
		`INSERT INTO captures (id, path, ratio, resolution, size_bytes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Path, c.Ratio, c.Resolution, c.SizeBytes, c.CreatedAt,
	)
	return err
}

// List returns all captures, newest first.
func (r *CaptureRepository) List() ([]*Capture, error) {
	return r.query(`SELECT id, path, ratio, resolution, size_bytes, created_at
		 FROM captures ORDER BY created_at DESC`)
}

// OlderThan returns captures created before cutoff, oldest first.
func (r *CaptureRepository) OlderThan(cutoff time.Time) ([]*Capture, error) {
	return r.query(`SELECT id, path, ratio, resolution, size_bytes, created_at
		 FROM captures WHERE created_at < ? ORDER BY created_at ASC`, cutoff.UTC())
}

func (r *CaptureRepository) query(q string, args ...any) ([]*Capture, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var captures []*Capture
	for rows.Next() {
		c := &Capture{}
		if err := rows.Scan(&c.ID, &c.Path, &c.Ratio, &c.Resolution, &c.SizeBytes, &c.CreatedAt); err != nil {
			return nil, err
		}
		captures = append(captures, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return captures, nil
}

// Delete removes a capture row by its ID.
func (r *CaptureRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM captures WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
