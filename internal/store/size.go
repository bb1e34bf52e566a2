package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ayusman/armascan/internal/detector"
	"github.com/ayusman/armascan/internal/sizing"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SizeRepository stores the glove size catalog.
type SizeRepository struct {
	db *sql.DB
}

// Sizes returns the glove size repository for this store.
func (s *Store) Sizes() *SizeRepository {
	return &SizeRepository{db: s.db}
}

// seed inserts the built-in catalog, leaving existing rows untouched.
func (r *SizeRepository) seed() error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, size := range sizing.Catalog() {
		fingers, err := json.Marshal(size.FingerLengthsCm)
		if err != nil {
			return err
		}
		_, err = tx.Exec(
			`INSERT OR IGNORE INTO glove_sizes (key, name, palm_width_cm, finger_lengths, model_file, sort_order)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			size.Key, size.Name, size.PalmWidthCm, string(fingers), size.ModelFile, i,
		)
		if err != nil {
			return fmt.Errorf("seed size %s: %w", size.Key, err)
		}
	}

	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSize(row rowScanner) (*sizing.GloveSize, error) {
	g := &sizing.GloveSize{}
	var fingers string

	if err := row.Scan(&g.Key, &g.Name, &g.PalmWidthCm, &fingers, &g.ModelFile); err != nil {
		return nil, err
	}

	g.FingerLengthsCm = make(map[detector.Finger]float64)
	if err := json.Unmarshal([]byte(fingers), &g.FingerLengthsCm); err != nil {
		return nil, fmt.Errorf("decode finger lengths for %s: %w", g.Key, err)
	}
	return g, nil
}

// List retrieves all glove sizes, smallest first.
func (r *SizeRepository) List() ([]*sizing.GloveSize, error) {
	rows, err := r.db.Query(
		`SELECT key, name, palm_width_cm, finger_lengths, model_file
		 FROM glove_sizes ORDER BY sort_order, palm_width_cm`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sizes []*sizing.GloveSize
	for rows.Next() {
		g, err := scanSize(rows)
		if err != nil {
			return nil, err
		}
		sizes = append(sizes, g)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sizes, nil
}

// GetByKey retrieves a glove size by its key, ignoring case.
func (r *SizeRepository) GetByKey(key string) (*sizing.GloveSize, error) {
	g, err := scanSize(r.db.QueryRow(
		`SELECT key, name, palm_width_cm, finger_lengths, model_file
		 FROM glove_sizes WHERE key = ?`,
		strings.ToUpper(key),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// Upsert inserts a glove size or replaces the stored values for its key.
// New keys sort after the built-in sizes.
func (r *SizeRepository) Upsert(g *sizing.GloveSize) error {
	if g.Key == "" || g.PalmWidthCm <= 0 {
		return fmt.Errorf("invalid glove size %q: key and palm width are required", g.Key)
	}
	g.Key = strings.ToUpper(g.Key)

	fingers, err := json.Marshal(g.FingerLengthsCm)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`INSERT INTO glove_sizes (key, name, palm_width_cm, finger_lengths, model_file, sort_order, updated_at)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM glove_sizes), ?)
		 ON CONFLICT(key) DO UPDATE SET
			name = excluded.name,
			palm_width_cm = excluded.palm_width_cm,
			finger_lengths = excluded.finger_lengths,
			model_file = excluded.model_file,
			updated_at = excluded.updated_at`,
		g.Key, g.Name, g.PalmWidthCm, string(fingers), g.ModelFile, time.Now(),
	)
	return err
}

// Delete removes a glove size by key.
func (r *SizeRepository) Delete(key string) error {
	result, err := r.db.Exec(`DELETE FROM glove_sizes WHERE key = ?`, strings.ToUpper(key))
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
