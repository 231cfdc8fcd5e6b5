package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/monicalopezucha/practica-final/internal/models"
)

// IsLiked reports whether a row exists for brand.
func (s *Store) IsLiked(ctx context.Context, brand string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM liked_brands WHERE brand = ?)`, brand,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking liked brand %q: %w", brand, err)
	}
	return exists == 1, nil
}

// LikeBrand inserts a row for brand unless one already exists. It reports
// whether a row was inserted. The unique index on brand makes the check and
// the insert a single atomic statement.
func (s *Store) LikeBrand(ctx context.Context, brand string) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO liked_brands (brand) VALUES (?) ON CONFLICT(brand) DO NOTHING`, brand,
	)
	if err != nil {
		return false, fmt.Errorf("inserting liked brand %q: %w", brand, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking rows affected for %q: %w", brand, err)
	}
	return n > 0, nil
}

// UnlikeBrand deletes every row for brand and returns how many were removed.
func (s *Store) UnlikeBrand(ctx context.Context, brand string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM liked_brands WHERE brand = ?`, brand)
	if err != nil {
		return 0, fmt.Errorf("deleting liked brand %q: %w", brand, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected for %q: %w", brand, err)
	}
	return n, nil
}

// GetLikedBrand returns the row for brand, or ErrNotFound.
func (s *Store) GetLikedBrand(ctx context.Context, brand string) (*models.LikedBrand, error) {
	var (
		lb        models.LikedBrand
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, brand, created_at FROM liked_brands WHERE brand = ?`, brand,
	).Scan(&lb.ID, &lb.Brand, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting liked brand %q: %w", brand, err)
	}
	lb.CreatedAt = parseTime(createdAt)
	return &lb, nil
}

// ListLikedBrands returns all liked brands in insertion order.
func (s *Store) ListLikedBrands(ctx context.Context) ([]models.LikedBrand, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, brand, created_at FROM liked_brands ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying liked brands: %w", err)
	}
	defer rows.Close()

	brands := []models.LikedBrand{}
	for rows.Next() {
		var (
			lb        models.LikedBrand
			createdAt string
		)
		if err := rows.Scan(&lb.ID, &lb.Brand, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning liked brand row: %w", err)
		}
		lb.CreatedAt = parseTime(createdAt)
		brands = append(brands, lb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating liked brand rows: %w", err)
	}
	return brands, nil
}
