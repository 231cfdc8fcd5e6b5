package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestLikeBrand_InsertsOnce(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inserted, err := store.LikeBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("first LikeBrand() error: %v", err)
	}
	if !inserted {
		t.Error("first LikeBrand() inserted = false, want true")
	}

	inserted, err = store.LikeBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("second LikeBrand() error: %v", err)
	}
	if inserted {
		t.Error("second LikeBrand() inserted = true, want false")
	}

	brands, err := store.ListLikedBrands(ctx)
	if err != nil {
		t.Fatalf("ListLikedBrands() error: %v", err)
	}
	if len(brands) != 1 {
		t.Fatalf("got %d rows, want 1", len(brands))
	}
	if brands[0].Brand != "Toyota" {
		t.Errorf("brand = %q, want %q", brands[0].Brand, "Toyota")
	}
	if brands[0].CreatedAt.IsZero() {
		t.Error("created_at should default to insertion time")
	}
	if time.Since(brands[0].CreatedAt) > time.Hour {
		t.Errorf("created_at = %v, want close to now", brands[0].CreatedAt)
	}
}

func TestLikeBrand_Concurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0
	for range 8 {
		wg.Go(func() {
			inserted, err := store.LikeBrand(ctx, "Holden")
			if err != nil {
				t.Errorf("LikeBrand() error: %v", err)
				return
			}
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	if insertedCount != 1 {
		t.Errorf("inserted %d times, want 1", insertedCount)
	}
	brands, err := store.ListLikedBrands(ctx)
	if err != nil {
		t.Fatalf("ListLikedBrands() error: %v", err)
	}
	if len(brands) != 1 {
		t.Errorf("got %d rows, want 1", len(brands))
	}
}

func TestIsLiked(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	liked, err := store.IsLiked(ctx, "Ford")
	if err != nil {
		t.Fatalf("IsLiked() error: %v", err)
	}
	if liked {
		t.Error("IsLiked(Ford) = true before insert")
	}

	if _, err := store.LikeBrand(ctx, "Ford"); err != nil {
		t.Fatalf("LikeBrand() error: %v", err)
	}

	liked, err = store.IsLiked(ctx, "Ford")
	if err != nil {
		t.Fatalf("IsLiked() error: %v", err)
	}
	if !liked {
		t.Error("IsLiked(Ford) = false after insert")
	}

	// Matching is exact.
	liked, err = store.IsLiked(ctx, "ford")
	if err != nil {
		t.Fatalf("IsLiked() error: %v", err)
	}
	if liked {
		t.Error("IsLiked(ford) = true, want case-sensitive match")
	}
}

func TestUnlikeBrand(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.LikeBrand(ctx, "Toyota"); err != nil {
		t.Fatalf("LikeBrand(Toyota) error: %v", err)
	}
	if _, err := store.LikeBrand(ctx, "Kia"); err != nil {
		t.Fatalf("LikeBrand(Kia) error: %v", err)
	}

	n, err := store.UnlikeBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("UnlikeBrand() error: %v", err)
	}
	if n != 1 {
		t.Errorf("UnlikeBrand() removed %d rows, want 1", n)
	}

	n, err = store.UnlikeBrand(ctx, "Toyota")
	if err != nil {
		t.Fatalf("second UnlikeBrand() error: %v", err)
	}
	if n != 0 {
		t.Errorf("second UnlikeBrand() removed %d rows, want 0", n)
	}

	brands, err := store.ListLikedBrands(ctx)
	if err != nil {
		t.Fatalf("ListLikedBrands() error: %v", err)
	}
	if len(brands) != 1 || brands[0].Brand != "Kia" {
		t.Errorf("remaining = %+v, want only Kia", brands)
	}
}

func TestGetLikedBrand(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.GetLikedBrand(ctx, "BMW"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}

	if _, err := store.LikeBrand(ctx, "BMW"); err != nil {
		t.Fatalf("LikeBrand() error: %v", err)
	}

	lb, err := store.GetLikedBrand(ctx, "BMW")
	if err != nil {
		t.Fatalf("GetLikedBrand() error: %v", err)
	}
	if lb.ID == 0 {
		t.Error("ID should be auto-assigned")
	}
	if lb.Brand != "BMW" {
		t.Errorf("Brand = %q, want %q", lb.Brand, "BMW")
	}
}

func TestListLikedBrands_Empty(t *testing.T) {
	store := newTestStore(t)

	brands, err := store.ListLikedBrands(context.Background())
	if err != nil {
		t.Fatalf("ListLikedBrands() error: %v", err)
	}
	if brands == nil {
		t.Error("ListLikedBrands() returned nil, want empty slice")
	}
	if len(brands) != 0 {
		t.Errorf("got %d rows, want 0", len(brands))
	}
}

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return NewStore(db), mock
}

func TestStore_PropagatesDriverErrors(t *testing.T) {
	ctx := context.Background()
	errDisk := errors.New("disk I/O error")

	t.Run("IsLiked", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT EXISTS`).WithArgs("Toyota").WillReturnError(errDisk)

		if _, err := store.IsLiked(ctx, "Toyota"); !errors.Is(err, errDisk) {
			t.Errorf("IsLiked() error = %v, want wrapped %v", err, errDisk)
		}
	})

	t.Run("LikeBrand exec", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO liked_brands`).WithArgs("Toyota").WillReturnError(errDisk)

		if _, err := store.LikeBrand(ctx, "Toyota"); !errors.Is(err, errDisk) {
			t.Errorf("LikeBrand() error = %v, want wrapped %v", err, errDisk)
		}
	})

	t.Run("LikeBrand rows affected", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectExec(`INSERT INTO liked_brands`).WithArgs("Toyota").
			WillReturnResult(sqlmock.NewErrorResult(errDisk))

		if _, err := store.LikeBrand(ctx, "Toyota"); !errors.Is(err, errDisk) {
			t.Errorf("LikeBrand() error = %v, want wrapped %v", err, errDisk)
		}
	})

	t.Run("UnlikeBrand", func(t *testing.T) {
		store, mock := newMockDB(t)
		mock.ExpectExec(`DELETE FROM liked_brands`).WithArgs("Toyota").WillReturnError(errDisk)

		if _, err := store.UnlikeBrand(ctx, "Toyota"); !errors.Is(err, errDisk) {
			t.Errorf("UnlikeBrand() error = %v, want wrapped %v", err, errDisk)
		}
	})

	t.Run("ListLikedBrands row error", func(t *testing.T) {
		store, mock := newMockDB(t)
		rows := sqlmock.NewRows([]string{"id", "brand", "created_at"}).
			AddRow(1, "Toyota", "2025-01-15 10:30:00").
			RowError(0, errDisk)
		mock.ExpectQuery(`SELECT id, brand, created_at FROM liked_brands`).WillReturnRows(rows)

		if _, err := store.ListLikedBrands(ctx); !errors.Is(err, errDisk) {
			t.Errorf("ListLikedBrands() error = %v, want wrapped %v", err, errDisk)
		}
	})
}

func TestLikeBrand_ConflictReportsNotInserted(t *testing.T) {
	store, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO liked_brands \(brand\) VALUES \(\?\) ON CONFLICT`).
		WithArgs("Toyota").
		WillReturnResult(sqlmock.NewResult(0, 0))

	inserted, err := store.LikeBrand(context.Background(), "Toyota")
	if err != nil {
		t.Fatalf("LikeBrand() error: %v", err)
	}
	if inserted {
		t.Error("LikeBrand() inserted = true on conflict, want false")
	}
}
