package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/digkill/adboard/internal/models"
)

type AdRepository struct {
	db *sql.DB
}

func NewAdRepository(db *sql.DB) *AdRepository {
	return &AdRepository{db: db}
}

const adColumns = `id, title, photo, description, user_id, is_premium, status, created_at`

func scanAd(row interface{ Scan(...any) error }) (*models.Ad, error) {
	var ad models.Ad
	var premium int
	if err := row.Scan(&ad.ID, &ad.Title, &ad.Photo, &ad.Description, &ad.UserID, &premium, &ad.Status, &ad.CreatedAt); err != nil {
		return nil, err
	}
	ad.IsPremium = premium != 0
	return &ad, nil
}

// Create inserts a new ad and returns its assigned id. A second live ad for
// the same owner trips the unique owner index and comes back as ErrConflict.
func (r *AdRepository) Create(ctx context.Context, ad *models.Ad) (int64, error) {
	const query = `
INSERT INTO ads (title, photo, description, user_id, is_premium, status)
VALUES (?, ?, ?, ?, ?, ?)`
	premium := 0
	if ad.IsPremium {
		premium = 1
	}
	res, err := r.db.ExecContext(ctx, query, ad.Title, ad.Photo, ad.Description, ad.UserID, premium, ad.Status)
	if err != nil {
		if isConflict(err) {
			return 0, fmt.Errorf("insert ad for owner %s: %w", ad.UserID, ErrConflict)
		}
		return 0, fmt.Errorf("insert ad: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ad last insert id: %w", err)
	}
	ad.ID = id
	return id, nil
}

func (r *AdRepository) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE id = ?`
	ad, err := scanAd(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ad: %w", err)
	}
	return ad, nil
}

func (r *AdRepository) ListByStatus(ctx context.Context, status models.AdStatus) ([]models.Ad, error) {
	query := `SELECT ` + adColumns + ` FROM ads WHERE status = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		return nil, fmt.Errorf("list ads by status %s: %w", status, err)
	}
	defer rows.Close()

	var ads []models.Ad
	for rows.Next() {
		ad, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ad list: %w", err)
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

func (r *AdRepository) CountByOwner(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM ads WHERE user_id = ?`
	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count ads by owner: %w", err)
	}
	return count, nil
}

// UpdateStatus flips an ad from one status to another in a single conditional
// write. Reports whether a row actually changed.
func (r *AdRepository) UpdateStatus(ctx context.Context, id int64, from, to models.AdStatus) (bool, error) {
	const query = `UPDATE ads SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update ad %d status: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ad status rows affected: %w", err)
	}
	return affected > 0, nil
}

// Delete hard-removes an ad. Reports whether the record existed.
func (r *AdRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM ads WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete ad %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete ad rows affected: %w", err)
	}
	return affected > 0, nil
}

// DeleteApproved purges every approved ad; pending ads are untouched.
// Used by the reset cycle.
func (r *AdRepository) DeleteApproved(ctx context.Context) (int64, error) {
	const query = `DELETE FROM ads WHERE status = ?`
	res, err := r.db.ExecContext(ctx, query, models.AdStatusApproved)
	if err != nil {
		return 0, fmt.Errorf("delete approved ads: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete approved rows affected: %w", err)
	}
	return affected, nil
}
