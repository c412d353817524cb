package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/digkill/adboard/internal/models"
)

type PermanentAdRepository struct {
	db *sql.DB
}

func NewPermanentAdRepository(db *sql.DB) *PermanentAdRepository {
	return &PermanentAdRepository{db: db}
}

const permanentColumns = `id, title, photo, description, user_id, is_premium, created_at`

func scanPermanent(row interface{ Scan(...any) error }) (*models.PermanentAd, error) {
	var ad models.PermanentAd
	var premium int
	if err := row.Scan(&ad.ID, &ad.Title, &ad.Photo, &ad.Description, &ad.UserID, &premium, &ad.CreatedAt); err != nil {
		return nil, err
	}
	ad.IsPremium = premium != 0
	return &ad, nil
}

// Create stores a permanent copy under the originating ad's id. A copy that
// already exists for the id comes back as ErrConflict.
func (r *PermanentAdRepository) Create(ctx context.Context, ad *models.PermanentAd) error {
	const query = `
INSERT INTO permanent_ads (id, title, photo, description, user_id, is_premium)
VALUES (?, ?, ?, ?, ?, ?)`
	premium := 0
	if ad.IsPremium {
		premium = 1
	}
	if _, err := r.db.ExecContext(ctx, query, ad.ID, ad.Title, ad.Photo, ad.Description, ad.UserID, premium); err != nil {
		if isConflict(err) {
			return fmt.Errorf("insert permanent ad %d: %w", ad.ID, ErrConflict)
		}
		return fmt.Errorf("insert permanent ad: %w", err)
	}
	return nil
}

func (r *PermanentAdRepository) GetByID(ctx context.Context, id int64) (*models.PermanentAd, error) {
	query := `SELECT ` + permanentColumns + ` FROM permanent_ads WHERE id = ?`
	ad, err := scanPermanent(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan permanent ad: %w", err)
	}
	return ad, nil
}

func (r *PermanentAdRepository) List(ctx context.Context) ([]models.PermanentAd, error) {
	query := `SELECT ` + permanentColumns + ` FROM permanent_ads ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list permanent ads: %w", err)
	}
	defer rows.Close()

	var ads []models.PermanentAd
	for rows.Next() {
		ad, err := scanPermanent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permanent ad list: %w", err)
		}
		ads = append(ads, *ad)
	}
	return ads, rows.Err()
}

func (r *PermanentAdRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const query = `SELECT 1 FROM permanent_ads WHERE id = ?`
	var dummy int
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&dummy); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check permanent ad %d: %w", id, err)
	}
	return true, nil
}

// Delete drops the permanent copy only; any live ad record is untouched.
// Reports whether the copy existed.
func (r *PermanentAdRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM permanent_ads WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete permanent ad %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete permanent rows affected: %w", err)
	}
	return affected > 0, nil
}
