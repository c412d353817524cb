package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/digkill/adboard/internal/models"
)

type PromoRepository struct {
	db *sql.DB
}

func NewPromoRepository(db *sql.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

// Create stores a freshly generated code. A colliding code surfaces as
// ErrConflict so the caller can report it instead of silently retrying.
func (r *PromoRepository) Create(ctx context.Context, code string) (*models.PromoCode, error) {
	const query = `INSERT INTO promo_codes (code, used) VALUES (?, 0)`
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		if isConflict(err) {
			return nil, fmt.Errorf("insert promo %s: %w", code, ErrConflict)
		}
		return nil, fmt.Errorf("insert promo: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("promo last insert id: %w", err)
	}
	return &models.PromoCode{ID: id, Code: code}, nil
}

// Consume marks the code used in a single conditional write, so two
// concurrent redemptions of the same code cannot both succeed. Reports
// whether this call actually burned the code.
func (r *PromoRepository) Consume(ctx context.Context, code string) (bool, error) {
	const query = `UPDATE promo_codes SET used = 1 WHERE code = ? AND used = 0`
	res, err := r.db.ExecContext(ctx, query, code)
	if err != nil {
		return false, fmt.Errorf("consume promo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("promo rows affected: %w", err)
	}
	return affected > 0, nil
}

func (r *PromoRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	const query = `SELECT id, code, used, created_at FROM promo_codes ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list promos: %w", err)
	}
	defer rows.Close()

	var promos []models.PromoCode
	for rows.Next() {
		var promo models.PromoCode
		var used int
		if err := rows.Scan(&promo.ID, &promo.Code, &used, &promo.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan promo list: %w", err)
		}
		promo.Used = used != 0
		promos = append(promos, promo)
	}
	return promos, rows.Err()
}
