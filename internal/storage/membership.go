package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// GetMembership возвращает сохранённую запись о членстве участника.
// Статус не пересчитывается: истёкшее, но ещё не обновлённое членство читается как paid.
func (s *Storage) GetMembership(ctx context.Context, userID int64) (*models.MembershipRecord, error) {
	const op = "storage.GetMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, membership_status, membership_expiry
			  FROM users
			  WHERE id = $1`
	var (
		rec    models.MembershipRecord
		status string
		expiry sql.NullTime
	)
	err := s.DB.QueryRowContext(ctx, query, userID).Scan(&rec.UserID, &status, &expiry)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rec.Status, err = models.ParseMembershipStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if expiry.Valid {
		t := expiry.Time
		rec.ExpiryDate = &t
	}
	return &rec, nil
}
