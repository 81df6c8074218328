package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/magabrotheeeer/stadium-auth/internal/models"
)

// uniqueViolation — код ошибки PostgreSQL при нарушении уникального индекса.
const uniqueViolation = "23505"

// Идентификатор сравнивается и с email, и с именем. Если под него подходят разные строки,
// побеждает точное совпадение email, затем наименьший id. IS TRUE нужен для строк без email:
// иначе NULL при DESC сортируется первым.
const (
	findUserQuery = `SELECT id, name, COALESCE(email, ''), pin_hash
			  FROM users
			  WHERE email = $1 OR name = $1
			  ORDER BY (email = $1) IS TRUE DESC, id ASC
			  LIMIT 1`

	findAdminQuery = `SELECT id, name, COALESCE(email, ''), pin_hash, password_hash
			  FROM admins
			  WHERE email = $1 OR name = $1
			  ORDER BY (email = $1) IS TRUE DESC, id ASC
			  LIMIT 1`
)

// FindUserCredential возвращает учётную запись участника по email или имени.
func (s *Storage) FindUserCredential(ctx context.Context, identifier string) (*models.UserCredential, error) {
	const op = "storage.FindUserCredential"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c := &models.UserCredential{}
	err := s.DB.QueryRowContext(ctx, findUserQuery, identifier).
		Scan(&c.ID, &c.DisplayName, &c.Email, &c.PinHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Role = models.RoleUser
	return c, nil
}

// FindAdminCredential возвращает учётную запись администратора по email или имени.
func (s *Storage) FindAdminCredential(ctx context.Context, identifier string) (*models.AdminCredential, error) {
	const op = "storage.FindAdminCredential"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	c := &models.AdminCredential{}
	err := s.DB.QueryRowContext(ctx, findAdminQuery, identifier).
		Scan(&c.ID, &c.DisplayName, &c.Email, &c.PinHash, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Role = models.RoleAdmin
	return c, nil
}

// RegisterUser сохраняет нового участника и возвращает его ID.
// Статус членства берётся из значения по умолчанию (unpaid).
func (s *Storage) RegisterUser(ctx context.Context, name, email, phone, pinHash string) (int64, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO users (name, email, phone, pin_hash)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	err := s.DB.QueryRowContext(ctx, query, name, email, phone, pinHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, models.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}
