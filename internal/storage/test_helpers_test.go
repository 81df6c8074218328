package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema повторяет таблицы учётных записей рабочей базы.
const schema = `
	DROP TABLE IF EXISTS admins CASCADE;
	DROP TABLE IF EXISTS users CASCADE;

	CREATE TABLE users (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		phone TEXT NOT NULL DEFAULT '',
		pin_hash TEXT NOT NULL,
		membership_status TEXT NOT NULL DEFAULT 'unpaid',
		membership_expiry TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE admins (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT UNIQUE,
		pin_hash TEXT NOT NULL,
		password_hash TEXT NOT NULL
	);
`

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает участника и возвращает его ID
func (f *TestDataFactory) CreateUser(t *testing.T, name, email, pinHash string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO users (name, email, pin_hash)
		VALUES ($1, $2, $3) RETURNING id`, name, email, pinHash).Scan(&id)
	require.NoError(t, err)
	return id
}

// SetMembership записывает статус и дату окончания членства
func (f *TestDataFactory) SetMembership(t *testing.T, userID int64, status string, expiry *time.Time) {
	t.Helper()
	_, err := f.storage.DB.Exec(`UPDATE users SET membership_status = $1, membership_expiry = $2 WHERE id = $3`,
		status, expiry, userID)
	require.NoError(t, err)
}

// CreateAdmin создает администратора и возвращает его ID
func (f *TestDataFactory) CreateAdmin(t *testing.T, name, email, pinHash, passwordHash string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO admins (name, email, pin_hash, password_hash)
		VALUES ($1, $2, $3, $4) RETURNING id`, name, email, pinHash, passwordHash).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateAdminWithoutEmail создает администратора с email = NULL
func (f *TestDataFactory) CreateAdminWithoutEmail(t *testing.T, name, pinHash, passwordHash string) int64 {
	t.Helper()
	var id int64
	err := f.storage.DB.QueryRow(`INSERT INTO admins (name, pin_hash, password_hash)
		VALUES ($1, $2, $3) RETURNING id`, name, pinHash, passwordHash).Scan(&id)
	require.NoError(t, err)
	return id
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL.
// Тест пропускается в режиме -short и при недоступном Docker.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err, "failed to start container")

	host, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	port, err := pgContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err, "failed to get port")

	connStr := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "failed to create storage after retries")

	_, err = storage.DB.Exec(schema)
	require.NoError(t, err, "failed to create tables")

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}
	return storage, cleanup
}
