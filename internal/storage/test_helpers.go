package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/user-accounts/internal/migrations"
	"github.com/magabrotheeeer/user-accounts/internal/models"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateInactiveUser создает неактивного пользователя с токеном активации
func (f *TestDataFactory) CreateInactiveUser(t *testing.T, username, token string) models.User {
	t.Helper()
	u := models.User{
		Username:        username,
		Email:           uniqueEmail(username),
		PasswordHash:    "hashedpassword",
		Inactive:        true,
		ActivationToken: &token,
	}
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, inactive, activation_token)
		VALUES ($1, $2, $3, TRUE, $4) RETURNING id`,
		u.Username, u.Email, u.PasswordHash, token).Scan(&u.ID)
	require.NoError(t, err)
	return u
}

// CreateActiveUser создает активного пользователя
func (f *TestDataFactory) CreateActiveUser(t *testing.T, username string) models.User {
	t.Helper()
	u := models.User{
		Username:     username,
		Email:        uniqueEmail(username),
		PasswordHash: "hashedpassword",
	}
	err := f.storage.DB.QueryRow(`INSERT INTO users (username, email, password_hash, inactive, activation_token)
		VALUES ($1, $2, $3, FALSE, NULL) RETURNING id`,
		u.Username, u.Email, u.PasswordHash).Scan(&u.ID)
	require.NoError(t, err)
	return u
}

func uniqueEmail(username string) string {
	return fmt.Sprintf("%s-%s@example.com", username, uuid.NewString())
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// VerifyUserCount проверяет количество пользователей с данным e-mail
func (v *TestVerification) VerifyUserCount(t *testing.T, email string, expected int) {
	t.Helper()
	var count int
	err := v.storage.DB.QueryRow("SELECT COUNT(*) FROM users WHERE email = $1", email).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, expected, count)
}

// VerifyActivationState проверяет флаг inactive и наличие токена
func (v *TestVerification) VerifyActivationState(t *testing.T, id int64, expectInactive bool) {
	t.Helper()
	var inactive bool
	var hasToken bool
	err := v.storage.DB.QueryRow("SELECT inactive, activation_token IS NOT NULL FROM users WHERE id = $1", id).
		Scan(&inactive, &hasToken)
	require.NoError(t, err)
	require.Equal(t, expectInactive, inactive)
	require.Equal(t, expectInactive, hasToken)
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	require.NoError(t, err, "Failed to create storage after retries")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "Failed to apply migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.Close()
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}
