package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/magabrotheeeer/user-accounts/internal/models"
)

const userColumns = `id, username, email, password_hash, inactive, activation_token, created_at`

// EmailExists проверяет, зарегистрирован ли уже пользователь с таким e-mail.
func (s *Storage) EmailExists(ctx context.Context, email string) (bool, error) {
	const op = "storage.EmailExists"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`
	if err := s.conn(ctx).QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateUser сохраняет нового неактивного пользователя и возвращает его ID.
// При нарушении уникальности e-mail возвращает ErrEmailExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (int64, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int64
	query := `INSERT INTO users (username, email, password_hash, inactive, activation_token)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	err := s.conn(ctx).QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Inactive, user.ActivationToken).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, fmt.Errorf("%s: %w", op, ErrEmailExists)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetUserByEmail возвращает пользователя по e-mail.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByToken возвращает пользователя по токену активации.
func (s *Storage) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	const op = "storage.GetUserByToken"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE activation_token = $1 LIMIT 1`
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, token))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ActivateUser снимает флаг inactive и стирает токен.
// Обновление условное: если токен у пользователя уже сменился или стёрт,
// возвращается ErrUserNotFound.
func (s *Storage) ActivateUser(ctx context.Context, id int64, token string) error {
	const op = "storage.ActivateUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET inactive = FALSE, activation_token = NULL
			  WHERE id = $1 AND activation_token = $2`
	res, err := s.conn(ctx).ExecContext(ctx, query, id, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// GetActiveUser возвращает активного пользователя по ID.
func (s *Storage) GetActiveUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetActiveUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND NOT inactive`
	u, err := scanUser(s.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListActiveUsers возвращает страницу активных пользователей, упорядоченных по ID.
func (s *Storage) ListActiveUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	const op = "storage.ListActiveUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE NOT inactive
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.conn(ctx).QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	users := make([]models.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// CountActiveUsers возвращает количество активных пользователей.
func (s *Storage) CountActiveUsers(ctx context.Context) (int, error) {
	const op = "storage.CountActiveUsers"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM users WHERE NOT inactive`
	if err := s.conn(ctx).QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var token sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Inactive, &token, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if token.Valid {
		u.ActivationToken = &token.String
	}
	return u, nil
}
