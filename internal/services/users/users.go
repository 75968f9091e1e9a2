// Package users реализует жизненный цикл учётной записи: регистрацию,
// активацию по токену, вход, постраничный список и чтение пользователя.
//
// Регистрация атомарна: запись пользователя фиксируется, только если письмо
// активации принято почтовым сервером.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/magabrotheeeer/user-accounts/internal/apperr"
	"github.com/magabrotheeeer/user-accounts/internal/cache"
	"github.com/magabrotheeeer/user-accounts/internal/lib/password"
	"github.com/magabrotheeeer/user-accounts/internal/lib/sl"
	"github.com/magabrotheeeer/user-accounts/internal/metrics"
	"github.com/magabrotheeeer/user-accounts/internal/models"
	"github.com/magabrotheeeer/user-accounts/internal/storage"
	"github.com/magabrotheeeer/user-accounts/internal/validation"
)

// Параметры постраничного списка.
const (
	DefaultPage     = 0
	DefaultPageSize = 10
	MaxPageSize     = 10
)

// Repository хранилище пользователей.
type Repository interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user models.User) (int64, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	ActivateUser(ctx context.Context, id int64, token string) error
	GetActiveUser(ctx context.Context, id int64) (*models.User, error)
	ListActiveUsers(ctx context.Context, limit, offset int) ([]models.User, error)
	CountActiveUsers(ctx context.Context) (int, error)
}

// Mailer отправляет письмо активации.
type Mailer interface {
	SendActivationEmail(ctx context.Context, to, token string) error
}

// Cache кеш представлений пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Hasher хеширует и сверяет пароли.
type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenGenerator создаёт токены активации.
type TokenGenerator interface {
	Activation() (string, error)
}

// RegisterInput данные регистрации. nil означает отсутствующее поле.
type RegisterInput struct {
	Username *string
	Email    *string
	Password *string
}

// Service бизнес-логика учётных записей.
type Service struct {
	repo    Repository
	mailer  Mailer
	cache   Cache
	hasher  Hasher
	tokens  TokenGenerator
	log     *slog.Logger
	userTTL time.Duration
}

// New создает сервис. Если c равен nil, кеширование отключено.
func New(repo Repository, mailer Mailer, c Cache, hasher Hasher, tokens TokenGenerator,
	log *slog.Logger, userTTL time.Duration) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{
		repo:    repo,
		mailer:  mailer,
		cache:   c,
		hasher:  hasher,
		tokens:  tokens,
		log:     log,
		userTTL: userTTL,
	}
}

// Register проверяет поля, создаёт неактивного пользователя и отправляет
// письмо активации в одной транзакции. Ошибка отправки откатывает запись.
func (s *Service) Register(ctx context.Context, in RegisterInput) error {
	const op = "users.Register"

	errs := validation.Registration(in.Username, in.Email, in.Password)
	if !validation.HasField(errs, validation.FieldEmail) {
		exists, err := s.repo.EmailExists(ctx, *in.Email)
		if err != nil {
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
			return fmt.Errorf("%s: %w", op, err)
		}
		if exists {
			errs = validation.Add(errs, apperr.FieldError{Field: validation.FieldEmail, Key: validation.KeyEmailInUse})
		}
	}
	if len(errs) > 0 {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return apperr.Validation(errs...)
	}

	hash, err := s.hasher.Hash(*in.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.tokens.Activation()
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Username:        *in.Username,
		Email:           *in.Email,
		PasswordHash:    hash,
		Inactive:        true,
		ActivationToken: &token,
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context) error {
		id, err := s.repo.CreateUser(ctx, user)
		if err != nil {
			if errors.Is(err, storage.ErrEmailExists) {
				return apperr.Validation(apperr.FieldError{Field: validation.FieldEmail, Key: validation.KeyEmailInUse})
			}
			return err
		}
		if err := s.mailer.SendActivationEmail(ctx, user.Email, token); err != nil {
			s.log.Error("activation email was not sent, rolling back",
				slog.Int64("user_id", id), sl.Err(err))
			return apperr.EmailDelivery(err)
		}
		return nil
	})
	if err != nil {
		if apperr.Is(err, apperr.KindValidation) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return err
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		if apperr.Is(err, apperr.KindEmailDelivery) {
			return err
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

// Activate активирует пользователя по токену. Токен одноразовый.
func (s *Service) Activate(ctx context.Context, token string) error {
	const op = "users.Activate"

	if token == "" {
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return apperr.InvalidToken()
	}

	user, err := s.repo.GetUserByToken(ctx, token)
	if errors.Is(err, storage.ErrUserNotFound) {
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return apperr.InvalidToken()
	}
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.repo.ActivateUser(ctx, user.ID, token)
	if errors.Is(err, storage.ErrUserNotFound) {
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return apperr.InvalidToken()
	}
	if err != nil {
		metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return fmt.Errorf("%s: %w", op, err)
	}

	key := cache.UserKey(user.ID)
	if err = s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to invalidate cached user", slog.String("key", key), sl.Err(err))
	}

	metrics.ActivationsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return nil
}

// Authenticate проверяет учётные данные. Неактивная учётная запись с верным
// паролем даёт ошибку вида Forbidden, прочие отказы дают Authentication.
func (s *Service) Authenticate(ctx context.Context, email, pass string) (models.UserSummary, error) {
	const op = "users.Authenticate"

	if email == "" || !validation.IsEmail(email) {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return models.UserSummary{}, apperr.Authentication()
	}

	user, err := s.repo.GetUserByEmail(ctx, email)
	if errors.Is(err, storage.ErrUserNotFound) {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return models.UserSummary{}, apperr.Authentication()
	}
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeFailure).Inc()
		return models.UserSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.hasher.Compare(user.PasswordHash, pass); err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		if !errors.Is(err, password.ErrMismatch) {
			s.log.Warn("stored password hash cannot be compared", slog.Int64("user_id", user.ID), sl.Err(err))
		}
		return models.UserSummary{}, apperr.Authentication()
	}

	if user.Inactive {
		metrics.LoginsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return models.UserSummary{}, apperr.InactiveAccount()
	}

	metrics.LoginsTotal.WithLabelValues(metrics.OutcomeSuccess).Inc()
	return user.Summary(), nil
}

// List возвращает страницу активных пользователей, упорядоченных по ID.
// Некорректные page и size заменяются значениями по умолчанию.
func (s *Service) List(ctx context.Context, page, size string) (models.Page, error) {
	const op = "users.List"

	p := parsePage(page)
	sz := parseSize(size)

	total, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}

	result := models.Page{
		Content:    []models.UserView{},
		Page:       p,
		Size:       sz,
		TotalPages: int(math.Ceil(float64(total) / float64(sz))),
	}

	if p > (math.MaxInt32 / sz) {
		return result, nil
	}
	offset := p * sz
	if offset >= total {
		return result, nil
	}

	users, err := s.repo.ListActiveUsers(ctx, sz, offset)
	if err != nil {
		return models.Page{}, fmt.Errorf("%s: %w", op, err)
	}
	for i := range users {
		result.Content = append(result.Content, users[i].View())
	}
	return result, nil
}

// Get возвращает активного пользователя по строковому ID.
func (s *Service) Get(ctx context.Context, id string) (models.UserView, error) {
	const op = "users.Get"

	userID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || userID <= 0 {
		return models.UserView{}, apperr.NotFound()
	}

	key := cache.UserKey(userID)
	var view models.UserView
	found, err := s.cache.Get(ctx, key, &view)
	if err != nil {
		s.log.Warn("failed to read user from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return view, nil
	}

	user, err := s.repo.GetActiveUser(ctx, userID)
	if errors.Is(err, storage.ErrUserNotFound) {
		return models.UserView{}, apperr.NotFound()
	}
	if err != nil {
		return models.UserView{}, fmt.Errorf("%s: %w", op, err)
	}

	view = user.View()
	if err = s.cache.Set(ctx, key, view, s.userTTL); err != nil {
		s.log.Warn("failed to cache user", slog.String("key", key), sl.Err(err))
	}
	return view, nil
}

// Update изменение пользователя без аутентификации всегда запрещено.
func (s *Service) Update(_ context.Context, _ string) error {
	return apperr.UnauthorizedUpdate()
}

func parsePage(raw string) int {
	p, err := strconv.Atoi(raw)
	if err != nil || p < 0 {
		return DefaultPage
	}
	return p
}

func parseSize(raw string) int {
	sz, err := strconv.Atoi(raw)
	if err != nil || sz <= 0 || sz > MaxPageSize {
		return DefaultPageSize
	}
	return sz
}
