package users

import (
	"context"
	"sync"
	"time"

	"github.com/magabrotheeeer/user-accounts/internal/models"
	"github.com/magabrotheeeer/user-accounts/internal/storage"
)

// memoryRepo хранилище в памяти с транзакциями на снимках.
type memoryRepo struct {
	mu     sync.Mutex
	users  []models.User
	nextID int64

	// skipExistsCheck имитирует гонку: предварительная проверка не видит дубликат.
	skipExistsCheck bool
	failWith        error
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{nextID: 1}
}

func (r *memoryRepo) snapshot() ([]models.User, int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]models.User, len(r.users))
	copy(users, r.users)
	return users, r.nextID
}

func (r *memoryRepo) restore(users []models.User, nextID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = users
	r.nextID = nextID
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	users, nextID := r.snapshot()
	defer func() {
		if p := recover(); p != nil {
			r.restore(users, nextID)
			panic(p)
		}
		if err != nil {
			r.restore(users, nextID)
		}
	}()
	return fn(ctx)
}

func (r *memoryRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
	if r.skipExistsCheck {
		return false, nil
	}
	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) CreateUser(_ context.Context, user models.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return 0, storage.ErrEmailExists
		}
	}
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	if user.ActivationToken != nil {
		token := *user.ActivationToken
		user.ActivationToken = &token
	}
	r.nextID++
	r.users = append(r.users, user)
	return user.ID, nil
}

func (r *memoryRepo) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
	for _, u := range r.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (r *memoryRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memoryRepo) GetUserByToken(_ context.Context, token string) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return u.ActivationToken != nil && *u.ActivationToken == token
	})
}

func (r *memoryRepo) ActivateUser(_ context.Context, id int64, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.users {
		u := &r.users[i]
		if u.ID == id && u.ActivationToken != nil && *u.ActivationToken == token {
			u.Inactive = false
			u.ActivationToken = nil
			return nil
		}
	}
	return storage.ErrUserNotFound
}

func (r *memoryRepo) GetActiveUser(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id && !u.Inactive })
}

func (r *memoryRepo) active() []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if !u.Inactive {
			out = append(out, u)
		}
	}
	return out
}

func (r *memoryRepo) ListActiveUsers(_ context.Context, limit, offset int) ([]models.User, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	active := r.active()
	if offset >= len(active) {
		return nil, nil
	}
	end := min(offset+limit, len(active))
	return active[offset:end], nil
}

func (r *memoryRepo) CountActiveUsers(_ context.Context) (int, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	return len(r.active()), nil
}

func (r *memoryRepo) byEmail(email string) []models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.User
	for _, u := range r.users {
		if u.Email == email {
			out = append(out, u)
		}
	}
	return out
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}
