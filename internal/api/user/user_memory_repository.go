package user

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-user-admin/internal/types"
)

var _ UserRepo = (*MemoryUserRepo)(nil)

// MemoryUserRepo is a thread-safe in-process user store. It enforces the
// active-email uniqueness rule under its lock, the way the partial unique index
// does in Postgres.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]types.User
	now   func() time.Time
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{
		users: make(map[uuid.UUID]types.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// emailTaken reports whether an active user other than self owns email.
// Callers hold the lock.
func (m *MemoryUserRepo) emailTaken(email string, self uuid.UUID) bool {
	for id, u := range m.users {
		if id != self && !u.IsDeleted && u.Email == email {
			return true
		}
	}
	return false
}

func (m *MemoryUserRepo) ListActive(ctx context.Context) ([]types.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, types.NewError(types.KindUnavailable, "list users", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]types.User, 0, len(m.users))
	for _, u := range m.users {
		if !u.IsDeleted {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return users, nil
}

func (m *MemoryUserRepo) GetActive(ctx context.Context, id uuid.UUID) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, types.NewError(types.KindUnavailable, "get user", err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok || u.IsDeleted {
		return types.User{}, types.NotFoundf("User not found")
	}
	return u, nil
}

func (m *MemoryUserRepo) GetByIDIncludingDeleted(ctx context.Context, id uuid.UUID) (types.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return types.User{}, types.NotFoundf("User not found")
	}
	return u, nil
}

func (m *MemoryUserRepo) Insert(ctx context.Context, in types.UserInput) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, types.NewError(types.KindUnavailable, "insert user", err)
	}
	birthday, err := types.ParseBirthday(in.Birthday)
	if err != nil {
		return types.User{}, types.InvalidInputf("birthday must be a valid date")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.emailTaken(in.Email, uuid.Nil) {
		return types.User{}, types.AlreadyExistsf("Email already exists")
	}
	now := m.now()
	u := types.User{
		ID:            uuid.New(),
		Name:          in.Name,
		Email:         in.Email,
		Address:       in.Address,
		Birthday:      birthday,
		ContactNumber: in.ContactNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	m.users[u.ID] = u
	return u, nil
}

func (m *MemoryUserRepo) Replace(ctx context.Context, id uuid.UUID, in types.UserInput) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, types.NewError(types.KindUnavailable, "update user", err)
	}
	birthday, err := types.ParseBirthday(in.Birthday)
	if err != nil {
		return types.User{}, types.InvalidInputf("birthday must be a valid date")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.IsDeleted {
		return types.User{}, types.NotFoundf("User not found")
	}
	if m.emailTaken(in.Email, id) {
		return types.User{}, types.AlreadyExistsf("Email already exists")
	}
	u.Name = in.Name
	u.Email = in.Email
	u.Address = in.Address
	u.Birthday = birthday
	u.ContactNumber = in.ContactNumber
	u.UpdatedAt = m.now()
	m.users[id] = u
	return u, nil
}

func (m *MemoryUserRepo) SoftDelete(ctx context.Context, id, by uuid.UUID, at time.Time) (types.User, error) {
	if err := ctx.Err(); err != nil {
		return types.User{}, types.NewError(types.KindUnavailable, "delete user", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok || u.IsDeleted {
		return types.User{}, types.NotFoundf("User not found")
	}
	deletedAt, deletedBy := at, by
	u.IsDeleted = true
	u.DeletedAt = &deletedAt
	u.DeletedBy = &deletedBy
	u.UpdatedAt = at
	m.users[id] = u
	return u, nil
}
