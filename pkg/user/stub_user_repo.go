package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type StubUserRepository struct {
	mu     sync.RWMutex
	nextId int
	data   map[int]User
}

func NewStubUserRepository() *StubUserRepository {
	return &StubUserRepository{nextId: 0, data: map[int]User{}}
}

func (s *StubUserRepository) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextId = 0
	s.data = map[int]User{}
}

func (s *StubUserRepository) CreateUser(_ context.Context, user User) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.data {
		if existing.Username == user.Username {
			return 0, fmt.Errorf("%w: %s", ErrUsernameTaken, user.Username)
		}
	}
	s.nextId++
	user.Id = s.nextId
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.data[user.Id] = user
	return user.Id, nil
}

func (s *StubUserRepository) GetUser(_ context.Context, id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.data[id]
	if !ok {
		return User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	return user, nil
}

func (s *StubUserRepository) GetUserByUid(_ context.Context, uid string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.data {
		if user.Uid == uid {
			return user, nil
		}
	}
	return User{}, fmt.Errorf("%w: uid %s", ErrUserNotFound, uid)
}

func (s *StubUserRepository) UpdateUser(_ context.Context, userId int, user User) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[userId]
	if !ok || stored.IsDeleted() {
		return User{}, fmt.Errorf("%w: id %d", ErrUserNotFound, userId)
	}
	stored.DisplayName = user.DisplayName
	stored.DateOfBirth = user.DateOfBirth
	stored.LifespanYears = user.LifespanYears
	stored.Settings = user.Settings
	stored.UpdatedAt = time.Now()
	s.data[userId] = stored
	return stored, nil
}

func (s *StubUserRepository) SoftDeleteUser(_ context.Context, id int, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[id]
	if !ok || stored.IsDeleted() {
		return fmt.Errorf("%w: id %d", ErrUserNotFound, id)
	}
	stored.DeletedAt = &deletedAt
	s.data[id] = stored
	return nil
}

func (s *StubUserRepository) RestoreUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.data[id]
	if !ok || !stored.IsDeleted() {
		return fmt.Errorf("%w: deleted user with id %d", ErrUserNotFound, id)
	}
	stored.DeletedAt = nil
	s.data[id] = stored
	return nil
}

func (s *StubUserRepository) ListUsers(_ context.Context, filter ListFilter) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(filter.Search)
	matching := make([]User, 0, len(s.data))
	for _, user := range s.data {
		if user.IsDeleted() && !filter.IncludeDeleted {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(user.Username), search) &&
			!strings.Contains(strings.ToLower(user.DisplayName), search) {
			continue
		}
		matching = append(matching, user)
	}
	sort.Slice(matching, func(i, j int) bool { return matching[i].Id < matching[j].Id })

	if filter.Offset >= len(matching) {
		return []User{}, nil
	}
	end := min(filter.Offset+filter.Limit, len(matching))
	return matching[filter.Offset:end], nil
}

func (s *StubUserRepository) IsUsernameAvailable(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.data {
		if user.Username == username {
			return false, nil
		}
	}
	return true, nil
}
