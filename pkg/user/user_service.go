package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lifeweeks/lifeweeks/internal/event_bus"
	"github.com/lifeweeks/lifeweeks/internal/utils"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

type Service interface {
	GetCurrentUser(ctx context.Context) (User, error)
	CreateUser(ctx context.Context, user User) (User, error)
	GetUser(ctx context.Context, id int) (User, error)
	// GetUserByUid returns ErrUserNotFound for deleted users.
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateUser(ctx context.Context, user User) (User, error)
	DeleteUser(ctx context.Context, id int) error
	RestoreUser(ctx context.Context, uid string) (User, error)
	ListUsers(ctx context.Context, filter ListFilter) ([]User, error)
	IsUsernameAvailable(ctx context.Context, username string) (bool, error)
}

type Provider interface {
	GetCurrentUser(ctx context.Context) (User, error)
}

// ProfileValidator checks the life parameters a user stores.
type ProfileValidator interface {
	ValidateBirthDate(birthDate weeks.Date, timezone string) error
	ValidateTimezone(timezone string) error
}

type UserServiceImpl struct {
	repo      Repo
	validator ProfileValidator
	clock     utils.Clock
	eventBus  *event_bus.EventBus
}

func NewUserService(repo Repo, validator ProfileValidator, clock utils.Clock, eventBus *event_bus.EventBus) *UserServiceImpl {
	return &UserServiceImpl{repo: repo, validator: validator, clock: clock, eventBus: eventBus}
}

func (u *UserServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return u.GetUser(ctx, userId)
}

func (u *UserServiceImpl) CreateUser(ctx context.Context, user User) (User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.DisplayName = strings.TrimSpace(user.DisplayName)
	if user.LifespanYears == 0 {
		user.LifespanYears = weeks.DefaultLifespan
	}
	if user.Settings.Timezone == "" {
		user.Settings.Timezone = weeks.UTC
	}
	if err := u.validate(user); err != nil {
		return User{}, err
	}
	user.Uid = uuid.NewString()

	userId, err := u.repo.CreateUser(ctx, user)
	if err != nil {
		return User{}, err
	}
	log.Debugf("created user %s with id %d", user.Uid, userId)
	return u.repo.GetUser(ctx, userId)
}

func (u *UserServiceImpl) GetUser(ctx context.Context, id int) (User, error) {
	return u.repo.GetUser(ctx, id)
}

func (u *UserServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	user, err := u.repo.GetUserByUid(ctx, uid)
	if err != nil {
		return User{}, err
	}
	if user.IsDeleted() {
		return User{}, fmt.Errorf("%w: uid %s is deleted", ErrUserNotFound, uid)
	}
	return user, nil
}

// UpdateUser replaces the current user's profile. The username cannot change.
func (u *UserServiceImpl) UpdateUser(ctx context.Context, user User) (User, error) {
	current, err := u.GetCurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	user.Username = current.Username
	user.DisplayName = strings.TrimSpace(user.DisplayName)
	if user.LifespanYears == 0 {
		user.LifespanYears = current.LifespanYears
	}
	if user.Settings.Timezone == "" {
		user.Settings.Timezone = current.Settings.Timezone
	}
	if err := u.validate(user); err != nil {
		return User{}, err
	}
	updated, err := u.repo.UpdateUser(ctx, current.Id, user)
	if err != nil {
		return User{}, err
	}
	u.publish(ctx, event_bus.UserProfileChanged, event_bus.ProfileChanged{
		UserUid:       updated.Uid,
		DateOfBirth:   updated.DateOfBirth,
		LifespanYears: updated.LifespanYears,
		Timezone:      updated.Settings.Timezone,
	})
	return updated, nil
}

func (u *UserServiceImpl) DeleteUser(ctx context.Context, id int) error {
	user, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if err := u.repo.SoftDeleteUser(ctx, id, u.clock.Now()); err != nil {
		return err
	}
	u.publish(ctx, event_bus.UserDeleted, event_bus.UserLifecycle{UserUid: user.Uid, Username: user.Username})
	return nil
}

func (u *UserServiceImpl) RestoreUser(ctx context.Context, uid string) (User, error) {
	user, err := u.repo.GetUserByUid(ctx, uid)
	if err != nil {
		return User{}, err
	}
	if !user.IsDeleted() {
		return user, nil
	}
	if err := u.repo.RestoreUser(ctx, user.Id); err != nil {
		return User{}, err
	}
	u.publish(ctx, event_bus.UserRestored, event_bus.UserLifecycle{UserUid: user.Uid, Username: user.Username})
	return u.repo.GetUser(ctx, user.Id)
}

func (u *UserServiceImpl) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	if filter.Offset < 0 {
		return nil, fmt.Errorf("%w: offset cannot be negative", ErrUserDataInvalid)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultListLimit
	}
	filter.Limit = min(filter.Limit, maxListLimit)
	filter.Search = strings.TrimSpace(filter.Search)
	return u.repo.ListUsers(ctx, filter)
}

func (u *UserServiceImpl) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	return u.repo.IsUsernameAvailable(ctx, strings.TrimSpace(username))
}

// publish notifies subscribers of a change that is already stored, so a failing
// subscriber is logged and does not fail the request.
func (u *UserServiceImpl) publish(ctx context.Context, eventType event_bus.EventType, payload any) {
	if u.eventBus == nil {
		return
	}
	if err := u.eventBus.Publish(event_bus.NewEvent(ctx, eventType, u.clock.Now(), payload)); err != nil {
		log.Errorf("failed to publish %s: %v", eventType, err)
	}
}

func (u *UserServiceImpl) validate(user User) error {
	if user.Username == "" {
		return fmt.Errorf("%w: username is required", ErrUserDataInvalid)
	}
	if user.DisplayName == "" {
		return fmt.Errorf("%w: display name is required", ErrUserDataInvalid)
	}
	if user.LifespanYears < weeks.MinLifespanYears || user.LifespanYears > weeks.MaxLifespanYears {
		return fmt.Errorf("%w: lifespan must be between %d and %d years", ErrUserDataInvalid, weeks.MinLifespanYears, weeks.MaxLifespanYears)
	}
	if err := u.validator.ValidateTimezone(user.Settings.Timezone); err != nil {
		return fmt.Errorf("%w: %w", ErrUserDataInvalid, err)
	}
	if user.DateOfBirth != nil {
		if err := u.validator.ValidateBirthDate(*user.DateOfBirth, user.Settings.Timezone); err != nil {
			return fmt.Errorf("%w: %w", ErrUserDataInvalid, err)
		}
	}
	return nil
}
