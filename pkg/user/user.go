package user

import (
	"errors"
	"time"

	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrUserDataInvalid = errors.New("invalid user data")
	ErrUsernameTaken   = errors.New("username is already taken")
)

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	// DateOfBirth is nil until the user provides it.
	DateOfBirth   *weeks.Date
	LifespanYears int
	Settings      Settings
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time
}

type Settings struct {
	Timezone string
}

func (u User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// ListFilter pages through users. Search matches username or display name.
type ListFilter struct {
	Offset         int
	Limit          int
	Search         string
	IncludeDeleted bool
}
