package test_utils

import (
	"context"

	"github.com/lifeweeks/lifeweeks/pkg/user"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

// TestUserProvider serves a fixed user, or Err when set.
type TestUserProvider struct {
	User user.User
	Err  error
}

func NewTestUserProvider(dateOfBirth *weeks.Date) *TestUserProvider {
	return &TestUserProvider{
		User: user.User{
			Id:            123,
			Uid:           "5d0c3ad3-7a5e-4b8e-9a3c-0f4a3c1d2e10",
			Username:      "test_user",
			DisplayName:   "Test User",
			DateOfBirth:   dateOfBirth,
			LifespanYears: 80,
			Settings: user.Settings{
				Timezone: "Europe/Warsaw",
			},
		},
	}
}

func (p *TestUserProvider) GetCurrentUser(_ context.Context) (user.User, error) {
	if p.Err != nil {
		return user.User{}, p.Err
	}
	return p.User, nil
}
