package user_weeks

import (
	"errors"

	"github.com/lifeweeks/lifeweeks/pkg/user"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
)

var ErrMissingBirthDate = errors.New("user has no date of birth set")

// LifeParameters are the inputs of a week calculation taken from a user profile.
type LifeParameters struct {
	BirthDate     weeks.Date
	LifespanYears int
	Timezone      string
}

// ParametersOf reads the life parameters of u, filling in the engine defaults
// for an unset lifespan or timezone.
func ParametersOf(u user.User) (LifeParameters, error) {
	return parameters(u.DateOfBirth, u.LifespanYears, u.Settings.Timezone)
}

func parameters(dateOfBirth *weeks.Date, lifespanYears int, timezone string) (LifeParameters, error) {
	if dateOfBirth == nil {
		return LifeParameters{}, ErrMissingBirthDate
	}
	params := LifeParameters{
		BirthDate:     *dateOfBirth,
		LifespanYears: lifespanYears,
		Timezone:      timezone,
	}
	if params.LifespanYears == 0 {
		params.LifespanYears = weeks.DefaultLifespan
	}
	if params.Timezone == "" {
		params.Timezone = weeks.UTC
	}
	return params, nil
}
