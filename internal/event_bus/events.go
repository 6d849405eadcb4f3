package event_bus

import "github.com/lifeweeks/lifeweeks/pkg/weeks"

const (
	UserProfileChanged EventType = "user.profile.changed"
	UserDeleted        EventType = "user.deleted"
	UserRestored       EventType = "user.restored"
)

// ProfileChanged is published after a user's life parameters were saved.
type ProfileChanged struct {
	UserUid       string
	DateOfBirth   *weeks.Date
	LifespanYears int
	Timezone      string
}

// UserLifecycle is the payload of UserDeleted and UserRestored.
type UserLifecycle struct {
	UserUid  string
	Username string
}
