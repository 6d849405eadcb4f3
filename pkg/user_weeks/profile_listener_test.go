package user_weeks

import (
	"context"
	"testing"

	"github.com/lifeweeks/lifeweeks/internal/event_bus"
	"github.com/lifeweeks/lifeweeks/internal/utils"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupListener(t *testing.T) (*event_bus.EventBus, *test.Hook) {
	t.Helper()
	bus := event_bus.NewEventBus()
	calculator := weeks.NewService(&utils.MockClock{FixedNow: now}, weeks.DefaultOptions())
	t.Cleanup(NewProfileListener(calculator).Subscribe(bus))
	hook := test.NewGlobal()
	t.Cleanup(hook.Reset)
	return bus, hook
}

func publish(bus *event_bus.EventBus, payload event_bus.ProfileChanged) error {
	return bus.Publish(event_bus.NewEvent(context.Background(), event_bus.UserProfileChanged, now, payload))
}

func TestProfileListener(t *testing.T) {
	t.Run("logs progress of the changed profile", func(t *testing.T) {
		// given
		bus, hook := setupListener(t)

		// when
		err := publish(bus, event_bus.ProfileChanged{UserUid: "u1", DateOfBirth: date("2000-01-01"), Timezone: "UTC"})

		// then
		require.NoError(t, err)
		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, log.InfoLevel, entry.Level)
		assert.Equal(t, "u1", entry.Data["user"])
		assert.Equal(t, 1326, entry.Data["week"])
		assert.Equal(t, 4174, entry.Data["total"])
	})

	t.Run("ignores a profile without birth date", func(t *testing.T) {
		bus, hook := setupListener(t)

		err := publish(bus, event_bus.ProfileChanged{UserUid: "u1"})

		require.NoError(t, err)
		for _, entry := range hook.AllEntries() {
			assert.NotEqual(t, log.InfoLevel, entry.Level)
		}
	})

	t.Run("reports calculation failures", func(t *testing.T) {
		bus, _ := setupListener(t)

		err := publish(bus, event_bus.ProfileChanged{UserUid: "u1", DateOfBirth: date("2000-01-01"), Timezone: "Nowhere/Land"})

		assert.ErrorIs(t, err, weeks.ErrInvalidTimezone)
	})
}
