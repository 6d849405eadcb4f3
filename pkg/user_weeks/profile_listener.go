package user_weeks

import (
	"errors"
	"fmt"

	"github.com/lifeweeks/lifeweeks/internal/event_bus"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

// ProfileListener reports where a user stands in their life after the profile
// changed.
type ProfileListener struct {
	calculator weeks.Service
}

func NewProfileListener(calculator weeks.Service) *ProfileListener {
	return &ProfileListener{calculator: calculator}
}

func (l *ProfileListener) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped(bus, event_bus.UserProfileChanged, l.OnProfileChanged)
}

func (l *ProfileListener) OnProfileChanged(e event_bus.EventT[event_bus.ProfileChanged]) error {
	params, err := parameters(e.Data.DateOfBirth, e.Data.LifespanYears, e.Data.Timezone)
	if errors.Is(err, ErrMissingBirthDate) {
		log.Debugf("user %s saved a profile without date of birth", e.Data.UserUid)
		return nil
	}
	progress, err := l.calculator.LifeProgress(params.BirthDate, params.LifespanYears, params.Timezone)
	if err != nil {
		return fmt.Errorf("failed to calculate progress of user %s: %w", e.Data.UserUid, err)
	}
	log.WithFields(log.Fields{
		"user":     e.Data.UserUid,
		"week":     progress.CurrentWeek,
		"total":    progress.TotalWeeks,
		"progress": progress.ProgressPercentage,
	}).Info("user profile changed")
	return nil
}
