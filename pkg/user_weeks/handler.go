package user_weeks

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lifeweeks/lifeweeks/internal/rest"
	"github.com/lifeweeks/lifeweeks/pkg/user"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

const missingBirthDateError = "MissingBirthDateError"

// Handler serves week calculations for the user attached to the request.
type Handler struct {
	users      user.Provider
	calculator weeks.Service
}

func NewHandler(users user.Provider, calculator weeks.Service) *Handler {
	return &Handler{users: users, calculator: calculator}
}

// LifeProgress godoc
// @Summary Life progress of the current user
// @Tags Weeks
// @Produce json
// @Success 200 {object} weeks.LifeProgressDTO
// @Failure 404 {object} rest.ErrorResponse "User not found"
// @Failure 422 {object} rest.ErrorResponse "Date of birth not set"
// @Router /api/user/current/weeks/progress [get]
// @Security XUserId
func (h *Handler) LifeProgress(w http.ResponseWriter, r *http.Request) {
	log.Trace("Calculating life progress of current user")
	params, ok := h.currentParameters(w, r)
	if !ok {
		return
	}
	progress, err := h.calculator.LifeProgress(params.BirthDate, params.LifespanYears, params.Timezone)
	if err != nil {
		weeks.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, weeks.LifeProgressToDTO(progress))
}

// CurrentWeek godoc
// @Summary Current week index of the current user
// @Tags Weeks
// @Produce json
// @Success 200 {object} weeks.CurrentWeekDTO
// @Failure 404 {object} rest.ErrorResponse "User not found"
// @Failure 422 {object} rest.ErrorResponse "Date of birth not set"
// @Router /api/user/current/weeks/current [get]
// @Security XUserId
func (h *Handler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	params, ok := h.currentParameters(w, r)
	if !ok {
		return
	}
	weekIndex, err := h.calculator.CurrentWeekIndex(params.BirthDate, params.Timezone)
	if err != nil {
		weeks.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, weeks.CurrentWeekDTO{
		DateOfBirth:      params.BirthDate.String(),
		Timezone:         params.Timezone,
		CurrentWeekIndex: weekIndex,
		WeeksLived:       weekIndex + 1,
	})
}

// WeekSummary godoc
// @Summary One week of the current user's life
// @Tags Weeks
// @Produce json
// @Param weekIndex path int true "Week index, 0 is the week of birth"
// @Success 200 {object} weeks.WeekSummaryDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid week index"
// @Failure 404 {object} rest.ErrorResponse "User not found"
// @Failure 422 {object} rest.ErrorResponse "Date of birth not set"
// @Router /api/user/current/weeks/{weekIndex} [get]
// @Security XUserId
func (h *Handler) WeekSummary(w http.ResponseWriter, r *http.Request) {
	weekIndex, err := strconv.Atoi(mux.Vars(r)["weekIndex"])
	if err != nil {
		weeks.WriteError(w, fmt.Errorf("%w: weekIndex must be an integer", weeks.ErrInvalidValue))
		return
	}
	params, ok := h.currentParameters(w, r)
	if !ok {
		return
	}
	summary, err := h.calculator.WeekSummary(params.BirthDate, weekIndex, params.Timezone)
	if err != nil {
		weeks.WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, weeks.WeekSummaryToDTO(summary))
}

func (h *Handler) currentParameters(w http.ResponseWriter, r *http.Request) (LifeParameters, bool) {
	currentUser, err := h.users.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) || errors.Is(err, user.ErrUserNotFound) {
			rest.WriteError(w, http.StatusNotFound, rest.ErrorResponse{Error: "User not found"})
			return LifeParameters{}, false
		}
		log.Errorf("failed to get current user: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: string(weeks.KindInternal)})
		return LifeParameters{}, false
	}

	params, err := ParametersOf(currentUser)
	if errors.Is(err, ErrMissingBirthDate) {
		log.Debugf("user %s has no date of birth", currentUser.Uid)
		rest.WriteError(w, http.StatusUnprocessableEntity, rest.ErrorResponse{
			Error:   missingBirthDateError,
			Message: err.Error(),
			Details: "Set a date of birth on the user profile first",
		})
		return LifeParameters{}, false
	}
	return params, true
}
