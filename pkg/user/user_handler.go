package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/lifeweeks/lifeweeks/internal/rest"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
)

type UserDTO struct {
	Uid           string      `json:"uid"`
	Username      string      `json:"username"`
	DisplayName   string      `json:"displayName"`
	DateOfBirth   *string     `json:"dateOfBirth"`
	LifespanYears int         `json:"lifespanYears"`
	Settings      SettingsDTO `json:"settings"`
	DeletedAt     *time.Time  `json:"deletedAt,omitempty"`
}

type SettingsDTO struct {
	Timezone string `json:"timezone"`
}

type Handler struct {
	userService Service
}

func NewHandler(userService Service) *Handler {
	return &Handler{
		userService: userService,
	}
}

// CreateUser godoc
// @Summary Create a new user
// @Description Register a new user with an optional date of birth
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 409 {object} rest.ErrorResponse "Username taken"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log.Debug("Creating user")

	var userDTO UserDTO
	if err := json.NewDecoder(r.Body).Decode(&userDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	user, err := dtoToUser(userDTO)
	if err != nil {
		writeUserError(w, err)
		return
	}

	createdUser, err := h.userService.CreateUser(r.Context(), user)
	if err != nil {
		writeUserError(w, err)
		return
	}
	log.Tracef("Created user: %+v", createdUser)

	rest.WriteJSON(w, http.StatusCreated, userToDTO(createdUser))
}

// CurrentUser godoc
// @Summary Get current user
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 403 {string} string "User not found"
// @Failure 404 {object} rest.ErrorResponse "User Not Found"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	log.Trace("Getting current user")

	currentUser, err := h.userService.GetCurrentUser(r.Context())
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(currentUser))
}

// UpdateUser godoc
// @Summary Update current user
// @Description Update display name, date of birth, lifespan and timezone of the current user
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 200 {object} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid request"
// @Failure 403 {string} string "User not found"
// @Router /api/user/current [put]
// @Security XUserId
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log.Trace("Updating user")

	var userDTO UserDTO
	if err := json.NewDecoder(r.Body).Decode(&userDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid request body format"})
		return
	}
	user, err := dtoToUser(userDTO)
	if err != nil {
		writeUserError(w, err)
		return
	}

	updatedUser, err := h.userService.UpdateUser(r.Context(), user)
	if err != nil {
		writeUserError(w, err)
		return
	}
	log.Debugf("Updated user: %s", updatedUser.Uid)

	rest.WriteJSON(w, http.StatusOK, userToDTO(updatedUser))
}

// IsUsernameAvailable godoc
// @Summary Check username availability
// @Tags User
// @Produce json
// @Param username query string true "Username to check"
// @Success 200 {object} object{available=bool}
// @Failure 400 {object} rest.ErrorResponse "Username is required"
// @Router /api/user/name-availability [get]
func (h *Handler) IsUsernameAvailable(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	log.Debugf("Checking availability of username: %s", username)
	if username == "" {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Username is required"})
		return
	}

	isAvailable, err := h.userService.IsUsernameAvailable(r.Context(), username)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, map[string]bool{"available": isAvailable})
}

// ListUsers godoc
// @Summary List users
// @Tags User
// @Produce json
// @Param offset query int false "Offset"
// @Param limit query int false "Page size, defaults to 50"
// @Param search query string false "Matches username or display name"
// @Param includeDeleted query bool false "Include soft deleted users"
// @Success 200 {array} UserDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid paging"
// @Router /api/user [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	log.Trace("Listing users")

	query := r.URL.Query()
	filter := ListFilter{Search: query.Get("search")}
	var err error
	if filter.Offset, err = intParam(query.Get("offset")); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid offset", Details: err.Error()})
		return
	}
	if filter.Limit, err = intParam(query.Get("limit")); err != nil {
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid limit", Details: err.Error()})
		return
	}
	if raw := query.Get("includeDeleted"); raw != "" {
		if filter.IncludeDeleted, err = strconv.ParseBool(raw); err != nil {
			rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid includeDeleted", Details: err.Error()})
			return
		}
	}

	users, err := h.userService.ListUsers(r.Context(), filter)
	if err != nil {
		writeUserError(w, err)
		return
	}
	usersDTO := make([]UserDTO, 0, len(users))
	for _, user := range users {
		usersDTO = append(usersDTO, userToDTO(user))
	}
	rest.WriteJSON(w, http.StatusOK, usersDTO)
}

// DeleteUser godoc
// @Summary Delete a user
// @Description Soft delete a user by UID; it can be restored later
// @Tags User
// @Param userUid path string true "User UID"
// @Success 204 "No Content"
// @Failure 404 {object} rest.ErrorResponse "User Not Found"
// @Router /api/user/{userUid} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userUid := mux.Vars(r)["userUid"]
	user, err := h.userService.GetUserByUid(r.Context(), userUid)
	if err != nil {
		writeUserError(w, err)
		return
	}
	log.Debugf("Deleting user with id: %d", user.Id)
	if err := h.userService.DeleteUser(r.Context(), user.Id); err != nil {
		writeUserError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RestoreUser godoc
// @Summary Restore a deleted user
// @Tags User
// @Produce json
// @Param userUid path string true "User UID"
// @Success 200 {object} UserDTO
// @Failure 404 {object} rest.ErrorResponse "User Not Found"
// @Router /api/user/{userUid}/restore [post]
func (h *Handler) RestoreUser(w http.ResponseWriter, r *http.Request) {
	userUid := mux.Vars(r)["userUid"]
	log.Debugf("Restoring user %s", userUid)

	user, err := h.userService.RestoreUser(r.Context(), userUid)
	if err != nil {
		writeUserError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, userToDTO(user))
}

func writeUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUserDataInvalid), errors.Is(err, weeks.ErrInvalidDate):
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{Error: "Invalid user data", Details: err.Error()})
	case errors.Is(err, ErrUsernameTaken):
		rest.WriteError(w, http.StatusConflict, rest.ErrorResponse{Error: "Username is already taken"})
	case errors.Is(err, ErrUserNotFound), errors.Is(err, ErrNoUser):
		rest.WriteError(w, http.StatusNotFound, rest.ErrorResponse{Error: "User not found"})
	default:
		log.Errorf("user request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{Error: "Internal server error"})
	}
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func dtoToUser(dto UserDTO) (User, error) {
	user := User{
		Uid:           dto.Uid,
		Username:      dto.Username,
		DisplayName:   dto.DisplayName,
		LifespanYears: dto.LifespanYears,
		Settings: Settings{
			Timezone: dto.Settings.Timezone,
		},
	}
	if dto.DateOfBirth != nil && *dto.DateOfBirth != "" {
		dateOfBirth, err := weeks.ParseDate(*dto.DateOfBirth)
		if err != nil {
			return User{}, err
		}
		user.DateOfBirth = &dateOfBirth
	}
	return user, nil
}

func userToDTO(user User) UserDTO {
	dto := UserDTO{
		Uid:           user.Uid,
		Username:      user.Username,
		DisplayName:   user.DisplayName,
		LifespanYears: user.LifespanYears,
		Settings: SettingsDTO{
			Timezone: user.Settings.Timezone,
		},
		DeletedAt: user.DeletedAt,
	}
	if user.DateOfBirth != nil {
		dateOfBirth := user.DateOfBirth.String()
		dto.DateOfBirth = &dateOfBirth
	}
	return dto
}
