package app

import (
	"github.com/gorilla/mux"
	"github.com/lifeweeks/lifeweeks/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Week calculations
	r.HandleFunc("/api/weeks/health", deps.WeeksHandler.Health).Methods("GET")
	r.HandleFunc("/api/weeks/total-weeks", deps.WeeksHandler.TotalWeeks).Methods("POST")
	r.HandleFunc("/api/weeks/total-weeks/{dob}/{lifespan}", deps.WeeksHandler.QuickTotalWeeks).Methods("GET")
	r.HandleFunc("/api/weeks/total", deps.WeeksHandler.TotalWeeksQuery).Methods("GET")
	r.HandleFunc("/api/weeks/current-week", deps.WeeksHandler.CurrentWeek).Methods("POST")
	r.HandleFunc("/api/weeks/current-week/{dob}", deps.WeeksHandler.QuickCurrentWeek).Methods("GET")
	r.HandleFunc("/api/weeks/current", deps.WeeksHandler.CurrentWeekQuery).Methods("GET")
	r.HandleFunc("/api/weeks/week-summary", deps.WeeksHandler.WeekSummary).Methods("POST")
	r.HandleFunc("/api/weeks/life-progress", deps.WeeksHandler.LifeProgress).Methods("POST")
	r.HandleFunc("/api/weeks/life-progress", deps.WeeksHandler.LifeProgressQuery).Methods("GET")
	r.HandleFunc("/api/weeks/list", deps.WeeksHandler.ListWeeks).Methods("GET")
	r.HandleFunc("/api/weeks/index", deps.WeeksHandler.WeekIndex).Methods("GET")
	r.HandleFunc("/api/weeks/calendar.ics", deps.WeeksHandler.CalendarFeed).Methods("GET")

	// Weeks of the current user
	r.HandleFunc("/api/user/current/weeks/progress", deps.UserWeeksHandler.LifeProgress).Methods("GET")
	r.HandleFunc("/api/user/current/weeks/current", deps.UserWeeksHandler.CurrentWeek).Methods("GET")
	r.HandleFunc("/api/user/current/weeks/{weekIndex}", deps.UserWeeksHandler.WeekSummary).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.CurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.ListUsers).Methods("GET")
	r.HandleFunc("/api/user/name-availability", deps.UserHandler.IsUsernameAvailable).Methods("GET")
	r.HandleFunc("/api/user/{userUid}", deps.UserHandler.DeleteUser).Methods("DELETE")
	r.HandleFunc("/api/user/{userUid}/restore", deps.UserHandler.RestoreUser).Methods("POST")
}
