package weeks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lifeweeks/lifeweeks/internal/rest"
	log "github.com/sirupsen/logrus"
)

type AgeDTO struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

type TotalWeeksDTO struct {
	DateOfBirth   string `json:"date_of_birth"`
	LifespanYears int    `json:"lifespan_years"`
	TotalWeeks    int    `json:"total_weeks"`
}

type CurrentWeekDTO struct {
	DateOfBirth      string `json:"date_of_birth"`
	Timezone         string `json:"timezone"`
	CurrentWeekIndex int    `json:"current_week_index"`
	WeeksLived       int    `json:"weeks_lived"`
}

type WeekSummaryDTO struct {
	WeekIndex     int    `json:"week_index"`
	WeekStart     string `json:"week_start"`
	WeekEnd       string `json:"week_end"`
	WeekType      string `json:"week_type"`
	AgeYears      int    `json:"age_years"`
	AgeMonths     int    `json:"age_months"`
	AgeDays       int    `json:"age_days"`
	DaysLived     int    `json:"days_lived"`
	IsCurrentWeek bool   `json:"is_current_week"`
}

type LifeProgressDTO struct {
	DateOfBirth        string         `json:"date_of_birth"`
	LifespanYears      int            `json:"lifespan_years"`
	Timezone           string         `json:"timezone"`
	TotalWeeks         int            `json:"total_weeks"`
	CurrentWeekIndex   int            `json:"current_week_index"`
	WeeksLived         int            `json:"weeks_lived"`
	WeeksRemaining     int            `json:"weeks_remaining"`
	ProgressPercentage float64        `json:"progress_percentage"`
	CurrentAge         AgeDTO         `json:"current_age"`
	DaysLived          int            `json:"days_lived"`
	CurrentWeekInfo    WeekSummaryDTO `json:"current_week_info"`
}

type WeekIndexDTO struct {
	DateOfBirth string `json:"date_of_birth"`
	Date        string `json:"date"`
	WeekIndex   int    `json:"week_index"`
}

type HealthDTO struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	TestResults struct {
		TotalWeeks80Years int `json:"total_weeks_80_years"`
		CurrentWeek       int `json:"current_week"`
	} `json:"test_results"`
}

type weeksRequest struct {
	DateOfBirth   string `json:"date_of_birth"`
	LifespanYears *int   `json:"lifespan_years"`
	Timezone      string `json:"timezone"`
	WeekIndex     *int   `json:"week_index"`
}

type Handler struct {
	service         Service
	defaultLifespan int
	defaultTimezone string
}

func NewHandler(service Service, defaultLifespan int, defaultTimezone string) *Handler {
	if defaultLifespan == 0 {
		defaultLifespan = DefaultLifespan
	}
	if defaultTimezone == "" {
		defaultTimezone = UTC
	}
	return &Handler{
		service:         service,
		defaultLifespan: defaultLifespan,
		defaultTimezone: defaultTimezone,
	}
}

// TotalWeeks godoc
// @Summary Total weeks in a lifespan
// @Tags Weeks
// @Accept json
// @Produce json
// @Param request body object{date_of_birth=string,lifespan_years=int} true "Date of birth and lifespan"
// @Success 200 {object} TotalWeeksDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/total-weeks [post]
func (h *Handler) TotalWeeks(w http.ResponseWriter, r *http.Request) {
	log.Trace("Calculating total weeks")
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	h.writeTotalWeeks(w, req)
}

// TotalWeeksQuery godoc
// @Summary Total weeks in a lifespan
// @Tags Weeks
// @Produce json
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param lifespan_years query int false "Defaults to 80"
// @Success 200 {object} TotalWeeksDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/total [get]
func (h *Handler) TotalWeeksQuery(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeTotalWeeks(w, req)
}

// QuickTotalWeeks godoc
// @Summary Total weeks for a date of birth and lifespan given in the path
// @Tags Weeks
// @Produce json
// @Param dob path string true "YYYY-MM-DD"
// @Param lifespan path int true "Lifespan in years"
// @Success 200 {object} TotalWeeksDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/total-weeks/{dob}/{lifespan} [get]
func (h *Handler) QuickTotalWeeks(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lifespan, err := strconv.Atoi(vars["lifespan"])
	if err != nil {
		WriteError(w, fmt.Errorf("%w: lifespan must be an integer", ErrInvalidValue))
		return
	}
	h.writeTotalWeeks(w, weeksRequest{DateOfBirth: vars["dob"], LifespanYears: &lifespan})
}

func (h *Handler) writeTotalWeeks(w http.ResponseWriter, req weeksRequest) {
	birthDate, err := ParseDate(req.DateOfBirth)
	if err != nil {
		WriteError(w, err)
		return
	}
	lifespan := h.lifespanOf(req)
	totalWeeks, err := h.service.TotalWeeks(birthDate, lifespan)
	if err != nil {
		WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, TotalWeeksDTO{
		DateOfBirth:   birthDate.String(),
		LifespanYears: lifespan,
		TotalWeeks:    totalWeeks,
	})
}

// CurrentWeek godoc
// @Summary Current week index
// @Tags Weeks
// @Accept json
// @Produce json
// @Param request body object{date_of_birth=string,timezone=string} true "Date of birth and timezone"
// @Success 200 {object} CurrentWeekDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/current-week [post]
func (h *Handler) CurrentWeek(w http.ResponseWriter, r *http.Request) {
	log.Trace("Calculating current week")
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	h.writeCurrentWeek(w, req)
}

// CurrentWeekQuery godoc
// @Summary Current week index
// @Tags Weeks
// @Produce json
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {object} CurrentWeekDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/current [get]
func (h *Handler) CurrentWeekQuery(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeCurrentWeek(w, req)
}

// QuickCurrentWeek godoc
// @Summary Current week index in UTC for a date of birth given in the path
// @Tags Weeks
// @Produce json
// @Param dob path string true "YYYY-MM-DD"
// @Success 200 {object} CurrentWeekDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/current-week/{dob} [get]
func (h *Handler) QuickCurrentWeek(w http.ResponseWriter, r *http.Request) {
	h.writeCurrentWeek(w, weeksRequest{DateOfBirth: mux.Vars(r)["dob"], Timezone: UTC})
}

func (h *Handler) writeCurrentWeek(w http.ResponseWriter, req weeksRequest) {
	birthDate, err := ParseDate(req.DateOfBirth)
	if err != nil {
		WriteError(w, err)
		return
	}
	timezone := h.timezoneOf(req)
	weekIndex, err := h.service.CurrentWeekIndex(birthDate, timezone)
	if err != nil {
		WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, CurrentWeekDTO{
		DateOfBirth:      birthDate.String(),
		Timezone:         timezone,
		CurrentWeekIndex: weekIndex,
		WeeksLived:       weekIndex + 1,
	})
}

// WeekSummary godoc
// @Summary Details of a single week
// @Tags Weeks
// @Accept json
// @Produce json
// @Param request body object{date_of_birth=string,week_index=int,timezone=string} true "Week to describe"
// @Success 200 {object} WeekSummaryDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/week-summary [post]
func (h *Handler) WeekSummary(w http.ResponseWriter, r *http.Request) {
	log.Trace("Building week summary")
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	birthDate, err := ParseDate(req.DateOfBirth)
	if err != nil {
		WriteError(w, err)
		return
	}
	if req.WeekIndex == nil {
		WriteError(w, fmt.Errorf("%w: week_index is required", ErrInvalidValue))
		return
	}
	summary, err := h.service.WeekSummary(birthDate, *req.WeekIndex, h.timezoneOf(req))
	if err != nil {
		WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, WeekSummaryToDTO(summary))
}

// LifeProgress godoc
// @Summary Life progress statistics
// @Tags Weeks
// @Accept json
// @Produce json
// @Param request body object{date_of_birth=string,lifespan_years=int,timezone=string} true "Life parameters"
// @Success 200 {object} LifeProgressDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/life-progress [post]
func (h *Handler) LifeProgress(w http.ResponseWriter, r *http.Request) {
	log.Trace("Calculating life progress")
	req, ok := decodeRequest(w, r)
	if !ok {
		return
	}
	h.writeLifeProgress(w, req)
}

// LifeProgressQuery godoc
// @Summary Life progress statistics
// @Tags Weeks
// @Produce json
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param lifespan_years query int false "Defaults to 80"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {object} LifeProgressDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/life-progress [get]
func (h *Handler) LifeProgressQuery(w http.ResponseWriter, r *http.Request) {
	req, err := queryRequest(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	h.writeLifeProgress(w, req)
}

func (h *Handler) writeLifeProgress(w http.ResponseWriter, req weeksRequest) {
	birthDate, err := ParseDate(req.DateOfBirth)
	if err != nil {
		WriteError(w, err)
		return
	}
	progress, err := h.service.LifeProgress(birthDate, h.lifespanOf(req), h.timezoneOf(req))
	if err != nil {
		WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, LifeProgressToDTO(progress))
}

// ListWeeks godoc
// @Summary A page of consecutive week summaries
// @Tags Weeks
// @Produce json,text/csv
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param from query int false "First week index, defaults to 0"
// @Param count query int false "Number of weeks, defaults to 52"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {array} WeekSummaryDTO "JSON, or CSV when Accept is text/csv"
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/list [get]
func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	birthDate, from, count, timezone, err := h.pageQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	summaries, err := h.service.ListWeeks(birthDate, from, count, timezone)
	if err != nil {
		WriteError(w, err)
		return
	}
	if r.Header.Get("Accept") == "text/csv" {
		body, err := RenderWeeksCSV(summaries)
		if err != nil {
			WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(body)); err != nil {
			log.Errorf("failed to write weeks csv: %v", err)
		}
		return
	}
	dtos := make([]WeekSummaryDTO, 0, len(summaries))
	for _, summary := range summaries {
		dtos = append(dtos, WeekSummaryToDTO(summary))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

// WeekIndex godoc
// @Summary Week index containing a calendar date
// @Tags Weeks
// @Produce json
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param date query string true "YYYY-MM-DD"
// @Success 200 {object} WeekIndexDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/index [get]
func (h *Handler) WeekIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	birthDate, err := ParseDate(query.Get("date_of_birth"))
	if err != nil {
		WriteError(w, err)
		return
	}
	date, err := ParseDate(query.Get("date"))
	if err != nil {
		WriteError(w, err)
		return
	}
	weekIndex, err := h.service.WeekIndexForDate(birthDate, date)
	if err != nil {
		WriteError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, WeekIndexDTO{
		DateOfBirth: birthDate.String(),
		Date:        date.String(),
		WeekIndex:   weekIndex,
	})
}

// CalendarFeed godoc
// @Summary Special weeks as an iCalendar feed
// @Tags Weeks
// @Produce text/calendar
// @Param date_of_birth query string true "YYYY-MM-DD"
// @Param from query int false "First week index, defaults to 0"
// @Param count query int false "Number of weeks, defaults to 52"
// @Param timezone query string false "IANA timezone, defaults to UTC"
// @Success 200 {string} string "iCalendar document"
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/weeks/calendar.ics [get]
func (h *Handler) CalendarFeed(w http.ResponseWriter, r *http.Request) {
	birthDate, from, count, timezone, err := h.pageQuery(r)
	if err != nil {
		WriteError(w, err)
		return
	}
	page, err := h.service.WeeksPage(birthDate, from, count, timezone)
	if err != nil {
		WriteError(w, err)
		return
	}
	body, err := SpecialWeeksCalendar(birthDate, page.Summaries, page.EvaluatedAt)
	if err != nil {
		WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="special-weeks.ics"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Errorf("failed to write calendar feed: %v", err)
	}
}

// Health godoc
// @Summary Smoke test of the week calculations
// @Tags Weeks
// @Produce json
// @Success 200 {object} HealthDTO
// @Failure 500 {object} rest.ErrorResponse
// @Router /api/weeks/health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	probe := Date{Year: 2000, Month: 1, Day: 1}
	totalWeeks, err := h.service.TotalWeeks(probe, DefaultLifespan)
	if err != nil {
		WriteError(w, fmt.Errorf("health check failed: %v", err))
		return
	}
	currentWeek, err := h.service.CurrentWeekIndex(probe, UTC)
	if err != nil {
		WriteError(w, fmt.Errorf("health check failed: %v", err))
		return
	}
	health := HealthDTO{Status: "healthy", Service: "week_calculation"}
	health.TestResults.TotalWeeks80Years = totalWeeks
	health.TestResults.CurrentWeek = currentWeek
	rest.WriteJSON(w, http.StatusOK, health)
}

func (h *Handler) lifespanOf(req weeksRequest) int {
	if req.LifespanYears == nil {
		return h.defaultLifespan
	}
	return *req.LifespanYears
}

func (h *Handler) timezoneOf(req weeksRequest) string {
	if req.Timezone == "" {
		return h.defaultTimezone
	}
	return req.Timezone
}

func (h *Handler) pageQuery(r *http.Request) (birthDate Date, from int, count int, timezone string, err error) {
	query := r.URL.Query()
	birthDate, err = ParseDate(query.Get("date_of_birth"))
	if err != nil {
		return
	}
	if from, err = intQuery(r, "from", 0); err != nil {
		return
	}
	if count, err = intQuery(r, "count", 52); err != nil {
		return
	}
	timezone = query.Get("timezone")
	if timezone == "" {
		timezone = h.defaultTimezone
	}
	return
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (weeksRequest, bool) {
	var req weeksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Debugf("invalid weeks request body: %v", err)
		rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
			Error:   string(KindValue),
			Message: "Invalid request body format",
			Details: detailsFor(KindValue),
		})
		return weeksRequest{}, false
	}
	return req, true
}

func queryRequest(r *http.Request) (weeksRequest, error) {
	query := r.URL.Query()
	req := weeksRequest{
		DateOfBirth: query.Get("date_of_birth"),
		Timezone:    query.Get("timezone"),
	}
	if query.Has("lifespan_years") {
		lifespan, err := intQuery(r, "lifespan_years", 0)
		if err != nil {
			return weeksRequest{}, err
		}
		req.LifespanYears = &lifespan
	}
	return req, nil
}

func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidValue, name)
	}
	return value, nil
}

// WriteError maps a calculation error to its status code and JSON body.
// Internal errors are logged and never echoed back.
func WriteError(w http.ResponseWriter, err error) {
	kind := Kind(err)
	if kind == KindInternal {
		log.Errorf("week calculation failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, rest.ErrorResponse{
			Error:   string(kind),
			Message: "An unexpected error occurred",
		})
		return
	}
	log.Debugf("rejected week calculation: %v", err)
	rest.WriteError(w, http.StatusBadRequest, rest.ErrorResponse{
		Error:   string(kind),
		Message: err.Error(),
		Details: detailsFor(kind),
	})
}

func detailsFor(kind ErrorKind) string {
	switch kind {
	case KindFutureDate:
		return "Date of birth cannot be in the future"
	case KindInvalidDate:
		return "Dates must be YYYY-MM-DD and the date of birth must be after year 1900"
	case KindInvalidTimezone:
		return "Invalid timezone provided"
	default:
		return "Invalid input value provided"
	}
}

func WeekSummaryToDTO(summary WeekSummary) WeekSummaryDTO {
	return WeekSummaryDTO{
		WeekIndex:     summary.WeekIndex,
		WeekStart:     summary.WeekStart.String(),
		WeekEnd:       summary.WeekEnd.String(),
		WeekType:      string(summary.WeekType),
		AgeYears:      summary.Age.Years,
		AgeMonths:     summary.Age.Months,
		AgeDays:       summary.Age.Days,
		DaysLived:     summary.DaysLived,
		IsCurrentWeek: summary.IsCurrentWeek,
	}
}

func LifeProgressToDTO(progress LifeProgress) LifeProgressDTO {
	return LifeProgressDTO{
		DateOfBirth:        progress.BirthDate.String(),
		LifespanYears:      progress.LifespanYears,
		Timezone:           progress.Timezone,
		TotalWeeks:         progress.TotalWeeks,
		CurrentWeekIndex:   progress.CurrentWeek,
		WeeksLived:         progress.WeeksLived,
		WeeksRemaining:     progress.WeeksRemaining,
		ProgressPercentage: progress.ProgressPercentage,
		CurrentAge: AgeDTO{
			Years:  progress.CurrentAge.Years,
			Months: progress.CurrentAge.Months,
			Days:   progress.CurrentAge.Days,
		},
		DaysLived:       progress.DaysLived,
		CurrentWeekInfo: WeekSummaryToDTO(progress.CurrentWeekInfo),
	}
}
