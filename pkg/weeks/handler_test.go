package weeks

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/lifeweeks/lifeweeks/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, now time.Time) *mux.Router {
	t.Helper()
	handler := NewHandler(setup(t, now), DefaultLifespan, UTC)

	r := mux.NewRouter()
	r.HandleFunc("/api/weeks/total-weeks", handler.TotalWeeks).Methods("POST")
	r.HandleFunc("/api/weeks/total", handler.TotalWeeksQuery).Methods("GET")
	r.HandleFunc("/api/weeks/total-weeks/{dob}/{lifespan}", handler.QuickTotalWeeks).Methods("GET")
	r.HandleFunc("/api/weeks/current-week", handler.CurrentWeek).Methods("POST")
	r.HandleFunc("/api/weeks/current", handler.CurrentWeekQuery).Methods("GET")
	r.HandleFunc("/api/weeks/current-week/{dob}", handler.QuickCurrentWeek).Methods("GET")
	r.HandleFunc("/api/weeks/week-summary", handler.WeekSummary).Methods("POST")
	r.HandleFunc("/api/weeks/life-progress", handler.LifeProgress).Methods("POST")
	r.HandleFunc("/api/weeks/life-progress", handler.LifeProgressQuery).Methods("GET")
	r.HandleFunc("/api/weeks/list", handler.ListWeeks).Methods("GET")
	r.HandleFunc("/api/weeks/index", handler.WeekIndex).Methods("GET")
	r.HandleFunc("/api/weeks/calendar.ics", handler.CalendarFeed).Methods("GET")
	r.HandleFunc("/api/weeks/health", handler.Health).Methods("GET")
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) rest.ErrorResponse {
	t.Helper()
	var response rest.ErrorResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	return response
}

var handlerNow = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func TestHandler_TotalWeeks(t *testing.T) {
	r := setupRouter(t, handlerNow)

	t.Run("POST with lifespan", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/total-weeks", `{"date_of_birth":"1990-01-01","lifespan_years":80}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"date_of_birth":"1990-01-01","lifespan_years":80,"total_weeks":4174}`, rr.Body.String())
	})

	t.Run("POST defaults lifespan to 80", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/total-weeks", `{"date_of_birth":"1990-01-01"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		var dto TotalWeeksDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, 80, dto.LifespanYears)
	})

	t.Run("GET query", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/total?date_of_birth=1990-01-01&lifespan_years=80", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total_weeks":4174`)
	})

	t.Run("GET path", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/total-weeks/1990-01-01/80", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"total_weeks":4174`)
	})

	t.Run("future date of birth", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/total-weeks", `{"date_of_birth":"2030-01-01","lifespan_years":80}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		response := decodeError(t, rr)
		assert.Equal(t, "FutureDateError", response.Error)
		assert.Equal(t, "Date of birth cannot be in the future", response.Details)
	})

	t.Run("lifespan out of range", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/total-weeks", `{"date_of_birth":"1990-01-01","lifespan_years":151}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})

	t.Run("non numeric lifespan in path", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/total-weeks/1990-01-01/eighty", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/total-weeks", `{"date_of_birth":`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})
}

func TestHandler_CurrentWeek(t *testing.T) {
	r := setupRouter(t, time.Date(2020, 1, 8, 0, 0, 0, 0, time.UTC))

	t.Run("POST", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/current-week", `{"date_of_birth":"2020-01-01","timezone":"UTC"}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"date_of_birth":"2020-01-01","timezone":"UTC","current_week_index":1,"weeks_lived":2}`, rr.Body.String())
	})

	t.Run("GET defaults timezone", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/current?date_of_birth=2020-01-01", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"timezone":"UTC"`)
	})

	t.Run("GET path", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/current-week/2020-01-01", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"current_week_index":1`)
	})

	t.Run("lowercase timezone", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/current-week", `{"date_of_birth":"2000-01-01","timezone":"america/new_york"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		response := decodeError(t, rr)
		assert.Equal(t, "InvalidTimezoneError", response.Error)
		assert.Equal(t, "Invalid timezone provided", response.Details)
	})

	t.Run("impossible date", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/current-week/2019-02-29", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "InvalidDateError", decodeError(t, rr).Error)
	})
}

func TestHandler_WeekSummary(t *testing.T) {
	r := setupRouter(t, handlerNow)

	t.Run("describes the week", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/week-summary", `{"date_of_birth":"1990-06-15","week_index":52}`)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{
			"week_index": 52,
			"week_start": "1991-06-14",
			"week_end": "1991-06-20",
			"week_type": "birthday",
			"age_years": 0,
			"age_months": 11,
			"age_days": 30,
			"days_lived": 364,
			"is_current_week": false
		}`, rr.Body.String())
	})

	t.Run("missing week index", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/week-summary", `{"date_of_birth":"1990-06-15"}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})

	t.Run("negative week index", func(t *testing.T) {
		rr := serve(r, "POST", "/api/weeks/week-summary", `{"date_of_birth":"1990-06-15","week_index":-1}`)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})
}

func TestHandler_LifeProgress(t *testing.T) {
	r := setupRouter(t, handlerNow)

	for _, rr := range []*httptest.ResponseRecorder{
		serve(r, "POST", "/api/weeks/life-progress", `{"date_of_birth":"2000-01-01","lifespan_years":80,"timezone":"UTC"}`),
		serve(r, "GET", "/api/weeks/life-progress?date_of_birth=2000-01-01", ""),
	} {
		assert.Equal(t, http.StatusOK, rr.Code)
		var dto LifeProgressDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
		assert.Equal(t, 4174, dto.TotalWeeks)
		assert.Equal(t, 1326, dto.CurrentWeekIndex)
		assert.Equal(t, 2848, dto.WeeksRemaining)
		assert.InDelta(t, 31.77, dto.ProgressPercentage, 0.0001)
		assert.Equal(t, AgeDTO{Years: 25, Months: 5, Days: 0}, dto.CurrentAge)
		assert.True(t, dto.CurrentWeekInfo.IsCurrentWeek)
	}

	t.Run("echoes the request parameters", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/life-progress?date_of_birth=2000-01-01&lifespan_years=90&timezone=Europe/Warsaw", "")

		require.Equal(t, http.StatusOK, rr.Code)
		var body map[string]any
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "2000-01-01", body["date_of_birth"])
		assert.Equal(t, 90.0, body["lifespan_years"])
		assert.Equal(t, "Europe/Warsaw", body["timezone"])
		assert.Equal(t, 1326.0, body["current_week_index"])
		assert.NotContains(t, body, "current_week")
	})

	t.Run("before 1900", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/life-progress?date_of_birth=1899-12-31", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "InvalidDateError", decodeError(t, rr).Error)
	})
}

func TestHandler_ListWeeks(t *testing.T) {
	r := setupRouter(t, handlerNow)

	t.Run("returns a page", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/list?date_of_birth=1990-06-15&from=52&count=3", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		var dtos []WeekSummaryDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&dtos))
		require.Len(t, dtos, 3)
		assert.Equal(t, 52, dtos[0].WeekIndex)
		assert.Equal(t, "1991-06-14", dtos[0].WeekStart)
		assert.Equal(t, "1991-06-21", dtos[1].WeekStart)
	})

	t.Run("rejects oversize page", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/list?date_of_birth=1990-06-15&count=10000", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects non numeric from", func(t *testing.T) {
		rr := serve(r, "GET", "/api/weeks/list?date_of_birth=1990-06-15&from=abc", "")

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "ValueError", decodeError(t, rr).Error)
	})
}

func TestHandler_WeekIndex(t *testing.T) {
	r := setupRouter(t, handlerNow)

	rr := serve(r, "GET", "/api/weeks/index?date_of_birth=1990-06-15&date=2021-06-15", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var dto WeekIndexDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
	assert.Equal(t, WeekIndexOn(on(1990, time.June, 15), on(2021, time.June, 15)), dto.WeekIndex)

	rr = serve(r, "GET", "/api/weeks/index?date_of_birth=1990-06-15&date=1990-06-14", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHandler_CalendarFeed(t *testing.T) {
	r := setupRouter(t, handlerNow)

	rr := serve(r, "GET", "/api/weeks/calendar.ics?date_of_birth=1990-06-15&count=60", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "BEGIN:VEVENT")
	assert.Contains(t, rr.Body.String(), "DTSTAMP:20250601T080000Z")

	t.Run("stamps the instant the page was evaluated at", func(t *testing.T) {
		ticking := &tickingClock{next: time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)}
		handler := NewHandler(NewService(ticking, DefaultOptions()), DefaultLifespan, UTC)
		feed := mux.NewRouter()
		feed.HandleFunc("/api/weeks/calendar.ics", handler.CalendarFeed).Methods("GET")

		rr := serve(feed, "GET", "/api/weeks/calendar.ics?date_of_birth=1990-06-15&count=60&timezone=Asia/Tokyo", "")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "DTSTAMP:20250601T080000Z")
		assert.Equal(t, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC), ticking.next)
	})
}

func TestHandler_Health(t *testing.T) {
	r := setupRouter(t, handlerNow)

	rr := serve(r, "GET", "/api/weeks/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	var dto HealthDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&dto))
	assert.Equal(t, "healthy", dto.Status)
	assert.Equal(t, 4174, dto.TestResults.TotalWeeks80Years)
	assert.Equal(t, 1326, dto.TestResults.CurrentWeek)
}

func TestWriteError_Internal(t *testing.T) {
	rr := httptest.NewRecorder()

	WriteError(rr, assert.AnError)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	response := decodeError(t, rr)
	assert.Equal(t, "InternalServerError", response.Error)
	assert.NotContains(t, response.Message, assert.AnError.Error())
	assert.Empty(t, response.Details)
}
