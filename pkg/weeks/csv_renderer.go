package weeks

import (
	"bytes"
	"encoding/csv"
	"strconv"

	log "github.com/sirupsen/logrus"
)

var csvHeader = []string{
	"week_index", "week_start", "week_end", "week_type",
	"age_years", "age_months", "age_days", "days_lived", "is_current_week",
}

// RenderWeeksCSV writes one row per summary below a header row.
func RenderWeeksCSV(summaries []WeekSummary) (string, error) {
	var b bytes.Buffer
	writer := csv.NewWriter(&b)
	if err := writer.Write(csvHeader); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	for _, summary := range summaries {
		err := writer.Write([]string{
			strconv.Itoa(summary.WeekIndex),
			summary.WeekStart.String(),
			summary.WeekEnd.String(),
			string(summary.WeekType),
			strconv.Itoa(summary.Age.Years),
			strconv.Itoa(summary.Age.Months),
			strconv.Itoa(summary.Age.Days),
			strconv.Itoa(summary.DaysLived),
			strconv.FormatBool(summary.IsCurrentWeek),
		})
		if err != nil {
			log.Errorf("Error writing to csv: %v", err)
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Errorf("Error writing to csv: %v", err)
		return "", err
	}
	return b.String(), nil
}
