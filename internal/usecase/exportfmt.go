package usecase

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

// formatCSV renders export records as CSV with a header row. Fields
// containing commas, quotes, or newlines are quoted with doubled quotes.
func formatCSV(records []domain.ExportRecord) string {
	var b strings.Builder
	b.WriteString("date,app_name,category,duration_seconds,session_count\n")
	for _, r := range records {
		b.WriteString(csvField(r.Date))
		b.WriteByte(',')
		b.WriteString(csvField(r.AppName))
		b.WriteByte(',')
		b.WriteString(csvField(r.Category))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(r.DurationSeconds, 10))
		b.WriteByte(',')
		b.WriteString(strconv.FormatInt(r.SessionCount, 10))
		b.WriteByte('\n')
	}
	return b.String()
}

// formatJSON renders export records as an indented JSON array. An empty
// range yields "[]", not "null".
func formatJSON(records []domain.ExportRecord) (string, error) {
	if records == nil {
		records = []domain.ExportRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func csvField(v string) string {
	if strings.ContainsAny(v, ",\"\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}
	return v
}
