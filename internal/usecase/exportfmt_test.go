package usecase

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eliteGoblin/wellbeingd/internal/domain"
)

func TestFormatCSVEscaping(t *testing.T) {
	records := []domain.ExportRecord{
		{Date: "2026-08-31", AppName: "Discord, Inc.", Category: "social", DurationSeconds: 10, SessionCount: 1},
		{Date: "2026-08-31", AppName: `App "Pro"`, Category: "", DurationSeconds: 20, SessionCount: 2},
		{Date: "2026-08-31", AppName: "line\nbreak", Category: "misc", DurationSeconds: 30, SessionCount: 3},
	}

	out := formatCSV(records)
	assert.Contains(t, out, "date,app_name,category,duration_seconds,session_count\n")
	assert.Contains(t, out, `"Discord, Inc.",social,10,1`)
	assert.Contains(t, out, `"App ""Pro""",,20,2`)
	assert.Contains(t, out, "\"line\nbreak\",misc,30,3")
}

func TestFormatJSONFieldNamesAndEmpty(t *testing.T) {
	out, err := formatJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", out)

	records := []domain.ExportRecord{
		{Date: "2026-08-31", AppName: "Firefox", Category: "browser", DurationSeconds: 42, SessionCount: 1},
	}
	out, err = formatJSON(records)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Firefox", decoded[0]["app_name"])
	assert.Equal(t, float64(42), decoded[0]["duration_seconds"])
}
