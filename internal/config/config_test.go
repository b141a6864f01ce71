package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.SampleIntervalSeconds)
	assert.Equal(t, 30, cfg.EvaluateIntervalSeconds)
	assert.Equal(t, 90, cfg.RetentionDays)
	assert.Equal(t, 80, cfg.WarningThresholdPercent)
	assert.Equal(t, 100, cfg.ExceededThresholdPercent)
	assert.Equal(t, 10, cfg.EmergencyGrantMinutes)
	assert.Equal(t, "Wellbeingd", cfg.SelfAppName)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "sample_interval_seconds: 5\nretention_days: 30\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.SampleIntervalSeconds)
	assert.Equal(t, 30, cfg.RetentionDays)
	assert.Equal(t, 30, cfg.EvaluateIntervalSeconds)
	assert.Equal(t, 80, cfg.WarningThresholdPercent)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_interval_seconds: [broken"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadAppliesFloors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "sample_interval_seconds: 0\nevaluate_interval_seconds: -5\nretention_days: 0\nemergency_grant_minutes: 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.SampleIntervalSeconds)
	assert.Equal(t, 1, cfg.EvaluateIntervalSeconds, "evaluate floor follows sample interval")
	assert.Equal(t, 1, cfg.RetentionDays)
	assert.Equal(t, 1, cfg.EmergencyGrantMinutes)
}

func TestDurationHelpers(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 3*time.Second, cfg.SampleInterval())
	assert.Equal(t, 30*time.Second, cfg.EvaluateInterval())
	assert.Equal(t, 10*time.Minute, cfg.EmergencyGrant())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg := DefaultConfig()
	cfg.SampleIntervalSeconds = 7
	cfg.SelfAppName = "Other"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
