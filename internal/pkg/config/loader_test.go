package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvString(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		wantValue    string
		wantFallback bool
	}{
		{name: "unset", value: "", wantValue: "5 0 * * *"},
		{name: "valid", value: "0 */6 * * *", wantValue: "0 */6 * * *"},
		{name: "invalid", value: "every day", wantValue: "5 0 * * *", wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HYNEWS_TEST_CRON", tt.value)
			r := LoadEnvString("HYNEWS_TEST_CRON", "5 0 * * *", ValidateCronSchedule)

			assert.Equal(t, tt.wantValue, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
			if tt.wantFallback {
				assert.Contains(t, r.Warning, "HYNEWS_TEST_CRON")
				assert.Contains(t, r.Warning, "every day")
			} else {
				assert.Empty(t, r.Warning)
			}
		})
	}
}

func TestLoadEnvString_NoValidator(t *testing.T) {
	t.Setenv("HYNEWS_TEST_ANY", "anything")
	r := LoadEnvString("HYNEWS_TEST_ANY", "x", nil)
	assert.Equal(t, "anything", r.Value)
	assert.False(t, r.FallbackApplied)
}

func TestLoadEnvDuration(t *testing.T) {
	bounded := func(d time.Duration) error { return ValidateDuration(d, time.Minute, time.Hour) }
	tests := []struct {
		value        string
		want         time.Duration
		wantFallback bool
	}{
		{value: "", want: 10 * time.Minute},
		{value: "15m", want: 15 * time.Minute},
		{value: "10s", want: 10 * time.Minute, wantFallback: true},
		{value: "forever", want: 10 * time.Minute, wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("HYNEWS_TEST_TIMEOUT", tt.value)
			r := LoadEnvDuration("HYNEWS_TEST_TIMEOUT", 10*time.Minute, bounded)
			assert.Equal(t, tt.want, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
		})
	}
}

func TestLoadEnvInt(t *testing.T) {
	port := func(v int) error { return ValidateIntRange(v, 1024, 65535) }
	tests := []struct {
		value        string
		want         int
		wantFallback bool
	}{
		{value: "", want: 9091},
		{value: "9100", want: 9100},
		{value: "80", want: 9091, wantFallback: true},
		{value: "port", want: 9091, wantFallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("HYNEWS_TEST_PORT", tt.value)
			r := LoadEnvInt("HYNEWS_TEST_PORT", 9091, port)
			assert.Equal(t, tt.want, r.Value)
			assert.Equal(t, tt.wantFallback, r.FallbackApplied)
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	t.Setenv("HYNEWS_TEST_FLAG", "true")
	assert.True(t, LoadEnvBool("HYNEWS_TEST_FLAG", false).Value)

	t.Setenv("HYNEWS_TEST_FLAG", "maybe")
	r := LoadEnvBool("HYNEWS_TEST_FLAG", false)
	assert.False(t, r.Value)
	assert.True(t, r.FallbackApplied)
}
