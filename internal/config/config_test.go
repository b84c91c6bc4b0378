package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storebooks/internal/core/types"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storebooks")
	t.Setenv("REPORT_MONEY_SCALE", "")
	t.Setenv("REPORT_ROUNDING", "")
	t.Setenv("REPORT_TIMEZONE", "")
	t.Setenv("REPORT_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, types.DefaultMoneyPolicy(), cfg.Report.Money)
	assert.Equal(t, time.UTC, cfg.Report.Location)
	assert.Equal(t, 30*time.Second, cfg.Report.Timeout)
}

func TestLoad_ReportOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/storebooks")
	t.Setenv("REPORT_MONEY_SCALE", "4")
	t.Setenv("REPORT_ROUNDING", "half_even")
	t.Setenv("REPORT_TIMEZONE", "Asia/Manila")
	t.Setenv("REPORT_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int32(4), cfg.Report.Money.Scale)
	assert.Equal(t, types.RoundHalfEven, cfg.Report.Money.Mode)
	assert.Equal(t, "Asia/Manila", cfg.Report.Location.String())
	assert.Equal(t, 5*time.Second, cfg.Report.Timeout)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"bad rounding", map[string]string{"REPORT_ROUNDING": "ceiling"}},
		{"bad timezone", map[string]string{"REPORT_TIMEZONE": "Mars/Olympus"}},
		{"scale out of range", map[string]string{"REPORT_MONEY_SCALE": "12"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", "postgres://localhost/storebooks")
			t.Setenv("REPORT_ROUNDING", "")
			t.Setenv("REPORT_TIMEZONE", "")
			t.Setenv("REPORT_MONEY_SCALE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
