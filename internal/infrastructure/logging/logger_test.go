package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	cases := []struct {
		level, format string
		enabled       zap.AtomicLevel
	}{
		{"debug", "console", zap.NewAtomicLevelAt(zap.DebugLevel)},
		{"warn", "json", zap.NewAtomicLevelAt(zap.WarnLevel)},
		{"error", "json", zap.NewAtomicLevelAt(zap.ErrorLevel)},
	}
	for _, tc := range cases {
		l, err := New(tc.level, tc.format)
		if err != nil {
			t.Fatalf("New(%q, %q): %v", tc.level, tc.format, err)
		}
		if !l.Core().Enabled(tc.enabled.Level()) {
			t.Fatalf("%s not enabled", tc.level)
		}
		if tc.enabled.Level() > zap.DebugLevel && l.Core().Enabled(tc.enabled.Level()-1) {
			t.Fatalf("level below %s enabled", tc.level)
		}
	}
}
