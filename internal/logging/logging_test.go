package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{" DEBUG ", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"", LevelInfo},
		{"loud", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValid(t *testing.T) {
	for _, s := range []string{"debug", "Info", "warning", "error"} {
		if !Valid(s) {
			t.Errorf("Valid(%q) = false", s)
		}
	}
	if Valid("loud") {
		t.Error(`Valid("loud") = true`)
	}
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(&buf, LevelWarn)
	log.Info("quiet")
	log.Warn("loud", "part", "spacer")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "part=spacer") {
		t.Errorf("warn record missing: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("color codes written to a buffer: %q", out)
	}
}
