package sl

import (
	"errors"
	"log/slog"
	"testing"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != "error" {
		t.Errorf("Key = %q; want error", attr.Key)
	}
	if attr.Value.String() != "boom" {
		t.Errorf("Value = %q; want boom", attr.Value.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"nonsense", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLogger(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatText, FormatPretty, ""} {
		if log := SetupLogger("debug", format); log == nil {
			t.Errorf("SetupLogger(%q) returned nil", format)
		}
	}
}
