package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerLevelsAndRequestID(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger("info", false, &sink)

	reqID := "abc-123"
	logger.Debug(&reqID, "hidden %d", 1)
	logger.Info(&reqID, "visible %d", 2)
	logger.Error(nil, "failure %s", "x")

	out := sink.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "[abc-123] visible 2") {
		t.Errorf("missing request-id prefixed info line: %q", out)
	}
	if !strings.Contains(out, "ERROR: ") || !strings.Contains(out, "failure x") {
		t.Errorf("missing error line: %q", out)
	}
}

func TestLoggerErrorLevelSuppressesInfo(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger("ERROR", false, &sink)

	logger.Info(nil, "quiet")
	if sink.Len() != 0 {
		t.Errorf("info written at error level: %q", sink.String())
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LevelDebug,
		"Info":    LevelInfo,
		"error":   LevelError,
		"verbose": LevelInfo,
	}
	for in, want := range tests {
		if got := parseLogLevel(in); got != want {
			t.Errorf("parseLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoggerRequestIDIsNotAFormat(t *testing.T) {
	var sink bytes.Buffer
	logger := NewLogger("info", false, &sink)

	reqID := "%s%d"
	logger.Info(&reqID, "%s %d", "GET", 200)

	out := sink.String()
	if !strings.Contains(out, "[%s%d] GET 200") {
		t.Errorf("request id altered the format: %q", out)
	}
	if strings.Contains(out, "%!") {
		t.Errorf("formatting error in output: %q", out)
	}
}
