package log

import (
	"context"
	"log/slog"
	"testing"
)

func TestTestLoggerCapturesRecords(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Info("transform complete",
		OperationKey, "transform",
		FeaturesKey, 120,
	)
	logger.Debug("detail")

	records := logger.Records()
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["message"] != "transform complete" {
		t.Errorf("message = %v", records[0]["message"])
	}
	if records[0][OperationKey] != "transform" {
		t.Errorf("operation = %v", records[0][OperationKey])
	}
	if buffer.Len() == 0 {
		t.Error("buffer should hold the raw JSON lines")
	}
}

func TestTestLoggerLevelFiltering(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("visible")
	logger.Error("also visible")

	if got := len(logger.Records()); got != 2 {
		t.Errorf("got %d records, want 2", got)
	}
	if logger.Contains("hidden") {
		t.Error("filtered records must not be captured")
	}
}

func TestTestLoggerWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	scoped := logger.With(ModelNameKey, "FeatureTransformer")
	scoped.Info("ready")

	records := logger.Records()
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0][ModelNameKey] != "FeatureTransformer" {
		t.Errorf("With field missing: %v", records[0])
	}
}

func TestTestLoggerEnabled(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)
	ctx := context.Background()

	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}
}

func TestSetLoggerReplacesDefault(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	testLogger, _ := NewTestLogger(LevelDebug)
	SetLogger(testLogger)

	GetLogger().Info("routed")
	if !testLogger.Contains("routed") {
		t.Error("default logger was not replaced")
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelDebug: "DEBUG",
		LevelInfo:  "INFO",
		LevelWarn:  "WARN",
		LevelError: "ERROR",
		Level(42):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("Level(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestToLogLevel(t *testing.T) {
	if ToLogLevel("debug") != slog.LevelDebug {
		t.Error("debug mapping wrong")
	}
	if ToLogLevel("error") != slog.LevelError {
		t.Error("error mapping wrong")
	}

	defer func() {
		if recover() == nil {
			t.Error("invalid level should panic")
		}
	}()
	ToLogLevel("loud")
}
