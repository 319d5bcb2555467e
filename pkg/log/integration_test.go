package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lmerrors "github.com/YuminosukeSato/bayeslm/pkg/errors"
)

func TestLoggerInterface(t *testing.T) {
	testLogger, buffer := NewTestLogger(LevelDebug)

	testLogger.Debug("debug message", "key1", "value1", "number", 42)
	testLogger.Info("info message", OperationKey, OperationFit)
	testLogger.Warn("warning message", "warning_code", "TEST_WARNING")
	testLogger.Error("error message", fmt.Errorf("test error"))

	require.NotEmpty(t, buffer.String())
	for _, msg := range []string{"debug message", "info message", "warning message", "error message"} {
		assert.True(t, testLogger.ContainsMessage(msg), msg)
	}
	assert.True(t, testLogger.ContainsField("key1", "value1"))
	assert.True(t, testLogger.ContainsField("number", 42.0))
	assert.True(t, testLogger.ContainsField(ErrAttrKey, "test error"))
}

func TestLoggerWith(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelDebug)

	contextLogger := testLogger.With(
		ModelNameKey, "BayesianLinearRegression",
		AlphaKey, 2.0,
	)
	contextLogger.Info("posterior updated", OperationKey, OperationFit)

	assert.True(t, testLogger.ContainsField(ModelNameKey, "BayesianLinearRegression"))
	assert.True(t, testLogger.ContainsField(AlphaKey, 2.0))
	assert.True(t, testLogger.ContainsField(OperationKey, OperationFit))
}

func TestLoggerEnabled(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)
	ctx := context.Background()

	assert.True(t, testLogger.Enabled(ctx, LevelInfo))
	assert.True(t, testLogger.Enabled(ctx, LevelError))
	assert.False(t, testLogger.Enabled(ctx, LevelDebug))

	testLogger.Debug("this should not appear")
	testLogger.Info("this should appear")

	assert.False(t, testLogger.ContainsMessage("this should not appear"))
	assert.True(t, testLogger.ContainsMessage("this should appear"))
}

func TestTestLoggerErrorCode(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	testLogger.Error("predict failed", lmerrors.NewNotFittedError("BayesianLinearRegression", "Predict"))

	assert.True(t, testLogger.ContainsField(ErrorCodeKey, ErrorNotFitted))
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{lmerrors.NewNotFittedError("m", "Predict"), ErrorNotFitted},
		{lmerrors.NewDimensionError("Predict", 1, 2, 1), ErrorInvalidInput},
		{lmerrors.NewHyperparameterError("alpha", "must be positive", 0), ErrorInvalidHyperparameter},
		{lmerrors.NewNumericalInstabilityError("op", "cholesky failed", 0, nil), ErrorNumericalInstability},
		{fmt.Errorf("plain"), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ErrorCode(tt.err), tt.err.Error())
	}
}

func TestErrFmtHandlerAddsStacktraceAndCode(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(slog.New(NewCloudHandler(&buf, LevelDebug)))

	logger.Error("fit failed", lmerrors.NewHyperparameterError("beta", "must be positive", -1))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["severity"])
	assert.Equal(t, "fit failed", entry["message"])
	assert.Equal(t, ErrorInvalidHyperparameter, entry[ErrorCodeKey])
	assert.Contains(t, entry[StacktraceAttrKey], "integration_test.go")
}

func TestZerologLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLogger(zerolog.New(&buf).Level(zerolog.InfoLevel)).
		With(ModelNameKey, "BayesianLinearRegression")

	logger.Debug("dropped")
	logger.Info("fitted", SamplesKey, 30)
	logger.Error("predict failed", lmerrors.NewDimensionError("Predict", 1, 3, 1))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var info map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &info))
	assert.Equal(t, "fitted", info["message"])
	assert.Equal(t, 30.0, info[SamplesKey])
	assert.Equal(t, "BayesianLinearRegression", info[ModelNameKey])

	var errEntry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &errEntry))
	assert.Equal(t, ErrorInvalidInput, errEntry[ErrorCodeKey])
	detail, ok := errEntry["detail"].(map[string]any)
	require.True(t, ok, "structured detail expected")
	assert.Equal(t, "DimensionError", detail["type"])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), LevelWarn))
}

func TestEnableZerologWarnings(t *testing.T) {
	var buf bytes.Buffer
	EnableZerologWarnings(zerolog.New(&buf))
	defer lmerrors.SetZerologWarnFunc(nil)

	lmerrors.Warn(lmerrors.NewIllConditionedWarning("ComputePosterior", 5e11, 1e10))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "IllConditionedWarning", entry["type"])
	assert.Equal(t, 5e11, entry["condition"])
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"debug": LevelDebug, "info": LevelInfo, "warn": LevelWarn, "error": LevelError} {
		got, err := ParseLevel(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestProviderSwap(t *testing.T) {
	prev := GetProvider()
	defer SetProvider(prev)

	provider, buffer := NewTestLoggerProvider(LevelDebug)
	SetProvider(provider)

	GetLogger().Info("provider test message")
	GetLoggerWithName("linear").Info("named logger message")

	out := buffer.String()
	assert.Contains(t, out, "provider test message")
	assert.Contains(t, out, "named logger message")
	assert.Contains(t, out, `"ml.component":"linear"`)
}

func TestSlogProviderLevel(t *testing.T) {
	var buf bytes.Buffer
	prevDefault := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prevDefault)

	p := &slogProvider{level: new(slog.LevelVar)}
	p.SetLevel(LevelWarn)

	p.GetLogger().Info("hidden")
	p.GetLoggerWithName("metrics").Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), `"ml.component":"metrics"`)
}

func TestConcurrentLogging(t *testing.T) {
	testLogger, _ := NewTestLogger(LevelInfo)

	const goroutines, perGoroutine = 4, 5
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				testLogger.Info("message", "goroutine_id", id, "message_id", j)
			}
		}(i)
	}
	wg.Wait()

	entries, err := testLogger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, goroutines*perGoroutine)
}

func BenchmarkLoggingWithContext(b *testing.B) {
	testLogger, _ := NewTestLogger(LevelInfo)
	contextLogger := testLogger.With(ModelNameKey, "BenchmarkModel")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		contextLogger.Info("benchmark message", OperationKey, OperationPredict, SamplesKey, 1000)
	}
}
