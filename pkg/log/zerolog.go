package log

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	lmerrors "github.com/YuminosukeSato/bayeslm/pkg/errors"
)

// zerologLogger adapts zerolog.Logger to Logger.
type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerologLogger wraps a zerolog logger.
func NewZerologLogger(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

func (z *zerologLogger) Debug(msg string, fields ...any) { z.emit(z.zl.Debug(), msg, fields) }
func (z *zerologLogger) Info(msg string, fields ...any)  { z.emit(z.zl.Info(), msg, fields) }
func (z *zerologLogger) Warn(msg string, fields ...any)  { z.emit(z.zl.Warn(), msg, fields) }

func (z *zerologLogger) Error(msg string, fields ...any) {
	err, rest := splitErr(fields)
	ev := z.zl.Error()
	if err != nil {
		ev = ev.Err(err)
		if code := ErrorCode(err); code != "" {
			ev = ev.Str(ErrorCodeKey, code)
		}
		if m, ok := detailOf(err); ok {
			ev = ev.Object("detail", m)
		}
	}
	z.emit(ev, msg, rest)
}

func (z *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: z.zl.With().Fields(pairs(fields)).Logger()}
}

func (z *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return toZerologLevel(level) >= z.zl.GetLevel()
}

func (z *zerologLogger) emit(ev *zerolog.Event, msg string, fields []any) {
	if ev == nil {
		return
	}
	ev.Fields(pairs(fields)).Msg(msg)
}

// pairs turns alternating key/value fields into a map; a trailing key without
// a value is dropped, like slog's !BADKEY handling but quieter.
func pairs(fields []any) map[string]any {
	m := make(map[string]any, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		m[fmt.Sprint(fields[i])] = fields[i+1]
	}
	return m
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// detailOf finds the first error in the chain that knows how to marshal itself.
func detailOf(err error) (zerolog.LogObjectMarshaler, bool) {
	var notFitted *lmerrors.NotFittedError
	if lmerrors.As(err, &notFitted) {
		return notFitted, true
	}
	var dim *lmerrors.DimensionError
	if lmerrors.As(err, &dim) {
		return dim, true
	}
	var hp *lmerrors.HyperparameterError
	if lmerrors.As(err, &hp) {
		return hp, true
	}
	var num *lmerrors.NumericalInstabilityError
	if lmerrors.As(err, &num) {
		return num, true
	}
	return nil, false
}

// EnableZerologWarnings routes lmerrors.Warn into zl. Warnings that implement
// zerolog.LogObjectMarshaler are embedded as structured fields.
func EnableZerologWarnings(zl zerolog.Logger) {
	lmerrors.SetZerologWarnFunc(func(w error) {
		ev := zl.Warn()
		if m, ok := w.(zerolog.LogObjectMarshaler); ok {
			ev = ev.EmbedObject(m)
		}
		ev.Msg(w.Error())
	})
}

// zerologProvider serves loggers derived from one zerolog root.
type zerologProvider struct {
	root zerolog.Logger
}

// NewZerologProvider returns a LoggerProvider backed by root.
func NewZerologProvider(root zerolog.Logger) LoggerProvider {
	return &zerologProvider{root: root}
}

func (p *zerologProvider) GetLogger() Logger { return NewZerologLogger(p.root) }

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	return NewZerologLogger(p.root.With().Str(ComponentKey, name).Logger())
}

func (p *zerologProvider) SetLevel(level Level) {
	p.root = p.root.Level(toZerologLevel(level))
}
