package log

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	lmerrors "github.com/YuminosukeSato/bayeslm/pkg/errors"
)

// ErrFmtHandler is a slog handler that expands errors logged under ErrAttrKey:
// it adds the cockroachdb/errors stack trace and the bayeslm error code.
type ErrFmtHandler struct {
	handler slog.Handler
}

// WrapByErrFmtHandler wraps the given slog handler.
func WrapByErrFmtHandler(handler slog.Handler) slog.Handler {
	return &ErrFmtHandler{
		handler: handler,
	}
}

func (eh *ErrFmtHandler) Enabled(ctx context.Context, l slog.Level) bool {
	return eh.handler.Enabled(ctx, l)
}

func (eh *ErrFmtHandler) Handle(ctx context.Context, r slog.Record) error {
	var logged error
	r.Attrs(func(attr slog.Attr) bool {
		if attr.Key == ErrAttrKey {
			if err, ok := attr.Value.Any().(error); ok {
				logged = err
			}
			return false
		}
		return true
	})
	if logged != nil {
		if stacktrace := extractStacktrace(logged); stacktrace != "" {
			r.AddAttrs(slog.String(StacktraceAttrKey, stacktrace))
		}
		if code := ErrorCode(logged); code != "" {
			r.AddAttrs(slog.String(ErrorCodeKey, code))
		}
	}
	return eh.handler.Handle(ctx, r)
}

func (eh *ErrFmtHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithAttrs(attrs)}
}

func (eh *ErrFmtHandler) WithGroup(g string) slog.Handler {
	return &ErrFmtHandler{handler: eh.handler.WithGroup(g)}
}

// ErrorCode maps an error to its standard error code, or "" for errors that
// carry no bayeslm kind.
func ErrorCode(err error) string {
	switch lmerrors.Kind(err) {
	case lmerrors.ErrNotFitted:
		return ErrorNotFitted
	case lmerrors.ErrInvalidInput:
		return ErrorInvalidInput
	case lmerrors.ErrInvalidHyperparameter:
		return ErrorInvalidHyperparameter
	case lmerrors.ErrNumericalInstability:
		return ErrorNumericalInstability
	}
	return ""
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
