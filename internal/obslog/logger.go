// Package obslog provides structured logging for anytime runs,
// adapted from quarry's log package: a non-sugared Logger for the
// inference hot path and a SugaredLogger for CLI/debug surfaces.
package obslog

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with anytime run context (run ID, method).
// Use this on the inference hot path; call Sugar() for CLI output.
type Logger struct {
	zap *zap.Logger
	ctx RunContext
}

// SugaredLogger wraps zap.SugaredLogger for printf-style CLI logging.
type SugaredLogger struct {
	sugar *zap.SugaredLogger
}

// RunContext identifies the run a Logger's entries belong to.
type RunContext struct {
	RunID  string
	Method string
}

// NewLogger creates a Logger with run context, writing JSON lines to
// os.Stderr.
func NewLogger(ctx RunContext) *Logger {
	return newLoggerWithWriter(ctx, os.Stderr)
}

// WithOutput returns a copy of l writing to w instead of its current
// destination.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	return newLoggerWithWriter(l.ctx, w)
}

func newLoggerWithWriter(ctx RunContext, w io.Writer) *Logger {
	core := zapcore.NewCore(jsonEncoder(), zapcore.AddSync(w), zapcore.DebugLevel)
	fields := []zap.Field{zap.String("run_id", ctx.RunID)}
	if ctx.Method != "" {
		fields = append(fields, zap.String("method", ctx.Method))
	}
	return &Logger{zap: zap.New(core).With(fields...), ctx: ctx}
}

func jsonEncoder() zapcore.Encoder {
	return zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	})
}

func (l *Logger) Debug(message string, fields map[string]any) { l.zap.Debug(message, zap.Any("fields", fields)) }
func (l *Logger) Info(message string, fields map[string]any)  { l.zap.Info(message, zap.Any("fields", fields)) }
func (l *Logger) Warn(message string, fields map[string]any)  { l.zap.Warn(message, zap.Any("fields", fields)) }
func (l *Logger) Error(message string, fields map[string]any) { l.zap.Error(message, zap.Any("fields", fields)) }

// Sugar returns a SugaredLogger sharing l's core.
func (l *Logger) Sugar() *SugaredLogger { return &SugaredLogger{sugar: l.zap.Sugar()} }

func (s *SugaredLogger) Debugf(template string, args ...any) { s.sugar.Debugf(template, args...) }
func (s *SugaredLogger) Infof(template string, args ...any)  { s.sugar.Infof(template, args...) }
func (s *SugaredLogger) Warnf(template string, args ...any)  { s.sugar.Warnf(template, args...) }
func (s *SugaredLogger) Errorf(template string, args ...any) { s.sugar.Errorf(template, args...) }

// With returns a SugaredLogger with additional key-value context.
func (s *SugaredLogger) With(args ...any) *SugaredLogger {
	return &SugaredLogger{sugar: s.sugar.With(args...)}
}
