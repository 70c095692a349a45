// Package logger wraps zap with key-value helpers and secret redaction.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a sugared zap logger that redacts credential-like keys.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New builds a logger. Format "json" selects the production encoder,
// anything else the human-readable development encoder.
func New(format string, verbose bool) (*Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(format) {
	case "json", "prod", "production":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	cfg.DisableStacktrace = true

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return &Logger{sugar: z.Sugar()}, nil
}

// FromZap wraps an existing zap logger (used by tests with observers).
func FromZap(z *zap.Logger) *Logger {
	return &Logger{sugar: z.Sugar()}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Sync flushes buffered entries. Errors are ignored: stderr sync fails on some terminals.
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, sanitizeKVs(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, sanitizeKVs(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, sanitizeKVs(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, sanitizeKVs(kv)...) }

// With returns a child logger carrying the given fields.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{sugar: l.sugar.With(sanitizeKVs(kv)...)}
}

// Printf adapts the logger to printf-style hooks such as maxprocs.Logger.
// Entries are logged at debug level.
func (l *Logger) Printf(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

const redacted = "[REDACTED]"

func sanitizeKVs(kv []any) []any {
	if len(kv) == 0 {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		key := toString(kv[i])
		out = append(out, key, sanitizeValue(strings.ToLower(strings.TrimSpace(key)), kv[i+1]))
	}
	return out
}

func sanitizeValue(key string, val any) any {
	if isRedactKey(key) {
		return redacted
	}
	if m, ok := val.(map[string]any); ok {
		clean := make(map[string]any, len(m))
		for k, v := range m {
			clean[k] = sanitizeValue(strings.ToLower(k), v)
		}
		return clean
	}
	return val
}

func isRedactKey(key string) bool {
	for _, marker := range []string{"token", "authorization", "password", "secret", "api_key", "apikey", "subscription"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(v)
	}
}
