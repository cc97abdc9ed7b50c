// internal/platform/logx/logx.go
package logx

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level nivel mínimo de log.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger es la fachada de logging de finsight: pares key=value planos
// sobre un backend zerolog estructurado.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Err(err error, kv ...any)
	With(kv ...any) Logger
	SetLevel(lvl Level)
}

type zeroLogger struct {
	zl  zerolog.Logger
	lvl Level
}

// New crea un logger con el nivel tomado de FINSIGHT_LOG_LEVEL.
func New() Logger {
	return NewWithLevel(parseLevel(os.Getenv("FINSIGHT_LOG_LEVEL")))
}

// NewWithLevel creates a logger with a specific log level.
func NewWithLevel(lvl Level) Logger {
	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger()
	return &zeroLogger{zl: zl, lvl: lvl}
}

// NewJSON crea un logger con salida JSON cruda (para producción).
func NewJSON(lvl Level) Logger {
	zl := zerolog.New(os.Stderr).With().Timestamp().Logger()
	return &zeroLogger{zl: zl, lvl: lvl}
}

// NewSilent creates a logger that only outputs errors (for tests/UI).
func NewSilent() Logger {
	return NewWithLevel(LevelError)
}

func (z *zeroLogger) With(kv ...any) Logger {
	ctx := z.zl.With()
	for i := 0; i+1 < len(kv); i += 2 {
		ctx = ctx.Interface(keyOf(kv[i]), kv[i+1])
	}
	return &zeroLogger{zl: ctx.Logger(), lvl: z.lvl}
}

func (z *zeroLogger) SetLevel(lvl Level) { z.lvl = lvl }

func (z *zeroLogger) Debug(msg string, kv ...any) { z.emit(LevelDebug, z.zl.Debug(), msg, kv) }
func (z *zeroLogger) Info(msg string, kv ...any)  { z.emit(LevelInfo, z.zl.Info(), msg, kv) }
func (z *zeroLogger) Warn(msg string, kv ...any)  { z.emit(LevelWarn, z.zl.Warn(), msg, kv) }

func (z *zeroLogger) Err(err error, kv ...any) {
	if err == nil {
		return
	}
	z.emit(LevelError, z.zl.Error().Err(err), "", kv)
}

func (z *zeroLogger) emit(lvl Level, ev *zerolog.Event, msg string, kv []any) {
	if lvl < z.lvl {
		return
	}
	for i := 0; i+1 < len(kv); i += 2 {
		ev = ev.Interface(keyOf(kv[i]), kv[i+1])
	}
	if len(kv)%2 != 0 {
		// key sin valor, dejar rastro en lugar de panics silenciosos
		ev = ev.Interface(keyOf(kv[len(kv)-1]), "(missing)")
	}
	ev.Msg(msg)
}

func keyOf(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return "field"
}

// ParseLevel interpreta un nivel textual (debug, info, warn, error).
// Valores desconocidos o vacíos caen a info.
func ParseLevel(s string) Level {
	return parseLevel(s)
}

func parseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug", "dbg":
		return LevelDebug
	case "info", "inf", "":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "err", "error":
		return LevelError
	default:
		return LevelInfo
	}
}
