// Package log provides structured logging for the datasight pipeline,
// backed by zerolog.
//
// Components obtain a named logger via GetLoggerWithName and attach
// standard keys so pipeline stages produce uniform, filterable output:
//
//	logger := log.GetLoggerWithName("clean")
//	logger.Info("stage finished",
//		log.OperationKey, "Clean",
//		log.RowsKey, rows,
//	)
package log

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Standard structured field keys.
const (
	ComponentKey = "component"
	OperationKey = "operation"
	PhaseKey     = "phase"
	RowsKey      = "rows"
	ColumnsKey   = "columns"
	FeaturesKey  = "features"
	SamplesKey   = "samples"
	ModelNameKey = "model"
	DurationKey  = "duration_ms"
	DatasetKey   = "dataset"
)

// Common operation and phase values.
const (
	OperationFit     = "fit"
	OperationPredict = "predict"
	PhaseTraining    = "training"
	PhaseEvaluation  = "evaluation"
)

// Logger is the logging interface used by pipeline components. Fields are
// passed as alternating key/value pairs.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider constructs named loggers.
type LoggerProvider interface {
	GetLoggerWithName(name string) Logger
}

var (
	mu       sync.RWMutex
	provider LoggerProvider = NewZerologProvider(zerolog.InfoLevel)
)

// SetProvider replaces the global logger provider.
func SetProvider(p LoggerProvider) {
	mu.Lock()
	defer mu.Unlock()
	provider = p
}

// GetLoggerWithName returns a named logger from the global provider.
func GetLoggerWithName(name string) Logger {
	mu.RLock()
	defer mu.RUnlock()
	return provider.GetLoggerWithName(name)
}

// ToLogLevel parses a level string ("debug", "info", "warn", "error"),
// defaulting to info.
func ToLogLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZerologProvider builds Loggers on top of a shared zerolog.Logger.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to stderr at the
// given level.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	base := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	return &ZerologProvider{base: base}
}

// NewZerologProviderWithLogger wraps an existing zerolog.Logger. Used by
// tests to capture output.
func NewZerologProviderWithLogger(base zerolog.Logger) *ZerologProvider {
	return &ZerologProvider{base: base}
}

// GetLoggerWithName returns a Logger tagged with the component name.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{logger: p.base.With().Str("logger", name).Logger()}
}

type zerologLogger struct {
	logger zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	emit(l.logger.Debug(), msg, fields)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	emit(l.logger.Info(), msg, fields)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	emit(l.logger.Warn(), msg, fields)
}

func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	emit(l.logger.Error(), msg, fields)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	ctx := l.logger.With()
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ctx = ctx.Interface(key, fields[i+1])
	}
	return &zerologLogger{logger: ctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	ev.Msg(msg)
}
