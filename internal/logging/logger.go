// Package logging wraps zap for the web service client.
//
// The client logs at debug level for every call and at warn level for
// failures. Libraries should default to NewNop so nothing is written unless
// the caller passes a logger in.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger with the client's field helpers
type Logger struct {
	*zap.Logger
}

// Config selects level, encoding and outputs
type Config struct {
	Level       string // debug, info, warn, error
	Development bool   // console encoding, colored levels, stack traces on warn
	OutputPaths []string
}

// New builds a logger. Production loggers write JSON to stderr.
func New(cfg Config) (*Logger, error) {
	var level zapcore.Level
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.MessageKey = "message"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	zapCfg.Sampling = nil
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	if len(cfg.OutputPaths) > 0 {
		zapCfg.OutputPaths = cfg.OutputPaths
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// NewDevelopment logs everything from debug up to stderr in console format
func NewDevelopment() *Logger {
	logger, err := New(Config{Level: "debug", Development: true})
	if err != nil {
		return NewNop()
	}
	return logger
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

func (l *Logger) Named(component string) *Logger {
	return &Logger{Logger: l.Logger.Named(component)}
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Call returns a child logger tagging every line with one web service call
func (l *Logger) Call(requestID, method, resource string, fields ...zap.Field) *Logger {
	return l.With(append([]zap.Field{
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("resource", resource),
	}, fields...)...)
}

// Key logs a web service key with all but its last four characters masked
func Key(token string) zap.Field {
	if token == "" {
		return zap.String("key", "")
	}
	visible := 4
	if len(token) <= 2*visible {
		visible = 0
	}
	return zap.String("key", strings.Repeat("*", len(token)-visible)+token[len(token)-visible:])
}
