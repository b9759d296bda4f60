package logger

import (
	"fmt"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Poster is the subset of *fluent.Fluent used by the fluent core.
type Poster interface {
	Post(tag string, message any) error
}

// FluentConfig describes the fluent-bit forward endpoint.
type FluentConfig struct {
	Host      string
	Port      int
	TagPrefix string
}

// NewFluentClient creates a fluent forward client. The connection is lazy:
// errors surface on the first Post.
func NewFluentClient(cfg FluentConfig) (*fluent.Fluent, error) {
	if cfg.TagPrefix == "" {
		return nil, fmt.Errorf("fluent tag prefix is required")
	}
	f, err := fluent.New(fluent.Config{
		FluentHost:   cfg.Host,
		FluentPort:   cfg.Port,
		TagPrefix:    cfg.TagPrefix,
		Async:        true,
		WriteTimeout: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("create fluent client: %w", err)
	}
	return f, nil
}

// WithFluent tees every entry the logger accepts at or above level into poster.
func WithFluent(l *zap.Logger, poster Poster, level zapcore.LevelEnabler) *zap.Logger {
	fc := &fluentCore{LevelEnabler: level, poster: poster}
	return l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fc)
	}))
}

type fluentCore struct {
	zapcore.LevelEnabler
	poster Poster
	fields []zapcore.Field
}

func (c *fluentCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &fluentCore{LevelEnabler: c.LevelEnabler, poster: c.poster, fields: merged}
}

func (c *fluentCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *fluentCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}

	data := enc.Fields
	data["level"] = ent.Level.String()
	data["message"] = ent.Message
	data["timestamp"] = ent.Time.UTC().Format(time.RFC3339Nano)
	if ent.LoggerName != "" {
		data["logger"] = ent.LoggerName
	}
	if ent.Caller.Defined {
		data["caller"] = ent.Caller.TrimmedPath()
	}

	// The tag routes by level: <prefix>.info, <prefix>.error, ...
	if err := c.poster.Post(ent.Level.String(), data); err != nil {
		return fmt.Errorf("fluent post: %w", err)
	}
	return nil
}

func (c *fluentCore) Sync() error { return nil }
