// Package battlelog builds the trace logger the rules engine writes every
// dice roll and resolution step to. The trace goes to its own file so a
// disputed battle can be replayed line by line without digging through
// server logs.
package battlelog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New opens a console-encoded zap logger appending to path. An empty path
// returns a no-op logger so callers never need to nil-check.
func New(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	config := zap.Config{
		Level:       zap.NewAtomicLevelAt(zap.InfoLevel),
		Development: false,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "time",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "",
			MessageKey:     "msg",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	return config.Build()
}
