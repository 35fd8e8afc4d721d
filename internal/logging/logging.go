// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the zap logger that the command line injects into
// the loader and the analyses.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the verbosity of the logger.
type Options struct {
	// Debug enables debug output.
	Debug bool
	// Verbose enables progress (info) output.
	Verbose bool
	// Level, when set, overrides Debug and Verbose.
	Level string
}

// ZapLevel resolves the options to a zap level: an explicit Level wins, then
// Debug, then Verbose. The default is warn.
func (o Options) ZapLevel() (zapcore.Level, error) {
	if o.Level != "" {
		lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(o.Level)))
		if err != nil {
			return zapcore.WarnLevel, fmt.Errorf("parsing log level: %w", err)
		}
		return lvl, nil
	}
	switch {
	case o.Debug:
		return zapcore.DebugLevel, nil
	case o.Verbose:
		return zapcore.InfoLevel, nil
	}
	return zapcore.WarnLevel, nil
}

// New returns a console logger writing to stderr, so standard output stays
// free for records and reports.
func New(o Options) (*zap.Logger, error) {
	lvl, err := o.ZapLevel()
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Development = lvl == zapcore.DebugLevel
	cfg.DisableStacktrace = lvl != zapcore.DebugLevel
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return log, nil
}
