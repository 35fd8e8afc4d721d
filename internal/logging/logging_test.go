// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestOptionsLevel(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want zapcore.Level
	}{
		{"default", Options{}, zapcore.WarnLevel},
		{"verbose", Options{Verbose: true}, zapcore.InfoLevel},
		{"debug", Options{Debug: true}, zapcore.DebugLevel},
		{"debug wins over verbose", Options{Debug: true, Verbose: true}, zapcore.DebugLevel},
		{"explicit level", Options{Debug: true, Level: "error"}, zapcore.ErrorLevel},
		{"explicit level case", Options{Level: " INFO "}, zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.opts.ZapLevel()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Options{Level: "loud"}.ZapLevel()
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	log, err := New(Options{Verbose: true})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	log, err = New(Options{})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	_, err = New(Options{Level: "loud"})
	assert.Error(t, err)
}
