package logger_test

import (
	"testing"

	"soulfilmes/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("builds a development logger for local", func(t *testing.T) {
		l, err := logger.New("debug", "local")

		require.NoError(t, err)
		assert.True(t, l.Desugar().Core().Enabled(-1))
	})

	t.Run("defaults to info", func(t *testing.T) {
		l, err := logger.New("", "production")

		require.NoError(t, err)
		assert.False(t, l.Desugar().Core().Enabled(-1))
		assert.True(t, l.Desugar().Core().Enabled(0))
	})

	t.Run("rejects unknown levels", func(t *testing.T) {
		_, err := logger.New("loud", "production")

		assert.Error(t, err)
	})
}

func TestNOOPLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.NOOPLogger.Errorw("ignored", "key", "value")
	})
}
