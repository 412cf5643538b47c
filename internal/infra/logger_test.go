package infra

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"DEBUG":    zerolog.DebugLevel,
		"info":     zerolog.InfoLevel,
		"":         zerolog.InfoLevel,
		" Warn ":   zerolog.WarnLevel,
		"ERROR":    zerolog.ErrorLevel,
		"DISABLED": zerolog.Disabled,
	}
	for name, want := range cases {
		got, err := ParseLogLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLogLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect log level")
}

func TestInitLoggerWithWriter(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("filters below configured level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, InitLoggerWithWriter("WARN", &buf))

		log.Info().Msg("hidden")
		log.Warn().Msg("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("rejects unknown level", func(t *testing.T) {
		err := InitLoggerWithWriter("loud", &bytes.Buffer{})

		require.Error(t, err)
	})
}
