package logutils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, closer, err := New("loud", "")
	require.Error(t, err)
	require.NotNil(t, closer)
	closer()
}

func TestNew_FileReceivesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "organizer.log")

	l, closer, err := New("warn", path)
	require.NoError(t, err)

	l.Info().Msg("filtered")
	l.Warn().Str("task", "T1").Msg("kept")
	closer()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, "kept", rec["message"])
	assert.Equal(t, "T1", rec["task"])
	assert.Contains(t, rec, "time")
}

func TestNew_Console(t *testing.T) {
	l, closer, err := New("debug", Console)
	require.NoError(t, err)
	defer closer()

	assert.Equal(t, zerolog.DebugLevel, l.GetLevel())
}
