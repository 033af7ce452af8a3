package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/logging"
)

func TestNew_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courier.log")
	log, closeLog, err := logging.New(logging.Config{Level: "info", File: path})
	require.NoError(t, err)

	log.Info("handshake complete")
	require.NoError(t, closeLog())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "handshake complete")

	// The file is released; removing it must work and nothing reopens it.
	require.NoError(t, os.Remove(path))
	require.NoError(t, closeLog())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_CloseWithoutFile(t *testing.T) {
	_, closeLog, err := logging.New(logging.Config{})
	require.NoError(t, err)
	assert.NoError(t, closeLog())
}

func TestNew_BadLevel(t *testing.T) {
	_, _, err := logging.New(logging.Config{Level: "loud"})
	require.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
}
