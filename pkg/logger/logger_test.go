package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInit_WritesToRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	flush, err := Init(Options{Level: "debug", File: path})
	require.NoError(t, err)

	zap.S().Infof("flood report stored at %s", "123 Main St")
	flush()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "flood report stored at 123 Main St")
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	flush, err := Init(Options{Development: true, Level: "chatty"})
	require.NoError(t, err)
	defer flush()

	assert.True(t, zap.L().Core().Enabled(zap.InfoLevel))
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}
