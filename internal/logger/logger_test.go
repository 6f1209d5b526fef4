package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOutputIsFlushedOnClose(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(&LogConfig{
		Level:     "info",
		Format:    "json",
		Output:    "file",
		MaxSize:   1,
		LogPath:   dir,
		AppFile:   "app.log",
		ErrorFile: "error.log",
	}))
	t.Cleanup(func() { _ = Init(&LogConfig{Level: "info", Format: "text", Output: "stdout"}) })

	WithModule("catalog").WithField("movie_id", "507f1f77bcf86cd799439011").Info("formatted movie")
	GetAppLogger().Debug("debug bị lọc theo level")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"module":"catalog"`)
	assert.Contains(t, string(data), "formatted movie")
	assert.NotContains(t, string(data), "debug bị lọc")
}

func TestGetLoggerReusesInstance(t *testing.T) {
	assert.Same(t, GetLogger("omdb"), GetLogger("omdb"))
	assert.NotSame(t, GetAppLogger(), GetErrorLogger())
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("LOG_LEVEL", "WARN")
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, "stdout", cfg.Output)
}
