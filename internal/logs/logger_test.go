package logs

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	out := filepath.Join(t.TempDir(), "app.log")

	logger, err := New(
		WithLevel(LevelTypeWarning),
		WithFields(map[string]any{"service": "minurl"}),
		func(o *LoggerOptions) {
			o.Encoding = EncodingTypeJSON
			o.OutputPaths = []string{out}
		},
	)
	require.NoError(t, err)

	logger.Info("skipped")
	logger.Warn("kept")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "skipped")
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.Contains(t, string(data), `"service":"minurl"`)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(WithLevel("loud"))
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(WithLevel("loud")) })
}

func TestNewSQLLogger(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	var buf bytes.Buffer
	logger := NewSQLLogger(&buf)

	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
	logger.WithField("module", "test").Info("hello")
	assert.Contains(t, buf.String(), `"module":"test"`)
}
