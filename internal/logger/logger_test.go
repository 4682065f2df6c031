package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewIsNop(t *testing.T) {
	l := New()
	require.NotNil(t, l.Log)
	l.Log.Info("dropped")
}

func TestInitLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New()
	require.NoError(t, l.Init("warn", &buf))

	l.Log.Info("hidden")
	l.Log.Warn("file rewritten", zap.String("path", "ident.txt"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "file rewritten")
	assert.Contains(t, out, "ident.txt")
}

func TestInitBadLevel(t *testing.T) {
	l := New()
	err := l.Init("loud", &bytes.Buffer{})
	assert.Error(t, err)
}
