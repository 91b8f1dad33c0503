package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l := Setup(Config{Out: &buf})
	l.Debug("hidden")
	l.Info("shown", "boat", "Jonny")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "boat=Jonny")
	assert.Same(t, l, L())
}

func TestSetupDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	Setup(Config{Out: &buf, Debug: true})
	slog.Debug("details")

	assert.Contains(t, buf.String(), "details")
	assert.Contains(t, buf.String(), "source=")
}
