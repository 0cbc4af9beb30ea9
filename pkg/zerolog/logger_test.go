package zerolog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_KeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLoggerWithWriter(&buf, "signup")
	logger.SetLevel("DEBUG")

	logger.Info("Identifier checked", "identifier", "abc", "available", true)
	logger.Error("Identifier check failed", "error", errors.New("connection refused"), 42, "ignored")

	out := buf.String()
	assert.Contains(t, out, "Identifier checked")
	assert.Contains(t, out, "identifier=abc")
	assert.Contains(t, out, "available=true")
	assert.Contains(t, out, "service=signup")
	assert.Contains(t, out, "connection refused")
	assert.NotContains(t, out, "ignored")
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologLoggerWithWriter(&buf, "signup").WithContext(map[string]interface{}{"route": "/check_id"})
	logger.SetLevel("info")

	logger.Debug("hidden")
	logger.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, "route=/check_id")
}
