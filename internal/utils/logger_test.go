package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	logger := NewLogger(&out, &errOut, LevelWarn, true, false)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Warnf("warn %d", 3)
	logger.Errorf("error %d", 4)

	assert.NotContains(t, out.String(), "debug 1")
	assert.NotContains(t, out.String(), "info 2")
	assert.Contains(t, out.String(), "[WARN] warn 3")
	assert.Contains(t, errOut.String(), "[ERROR] error 4")
	assert.NotContains(t, out.String(), "\033[")
}

func TestLoggerSilent(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	logger := NewLogger(&out, &errOut, LevelDebug, true, true)

	logger.Infof("hidden")
	logger.Errorf("shown")

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "shown")
}

func TestStringToLogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LevelDebug, StringToLogLevel("DEBUG"))
	assert.Equal(t, LevelWarn, StringToLogLevel("warning"))
	assert.Equal(t, LevelError, StringToLogLevel("error"))
	assert.Equal(t, LevelInfo, StringToLogLevel("nonsense"))
}
