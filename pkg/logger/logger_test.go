package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogUsableBeforeSetup(t *testing.T) {
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Info("starting up")
		Warn("low disk space")
	})
}

func TestSetup(t *testing.T) {
	Setup("production")
	assert.NotNil(t, Log)

	Setup("development")
	assert.NotNil(t, Log)
	assert.NotPanics(t, func() { Debug("configured") })
}
