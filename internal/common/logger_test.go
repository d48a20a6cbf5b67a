package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogger_ReturnsInitialisedLogger(t *testing.T) {
	logger := InitLogger(LoggingConfig{Level: "warn", Outputs: []string{"console"}})
	require.NotNil(t, logger)
	assert.True(t, logger == GetLogger())
}
