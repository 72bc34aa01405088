package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/infrastructure"
)

func TestNewApplication(t *testing.T) {
	infrastructure.ResetLoggerForTesting()
	t.Setenv("SALES_LOGGING_OUTPUT", "stdout")

	application, err := NewApplication()
	require.NoError(t, err)

	assert.NotNil(t, application.Config)
	assert.NotNil(t, application.Server)
	assert.NotNil(t, application.ReportService)
	assert.NotNil(t, application.HealthService)
	assert.Contains(t, application.Server.Addr, ":")
	assert.Equal(t, application.Config.Server.ReadTimeout, application.Server.ReadTimeout)
}
