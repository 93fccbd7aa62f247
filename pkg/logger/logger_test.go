package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggersWritesJSONFiles(t *testing.T) {
	saved := []*zap.Logger{ErrorLogger, RequestLogger, SecurityLogger, SystemLogger}
	t.Cleanup(func() {
		ErrorLogger, RequestLogger, SecurityLogger, SystemLogger = saved[0], saved[1], saved[2], saved[3]
	})

	dir := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, InitLoggers(dir))

	SystemLogger.Info("system ready", zap.String("component", "test"))
	SecurityLogger.Info("below warn level, dropped")
	SecurityLogger.Warn("bad token")
	SyncLoggers()

	system, err := os.ReadFile(filepath.Join(dir, "system.log"))
	require.NoError(t, err)
	assert.Contains(t, string(system), `"msg":"system ready"`)
	assert.Contains(t, string(system), `"timestamp"`)

	security, err := os.ReadFile(filepath.Join(dir, "security.log"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(security), "\n"))
	assert.Contains(t, string(security), "bad token")
}
