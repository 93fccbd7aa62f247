package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Loggers are no-ops until InitLoggers runs, so packages and tests can log
// without any setup.
var (
	ErrorLogger    = zap.NewNop()
	RequestLogger  = zap.NewNop()
	SecurityLogger = zap.NewNop()
	SystemLogger   = zap.NewNop()
)

func newLogger(filePath string, level zapcore.Level) (*zap.Logger, error) {
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	ws := zapcore.NewMultiWriteSyncer(zapcore.AddSync(file), zapcore.Lock(os.Stdout))

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		ws,
		level,
	)
	return zap.New(core), nil
}

// InitLoggers opens one JSON log file per concern under dir.
func InitLoggers(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	specs := []struct {
		target **zap.Logger
		file   string
		level  zapcore.Level
	}{
		{&ErrorLogger, "errors.log", zapcore.ErrorLevel},
		{&RequestLogger, "request.log", zapcore.InfoLevel},
		{&SecurityLogger, "security.log", zapcore.WarnLevel},
		{&SystemLogger, "system.log", zapcore.InfoLevel},
	}
	for _, s := range specs {
		l, err := newLogger(filepath.Join(dir, s.file), s.level)
		if err != nil {
			return fmt.Errorf("cannot create %s logger: %w", s.file, err)
		}
		*s.target = l
	}
	return nil
}

func SyncLoggers() {
	_ = ErrorLogger.Sync()
	_ = RequestLogger.Sync()
	_ = SecurityLogger.Sync()
	_ = SystemLogger.Sync()
}
