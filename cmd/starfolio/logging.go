package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDir      = "logs"
	logFileName = "starfolio.log"
)

// setupLogging returns a file logger under logDir when debug is set, otherwise
// a no-op logger. The terminal belongs to the view, so nothing logs to stderr.
// The returned function flushes and closes the file.
func setupLogging(debug bool) (*zap.SugaredLogger, func(), error) {
	if !debug {
		return zap.NewNop().Sugar(), func() {}, nil
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, errors.Wrap(err, "create log directory")
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    10,
		MaxBackups: 3,
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(rotator), zap.DebugLevel)
	logger := zap.New(core, zap.AddCaller())

	return logger.Sugar(), func() {
		_ = logger.Sync()
		_ = rotator.Close()
	}, nil
}
