package utils

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm/logger"
)

// GetLogger returns a configured zap logger
func GetLogger() *zap.Logger {
	logLevel := zapcore.InfoLevel
	if os.Getenv("LOG_LEVEL") == "debug" {
		logLevel = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		logLevel,
	)

	return zap.New(
		core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)
}

// GetGormLogger returns a configured GORM logger
func GetGormLogger() logger.Interface {
	logLevel := logger.Warn
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		logLevel = logger.Info
	case "silent":
		logLevel = logger.Silent
	}

	return logger.New(
		zapWriter{logger: GetLogger().Sugar()},
		logger.Config{
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// zapWriter implements the logger.Writer interface using Zap logger
type zapWriter struct {
	logger *zap.SugaredLogger
}

// Printf implements the logger.Writer interface
func (w zapWriter) Printf(message string, data ...interface{}) {
	w.logger.Debugf(message, data...)
}
