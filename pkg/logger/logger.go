package logger

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/Payphone-Digital/eventhub/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	base        *zap.Logger
	rateLimiter *RateLimiter
)

// InitLogger initializes Zap logger with configuration
func InitLogger(cfg *config.Config) error {
	// Configure log level based on environment
	var zapLevel zapcore.Level
	switch cfg.App.Environment {
	case "production":
		zapLevel = zapcore.InfoLevel
	default:
		zapLevel = zapcore.DebugLevel
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	encoder := zapcore.NewJSONEncoder(encoderConfig)
	if cfg.App.Environment == "production" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	infoWriters := []zapcore.WriteSyncer{zapcore.AddSync(os.Stdout)}
	errorWriters := []zapcore.WriteSyncer{zapcore.AddSync(os.Stderr)}

	if getEnvAsBool("LOG_TO_FILE", false) {
		logsPath := getEnv("LOGS_PATH", "./logs")
		if err := os.MkdirAll(logsPath, 0755); err != nil {
			return err
		}

		infoFile, err := os.OpenFile(filepath.Join(logsPath, "info.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		errorFile, err := os.OpenFile(filepath.Join(logsPath, "error.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			infoFile.Close()
			return err
		}

		infoWriters = append(infoWriters, zapcore.AddSync(infoFile))
		errorWriters = append(errorWriters, zapcore.AddSync(errorFile))
	}

	// Info and below go to stdout, errors to stderr.
	lowPriority := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapLevel && l < zapcore.ErrorLevel
	})

	core := zapcore.NewTee(
		zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(infoWriters...), lowPriority),
		zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(errorWriters...), zapcore.ErrorLevel),
	)

	SetLogger(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))

	if perSecond := getEnvAsInt("LOG_MAX_PER_SECOND", 0); perSecond > 0 {
		mu.Lock()
		rateLimiter = NewRateLimiter(perSecond)
		mu.Unlock()
	}

	return nil
}

// SetLogger replaces the process logger. Tests use it with an observer core.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// GetLogger returns the structured logger, or a no-op logger before InitLogger.
func GetLogger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if base == nil {
		return zap.NewNop()
	}
	return base
}

// Sync syncs all logs (call this before application exits)
func Sync() {
	_ = GetLogger().Sync()
}

// LogPanic logs a recovered panic with its stack.
func LogPanic(recovered interface{}, fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Any("panic", recovered),
		zap.Stack("stack"),
	}, fields...)

	GetLogger().Error("Panic recovered", allFields...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if i, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return i
	}
	return defaultValue
}
