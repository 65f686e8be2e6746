package utils

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logLevelDebugStringConstant          = "debug"
	logLevelInfoStringConstant           = "info"
	logLevelWarnStringConstant           = "warn"
	logLevelErrorStringConstant          = "error"
	logFormatStructuredStringConstant    = "structured"
	logFormatConsoleStringConstant       = "console"
	jsonZapEncodingStringConstant        = "json"
	consoleZapEncodingStringConstant     = "console"
	unsupportedLogLevelTemplateConstant  = "unsupported log level: %s"
	unsupportedLogFormatTemplateConstant = "unsupported log format: %s"
	defaultLogFileMaxSizeMegabytes       = 25
	defaultLogFileMaxBackupCount         = 3
	defaultLogFileMaxAgeDays             = 14
)

// LogLevel enumerates supported logging granularities.
type LogLevel string

// Exported log level constants for reuse across packages.
const (
	LogLevelDebug LogLevel = LogLevel(logLevelDebugStringConstant)
	LogLevelInfo  LogLevel = LogLevel(logLevelInfoStringConstant)
	LogLevelWarn  LogLevel = LogLevel(logLevelWarnStringConstant)
	LogLevelError LogLevel = LogLevel(logLevelErrorStringConstant)
)

// LogFormat enumerates supported logger output encodings.
type LogFormat string

// Exported log format constants for reuse across packages.
const (
	LogFormatStructured LogFormat = LogFormat(logFormatStructuredStringConstant)
	LogFormatConsole    LogFormat = LogFormat(logFormatConsoleStringConstant)
)

// RotatingFileSettings describes an optional rotating log file destination.
// Zero-valued limits fall back to the package defaults.
type RotatingFileSettings struct {
	FilePath         string
	MaxSizeMegabytes int
	MaxBackupCount   int
	MaxAgeDays       int
}

// LoggerFactory builds zap.Logger instances with consistent configuration.
type LoggerFactory struct{}

var logLevelMapping = map[LogLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

var logFormatEncodingMapping = map[LogFormat]string{
	LogFormatStructured: jsonZapEncodingStringConstant,
	LogFormatConsole:    consoleZapEncodingStringConstant,
}

// NewLoggerFactory constructs a new logger factory.
func NewLoggerFactory() *LoggerFactory {
	return &LoggerFactory{}
}

// CreateLogger produces a zap.Logger honoring the requested log level and format.
func (factory *LoggerFactory) CreateLogger(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (*zap.Logger, error) {
	zapLogLevel, encoding, resolutionError := factory.resolveLevelAndEncoding(requestedLogLevel, requestedLogFormat)
	if resolutionError != nil {
		return nil, resolutionError
	}

	configuration := zap.NewProductionConfig()
	configuration.Level = zap.NewAtomicLevelAt(zapLogLevel)
	configuration.Encoding = encoding

	logger, buildError := configuration.Build()
	if buildError != nil {
		return nil, buildError
	}

	return logger, nil
}

// CreateLoggerWithRotatingFile produces a zap.Logger writing to a
// size-rotated file instead of the process standard streams. An empty file
// path falls through to CreateLogger.
func (factory *LoggerFactory) CreateLoggerWithRotatingFile(requestedLogLevel LogLevel, requestedLogFormat LogFormat, fileSettings RotatingFileSettings) (*zap.Logger, error) {
	trimmedFilePath := strings.TrimSpace(fileSettings.FilePath)
	if len(trimmedFilePath) == 0 {
		return factory.CreateLogger(requestedLogLevel, requestedLogFormat)
	}

	zapLogLevel, encoding, resolutionError := factory.resolveLevelAndEncoding(requestedLogLevel, requestedLogFormat)
	if resolutionError != nil {
		return nil, resolutionError
	}

	rotatingWriter := &lumberjack.Logger{
		Filename:   trimmedFilePath,
		MaxSize:    valueOrDefault(fileSettings.MaxSizeMegabytes, defaultLogFileMaxSizeMegabytes),
		MaxBackups: valueOrDefault(fileSettings.MaxBackupCount, defaultLogFileMaxBackupCount),
		MaxAge:     valueOrDefault(fileSettings.MaxAgeDays, defaultLogFileMaxAgeDays),
	}

	encoderConfiguration := zap.NewProductionEncoderConfig()
	var logEncoder zapcore.Encoder
	if encoding == jsonZapEncodingStringConstant {
		logEncoder = zapcore.NewJSONEncoder(encoderConfiguration)
	} else {
		logEncoder = zapcore.NewConsoleEncoder(encoderConfiguration)
	}

	fileCore := zapcore.NewCore(logEncoder, zapcore.AddSync(rotatingWriter), zap.NewAtomicLevelAt(zapLogLevel))
	return zap.New(fileCore), nil
}

func (factory *LoggerFactory) resolveLevelAndEncoding(requestedLogLevel LogLevel, requestedLogFormat LogFormat) (zapcore.Level, string, error) {
	zapLogLevel, levelExists := logLevelMapping[requestedLogLevel]
	if !levelExists {
		return zapcore.InvalidLevel, "", fmt.Errorf(unsupportedLogLevelTemplateConstant, requestedLogLevel)
	}

	encoding, formatExists := logFormatEncodingMapping[requestedLogFormat]
	if !formatExists {
		return zapcore.InvalidLevel, "", fmt.Errorf(unsupportedLogFormatTemplateConstant, requestedLogFormat)
	}

	return zapLogLevel, encoding, nil
}

func valueOrDefault(providedValue int, defaultValue int) int {
	if providedValue > 0 {
		return providedValue
	}
	return defaultValue
}
