// Package logs собирает логгеры сервиса: zap для приложения и HTTP слоя, logrus для хранилищ.
//
// Формат зависит от GIN_MODE. В режиме release пишется JSON с уровня info,
// в остальных режимах читаемый консольный вывод с уровня debug.
package logs

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EncodingType формат вывода.
type EncodingType string

// LevelType уровень логирования в нотации zap.
type LevelType string

const (
	EncodingTypeConsole EncodingType = "console"
	EncodingTypeJSON    EncodingType = "json"
)

const (
	LevelTypeDebug   LevelType = "debug"
	LevelTypeInfo    LevelType = "info"
	LevelTypeWarning LevelType = "warn"
	LevelTypeError   LevelType = "error"
)

// LoggerOptions настройки логгера.
type LoggerOptions struct {
	Level            LevelType
	Encoding         EncodingType
	OutputPaths      []string
	ErrorOutputPaths []string
	InitialFields    map[string]any // Попадают в каждую запись
}

func defaultOptions() LoggerOptions {
	if isRelease() {
		return LoggerOptions{
			Level:            LevelTypeInfo,
			Encoding:         EncodingTypeJSON,
			OutputPaths:      []string{"stdout"},
			ErrorOutputPaths: []string{"stderr"},
		}
	}
	return LoggerOptions{
		Level:            LevelTypeDebug,
		Encoding:         EncodingTypeConsole,
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
}

// New создает zap логгер. Записи уровня error и выше получают стектрейс.
func New(opts ...func(*LoggerOptions)) (*zap.Logger, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	lvl, err := zap.ParseAtomicLevel(string(options.Level))
	if err != nil {
		return nil, fmt.Errorf("parse level %q: %w", options.Level, err)
	}

	conf := zap.Config{
		Level:            lvl,
		Development:      !isRelease(),
		Encoding:         string(options.Encoding),
		EncoderConfig:    encoderConfig(),
		OutputPaths:      options.OutputPaths,
		ErrorOutputPaths: options.ErrorOutputPaths,
		InitialFields:    options.InitialFields,
	}

	logger, err := conf.Build(zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// MustNew как New, но паникует при ошибке.
func MustNew(opts ...func(*LoggerOptions)) *zap.Logger {
	logger, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

// WithLevel задает уровень логирования.
func WithLevel(level LevelType) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		o.Level = level
	}
}

// WithFields добавляет поля, которые попадут в каждую запись.
func WithFields(fields map[string]any) func(*LoggerOptions) {
	return func(o *LoggerOptions) {
		if o.InitialFields == nil {
			o.InitialFields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			o.InitialFields[k] = v
		}
	}
}

// NewSQLLogger создает logrus логгер для репозиториев и gorm.
func NewSQLLogger(out io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(out)

	if isRelease() {
		logger.SetFormatter(new(logrus.JSONFormatter))
		logger.SetLevel(logrus.InfoLevel)
		return logger
	}
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

func isRelease() bool {
	return os.Getenv("GIN_MODE") == "release"
}
