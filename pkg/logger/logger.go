package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

type Log interface {
	Debug(message string, args ...interface{})
	Info(message string, args ...interface{})
	Warn(message string, args ...interface{})
	Error(message string, args ...interface{})
	ErrorErr(message string, err error, args ...interface{})
	Fatal(message string, args ...interface{})
	FatalErr(message string, err error, args ...interface{})
}

type Logger struct {
	logger *zap.Logger
}

func New(env string) *Logger {
	var cfg zap.Config

	switch env {
	case envLocal:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	case envDev:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case envProd:
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		z = zap.NewNop()
	}
	return &Logger{logger: z.With(zap.String("env", env))}
}

// Nop returns a logger that discards everything. Tests use it.
func Nop() *Logger {
	return &Logger{logger: zap.NewNop()}
}

func (l *Logger) Debug(message string, args ...interface{}) {
	l.logger.Debug(message, fields(args)...)
}

func (l *Logger) Info(message string, args ...interface{}) {
	l.logger.Info(message, fields(args)...)
}

func (l *Logger) Warn(message string, args ...interface{}) {
	l.logger.Warn(message, fields(args)...)
}

func (l *Logger) Error(message string, args ...interface{}) {
	l.logger.Error(message, fields(args)...)
}

func (l *Logger) Fatal(message string, args ...interface{}) {
	l.logger.Error("FATAL: "+message, fields(args)...)
	_ = l.logger.Sync()
	os.Exit(1)
}

func (l *Logger) ErrorErr(message string, err error, args ...any) {
	l.logger.Error(message, append(fields(args), Err(err))...)
}

func (l *Logger) FatalErr(message string, err error, args ...any) {
	l.logger.Error("FATAL: "+message, append(fields(args), Err(err))...)
	_ = l.logger.Sync()
	os.Exit(1)
}

func (l *Logger) Sync() error {
	return l.logger.Sync()
}

func Err(err error) zap.Field {
	if err == nil {
		return zap.Skip()
	}
	return zap.String("error", err.Error())
}

// fields turns slog-style key/value pairs into zap fields. A trailing key
// without a value is logged under "!BADKEY" like slog does.
func fields(args []interface{}) []zap.Field {
	out := make([]zap.Field, 0, len(args)/2+1)
	for i := 0; i < len(args); i++ {
		switch v := args[i].(type) {
		case zap.Field:
			out = append(out, v)
		case string:
			if i+1 >= len(args) {
				out = append(out, zap.String("!BADKEY", v))
				continue
			}
			out = append(out, zap.Any(v, args[i+1]))
			i++
		default:
			out = append(out, zap.Any("!BADKEY", v))
		}
	}
	return out
}
