package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	TRACE LogLevel = iota
	DEBUG
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case TRACE:
		return "TRACE"
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает уровень из конфигурации; неизвестное значение даёт INFO
func ParseLevel(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// zapLevel отображает уровень на zap. У zap нет TRACE: он пишется уровнем ниже DEBUG.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case TRACE:
		return zapcore.DebugLevel - 1
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Logger - логгер компонента: консоль и необязательный файл со своими уровнями
type Logger struct {
	component    string
	sugar        *zap.SugaredLogger
	consoleLevel zap.AtomicLevel
	fileLevel    zap.AtomicLevel
	file         *os.File
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.EncodeLevel = func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
		if l < zapcore.DebugLevel {
			enc.AppendString("TRACE")
			return
		}
		enc.AppendString(l.CapitalString())
	}
	return cfg
}

// newLogger собирает логгер из консольного писателя и необязательного файла
func newLogger(component string, console io.Writer, file *os.File, consoleLevel, fileLevel LogLevel) *Logger {
	l := &Logger{
		component:    component,
		consoleLevel: zap.NewAtomicLevelAt(consoleLevel.zapLevel()),
		fileLevel:    zap.NewAtomicLevelAt(fileLevel.zapLevel()),
		file:         file,
	}
	var cores []zapcore.Core
	if console != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.AddSync(console), l.consoleLevel))
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zapcore.AddSync(file), l.fileLevel))
	}
	l.sugar = zap.New(zapcore.NewTee(cores...)).Named(component).Sugar()
	return l
}

// NewLogger создаёт логгер компонента: консоль с INFO, файл в dir со всеми уровнями.
// Пустой dir отключает файл.
func NewLogger(component, dir string) (*Logger, error) {
	var file *os.File
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
		}
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		name := filepath.Join(dir, fmt.Sprintf("%s_%s.log", component, timestamp))
		f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания файла логов: %w", err)
		}
		file = f
	}
	return newLogger(component, os.Stdout, file, INFO, TRACE), nil
}

// NewWriterLogger пишет только в w. Удобен в тестах.
func NewWriterLogger(component string, w io.Writer, level LogLevel) *Logger {
	return newLogger(component, w, nil, level, level)
}

// Component возвращает имя компонента
func (l *Logger) Component() string { return l.component }

// SetLevels меняет уровни консоли и файла на лету
func (l *Logger) SetLevels(console, file LogLevel) {
	l.consoleLevel.SetLevel(console.zapLevel())
	l.fileLevel.SetLevel(file.zapLevel())
}

func (l *Logger) Trace(format string, args ...any) {
	l.sugar.Logf(TRACE.zapLevel(), format, args...)
}

func (l *Logger) Debug(format string, args ...any) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.sugar.Errorf(format, args...) }

// Zap возвращает нижележащий логгер для структурированных полей
func (l *Logger) Zap() *zap.Logger { return l.sugar.Desugar() }

// Close сбрасывает буферы и закрывает файл
func (l *Logger) Close() error {
	_ = l.sugar.Sync()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

var (
	defaultMu     sync.RWMutex
	defaultLogger = newLogger("main", os.Stdout, nil, INFO, INFO)
)

// InitDefaultLogger настраивает глобальный логгер: уровень консоли и каталог файла
func InitDefaultLogger(level LogLevel, dir string) error {
	l, err := NewLogger("main", dir)
	if err != nil {
		return err
	}
	l.SetLevels(level, TRACE)

	defaultMu.Lock()
	old := defaultLogger
	defaultLogger = l
	defaultMu.Unlock()
	_ = old.Close()
	return nil
}

// CloseDefaultLogger закрывает файл глобального логгера и возвращает вывод в консоль
func CloseDefaultLogger() {
	defaultMu.Lock()
	old := defaultLogger
	defaultLogger = newLogger("main", os.Stdout, nil, INFO, INFO)
	defaultMu.Unlock()
	_ = old.Close()
}

// SetDefaultLogger подменяет глобальный логгер
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

func current() *Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

func Trace(format string, args ...any) { current().Trace(format, args...) }
func Debug(format string, args ...any) { current().Debug(format, args...) }
func Info(format string, args ...any)  { current().Info(format, args...) }
func Warn(format string, args ...any)  { current().Warn(format, args...) }
func Error(format string, args ...any) { current().Error(format, args...) }
