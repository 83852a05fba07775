package utils

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/natefinch/lumberjack"
)

type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelError LogLevel = "error"
)

type Logger struct {
	level       LogLevel
	infoLogger  *log.Logger
	errorLogger *log.Logger
	debugLogger *log.Logger
	fatalLogger *log.Logger
	RawBodyLog  bool
}

// NewLogger writes info/debug to stdout and error/fatal to stderr. Every
// extra sink receives all levels.
func NewLogger(level string, rawBodyLog bool, sinks ...io.Writer) *Logger {
	logLevel := parseLogLevel(level)
	flags := log.Ldate | log.Ltime | log.Lshortfile

	out := teeWriter(os.Stdout, sinks)
	errOut := teeWriter(os.Stderr, sinks)

	return &Logger{
		level:       logLevel,
		infoLogger:  log.New(out, "INFO: ", flags),
		errorLogger: log.New(errOut, "ERROR: ", flags),
		debugLogger: log.New(out, "DEBUG: ", flags),
		fatalLogger: log.New(errOut, "FATAL: ", flags),
		RawBodyLog:  rawBodyLog,
	}
}

func NewDiscardLogger() *Logger {
	return &Logger{
		level:       LevelInfo,
		infoLogger:  log.New(io.Discard, "", 0),
		errorLogger: log.New(io.Discard, "", 0),
		debugLogger: log.New(io.Discard, "", 0),
		fatalLogger: log.New(io.Discard, "", 0),
	}
}

// NewRotatingFile returns a size-rotated log file sink for NewLogger.
func NewRotatingFile(path string, maxSizeMB, maxBackups, maxAgeDays int) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
}

func teeWriter(primary io.Writer, sinks []io.Writer) io.Writer {
	if len(sinks) == 0 {
		return primary
	}
	return io.MultiWriter(append([]io.Writer{primary}, sinks...)...)
}

func parseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// withRequestID prefixes the request id as a Printf argument so it is
// never read as part of the format.
func withRequestID(reqID *string, format string, v []any) (string, []any) {
	if reqID == nil || *reqID == "" {
		return format, v
	}
	return "[%s] " + format, append([]any{*reqID}, v...)
}

func (l *Logger) Info(reqID *string, format string, v ...any) {
	if l.level == LevelError {
		return
	}
	format, v = withRequestID(reqID, format, v)
	l.infoLogger.Printf(format, v...)
}

func (l *Logger) Error(reqID *string, format string, v ...any) {
	format, v = withRequestID(reqID, format, v)
	l.errorLogger.Printf(format, v...)
}

func (l *Logger) Debug(reqID *string, format string, v ...any) {
	if l.level != LevelDebug {
		return
	}
	format, v = withRequestID(reqID, format, v)
	l.debugLogger.Printf(format, v...)
}

func (l *Logger) Fatal(v ...any) {
	l.fatalLogger.Fatal(v...)
}
