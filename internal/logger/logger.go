package logger

import (
	"io"
	"log/slog"
	"os"
)

// Log is the process-wide logger. It discards everything until Init is
// called.
var Log = slog.New(slog.NewTextHandler(io.Discard, nil))

// logFile is the file opened by the last InitWriter, if any.
var logFile *os.File

// ParseLevel maps a level name to a slog level. Unknown names mean warn.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// Init initializes the global logger. Output goes to stderr so it never
// mixes with command output, and additionally to the file at path when set.
func Init(level string, path string) error {
	return InitWriter(level, path, os.Stderr)
}

// InitWriter is Init with an explicit primary writer. A log file opened by
// an earlier call is closed.
func InitWriter(level string, path string, w io.Writer) error {
	writers := []io.Writer{w}

	var f *os.File
	if path != "" {
		var err error
		f, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		writers = append(writers, f)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Shorten time format
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05"))
			}
			return a
		},
	})

	Log = slog.New(handler)
	slog.SetDefault(Log)

	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f

	return nil
}

// Close releases the log file, if one is open, and sends further output to
// io.Discard. It is safe to call more than once.
func Close() error {
	Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(Log)

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// Debug logs at debug level
func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

// Info logs at info level
func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

// Warn logs at warn level
func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}

// Error logs at error level
func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}
