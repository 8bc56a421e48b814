// Package nativelog builds the process logger: a pretty console core plus an
// append-only error.log file core.
package nativelog

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/sakila-tools/filmsearch/internal/pkg/prettylog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// ErrorLogName is the file that receives Error-level entries.
	ErrorLogName       = "error.log"
	defaultLogFilePerm = 0o644
	defaultLogDirPerm  = 0o755
)

// Writer appends to a single log file, reopening it on every write so the
// file may be rotated or removed externally.
type Writer struct {
	mu   sync.Mutex
	path string
}

// NewWriter creates dir if needed and returns a writer for dir/error.log.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, defaultLogDirPerm); err != nil {
		return nil, err
	}
	return &Writer{path: filepath.Join(dir, ErrorLogName)}, nil
}

// Path returns the file the writer appends to.
func (w *Writer) Path() string { return w.path }

func (w *Writer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultLogFilePerm)
	if err != nil {
		return 0, err
	}
	n, writeErr := file.Write(p)
	closeErr := file.Close()
	if writeErr != nil {
		return n, writeErr
	}
	return n, closeErr
}

func (w *Writer) Sync() error {
	return nil
}

// Options configures NewZapLogger.
type Options struct {
	// Dir holds error.log. Empty disables the file core.
	Dir string
	// Console receives pretty output; nil means os.Stderr.
	Console *os.File
	// ConsoleLevel is the minimum level printed on the console.
	ConsoleLevel zapcore.Level
}

// NewZapLogger creates a zap logger that prints to the console and appends
// Error-level entries to <Dir>/error.log.
func NewZapLogger(opts Options) (*zap.Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	cores := []zapcore.Core{
		zapcore.NewCore(prettylog.NewEncoder(prettylog.ShouldColor(console)), zapcore.Lock(console), opts.ConsoleLevel),
	}

	if opts.Dir != "" {
		writer, err := NewWriter(opts.Dir)
		if err != nil {
			return nil, err
		}
		cores = append(cores, newFileCore(writer))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	return logger, nil
}

func newFileCore(w io.Writer) zapcore.Core {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	encoderConfig.ConsoleSeparator = " - "
	return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zapcore.ErrorLevel)
}
