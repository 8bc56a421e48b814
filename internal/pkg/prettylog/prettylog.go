// Package prettylog is a human-oriented zap encoder for terminals.
package prettylog

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiBlack  = "\033[30m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiCyan   = "\033[36m"
	ansiGray   = "\033[90m"
	ansiBgRed  = "\033[41m"
)

const (
	iconDebug = "⚙"
	iconInfo  = "ℹ"
	iconWarn  = "⚠"
	iconError = "✖"
	iconOK    = "✔"
)

// HintKey is a special zap field key used to override the display level style.
const HintKey = "_pl"

// HintSuccess renders an info line with the success icon.
const HintSuccess = "success"

var bufPool = buffer.NewPool()

// Encoder formats entries as "time icon [name] message k=v ...".
type Encoder struct {
	*zapcore.MapObjectEncoder
	color bool
}

// NewEncoder creates an Encoder. Set color=true for ANSI terminal output.
func NewEncoder(color bool) zapcore.Encoder {
	return &Encoder{MapObjectEncoder: zapcore.NewMapObjectEncoder(), color: color}
}

// ShouldColor reports whether f is a terminal and NO_COLOR is unset.
func ShouldColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" || f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Clone implements zapcore.Encoder.
func (e *Encoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return &Encoder{MapObjectEncoder: clone, color: e.color}
}

// EncodeEntry implements zapcore.Encoder.
func (e *Encoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	all := make(map[string]interface{}, len(e.Fields)+len(fields))
	for k, v := range e.Fields {
		all[k] = v
	}
	if len(fields) > 0 {
		tmp := zapcore.NewMapObjectEncoder()
		for _, f := range fields {
			f.AddTo(tmp)
		}
		for k, v := range tmp.Fields {
			all[k] = v
		}
	}
	hint, _ := all[HintKey].(string)
	delete(all, HintKey)

	buf := bufPool.Get()
	buf.AppendString(e.paint(ansiGray, entry.Time.Format("2006-01-02 15:04:05")))
	buf.AppendByte(' ')

	if entry.Level >= zapcore.ErrorLevel {
		label := " " + strings.ToUpper(entry.Level.String()) + " "
		buf.AppendString(e.paint(ansiBgRed+ansiBlack, label))
	} else {
		icon, color := resolveIcon(entry.Level, hint)
		buf.AppendString(e.paint(color, icon))
	}
	buf.AppendByte(' ')

	if entry.LoggerName != "" {
		buf.AppendString(e.paint(ansiYellow, "["+entry.LoggerName+"]"))
		buf.AppendByte(' ')
	}
	buf.AppendString(entry.Message)

	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf.AppendByte(' ')
		buf.AppendString(k)
		buf.AppendByte('=')
		buf.AppendString(formatValue(all[k]))
	}

	if entry.Stack != "" && entry.Level >= zapcore.ErrorLevel {
		buf.AppendByte('\n')
		buf.AppendString(e.paint(ansiGray, entry.Stack))
	}
	buf.AppendByte('\n')
	return buf, nil
}

func (e *Encoder) paint(color, text string) string {
	if !e.color {
		return text
	}
	return Colorize(color, text)
}

func resolveIcon(level zapcore.Level, hint string) (icon string, color string) {
	if hint == HintSuccess {
		return iconOK, ansiGreen
	}
	switch level {
	case zapcore.DebugLevel:
		return iconDebug, ansiGray
	case zapcore.WarnLevel:
		return iconWarn, ansiYellow
	case zapcore.InfoLevel:
		return iconInfo, ansiCyan
	default:
		return iconError, ansiRed
	}
}

func formatValue(v interface{}) string {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case error:
		s = val.Error()
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprint(val)
	}
	if needsQuote(s) {
		return strconv.Quote(s)
	}
	return s
}

func needsQuote(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsAny(s, " \"=\n\r\t")
}

// SuccessField hints the encoder to render the success icon.
func SuccessField() zapcore.Field {
	return zapcore.Field{Key: HintKey, Type: zapcore.StringType, String: HintSuccess}
}

// Colorize wraps text in ANSI color codes.
func Colorize(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + ansiReset
}

// Red wraps text in red ANSI color.
func Red(text string) string { return Colorize(ansiRed, text) }

// Yellow wraps text in yellow ANSI color.
func Yellow(text string) string { return Colorize(ansiYellow, text) }

// Blue wraps text in blue ANSI color.
func Blue(text string) string { return Colorize(ansiBlue, text) }

// Green wraps text in green ANSI color.
func Green(text string) string { return Colorize(ansiGreen, text) }

// Gray wraps text in gray ANSI color.
func Gray(text string) string { return Colorize(ansiGray, text) }

// Bold makes text bold.
func Bold(text string) string { return Colorize(ansiBold, text) }
