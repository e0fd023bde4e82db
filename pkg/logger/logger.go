package logger

import (
	"bytes"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger wraps a zap logger and optionally keeps a copy of everything it
// wrote so a page can show the log of a single run.
type ZapLogger struct {
	log *zap.Logger

	mu     *sync.Mutex
	logBuf *bytes.Buffer
}

type options struct {
	level   zapcore.Level
	console io.Writer
	capture bool
	color   bool
}

// Option configures New.
type Option func(*options)

// WithLevel sets the minimum enabled level.
func WithLevel(level zapcore.Level) Option {
	return func(o *options) { o.level = level }
}

// WithConsole mirrors log lines to w.
func WithConsole(w io.Writer) Option {
	return func(o *options) { o.console = w }
}

// WithCapture keeps log lines in memory, see HTML and Reset.
func WithCapture() Option {
	return func(o *options) { o.capture = true }
}

// WithoutColor disables ANSI level colors.
func WithoutColor() Option {
	return func(o *options) { o.color = false }
}

// New builds a console-encoded logger. With no sink options it writes to stderr.
func New(opts ...Option) *ZapLogger {
	o := options{level: zap.InfoLevel, color: true}
	for _, opt := range opts {
		opt(&o)
	}

	config := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if o.color {
		config.EncodeLevel = colorLevelEncoder
	}
	encoder := zapcore.NewConsoleEncoder(config)

	z := &ZapLogger{mu: &sync.Mutex{}}

	var cores []zapcore.Core
	if o.capture {
		z.logBuf = &bytes.Buffer{}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(lockedWriter{z.mu, z.logBuf}), o.level))
	}
	if o.console != nil {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(o.console), o.level))
	}
	if len(cores) == 0 {
		cores = append(cores, zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), o.level))
	}

	z.log = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return z
}

// Nop discards everything.
func Nop() *ZapLogger {
	return &ZapLogger{log: zap.NewNop(), mu: &sync.Mutex{}}
}

type lockedWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (l lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("[2006-01-02 | 15:04:05]"))
}

func colorLevelEncoder(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var colorCode string
	switch level {
	case zapcore.DebugLevel:
		colorCode = "\033[36m" // Cyan
	case zapcore.InfoLevel:
		colorCode = "\033[32m" // Green
	case zapcore.WarnLevel:
		colorCode = "\033[33m" // Yellow
	case zapcore.ErrorLevel:
		colorCode = "\033[31m" // Red
	default:
		colorCode = "\033[0m"
	}
	enc.AppendString(colorCode + level.String() + "\033[0m")
}

var ansiCode = regexp.MustCompile(`\033\[(\d+)m`)

var colorMap = map[string]string{
	"31": "red",
	"32": "green",
	"33": "yellow",
	"34": "blue",
	"36": "cyan",
}

// ansiToHTML turns the level colors into inline spans inside a <pre>.
func ansiToHTML(input string) string {
	var result strings.Builder
	var lastIndex int
	open := false

	result.WriteString("<pre>")
	for _, match := range ansiCode.FindAllStringSubmatchIndex(input, -1) {
		start, end := match[0], match[1]
		if start > lastIndex {
			result.WriteString(htmlEscape(input[lastIndex:start]))
		}

		code := input[match[2]:match[3]]
		if open {
			result.WriteString("</span>")
			open = false
		}
		if color, ok := colorMap[code]; ok {
			result.WriteString(`<span style="color: ` + color + `;">`)
			open = true
		}
		lastIndex = end
	}
	if lastIndex < len(input) {
		result.WriteString(htmlEscape(input[lastIndex:]))
	}
	if open {
		result.WriteString("</span>")
	}
	result.WriteString("</pre>")

	return result.String()
}

var htmlReplacer = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func htmlEscape(s string) string {
	return htmlReplacer.Replace(s)
}

// HTML renders the captured log. Empty when capture is off.
func (z *ZapLogger) HTML() string {
	if z.logBuf == nil {
		return ""
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	return ansiToHTML(z.logBuf.String())
}

// Captured returns the raw captured log.
func (z *ZapLogger) Captured() string {
	if z.logBuf == nil {
		return ""
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.logBuf.String()
}

// Reset drops the captured log.
func (z *ZapLogger) Reset() {
	if z.logBuf == nil {
		return
	}
	z.mu.Lock()
	defer z.mu.Unlock()
	z.logBuf.Reset()
}

// Named returns a child logger with name appended. The capture buffer is shared.
func (z *ZapLogger) Named(name string) *ZapLogger {
	return &ZapLogger{log: z.log.Named(name), mu: z.mu, logBuf: z.logBuf}
}

// With returns a child logger carrying fields.
func (z *ZapLogger) With(fields ...zap.Field) *ZapLogger {
	return &ZapLogger{log: z.log.With(fields...), mu: z.mu, logBuf: z.logBuf}
}

// Sync flushes buffered entries.
func (z *ZapLogger) Sync() error {
	return z.log.Sync()
}

func (z *ZapLogger) Info(wrappedMsg string, fields ...zap.Field) {
	z.log.Info(wrappedMsg, fields...)
}

func (z *ZapLogger) Debug(wrappedMsg string, fields ...zap.Field) {
	z.log.Debug(wrappedMsg, fields...)
}

func (z *ZapLogger) Warn(wrappedMsg string, fields ...zap.Field) {
	z.log.Warn(wrappedMsg, fields...)
}

func (z *ZapLogger) Error(wrappedMsg string, fields ...zap.Field) {
	z.log.Error(wrappedMsg, fields...)
}

func (z *ZapLogger) Fatal(wrappedMsg string, fields ...zap.Field) {
	z.log.Fatal(wrappedMsg, fields...)
}
