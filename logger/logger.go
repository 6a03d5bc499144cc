package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Logger is a zerolog logger bound to a service name.
type Logger struct {
	zl      zerolog.Logger
	service string
}

// Init applies cfg defaults and installs the resulting logger globally.
func Init(cfg *Config) {
	cfg.ApplyDefaults()
	SetGlobalLogger(New(cfg, cfg.ServiceName))
}

// New creates a logger writing to cfg.Output.
func New(cfg *Config, serviceName string) *Logger {
	w := io.Writer(os.Stdout)
	if strings.EqualFold(cfg.Output, "stderr") {
		w = os.Stderr
	}
	return NewWithWriter(cfg, serviceName, w)
}

// NewWithWriter creates a logger writing to w. An unknown or empty level
// means info.
func NewWithWriter(cfg *Config, serviceName string, w io.Writer) *Logger {
	if !strings.EqualFold(cfg.Format, FormatJSON) {
		w = consoleWriter(w, serviceName, cfg.NoColor)
	}

	ctx := zerolog.New(w).Level(parseLevel(cfg.Level)).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	if named(serviceName) {
		ctx = ctx.Str("service", serviceName)
	}
	return &Logger{zl: ctx.Logger(), service: serviceName}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func named(service string) bool {
	return service != "" && service != defaultService
}

func (l *Logger) derive(ctx zerolog.Context) *Logger {
	return &Logger{zl: ctx.Logger(), service: l.service}
}

// WithComponent tags every entry with the component name.
func (l *Logger) WithComponent(name string) *Logger {
	return l.derive(l.zl.With().Str(FieldComponent, name))
}

// WithFields attaches fields to every entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	return l.derive(l.zl.With().Fields(fields))
}

// WithError attaches err to every entry.
func (l *Logger) WithError(err error) *Logger {
	return l.derive(l.zl.With().Err(err))
}

func (l *Logger) Debug(msg string, fields ...map[string]any) { l.emit(l.zl.Debug(), msg, fields) }
func (l *Logger) Info(msg string, fields ...map[string]any) { l.emit(l.zl.Info(), msg, fields) }
func (l *Logger) Warn(msg string, fields ...map[string]any) { l.emit(l.zl.Warn(), msg, fields) }
func (l *Logger) Error(msg string, fields ...map[string]any) { l.emit(l.zl.Error(), msg, fields) }

func (l *Logger) emit(e *zerolog.Event, msg string, fields []map[string]any) {
	if e == nil {
		return
	}
	for _, f := range fields {
		e.Fields(f)
	}
	e.Msg(msg)
}

const defaultService = "default"

var (
	globalMu sync.RWMutex
	global   *Logger
)

// SetGlobalLogger replaces the process-wide logger.
func SetGlobalLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	global = l
}

// GetGlobalLogger returns the process-wide logger, creating a console
// logger at info level on first use.
func GetGlobalLogger() *Logger {
	globalMu.RLock()
	l := global
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		cfg := Config{}
		cfg.ApplyDefaults()
		global = New(&cfg, defaultService)
	}
	return global
}

// Debug, Info, Warn and Error log through the global logger.
func Debug(msg string, fields ...map[string]any) { GetGlobalLogger().Debug(msg, fields...) }
func Info(msg string, fields ...map[string]any) { GetGlobalLogger().Info(msg, fields...) }
func Warn(msg string, fields ...map[string]any) { GetGlobalLogger().Warn(msg, fields...) }
func Error(msg string, fields ...map[string]any) { GetGlobalLogger().Error(msg, fields...) }

// WithComponent derives a component logger from the global logger.
func WithComponent(name string) *Logger {
	return GetGlobalLogger().WithComponent(name)
}

const reset = "\033[0m"

var levelStyle = map[string]struct{ abbr, color string }{
	zerolog.LevelTraceValue: {"TRC", "\033[90m"},
	zerolog.LevelDebugValue: {"DBG", "\033[36m"},
	zerolog.LevelInfoValue:  {"INF", "\033[32m"},
	zerolog.LevelWarnValue:  {"WRN", "\033[33m"},
	zerolog.LevelErrorValue: {"ERR", "\033[31m"},
	zerolog.LevelFatalValue: {"FTL", "\033[35m"},
}

// consoleWriter renders entries as "15:04:05 [SVC][INF] message key:value".
// SVC is the upper-cased first three letters of the service name.
func consoleWriter(w io.Writer, service string, noColor bool) zerolog.ConsoleWriter {
	paint := func(color, s string) string {
		if noColor {
			return s
		}
		return color + s + reset
	}

	var prefix string
	if named(service) && len(service) >= 3 {
		prefix = paint("\033[34m", "["+strings.ToUpper(service[:3])+"]")
	}

	return zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
		FormatLevel: func(i any) string {
			name := fmt.Sprint(i)
			style, ok := levelStyle[name]
			if !ok {
				return prefix + "[" + strings.ToUpper(name) + "]"
			}
			return prefix + paint(style.color, "["+style.abbr+"]")
		},
		FormatFieldName: func(i any) string { return fmt.Sprint(i) + ":" },
	}
}
