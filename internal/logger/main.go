// Package logger implements the service wide zerolog setup.
package logger

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelWriter routes each event to a writer chosen by its level.
// Trace and warn have their own writers, error and above share one, debug and info share one.
type LevelWriter struct {
	io.Writer
	ErrorWriter io.Writer
	InfoWriter  io.Writer
	TraceWriter io.Writer
	WarnWriter  io.Writer
}

// WriteLevel implements zerolog.LevelWriter.
func (lw *LevelWriter) WriteLevel(l zerolog.Level, p []byte) (int, error) {
	var w io.Writer

	switch {
	case l == zerolog.Disabled:
		return 0, nil
	case l == zerolog.TraceLevel:
		w = lw.TraceWriter
	case l == zerolog.WarnLevel:
		w = lw.WarnWriter
	case l > zerolog.WarnLevel:
		w = lw.ErrorWriter
	default:
		w = lw.InfoWriter
	}

	if w == nil {
		return len(p), nil
	}

	return w.Write(p) //nolint:wrapcheck
}

// Init configures the global zerolog logger.
// With neither console nor file output enabled every event is dropped.
func Init(cfg Log) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("loglevel %s is not supported", cfg.LogLevel))
	}

	if cfg.ServiceName == "" {
		return ErrServiceNameIsEmpty
	}

	if cfg.AppName == "" {
		return ErrAppNameIsEmpty
	}

	hook, err := NewPrometheusHook(prometheus.DefaultRegisterer, cfg.ServiceName)
	if err != nil {
		return errors.Wrap(err, "register log statement counter")
	}

	trace := level == zerolog.TraceLevel
	if trace {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack //nolint:reassign
	}

	zerolog.SetGlobalLevel(level)
	zerolog.ErrorHandler = ErrorHandler //nolint:reassign

	var writers []io.Writer

	if cfg.Console.Enabled {
		writers = append(writers, NewConsoleWriter(cfg))
	}

	if cfg.File.Enabled {
		if fw := newRollingLevelFiles(cfg); fw != nil {
			writers = append(writers, fw)
		}
	}

	lc := zerolog.New(zerolog.MultiLevelWriter(writers...)).Hook(hook).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("service", cfg.ServiceName).
		Str("env", cfg.LogEnv)

	if cfg.ReportCaller {
		lc = lc.Caller()

		if trace {
			lc = lc.Stack()
		}
	}

	log.Logger = lc.Logger()

	return nil
}

// rolling describes one lumberjack file.
type rolling struct {
	name       string
	maxSize    int
	maxAge     int
	maxBackups int
}

func (r rolling) open(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path.Join(dir, r.name),
		MaxSize:    r.maxSize,
		MaxAge:     r.maxAge,
		MaxBackups: r.maxBackups,
	}
}

func (f LogFile) access() rolling {
	return rolling{f.AccessLog, f.AccessMaxSize, f.AccessMaxAge, f.AccessMaxBackups}
}

func (f LogFile) errorLog() rolling {
	return rolling{f.ErrorLog, f.ErrorMaxSize, f.ErrorMaxAge, f.ErrorMaxBackups}
}

func (f LogFile) info() rolling {
	return rolling{f.InfoLog, f.InfoMaxSize, f.InfoMaxAge, f.InfoMaxBackups}
}

func (f LogFile) trace() rolling {
	return rolling{f.TraceLog, f.TraceMaxSize, f.TraceMaxAge, f.TraceMaxBackups}
}

func (f LogFile) warn() rolling {
	return rolling{f.WarnLog, f.WarnMaxSize, f.WarnMaxAge, f.WarnMaxBackups}
}

func ensureDir(dir string) bool {
	if dir == "" {
		return true
	}

	if err := os.MkdirAll(dir, 0o750); err != nil { //nolint: mnd
		log.Error().Err(err).Str("path", dir).Msg("can't create log directory")
		return false
	}

	return true
}

// newRollingLevelFiles splits file output into one rolling file per level group.
func newRollingLevelFiles(cfg Log) io.Writer {
	f := cfg.File
	if !ensureDir(f.Path) {
		return nil
	}

	return &LevelWriter{
		ErrorWriter: f.errorLog().open(f.Path),
		InfoWriter:  f.info().open(f.Path),
		TraceWriter: f.trace().open(f.Path),
		WarnWriter:  f.warn().open(f.Path),
	}
}

// NewRollingAccessFile creates the rolling access log file used by the web access logger.
func NewRollingAccessFile(cfg Log) io.Writer {
	f := cfg.File
	if !ensureDir(f.Path) {
		return nil
	}

	return f.access().open(f.Path)
}

func consoleWriter(out io.Writer, human bool) io.Writer {
	if !human {
		return out
	}

	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: zerolog.TimeFieldFormat,
	}
}

// NewConsoleWriter sends info and debug to stdout and everything else to stderr.
func NewConsoleWriter(cfg Log) io.Writer {
	human := cfg.Console.UseConsoleWriter

	return &LevelWriter{
		ErrorWriter: consoleWriter(os.Stderr, human),
		InfoWriter:  consoleWriter(os.Stdout, human),
		TraceWriter: consoleWriter(os.Stderr, human),
		WarnWriter:  consoleWriter(os.Stderr, human),
	}
}
